package metrics

type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OTLPCollector      Provider = "otlpCollector"
)

// Config accumulates metric provider options.
type Config struct {
	ServiceName string
	Provider    []ProviderCfg
}

// ProviderCfg configures one metrics exporter.
type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// NewOTLPCollectorConfig builds an OTLP exporter config for a collector.
func NewOTLPCollectorConfig(endpoint string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OTLPCollector,
		Endpoint: endpoint,
		Headers:  headers,
		Insecure: insecure,
	}
}

type OptionFn func(config Config) Config

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Provider = append(config.Provider, provider)
		return config
	}
}

// PromServerConfig configures the Prometheus scrape server.
type PromServerConfig struct {
	port string
}

type PromOptionFn func(config PromServerConfig) PromServerConfig

func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
