// Package main is the entry point for the swap pool daemon.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/mglvn/swappool/business/pool"
	poolApp "github.com/mglvn/swappool/business/pool/app"
	poolDI "github.com/mglvn/swappool/business/pool/di"
	"github.com/mglvn/swappool/business/pool/domain"
	"github.com/mglvn/swappool/internal/apm"
	"github.com/mglvn/swappool/internal/config"
	"github.com/mglvn/swappool/internal/health"
	"github.com/mglvn/swappool/internal/logger"
	"github.com/mglvn/swappool/internal/metrics"
	"github.com/mglvn/swappool/internal/monolith"
	"github.com/mglvn/swappool/internal/wsfeed"
	"github.com/mglvn/swappool/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	demoMode := flag.Bool("demo", false, "Generate demo trading traffic")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("poold %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, tuiMode, *demoMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode, demoMode bool) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.Pool.TUIMode = tuiMode

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting swap pool daemon",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Zipkin (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server on port 8081
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	modules := []monolith.Module{
		&pool.Module{},
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// WebSocket event feed (optional)
	var feed *wsfeed.Feed
	var feedServer *http.Server
	if cfg.Feed.Enabled {
		feedCfg := wsfeed.DefaultConfig()
		if cfg.Feed.SendBuffer > 0 {
			feedCfg.SendBuffer = cfg.Feed.SendBuffer
		}
		if cfg.Feed.WriteTimeout > 0 {
			feedCfg.WriteTimeout = cfg.Feed.WriteTimeout
		}
		feed = wsfeed.New(feedCfg, log)
		if tuiMode {
			feed.OnClientsChange(func(n int) {
				ui.Send(ui.FeedClientsMsg{Clients: n})
			})
		}

		mux := http.NewServeMux()
		mux.Handle(cfg.Feed.Path, feed.Handler())
		feedServer = &http.Server{Addr: cfg.Feed.ListenAddr, Handler: mux}
		go func() {
			if err := feedServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(ctx, "feed server failed", "error", err)
			}
		}()
		log.Info(ctx, "event feed listening", "addr", cfg.Feed.ListenAddr, "path", cfg.Feed.Path)
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			feedServer.Shutdown(shutCtx)
			feed.Close()
		}()
	}

	// Wire post-startup dependencies: feed sink, health checks, demo traffic.
	finish := func(startCtx context.Context) error {
		svc := poolDI.GetPoolService(mono.Services())
		ledger := poolDI.GetLedgerStore(mono.Services())

		if feed != nil {
			svc.AddSink(&feedSink{feed: feed})
		}

		healthServer.RegisterCheck("ledger", func(ctx context.Context) (bool, string) {
			if _, err := ledger.Load(ctx); err != nil {
				return false, err.Error()
			}
			return true, "ok"
		})

		if demoMode {
			go runDemo(startCtx, svc, cfg, log)
		}
		return nil
	}

	if tuiMode {
		startFunc := func() error {
			ui.Send(ui.StartupMsg{Step: "config", Status: "done", Message: cfg.App.Environment})
			if err := mono.StartModules(ctx, modules...); err != nil {
				ui.Send(ui.StartupMsg{Step: "ledger", Status: "failed", Message: err.Error()})
				return fmt.Errorf("failed to start modules: %w", err)
			}
			ui.Send(ui.StartupMsg{Step: "ledger", Status: "done", Message: cfg.Persistence.Backend})
			if feed != nil {
				ui.Send(ui.StartupMsg{Step: "feed", Status: "done", Message: cfg.Feed.ListenAddr})
			} else {
				ui.Send(ui.StartupMsg{Step: "feed", Status: "done", Message: "disabled"})
			}
			if err := finish(ctx); err != nil {
				ui.Send(ui.StartupMsg{Step: "pool", Status: "failed", Message: err.Error()})
				return err
			}
			ui.Send(ui.StartupMsg{Step: "pool", Status: "done", Message: mono.Pair().String()})
			return nil
		}
		return runTUI(ctx, cfg, startFunc)
	}

	// CLI mode: Start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	if err := finish(ctx); err != nil {
		return err
	}

	log.Info(ctx, "all modules started", "pair", mono.Pair().String())

	// Wait for shutdown
	<-ctx.Done()
	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, cfg *config.Config, startFunc func() error) error {
	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(cfg.Pool.Asset1Symbol, cfg.Pool.Asset2Symbol), tea.WithAltScreen())
	ui.Program = p

	// Run pool logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete (StartModulesMsg signal)
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		// Wait for context cancellation
		<-ctx.Done()
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for pool errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// feedSink publishes pool events to WebSocket feed subscribers as JSON envelopes.
type feedSink struct {
	feed *wsfeed.Feed
}

func (s *feedSink) Publish(ctx context.Context, ev domain.Event) {
	envelope := struct {
		Type string       `json:"type"`
		Data domain.Event `json:"data"`
	}{Type: ev.EventKind(), Data: ev}

	msg, err := json.Marshal(envelope)
	if err != nil {
		return
	}
	s.feed.Broadcast(msg)
}

var _ poolApp.EventSink = (*feedSink)(nil)
