// Package pool implements the swap pool bounded context.
package pool

import (
	"context"
	"os"

	"github.com/mglvn/swappool/business/pool/app"
	poolDI "github.com/mglvn/swappool/business/pool/di"
	"github.com/mglvn/swappool/business/pool/infra/report"
	"github.com/mglvn/swappool/business/pool/infra/store"
	"github.com/mglvn/swappool/internal/asset"
	"github.com/mglvn/swappool/internal/config"
	"github.com/mglvn/swappool/internal/di"
	"github.com/mglvn/swappool/internal/logger"
	"github.com/mglvn/swappool/internal/monolith"
)

// Module implements the pool bounded context.
type Module struct{}

// RegisterServices registers all pool services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register LedgerStore - private dependency
	di.RegisterToken(c, poolDI.LedgerStore, func(sr di.ServiceRegistry) app.LedgerStore {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.Persistence.Backend == "memory" {
			return store.NewMemoryStore()
		}
		fs, err := store.NewFileStore(cfg.Persistence.Path, log)
		if err != nil {
			panic("failed to create snapshot store: " + err.Error())
		}
		return fs
	})

	// Register Reporter - private dependency
	di.RegisterToken(c, poolDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		pair := sr.Get("pair").(asset.Pair)

		rpair := report.Pair{
			Asset1: pair.Asset1.Symbol(),
			Asset2: pair.Asset2.Symbol(),
		}
		if cfg.Pool.TUIMode {
			return report.NewTUIReporter(rpair)
		}
		return report.NewConsoleReporter(os.Stdout, rpair)
	})

	// Register PoolService (public - exposed to other modules)
	di.RegisterToken(c, poolDI.PoolService, func(sr di.ServiceRegistry) *app.PoolService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ledger := poolDI.GetLedgerStore(sr)

		svc, err := app.NewPoolService(context.Background(), app.ServiceConfig{
			FeeRate:          cfg.Pool.FeeRate,
			DepositPerMinute: cfg.Pool.DepositPerMinute,
		}, ledger, log)
		if err != nil {
			panic("failed to create pool service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup initializes the pool module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	svc := poolDI.GetPoolService(mono.Services())
	rep := poolDI.GetReporter(mono.Services())

	if err := rep.Start(ctx); err != nil {
		return err
	}
	svc.AddSink(app.NewReporterSink(svc, rep))

	// Push the restored state so dashboards show it before the first trade.
	rep.UpdatePool(svc.Details(ctx))

	log.Info(ctx, "pool module started", "pair", mono.Pair().String())
	return nil
}
