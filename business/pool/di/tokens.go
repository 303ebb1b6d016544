// Package di contains dependency injection tokens for the pool context.
package di

import (
	"github.com/mglvn/swappool/business/pool/app"
	"github.com/mglvn/swappool/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PoolService = di.NewToken[*app.PoolService]("pool.PoolService")
)

// Private dependency tokens - internal to pool module
var (
	LedgerStore = di.NewToken[app.LedgerStore]("pool:ledgerStore")
	Reporter    = di.NewToken[app.Reporter]("pool:reporter")
)

// Helper functions for type-safe access
func GetPoolService(c di.ServiceRegistry) *app.PoolService {
	return di.GetToken(c, PoolService)
}

func GetLedgerStore(c di.ServiceRegistry) app.LedgerStore {
	return di.GetToken(c, LedgerStore)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
