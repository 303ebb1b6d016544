package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	poolApp "github.com/mglvn/swappool/business/pool/app"
	"github.com/mglvn/swappool/internal/asset"
	"github.com/mglvn/swappool/internal/config"
	"github.com/mglvn/swappool/internal/logger"
)

// runDemo seeds the pool and generates a steady stream of trades so the
// dashboard and event feed have something to show. Purely synthetic traffic.
func runDemo(ctx context.Context, svc *poolApp.PoolService, cfg *config.Config, log logger.LoggerInterface) {
	asset1 := asset.NewAsset(cfg.Pool.Asset1Symbol, 0)
	asset2 := asset.NewAsset(cfg.Pool.Asset2Symbol, 0)

	operator := cfg.Pool.OperatorAddress()
	if cfg.Pool.Operator == "" {
		operator = common.HexToAddress("0x00000000000000000000000000000000000000a0")
	}

	parse := func(a *asset.Asset, s string) *big.Int {
		amt, err := asset.ParseString(a, s)
		if err != nil {
			panic("bad demo amount " + s + ": " + err.Error())
		}
		return amt.Raw()
	}

	opCtx := poolApp.WithCaller(ctx, operator)
	if err := svc.Deposit(opCtx, parse(asset1, "1000000"), parse(asset2, "1000000")); err != nil {
		log.Warn(ctx, "demo seed deposit failed", "error", err)
	}
	if _, err := svc.Provide(opCtx, parse(asset1, "1000000"), parse(asset2, "1000000")); err != nil {
		log.Warn(ctx, "demo seed provide failed", "error", err)
		return
	}

	traders := make([]common.Address, 4)
	for i := range traders {
		traders[i] = common.HexToAddress(fmt.Sprintf("0x%040x", i+1))
		tctx := poolApp.WithCaller(ctx, traders[i])
		if err := svc.Deposit(tctx, parse(asset1, "50000"), parse(asset2, "50000")); err != nil {
			log.Warn(ctx, "demo trader deposit failed", "trader", traders[i].Hex(), "error", err)
		}
		// Credits are rate limited, so pace the faucet calls.
		select {
		case <-time.After(200 * time.Millisecond):
		case <-ctx.Done():
			return
		}
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		tick++

		trader := traders[tick%len(traders)]
		tctx := poolApp.WithCaller(ctx, trader)
		amountIn := big.NewInt(int64(200 + (tick%7)*50))

		// Quote first, accept up to 1% slippage against concurrent trades.
		if tick%2 == 0 {
			quote, err := svc.QuoteAsset2ForAsset1In(tctx, amountIn)
			if err != nil {
				log.Warn(ctx, "demo quote failed", "error", err)
				continue
			}
			minOut := new(big.Int).Div(new(big.Int).Mul(quote, big.NewInt(99)), big.NewInt(100))
			if _, err := svc.SwapAsset1GivenInput(tctx, amountIn, minOut); err != nil {
				log.Warn(ctx, "demo swap failed", "error", err)
			}
		} else {
			quote, err := svc.QuoteAsset1ForAsset2In(tctx, amountIn)
			if err != nil {
				log.Warn(ctx, "demo quote failed", "error", err)
				continue
			}
			minOut := new(big.Int).Div(new(big.Int).Mul(quote, big.NewInt(99)), big.NewInt(100))
			if _, err := svc.SwapAsset2GivenInput(tctx, amountIn, minOut); err != nil {
				log.Warn(ctx, "demo swap failed", "error", err)
			}
		}

		// Periodically churn a small amount of liquidity.
		if tick%15 == 0 {
			_, _, shares, err := svc.Holdings(opCtx)
			if err == nil && shares.Sign() > 0 {
				burn := new(big.Int).Div(shares, big.NewInt(100))
				if burn.Sign() > 0 {
					if _, _, err := svc.Withdraw(opCtx, burn); err != nil {
						log.Warn(ctx, "demo withdraw failed", "error", err)
					}
				}
			}
		}
	}
}
