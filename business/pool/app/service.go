package app

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mglvn/swappool/business/pool/domain"
	"github.com/mglvn/swappool/internal/apperror"
	"github.com/mglvn/swappool/internal/logger"
	"github.com/mglvn/swappool/internal/ratelimit"
)

const (
	tracerName = "github.com/mglvn/swappool/business/pool/app"
	meterName  = "github.com/mglvn/swappool/business/pool/app"
)

// ServiceConfig holds configuration for the pool service.
type ServiceConfig struct {
	FeeRate          uint64 // per-mille, sanitized by the pool itself
	DepositPerMinute int    // faucet rate limit; 0 disables the limiter
}

// poolMetrics holds the OTEL instruments for pool activity.
type poolMetrics struct {
	swaps          metric.Int64Counter
	liquidityOps   metric.Int64Counter
	deposits       metric.Int64Counter
	opErrors       metric.Int64Counter
	snapshotErrors metric.Int64Counter
	invariantK     metric.Float64Gauge
}

// PoolService hosts a single domain.Pool behind one mutex. Every operation
// is a single atomic step: the quote and the state mutation of a swap happen
// under the same critical section, so no concurrent caller can move the
// reserves between them. Snapshots are persisted and events published after
// the lock is released.
type PoolService struct {
	mu   sync.Mutex
	pool *domain.Pool

	store  LedgerStore
	logger logger.LoggerInterface
	tracer trace.Tracer

	metrics *poolMetrics

	sinkMu sync.RWMutex
	sinks  []EventSink

	depositLimiter *ratelimit.Limiter
}

// NewPoolService creates the service, restoring the pool from the store's
// latest snapshot when one exists and starting empty otherwise.
func NewPoolService(ctx context.Context, cfg ServiceConfig, store LedgerStore, log logger.LoggerInterface) (*PoolService, error) {
	s := &PoolService{
		store:  store,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	if cfg.DepositPerMinute > 0 {
		s.depositLimiter = ratelimit.New(cfg.DepositPerMinute)
	}

	if store != nil {
		snap, err := store.Load(ctx)
		if err != nil {
			return nil, apperror.New(apperror.CodeSnapshotLoadFailed, apperror.WithCause(err))
		}
		if snap != nil {
			s.pool = domain.RestorePool(snap)
			if snap.FeeRate != cfg.FeeRate {
				log.Warn(ctx, "snapshot fee rate overrides configuration",
					"snapshot_fee", snap.FeeRate, "config_fee", cfg.FeeRate)
			}
			log.Info(ctx, "pool restored from snapshot", "fee_rate", s.pool.FeeRate())
			return s, nil
		}
	}

	s.pool = domain.NewPool(cfg.FeeRate)
	log.Info(ctx, "pool created", "fee_rate", s.pool.FeeRate())
	return s, nil
}

func (s *PoolService) initMetrics() error {
	meter := otel.Meter(meterName)
	s.metrics = &poolMetrics{}
	var err error

	s.metrics.swaps, err = meter.Int64Counter(
		"pool_swaps_total",
		metric.WithDescription("Executed swaps"),
		metric.WithUnit("{swap}"),
	)
	if err != nil {
		return err
	}

	s.metrics.liquidityOps, err = meter.Int64Counter(
		"pool_liquidity_ops_total",
		metric.WithDescription("Liquidity provisions and withdrawals"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return err
	}

	s.metrics.deposits, err = meter.Int64Counter(
		"pool_deposits_total",
		metric.WithDescription("Off-pool balance deposits"),
		metric.WithUnit("{deposit}"),
	)
	if err != nil {
		return err
	}

	s.metrics.opErrors, err = meter.Int64Counter(
		"pool_op_errors_total",
		metric.WithDescription("Rejected pool operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	s.metrics.snapshotErrors, err = meter.Int64Counter(
		"pool_snapshot_errors_total",
		metric.WithDescription("Failed snapshot persists"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	s.metrics.invariantK, err = meter.Float64Gauge(
		"pool_invariant_k",
		metric.WithDescription("Constant-product invariant after the last operation"),
	)
	if err != nil {
		return err
	}

	return nil
}

// AddSink registers an event sink. Safe to call before or after startup.
func (s *PoolService) AddSink(sink EventSink) {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	s.sinks = append(s.sinks, sink)
}

func (s *PoolService) publish(ctx context.Context, ev domain.Event) {
	s.sinkMu.RLock()
	sinks := make([]EventSink, len(s.sinks))
	copy(sinks, s.sinks)
	s.sinkMu.RUnlock()
	for _, sink := range sinks {
		sink.Publish(ctx, ev)
	}
}

// persist saves a snapshot best-effort: the in-memory pool is authoritative
// and a failed save must not roll back an already-applied operation.
func (s *PoolService) persist(ctx context.Context, snap *domain.Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, snap); err != nil {
		s.metrics.snapshotErrors.Add(ctx, 1)
		s.logger.Warn(ctx, "snapshot save failed", "error", err)
	}
}

func (s *PoolService) recordK(ctx context.Context, k *big.Int) {
	f, _ := new(big.Float).SetInt(k).Float64()
	s.metrics.invariantK.Record(ctx, f)
}

func (s *PoolService) caller(ctx context.Context, span trace.Span) (domain.Principal, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		err := apperror.New(apperror.CodeCallerMissing)
		span.RecordError(err)
		span.SetStatus(codes.Error, "caller missing")
		return domain.Principal{}, err
	}
	span.SetAttributes(attribute.String("pool.caller", caller.Hex()))
	return caller, nil
}

func (s *PoolService) fail(ctx context.Context, span trace.Span, op string, err error) error {
	s.metrics.opErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" rejected")
	return err
}

// Deposit credits the caller's off-pool balances from the host's faucet,
// subject to the configured rate limit. Not a pool operation proper: the
// pool never issues assets itself.
func (s *PoolService) Deposit(ctx context.Context, amount1, amount2 *big.Int) error {
	ctx, span := s.tracer.Start(ctx, "pool.deposit")
	defer span.End()

	caller, err := s.caller(ctx, span)
	if err != nil {
		return err
	}
	if s.depositLimiter != nil && !s.depositLimiter.Allow() {
		return s.fail(ctx, span, "deposit", apperror.New(apperror.CodeRateLimitExceeded))
	}

	s.mu.Lock()
	if err := s.pool.Credit(caller, amount1, amount2); err != nil {
		s.mu.Unlock()
		return s.fail(ctx, span, "deposit", err)
	}
	snap := s.pool.Snapshot()
	s.mu.Unlock()

	s.metrics.deposits.Add(ctx, 1)
	s.persist(ctx, snap)
	s.publish(ctx, domain.DepositEvent{
		Caller:  caller,
		Amount1: new(big.Int).Set(amount1),
		Amount2: new(big.Int).Set(amount2),
		At:      time.Now().UTC(),
	})
	return nil
}

// Provide deposits liquidity from the caller's balances and returns the
// minted share count.
func (s *PoolService) Provide(ctx context.Context, amount1, amount2 *big.Int) (*big.Int, error) {
	ctx, span := s.tracer.Start(ctx, "pool.provide")
	defer span.End()

	caller, err := s.caller(ctx, span)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	issued, err := s.pool.Provide(caller, amount1, amount2)
	if err != nil {
		s.mu.Unlock()
		return nil, s.fail(ctx, span, "provide", err)
	}
	_, _, totalShares, _ := s.pool.Details()
	k := s.pool.K()
	snap := s.pool.Snapshot()
	s.mu.Unlock()

	s.metrics.liquidityOps.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "provide")))
	s.recordK(ctx, k)
	s.persist(ctx, snap)
	// Events hold copies of the caller's arguments; sinks run after the
	// lock is released and must not see later mutations.
	s.publish(ctx, domain.ProvideEvent{
		Caller:       caller,
		Amount1:      new(big.Int).Set(amount1),
		Amount2:      new(big.Int).Set(amount2),
		SharesIssued: issued,
		TotalShares:  totalShares,
		At:           time.Now().UTC(),
	})
	s.logger.Info(ctx, "liquidity provided",
		"caller", caller.Hex(), "amount1", amount1.String(), "amount2", amount2.String(),
		"shares", issued.String())
	return issued, nil
}

// Withdraw burns the caller's shares and returns the released amounts.
func (s *PoolService) Withdraw(ctx context.Context, share *big.Int) (*big.Int, *big.Int, error) {
	ctx, span := s.tracer.Start(ctx, "pool.withdraw")
	defer span.End()

	caller, err := s.caller(ctx, span)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	amount1, amount2, err := s.pool.Withdraw(caller, share)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, s.fail(ctx, span, "withdraw", err)
	}
	_, _, totalShares, _ := s.pool.Details()
	k := s.pool.K()
	snap := s.pool.Snapshot()
	s.mu.Unlock()

	s.metrics.liquidityOps.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "withdraw")))
	s.recordK(ctx, k)
	s.persist(ctx, snap)
	s.publish(ctx, domain.WithdrawEvent{
		Caller:       caller,
		SharesBurned: new(big.Int).Set(share),
		Amount1:      amount1,
		Amount2:      amount2,
		TotalShares:  totalShares,
		At:           time.Now().UTC(),
	})
	s.logger.Info(ctx, "liquidity withdrawn",
		"caller", caller.Hex(), "shares", share.String(),
		"amount1", amount1.String(), "amount2", amount2.String())
	return amount1, amount2, nil
}

// WithdrawEstimate quotes the amounts a share burn would release.
func (s *PoolService) WithdrawEstimate(ctx context.Context, share *big.Int) (*big.Int, *big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.WithdrawEstimate(share)
}

// swapOp runs one swap under the lock. fn executes against the locked pool
// and reports the realized input and output.
func (s *PoolService) swapOp(ctx context.Context, opName string, dir domain.Direction,
	fn func(caller domain.Principal) (amountIn, amountOut *big.Int, err error),
) (*big.Int, *big.Int, error) {
	ctx, span := s.tracer.Start(ctx, opName,
		trace.WithAttributes(attribute.String("pool.direction", string(dir))))
	defer span.End()

	caller, err := s.caller(ctx, span)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	amountIn, amountOut, err := fn(caller)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, s.fail(ctx, span, opName, err)
	}
	k := s.pool.K()
	snap := s.pool.Snapshot()
	s.mu.Unlock()

	s.metrics.swaps.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", string(dir))))
	s.recordK(ctx, k)
	s.persist(ctx, snap)
	s.publish(ctx, domain.SwapEvent{
		Caller:    caller,
		Direction: dir,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: new(big.Int).Set(amountOut),
		K:         k,
		At:        time.Now().UTC(),
	})
	s.logger.Info(ctx, "swap executed",
		"caller", caller.Hex(), "direction", string(dir),
		"in", amountIn.String(), "out", amountOut.String())
	return amountIn, amountOut, nil
}

// SwapAsset1GivenInput trades an exact asset-1 input for asset 2.
func (s *PoolService) SwapAsset1GivenInput(ctx context.Context, amountIn, minOut *big.Int) (*big.Int, error) {
	_, out, err := s.swapOp(ctx, "pool.swap_asset1_given_input", domain.Asset1ToAsset2,
		func(caller domain.Principal) (*big.Int, *big.Int, error) {
			out, err := s.pool.SwapAsset1GivenInput(caller, amountIn, minOut)
			return amountIn, out, err
		})
	return out, err
}

// SwapAsset1GivenOutput trades asset 1 for an exact asset-2 output,
// returning the consumed input.
func (s *PoolService) SwapAsset1GivenOutput(ctx context.Context, amountOut, maxIn *big.Int) (*big.Int, error) {
	in, _, err := s.swapOp(ctx, "pool.swap_asset1_given_output", domain.Asset1ToAsset2,
		func(caller domain.Principal) (*big.Int, *big.Int, error) {
			in, err := s.pool.SwapAsset1GivenOutput(caller, amountOut, maxIn)
			return in, amountOut, err
		})
	return in, err
}

// SwapAsset2GivenInput trades an exact asset-2 input for asset 1.
func (s *PoolService) SwapAsset2GivenInput(ctx context.Context, amountIn, minOut *big.Int) (*big.Int, error) {
	_, out, err := s.swapOp(ctx, "pool.swap_asset2_given_input", domain.Asset2ToAsset1,
		func(caller domain.Principal) (*big.Int, *big.Int, error) {
			out, err := s.pool.SwapAsset2GivenInput(caller, amountIn, minOut)
			return amountIn, out, err
		})
	return out, err
}

// SwapAsset2GivenOutput trades asset 2 for an exact asset-1 output,
// returning the consumed input.
func (s *PoolService) SwapAsset2GivenOutput(ctx context.Context, amountOut, maxIn *big.Int) (*big.Int, error) {
	in, _, err := s.swapOp(ctx, "pool.swap_asset2_given_output", domain.Asset2ToAsset1,
		func(caller domain.Principal) (*big.Int, *big.Int, error) {
			in, err := s.pool.SwapAsset2GivenOutput(caller, amountOut, maxIn)
			return in, amountOut, err
		})
	return in, err
}

// QuoteAsset2ForAsset1In prices an exact asset-1 input.
func (s *PoolService) QuoteAsset2ForAsset1In(ctx context.Context, amountIn *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.QuoteAsset2ForAsset1In(amountIn)
}

// QuoteAsset1ForAsset2Out prices an exact asset-2 output.
func (s *PoolService) QuoteAsset1ForAsset2Out(ctx context.Context, amountOut *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.QuoteAsset1ForAsset2Out(amountOut)
}

// QuoteAsset1ForAsset2In prices an exact asset-2 input.
func (s *PoolService) QuoteAsset1ForAsset2In(ctx context.Context, amountIn *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.QuoteAsset1ForAsset2In(amountIn)
}

// QuoteAsset2ForAsset1Out prices an exact asset-1 output.
func (s *PoolService) QuoteAsset2ForAsset1Out(ctx context.Context, amountOut *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.QuoteAsset2ForAsset1Out(amountOut)
}

// Holdings returns the caller's off-pool balances and share count.
func (s *PoolService) Holdings(ctx context.Context) (*big.Int, *big.Int, *big.Int, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return nil, nil, nil, apperror.New(apperror.CodeCallerMissing)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b1, b2, sh := s.pool.Holdings(caller)
	return b1, b2, sh, nil
}

// Details returns a read snapshot of the pool for display.
func (s *PoolService) Details(ctx context.Context) PoolDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	r1, r2, total, fee := s.pool.Details()
	return PoolDetails{
		Reserve1:    r1,
		Reserve2:    r2,
		TotalShares: total,
		K:           s.pool.K(),
		FeeRate:     fee,
		Holders:     s.pool.ShareHolderCount(),
	}
}

// reporterSink adapts a Reporter into an EventSink, refreshing the pool
// panel after each event.
type reporterSink struct {
	svc *PoolService
	rep Reporter
}

// NewReporterSink wires a reporter to the service's event stream.
func NewReporterSink(svc *PoolService, rep Reporter) EventSink {
	return &reporterSink{svc: svc, rep: rep}
}

func (r *reporterSink) Publish(ctx context.Context, ev domain.Event) {
	r.rep.Report(ev)
	r.rep.UpdatePool(r.svc.Details(ctx))
}
