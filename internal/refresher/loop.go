// Package refresher drives the periodic re-evaluation of FX rates,
// market-data history and portfolio valuation, and is the sole writer to
// the published snapshot.
package refresher

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
	"github.com/cybersoul/portfolio-service/internal/snapshot"
)

// Defaults for the loop knobs
const (
	DefaultInterval     = 60 * time.Second
	DefaultFetchTimeout = 10 * time.Second
	DefaultWorkers      = 4
)

// SymbolSource lists the registered symbols
type SymbolSource interface {
	GetAssetSymbols() ([]string, error)
}

// FxService fetches and tracks the currency pair
type FxService interface {
	Pair() string
	FetchCurrent(ctx context.Context) (*models.FxRate, error)
	CurrentWithVariation() (decimal.Decimal, decimal.Decimal, error)
}

// MarketRefresher records fresh market data for a symbol
type MarketRefresher interface {
	UpdateStockData(ctx context.Context, symbol string) error
}

// QuoteInvalidator drops a symbol's memoized quote so the next valuation
// pass refetches it. A passive cache alone would never see new data.
type QuoteInvalidator interface {
	Invalidate(symbol string)
}

// Valuer computes the portfolio snapshot
type Valuer interface {
	ComputePortfolio(ctx context.Context) (*models.PortfolioSnapshot, error)
}

// SnapshotSink receives published snapshots (Redis mirror, Kafka events).
// Sinks are best effort: a failing sink is logged and never stalls the loop.
type SnapshotSink interface {
	PublishSnapshot(ctx context.Context, snap *models.PortfolioSnapshot) error
}

// SnapshotArchive persists published snapshots for trend history
type SnapshotArchive interface {
	ArchiveSnapshot(s *models.PortfolioSnapshot) error
}

// archiveSink adapts a SnapshotArchive into a sink. Running the archive after
// publication means history rows record the same version and fx figures the
// published snapshot carries.
type archiveSink struct {
	archive SnapshotArchive
}

func (a archiveSink) PublishSnapshot(ctx context.Context, snap *models.PortfolioSnapshot) error {
	return a.archive.ArchiveSnapshot(snap)
}

// Loop runs the refresh cycle. Iterations are strictly sequential: a new
// one never starts before the previous one finished and its wait elapsed.
type Loop struct {
	symbols SymbolSource
	fx      FxService
	market  MarketRefresher
	cache   QuoteInvalidator
	engine  Valuer
	store   *snapshot.Store
	sinks   []SnapshotSink

	interval     time.Duration
	fetchTimeout time.Duration
	workers      int
}

// Option configures a Loop
type Option func(*Loop)

// WithInterval sets the wait between iterations
func WithInterval(d time.Duration) Option {
	return func(l *Loop) { l.interval = d }
}

// WithFetchTimeout bounds every upstream call made inside an iteration
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loop) { l.fetchTimeout = d }
}

// WithWorkers sets the size of the symbol-refresh worker pool
func WithWorkers(n int) Option {
	return func(l *Loop) { l.workers = n }
}

// WithSinks adds snapshot sinks
func WithSinks(sinks ...SnapshotSink) Option {
	return func(l *Loop) { l.sinks = append(l.sinks, sinks...) }
}

// WithArchive records every published snapshot into history
func WithArchive(archive SnapshotArchive) Option {
	return func(l *Loop) { l.sinks = append(l.sinks, archiveSink{archive: archive}) }
}

// New creates a refresh loop
func New(symbols SymbolSource, fx FxService, market MarketRefresher, cache QuoteInvalidator, engine Valuer, store *snapshot.Store, opts ...Option) *Loop {
	l := &Loop{
		symbols:      symbols,
		fx:           fx,
		market:       market,
		cache:        cache,
		engine:       engine,
		store:        store,
		interval:     DefaultInterval,
		fetchTimeout: DefaultFetchTimeout,
		workers:      DefaultWorkers,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.workers < 1 {
		l.workers = 1
	}
	return l
}

// Run executes the loop until the context is cancelled. The first iteration
// runs immediately.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("Refresh loop starting (interval %s)", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresh loop shutting down...")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			l.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single refresh iteration. Every failure inside it is
// logged and degraded around; nothing terminates the loop.
func (l *Loop) RunOnce(ctx context.Context) {
	l.refreshFx(ctx)
	l.refreshSymbols(ctx)

	snap, err := l.engine.ComputePortfolio(ctx)
	if err != nil {
		log.Printf("Valuation failed, keeping previous snapshot: %v", err)
		return
	}

	snap.FxPair = l.fx.Pair()
	bid, variation, err := l.fx.CurrentWithVariation()
	if err != nil {
		log.Printf("Failed to read fx variation: %v", err)
	} else {
		snap.FxBid = bid
		snap.FxVariation = variation
	}

	version := l.store.Publish(snap)
	log.Printf("Published snapshot v%d: %d assets, total value %s", version, snap.AssetCount, snap.TotalValue.StringFixed(2))

	for _, sink := range l.sinks {
		if err := sink.PublishSnapshot(ctx, snap); err != nil {
			log.Printf("Snapshot sink failed: %v", err)
		}
	}
}

func (l *Loop) refreshFx(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	if _, err := l.fx.FetchCurrent(fetchCtx); err != nil {
		// The variation read below still serves the last known rate
		log.Printf("Failed to refresh fx rate: %v", err)
	}
}

// refreshSymbols invalidates and refetches every registered symbol through
// a bounded worker pool, so one slow or failed symbol never blocks the
// others indefinitely.
func (l *Loop) refreshSymbols(ctx context.Context) {
	symbols, err := l.symbols.GetAssetSymbols()
	if err != nil {
		log.Printf("Failed to list symbols for refresh: %v", err)
		return
	}

	jobs := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				l.refreshSymbol(ctx, symbol)
			}
		}()
	}

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
		case jobs <- symbol:
		}
	}
	close(jobs)
	wg.Wait()
}

func (l *Loop) refreshSymbol(ctx context.Context, symbol string) {
	if ctx.Err() != nil {
		return
	}

	l.cache.Invalidate(symbol)

	fetchCtx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	if err := l.market.UpdateStockData(fetchCtx, symbol); err != nil {
		log.Printf("Failed to refresh market data for %s: %v", symbol, err)
	}
}
