package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"mempoolScope/internal/chain"
	"mempoolScope/internal/dex"
	"mempoolScope/internal/model"
	"mempoolScope/internal/notify"
	"mempoolScope/internal/storage"
	"mempoolScope/internal/token"
)

// State is the pipeline lifecycle state.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Feed is the upstream pending-transaction source. Its reconnect policy is
// its own; the pipeline only consumes.
type Feed interface {
	SubscribePendingTransactions(ctx context.Context) (<-chan model.RawPendingTx, chain.Subscription, error)
}

// Config holds pipeline runtime settings.
type Config struct {
	Workers          int
	DedupCapacity    int
	QueueSize        int
	EmitWorkers      int
	DispatchTimeout  time.Duration
	SubscribeRetries int
	SubscribeBackoff time.Duration
	// SessionBanners controls the start/stop summary messages sent to the
	// notification sink.
	SessionBanners bool
}

// Pipeline drives pending transactions through decode, classify, dedup,
// resolve, and emit. One session at a time; Start and Stop are idempotent.
type Pipeline struct {
	cfg        Config
	feed       Feed
	decoder    *dex.Decoder
	classifier *dex.Classifier
	resolver   *token.Resolver
	store      storage.EventStore
	notifier   Notifier
	journal    storage.Journal
	logger     *zap.Logger
	stats      *Stats

	state atomic.Int32

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	ledger  *Ledger
	emitter *Emitter

	feedErrMu sync.RWMutex
	feedErr   error
}

// NewPipeline wires the pipeline components. journal may be nil.
func NewPipeline(
	cfg Config,
	feed Feed,
	decoder *dex.Decoder,
	classifier *dex.Classifier,
	resolver *token.Resolver,
	store storage.EventStore,
	notifier Notifier,
	journal storage.Journal,
	logger *zap.Logger,
) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Pipeline{
		cfg:        cfg,
		feed:       feed,
		decoder:    decoder,
		classifier: classifier,
		resolver:   resolver,
		store:      store,
		notifier:   notifier,
		journal:    journal,
		logger:     logger,
		stats:      NewStats(),
	}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
}

// CurrentStats returns a snapshot of the session counters.
func (p *Pipeline) CurrentStats() model.PipelineStats {
	return p.stats.Snapshot(p.State() == StateRunning)
}

// RecentEvents returns up to limit persisted events, most recent first.
func (p *Pipeline) RecentEvents(ctx context.Context, limit int) ([]model.ClassifiedEvent, error) {
	return p.store.RecentEvents(ctx, limit)
}

// FeedError reports the error that ended the last session, if the feed
// disconnected. Cleared when a new session starts.
func (p *Pipeline) FeedError() error {
	p.feedErrMu.RLock()
	defer p.feedErrMu.RUnlock()
	return p.feedErr
}

func (p *Pipeline) setFeedError(err error) {
	p.feedErrMu.Lock()
	p.feedErr = err
	p.feedErrMu.Unlock()
}

// Start begins a new monitoring session. A no-op returning the current state
// when already starting or running. The context covers subscription setup
// only; the session's lifetime is owned by the pipeline.
func (p *Pipeline) Start(ctx context.Context) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.State() {
	case StateStarting, StateRunning:
		return p.State(), nil
	case StateStopping:
		return StateStopping, fmt.Errorf("pipeline is stopping")
	}

	p.setState(StateStarting)
	p.stats.Reset(time.Now().UTC())
	p.setFeedError(nil)
	p.ledger = NewLedger(p.cfg.DedupCapacity)

	sessionCtx, cancel := context.WithCancel(context.Background())

	var feedCh <-chan model.RawPendingTx
	var sub chain.Subscription
	err := withRetry(ctx, p.cfg.SubscribeRetries, p.cfg.SubscribeBackoff, func(ctx context.Context) error {
		var subErr error
		feedCh, sub, subErr = p.feed.SubscribePendingTransactions(sessionCtx)
		if subErr != nil {
			p.logger.Warn("feed subscription failed", zap.Error(subErr))
		}
		return subErr
	})
	if err != nil {
		cancel()
		p.setState(StateStopped)
		return StateStopped, fmt.Errorf("subscribe feed: %w", err)
	}

	p.cancel = cancel
	p.done = make(chan struct{})
	p.emitter = NewEmitter(EmitterConfig{
		QueueSize:       p.cfg.QueueSize,
		Workers:         p.cfg.EmitWorkers,
		DispatchTimeout: p.cfg.DispatchTimeout,
	}, p.notifier, p.store, p.journal, p.stats, p.logger)
	p.emitter.Start()

	p.setState(StateRunning)
	p.logger.Info("monitoring session started", zap.Int("workers", p.cfg.Workers))

	if p.cfg.SessionBanners {
		go p.sendBanner(notify.FormatStartup())
	}

	go p.run(sessionCtx, feedCh, sub)

	return StateRunning, nil
}

// Stop ends the running session: the record in flight finishes, the outbound
// queue drains, the subscription is released. A no-op when already stopped or
// stopping.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	switch p.State() {
	case StateStopped, StateStopping:
		p.mu.Unlock()
		return
	}
	p.setState(StateStopping)
	cancel := p.cancel
	done := p.done
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *Pipeline) run(ctx context.Context, feedCh <-chan model.RawPendingTx, sub chain.Subscription) {
	defer close(p.done)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx, feedCh)
		}()
	}

	select {
	case err, ok := <-sub.Err():
		if ok && err != nil {
			p.setFeedError(err)
			p.logger.Error("feed disconnected", zap.Error(err))
		}
	case <-ctx.Done():
	}

	sub.Unsubscribe()
	p.cancel()
	wg.Wait()
	p.emitter.Stop()

	p.stats.MarkStopped(time.Now().UTC())
	final := p.stats.Snapshot(false)
	if p.cfg.SessionBanners {
		p.sendBanner(notify.FormatShutdown(final))
	}

	p.setState(StateStopped)
	p.logger.Info("monitoring session stopped",
		zap.Uint64("total_transactions", final.TotalTransactions),
		zap.Uint64("successful_parses", final.SuccessfulParses),
		zap.Uint64("failed_parses", final.FailedParses),
		zap.Uint64("notifications_sent", final.NotificationsSent),
	)
}

func (p *Pipeline) work(ctx context.Context, feedCh <-chan model.RawPendingTx) {
	for record := range feedCh {
		select {
		case <-ctx.Done():
			return
		default:
		}
		p.process(ctx, record)
	}
}

func (p *Pipeline) process(ctx context.Context, record model.RawPendingTx) {
	p.stats.IncrTotal()

	intent, err := p.decoder.Decode(record)
	if err != nil {
		if errors.Is(err, dex.ErrNotRouterCall) {
			return
		}
		p.stats.IncrFailed()
		p.logger.Warn("malformed router call",
			zap.String("tx_hash", record.Hash),
			zap.String("selector", inputSelector(record.Input)),
			zap.Error(err),
		)
		return
	}

	direction := p.classifier.Classify(intent, record.ValueWei())

	if !p.ledger.Observe(record.Hash) {
		return
	}

	tokenAddr := p.classifier.TokenOf(intent, direction)
	meta := p.resolver.Resolve(ctx, common.HexToAddress(tokenAddr))

	observedAt := record.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now().UTC()
	}

	event := model.ClassifiedEvent{
		TxHash:       record.Hash,
		Direction:    direction,
		TokenAddress: tokenAddr,
		TokenSymbol:  meta.Symbol,
		TokenName:    meta.Name,
		NativeWei:    record.ValueWei().String(),
		Sender:       record.From,
		ObservedAt:   observedAt,
	}

	p.stats.IncrSuccessful()

	if err := p.emitter.Emit(ctx, event); err != nil {
		p.logger.Warn("event emit aborted",
			zap.String("tx_hash", event.TxHash),
			zap.Error(err),
		)
	}
}

func (p *Pipeline) sendBanner(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.notifier.Send(ctx, text); err != nil {
		p.logger.Warn("session banner delivery failed", zap.Error(err))
		return
	}
	p.stats.IncrNotifications()
}

func inputSelector(input string) string {
	if len(input) >= 10 {
		return input[:10]
	}
	return input
}
