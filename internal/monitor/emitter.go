package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mempoolScope/internal/model"
	"mempoolScope/internal/notify"
	"mempoolScope/internal/storage"
)

// Notifier is the outbound message-delivery endpoint. Delivery retries are
// its own concern.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// EmitterConfig bounds the outbound fan-out.
type EmitterConfig struct {
	// QueueSize bounds the outbound queue. A full queue blocks Emit; this is
	// the deliberate backpressure point between ingestion and the sinks.
	QueueSize int
	// Workers is the number of concurrent dispatchers draining the queue.
	Workers int
	// DispatchTimeout caps one event's sink deliveries, so draining during
	// shutdown cannot hang on a stuck sink.
	DispatchTimeout time.Duration
}

// Emitter fans finished events out to the notification sink and the
// persistence sink independently. A failure in one sink never blocks,
// retries, or rolls back the other.
type Emitter struct {
	cfg      EmitterConfig
	notifier Notifier
	store    storage.EventStore
	journal  storage.Journal
	stats    *Stats
	logger   *zap.Logger

	queue chan model.ClassifiedEvent
	wg    sync.WaitGroup
}

// NewEmitter builds an emitter over the given sinks. journal may be nil.
func NewEmitter(cfg EmitterConfig, notifier Notifier, store storage.EventStore, journal storage.Journal, stats *Stats, logger *zap.Logger) *Emitter {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Emitter{
		cfg:      cfg,
		notifier: notifier,
		store:    store,
		journal:  journal,
		stats:    stats,
		logger:   logger,
		queue:    make(chan model.ClassifiedEvent, cfg.QueueSize),
	}
}

// Start launches the dispatch workers.
func (e *Emitter) Start() {
	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for event := range e.queue {
				e.dispatch(event)
			}
		}()
	}
}

// Emit enqueues an event for delivery. Blocks while the queue is full; the
// context aborts the wait. A record that reaches Emit after the session
// context is canceled still enqueues when the queue has room, so shutdown
// never drops the record in flight.
func (e *Emitter) Emit(ctx context.Context, event model.ClassifiedEvent) error {
	select {
	case e.queue <- event:
		return nil
	default:
	}

	select {
	case e.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains and delivers all queued events, then returns.
func (e *Emitter) Stop() {
	close(e.queue)
	e.wg.Wait()
}

// dispatch delivers one event to both sinks concurrently. Dispatch runs on
// its own deadline so queued events still deliver during shutdown.
func (e *Emitter) dispatch(event model.ClassifiedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.DispatchTimeout)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := e.notifier.Send(ctx, notify.Format(event)); err != nil {
			e.logger.Warn("notification delivery failed",
				zap.String("tx_hash", event.TxHash),
				zap.Error(err),
			)
			return
		}
		e.stats.IncrNotifications()
	}()

	go func() {
		defer wg.Done()
		if err := e.store.SaveEvent(ctx, event); err != nil {
			e.logger.Warn("event persistence failed",
				zap.String("tx_hash", event.TxHash),
				zap.Error(err),
			)
		}
		if e.journal != nil {
			if err := e.journal.Append(event); err != nil {
				e.logger.Warn("event journal append failed",
					zap.String("tx_hash", event.TxHash),
					zap.Error(err),
				)
			}
		}
	}()

	wg.Wait()
}
