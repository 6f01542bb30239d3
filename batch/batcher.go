// Package batch implements the buffered write path for activity log entries.
// A Batcher coalesces Log calls into fewer store round trips, bounding
// staleness with a debounce timer and escalating critical entries to an
// immediate write. It is an injected dependency, not a process singleton;
// construct one per store and share it.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/goliatone/go-activitylog/store"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

const (
	// DefaultFlushSize triggers an immediate flush once this many entries are pending.
	DefaultFlushSize = 50
	// DefaultFlushDelay bounds staleness when traffic is too light to hit the size trigger.
	DefaultFlushDelay = 5 * time.Second

	// FeatureCapture gates the write path; when disabled, Log drops entries.
	FeatureCapture = "activitylog.capture"
)

// Config wires the batching service dependencies and thresholds.
type Config struct {
	Store      types.Store
	Logger     types.Logger
	IDGen      types.IDGenerator
	Hooks      types.Hooks
	Enricher   store.Enricher
	Gate       featuregate.FeatureGate
	FlushSize  int
	FlushDelay time.Duration
}

// Batcher buffers entries and flushes them on size or time thresholds. The
// mutex guards the pending list and the timer handle; both are touched from
// caller goroutines and the timer callback.
type Batcher struct {
	store      types.Store
	logger     types.Logger
	idGen      types.IDGenerator
	hooks      types.Hooks
	enricher   store.Enricher
	gate       featuregate.FeatureGate
	flushSize  int
	flushDelay time.Duration

	mu      sync.Mutex
	pending []types.Entry
	timer   *time.Timer

	inflight sync.WaitGroup
}

// New constructs a Batcher. Store is the only required dependency.
func New(cfg Config) (*Batcher, error) {
	if cfg.Store == nil {
		return nil, types.ErrMissingStore
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	flushSize := cfg.FlushSize
	if flushSize <= 0 {
		flushSize = DefaultFlushSize
	}
	flushDelay := cfg.FlushDelay
	if flushDelay <= 0 {
		flushDelay = DefaultFlushDelay
	}
	return &Batcher{
		store:      cfg.Store,
		logger:     logger,
		idGen:      idGen,
		hooks:      cfg.Hooks,
		enricher:   cfg.Enricher,
		gate:       cfg.Gate,
		flushSize:  flushSize,
		flushDelay: flushDelay,
	}, nil
}

var _ types.Recorder = (*Batcher)(nil)

// Log enqueues an entry and returns immediately. Invalid entries are dropped
// and reported through the logger; no error ever reaches the caller, so audit
// logging cannot break the business operation being audited.
//
// Reaching the size threshold swaps the pending list out synchronously and
// writes it in the background; otherwise the debounce timer is reset, so a
// burst of calls postpones the flush until a gap of at least the configured
// delay. Entries with error severity or a critical action are additionally
// written right away through the escalation path; the store's conflict clause
// collapses the two writes into one row.
func (b *Batcher) Log(ctx context.Context, entry types.Entry) {
	if b.gate != nil {
		if enabled, err := b.gate.Enabled(ctx, FeatureCapture); err == nil && !enabled {
			return
		}
	}
	if err := entry.Validate(); err != nil {
		b.logger.Error("activitylog: dropping invalid entry", err, "action", string(entry.Action))
		return
	}
	entry = entry.Clone()
	if entry.ID == uuid.Nil {
		entry.ID = b.idGen.UUID()
	}
	if entry.Severity == "" {
		entry.Severity = entry.Action.DefaultSeverity()
	}
	if entry.Description == "" {
		entry.Description = types.DescriptionFor(entry.Action, entry.ResourceName)
	}
	if b.enricher != nil {
		enriched, err := b.enricher.Enrich(ctx, entry)
		if err != nil {
			b.logger.Debug("activitylog: enrichment skipped", "error", err.Error())
		} else {
			entry = enriched
		}
	}
	escalate := entry.Severity == types.SeverityError || entry.Action.Critical()

	b.mu.Lock()
	b.pending = append(b.pending, entry)
	var batch []types.Entry
	if len(b.pending) >= b.flushSize {
		b.stopTimerLocked()
		batch = b.pending
		b.pending = nil
	} else {
		b.resetTimerLocked()
	}
	b.mu.Unlock()

	if batch != nil {
		b.writeAsync(batch)
	}
	if escalate {
		b.escalate(ctx, entry)
	}
}

// Flush commits every currently queued entry and returns once they are
// persisted or requeued on failure. It first waits for in-flight background
// writes so callers get a real synchronization point before shutdown.
func (b *Batcher) Flush(ctx context.Context) error {
	b.inflight.Wait()

	b.mu.Lock()
	b.stopTimerLocked()
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	return b.write(ctx, batch)
}

// Close stops the debounce timer and performs a final flush.
func (b *Batcher) Close(ctx context.Context) error {
	return b.Flush(ctx)
}

// Pending reports the number of queued entries. Intended for tests and
// shutdown diagnostics.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// write commits a batch in one transaction. On failure the whole batch is
// prepended back onto the pending list so the next trigger retries it; there
// is no dedicated retry timer.
func (b *Batcher) write(ctx context.Context, batch []types.Entry) error {
	err := b.store.Insert(ctx, batch...)
	if err != nil {
		b.logger.Error("activitylog: batch flush failed, requeueing entries", err, "count", len(batch))
		b.mu.Lock()
		b.pending = append(batch, b.pending...)
		b.mu.Unlock()
		return err
	}
	if b.hooks.AfterFlush != nil {
		b.hooks.AfterFlush(ctx, len(batch))
	}
	return nil
}

func (b *Batcher) writeAsync(batch []types.Entry) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		_ = b.write(context.Background(), batch)
	}()
}

// escalate writes a critical entry immediately, outside normal batching. A
// failure here is only logged: the entry is still queued on the batch path,
// which acts as the retry.
func (b *Batcher) escalate(ctx context.Context, entry types.Entry) {
	b.inflight.Add(1)
	go func(ctx context.Context) {
		defer b.inflight.Done()
		if err := b.store.Log(ctx, entry); err != nil {
			b.logger.Error("activitylog: immediate write failed", err, "action", string(entry.Action))
		}
	}(context.WithoutCancel(ctx))
}

func (b *Batcher) timerFlush() {
	b.mu.Lock()
	b.timer = nil
	batch := b.pending
	b.pending = nil
	b.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	b.inflight.Add(1)
	defer b.inflight.Done()
	_ = b.write(context.Background(), batch)
}

func (b *Batcher) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Batcher) resetTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.flushDelay, b.timerFlush)
}
