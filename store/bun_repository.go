package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/goliatone/go-masker"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed activity log repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*LogEntry]
	Clock      types.Clock
	IDGen      types.IDGenerator
	Masker     *masker.Masker
}

type entryStore interface {
	repository.Repository[*LogEntry]
}

// Repository persists activity log entries and exposes query helpers. Inserts
// assign commit timestamps from the configured clock with a strict-monotonic
// guard, so write order is observable in created_at even when the clock has
// coarse resolution.
type Repository struct {
	entryStore
	db     *bun.DB
	clock  types.Clock
	idGen  types.IDGenerator
	masker *masker.Masker

	tsMu   sync.Mutex
	lastAt time.Time
}

// NewRepository constructs a repository that implements the Sink, BatchWriter,
// and read-side Repository contracts.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("store: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*LogEntry]{
			NewRecord: func() *LogEntry { return &LogEntry{} },
			GetID: func(entry *LogEntry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *LogEntry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}
	repo, err := maybeWrapCache(repo, applyRepositoryOptions(options))
	if err != nil {
		return nil, err
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}
	mask := cfg.Masker
	if mask == nil {
		mask = DefaultMasker()
	}

	return &Repository{
		entryStore: repo,
		db:         cfg.DB,
		clock:      clock,
		idGen:      idGen,
		masker:     mask,
	}, nil
}

var (
	_ types.Sink        = (*Repository)(nil)
	_ types.BatchWriter = (*Repository)(nil)
	_ types.Repository  = (*Repository)(nil)
	_ types.Store       = (*Repository)(nil)
)

// Log persists a single entry. It backs the escalation path, where critical
// entries bypass batching.
func (r *Repository) Log(ctx context.Context, entry types.Entry) error {
	return r.Insert(ctx, entry)
}

// Insert writes all entries in one transaction. Entries that already carry a
// persisted ID are skipped by the conflict clause, which is what dedupes the
// escalation write against the later batched write of the same entry.
func (r *Repository) Insert(ctx context.Context, entries ...types.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if r.db == nil {
		return errors.New("store: insert requires bun DB")
	}
	models := make([]*LogEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = r.idGen.UUID()
		}
		entry.Metadata = SanitizeMetadata(r.masker, entry.Metadata)
		model := fromEntry(entry)
		model.CreatedAt = r.nextTimestamp()
		models = append(models, model)
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		return err
	})
}

// nextTimestamp returns a commit timestamp that strictly increases in write
// order for the lifetime of this repository. The step stays above a
// microsecond so Postgres timestamp resolution preserves the ordering.
func (r *Repository) nextTimestamp() time.Time {
	r.tsMu.Lock()
	defer r.tsMu.Unlock()
	now := r.clock.Now()
	if !now.After(r.lastAt) {
		now = r.lastAt.Add(time.Microsecond)
	}
	r.lastAt = now
	return now
}

// List returns one page of entries matching the filter, newest first, using
// keyset pagination on (created_at, id).
func (r *Repository) List(ctx context.Context, filter types.Filter) (types.Page, error) {
	cursor, err := DecodeCursor(filter.Cursor)
	if err != nil {
		return types.Page{}, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = applyFilter(q, filter)
			return ApplyCursorPagination(q, cursor, limit+1)
		},
	}
	rows, total, err := r.entryStore.List(ctx, criteria...)
	if err != nil {
		return types.Page{}, err
	}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	page := types.Page{
		Entries: make([]types.Entry, 0, len(rows)),
		HasMore: hasMore,
		Total:   total,
	}
	for _, row := range rows {
		page.Entries = append(page.Entries, toEntry(row))
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.NextCursor = Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

// ScanRange returns every entry matching the filter, oldest first. Cost is
// O(n) over the matched range; callers rely on the retention window to keep n
// bounded.
func (r *Repository) ScanRange(ctx context.Context, filter types.ScanFilter) ([]types.Entry, error) {
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyScanFilter(q, filter).OrderExpr("created_at ASC, id ASC")
		},
	}
	rows, _, err := r.entryStore.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	entries := make([]types.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(row))
	}
	return entries, nil
}

// DeleteOlderThan removes entries created before the cutoff in bounded
// batches, each batch its own transaction, and returns the total deleted.
// Safe to call repeatedly; a partial failure leaves the remainder for the
// next run.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int, error) {
	if r.db == nil {
		return 0, errors.New("store: delete requires bun DB")
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	total := 0
	for {
		var ids []uuid.UUID
		err := r.db.NewSelect().
			Model((*LogEntry)(nil)).
			Column("id").
			Where("created_at < ?", cutoff).
			OrderExpr("created_at ASC").
			Limit(batchSize).
			Scan(ctx, &ids)
		if err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		err = r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewDelete().
				Model((*LogEntry)(nil)).
				Where("id IN (?)", bun.In(ids)).
				Exec(ctx)
			return err
		})
		if err != nil {
			return total, err
		}
		total += len(ids)
		if len(ids) < batchSize {
			return total, nil
		}
	}
}

func applyFilter(q *bun.SelectQuery, filter types.Filter) *bun.SelectQuery {
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}
	if filter.ResourceType != "" {
		q = q.Where("resource_type = ?", string(filter.ResourceType))
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", string(filter.Severity))
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	return q
}

func applyScanFilter(q *bun.SelectQuery, filter types.ScanFilter) *bun.SelectQuery {
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if len(filter.Actions) > 0 {
		actions := make([]string, 0, len(filter.Actions))
		for _, action := range filter.Actions {
			actions = append(actions, string(action))
		}
		q = q.Where("action IN (?)", bun.In(actions))
	}
	if len(filter.Severities) > 0 {
		severities := make([]string, 0, len(filter.Severities))
		for _, severity := range filter.Severities {
			severities = append(severities, string(severity))
		}
		q = q.Where("severity IN (?)", bun.In(severities))
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	return q
}
