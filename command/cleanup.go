package command

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-activitylog/pkg/types"
)

const (
	// DefaultRetentionDays is how long entries are kept before cleanup.
	DefaultRetentionDays = 30
	// DefaultDeleteBatchSize bounds each delete transaction.
	DefaultDeleteBatchSize = 500
	// DefaultSchedule is a cron-friendly fallback for nightly cleanup runs.
	DefaultSchedule = "0 3 * * *"
)

// CleanupInput describes a single retention run. A nil Before defers to the
// configured retention window.
type CleanupInput struct {
	Before    *time.Time
	BatchSize int
}

// Type implements gocommand.Message.
func (CleanupInput) Type() string {
	return "command.activitylog.cleanup"
}

// Validate implements gocommand.Message.
func (input CleanupInput) Validate() error {
	if input.BatchSize < 0 {
		return ErrInvalidBatchSize
	}
	return nil
}

// CleanupCommand deletes entries older than the retention window.
type CleanupCommand struct {
	repo          types.Repository
	clock         types.Clock
	logger        types.Logger
	hooks         types.Hooks
	retentionDays int
}

// CleanupConfig wires dependencies for the retention command.
type CleanupConfig struct {
	Repository    types.Repository
	Clock         types.Clock
	Logger        types.Logger
	Hooks         types.Hooks
	RetentionDays int
}

// NewCleanupCommand constructs the retention command handler.
func NewCleanupCommand(cfg CleanupConfig) *CleanupCommand {
	retention := cfg.RetentionDays
	if retention <= 0 {
		retention = DefaultRetentionDays
	}
	return &CleanupCommand{
		repo:          cfg.Repository,
		clock:         safeClock(cfg.Clock),
		logger:        safeLogger(cfg.Logger),
		hooks:         cfg.Hooks,
		retentionDays: retention,
	}
}

var _ gocommand.Commander[CleanupInput] = (*CleanupCommand)(nil)

// Execute runs the cleanup and discards the count. Schedulers that only care
// about errors use this; callers that need the count use Run.
func (c *CleanupCommand) Execute(ctx context.Context, input CleanupInput) error {
	_, err := c.Run(ctx, input)
	return err
}

// Run deletes expired entries in bounded batches and returns the total
// removed. Idempotent: with no new expired entries a second run returns 0.
// A partial failure leaves the remainder for the next scheduled run.
func (c *CleanupCommand) Run(ctx context.Context, input CleanupInput) (int, error) {
	if c.repo == nil {
		return 0, types.ErrMissingRepository
	}
	if err := input.Validate(); err != nil {
		return 0, err
	}
	cutoff := c.clock.Now().AddDate(0, 0, -c.retentionDays)
	if input.Before != nil && !input.Before.IsZero() {
		cutoff = *input.Before
	}
	batchSize := input.BatchSize
	if batchSize == 0 {
		batchSize = DefaultDeleteBatchSize
	}
	deleted, err := c.repo.DeleteOlderThan(ctx, cutoff, batchSize)
	if err != nil {
		c.logger.Error("activitylog: cleanup run failed", err, "deleted", deleted)
		return deleted, err
	}
	if deleted > 0 {
		c.logger.Info("activitylog: cleanup removed expired entries", "deleted", deleted)
	}
	emitCleanupHook(ctx, c.hooks, deleted)
	return deleted, nil
}
