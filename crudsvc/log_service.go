// Package crudsvc adapts the activity log command/query layer to a go-crud
// controller so host admin panels get a transport-agnostic resource. The log
// is append-only: create and index are supported, every mutation is rejected.
package crudsvc

import (
	"fmt"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-activitylog/command"
	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/goliatone/go-activitylog/store"
)

// LogServiceConfig wires dependencies for the CRUD-backed log service.
type LogServiceConfig struct {
	LogCommand gocommand.Commander[command.LogInput]
	FeedQuery  gocommand.Querier[types.Filter, types.Page]
}

// LogService exposes activity log entries as a CRUD resource.
type LogService struct {
	logCmd gocommand.Commander[command.LogInput]
	feed   gocommand.Querier[types.Filter, types.Page]
	logger types.Logger
}

// NewLogService constructs the adapter.
func NewLogService(cfg LogServiceConfig, opts ...ServiceOption) *LogService {
	options := applyOptions(opts)
	return &LogService{
		logCmd: cfg.LogCommand,
		feed:   cfg.FeedQuery,
		logger: options.logger,
	}
}

// Create enqueues a new entry through the log command.
func (s *LogService) Create(ctx crud.Context, record *store.LogEntry) (*store.LogEntry, error) {
	if s.logCmd == nil {
		return nil, goerrors.New("activity logging disabled", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}
	entry := store.ToEntry(record)
	if err := s.logCmd.Execute(ctx.UserContext(), command.LogInput{Entry: entry}); err != nil {
		return nil, err
	}
	return store.FromEntry(entry), nil
}

// CreateBatch enqueues entries one at a time, stopping on the first failure.
func (s *LogService) CreateBatch(ctx crud.Context, records []*store.LogEntry) ([]*store.LogEntry, error) {
	created := make([]*store.LogEntry, 0, len(records))
	for _, record := range records {
		rec, err := s.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

// Update is rejected: log entries are immutable after creation.
func (s *LogService) Update(crud.Context, *store.LogEntry) (*store.LogEntry, error) {
	return nil, notSupported(crud.OpUpdate)
}

// UpdateBatch is rejected: log entries are immutable after creation.
func (s *LogService) UpdateBatch(crud.Context, []*store.LogEntry) ([]*store.LogEntry, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

// Delete is rejected: entries only leave the log through retention cleanup.
func (s *LogService) Delete(crud.Context, *store.LogEntry) error {
	return notSupported(crud.OpDelete)
}

// DeleteBatch is rejected: entries only leave the log through retention cleanup.
func (s *LogService) DeleteBatch(crud.Context, []*store.LogEntry) error {
	return notSupported(crud.OpDeleteBatch)
}

// Index lists entries newest first, honoring the feed query filters parsed
// from the request.
func (s *LogService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*store.LogEntry, int, error) {
	if s.feed == nil {
		return nil, 0, goerrors.New("activity feed query unavailable", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}
	filter := types.Filter{
		UserID:       queryUUID(ctx, "user_id"),
		Action:       types.Action(ctx.Query("action")),
		ResourceType: types.ResourceType(ctx.Query("resource_type")),
		Severity:     types.Severity(ctx.Query("severity")),
		Since:        queryTime(ctx, "since"),
		Until:        queryTime(ctx, "until"),
		Limit:        queryInt(ctx, "limit", 50),
		Cursor:       ctx.Query("cursor"),
	}
	page, err := s.feed.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]*store.LogEntry, 0, len(page.Entries))
	for _, entry := range page.Entries {
		entries = append(entries, store.FromEntry(entry))
	}
	return entries, page.Total, nil
}

// Show is rejected: consumers page the feed rather than address single rows.
func (s *LogService) Show(crud.Context, string, []repository.SelectCriteria) (*store.LogEntry, error) {
	return nil, notSupported(crud.OpRead)
}

func notSupported(op crud.CrudOperation) error {
	return goerrors.New(
		fmt.Sprintf("go-activitylog: crud operation %s disabled for this resource", op),
		goerrors.CategoryValidation,
	).WithCode(goerrors.CodeBadRequest)
}
