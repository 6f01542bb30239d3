package crudsvc

import (
	"context"
	"testing"

	"github.com/goliatone/go-crud"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-activitylog/command"
	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/goliatone/go-activitylog/store"
)

func TestLogServiceCreateEnqueuesEntry(t *testing.T) {
	recorder := &fakeRecorder{}
	svc := NewLogService(LogServiceConfig{
		LogCommand: command.NewLogCommand(command.LogConfig{Recorder: recorder}),
	})

	record := store.FromEntry(types.Entry{
		UserID:       uuid.New(),
		UserEmail:    "ada@example.com",
		Action:       types.ActionFileUpload,
		ResourceType: types.ResourceFile,
		ResourceName: "plans.pdf",
	})
	created, err := svc.Create(newTestCrudContext(context.Background()), record)
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, types.ActionFileUpload, recorder.entries[0].Action)
}

func TestLogServiceCreateBatchStopsOnFailure(t *testing.T) {
	recorder := &fakeRecorder{}
	svc := NewLogService(LogServiceConfig{
		LogCommand: command.NewLogCommand(command.LogConfig{Recorder: recorder}),
	})

	valid := store.FromEntry(types.Entry{
		UserID:       uuid.New(),
		UserEmail:    "ada@example.com",
		Action:       types.ActionAPICall,
		ResourceType: types.ResourceSystem,
	})
	invalid := store.FromEntry(types.Entry{})

	_, err := svc.CreateBatch(newTestCrudContext(context.Background()), []*store.LogEntry{valid, invalid})
	require.Error(t, err)
	require.Len(t, recorder.entries, 1)
}

func TestLogServiceIndexParsesFilters(t *testing.T) {
	feed := &fakeFeedQuery{page: types.Page{
		Entries: []types.Entry{{
			UserEmail: "ada@example.com",
			Action:    types.ActionAPICall,
		}},
		Total: 1,
	}}
	svc := NewLogService(LogServiceConfig{FeedQuery: feed})

	userID := uuid.New()
	ctx := newTestCrudContext(context.Background())
	ctx.queries["user_id"] = userID.String()
	ctx.queries["action"] = "api.call"
	ctx.queries["severity"] = "info"
	ctx.queries["since"] = "2026-02-01T00:00:00Z"
	ctx.queries["limit"] = "25"
	ctx.queries["cursor"] = "abc"

	entries, total, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 1, total)

	require.Equal(t, userID, feed.lastFilter.UserID)
	require.Equal(t, types.ActionAPICall, feed.lastFilter.Action)
	require.Equal(t, types.SeverityInfo, feed.lastFilter.Severity)
	require.NotNil(t, feed.lastFilter.Since)
	require.Equal(t, 25, feed.lastFilter.Limit)
	require.Equal(t, "abc", feed.lastFilter.Cursor)
}

func TestLogServiceIndexIgnoresMalformedParams(t *testing.T) {
	feed := &fakeFeedQuery{}
	svc := NewLogService(LogServiceConfig{FeedQuery: feed})

	ctx := newTestCrudContext(context.Background())
	ctx.queries["user_id"] = "not-a-uuid"
	ctx.queries["since"] = "last tuesday"
	ctx.queries["limit"] = "lots"

	_, _, err := svc.Index(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, feed.lastFilter.UserID)
	require.Nil(t, feed.lastFilter.Since)
	require.Equal(t, 50, feed.lastFilter.Limit)
}

func TestLogServiceRejectsMutations(t *testing.T) {
	svc := NewLogService(LogServiceConfig{})
	ctx := newTestCrudContext(context.Background())

	_, err := svc.Update(ctx, &store.LogEntry{})
	require.Error(t, err)

	_, err = svc.UpdateBatch(ctx, nil)
	require.Error(t, err)

	require.Error(t, svc.Delete(ctx, &store.LogEntry{}))
	require.Error(t, svc.DeleteBatch(ctx, nil))

	_, err = svc.Show(ctx, "some-id", nil)
	require.Error(t, err)
}

type fakeRecorder struct {
	entries []types.Entry
}

func (r *fakeRecorder) Log(_ context.Context, entry types.Entry) {
	r.entries = append(r.entries, entry)
}

type fakeFeedQuery struct {
	page       types.Page
	lastFilter types.Filter
}

func (f *fakeFeedQuery) Query(_ context.Context, filter types.Filter) (types.Page, error) {
	f.lastFilter = filter
	return f.page, nil
}

type testCrudContext struct {
	ctx     context.Context
	queries map[string]string
}

func newTestCrudContext(ctx context.Context) *testCrudContext {
	return &testCrudContext{
		ctx:     ctx,
		queries: map[string]string{},
	}
}

func (t *testCrudContext) UserContext() context.Context {
	return t.ctx
}

func (t *testCrudContext) Params(string, ...string) string {
	return ""
}

func (t *testCrudContext) BodyParser(out any) error {
	return nil
}

func (t *testCrudContext) Query(key string, defaultValue ...string) string {
	if v, ok := t.queries[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testCrudContext) QueryValues(key string) []string {
	if v, ok := t.queries[key]; ok {
		return []string{v}
	}
	return nil
}

func (t *testCrudContext) QueryInt(string, ...int) int {
	return 0
}

func (t *testCrudContext) Queries() map[string]string {
	return t.queries
}

func (t *testCrudContext) Body() []byte {
	return nil
}

func (t *testCrudContext) Status(int) crud.Response {
	return t
}

func (t *testCrudContext) JSON(any, ...string) error {
	return nil
}

func (t *testCrudContext) SendStatus(int) error {
	return nil
}
