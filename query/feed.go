// Package query exposes go-command compatible read models over the activity
// log: the paginated feed, the stats aggregator, and the anomaly detector.
package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-activitylog/pkg/types"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// FeedQuery renders paginated activity feeds for dashboards, newest first.
type FeedQuery struct {
	repo types.Repository
}

// NewFeedQuery constructs the feed query helper.
func NewFeedQuery(repo types.Repository) *FeedQuery {
	return &FeedQuery{repo: repo}
}

var _ gocommand.Querier[types.Filter, types.Page] = (*FeedQuery)(nil)

// Query fetches a page of entries via the injected repository.
func (q *FeedQuery) Query(ctx context.Context, filter types.Filter) (types.Page, error) {
	if q.repo == nil {
		return types.Page{}, types.ErrMissingRepository
	}
	filter.Limit = normalizeLimit(filter.Limit)
	return q.repo.List(ctx, filter)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
