package query

import (
	"context"
	"sort"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/google/uuid"
)

const topUserCount = 10

// StatsQuery aggregates activity counts for dashboard widgets. Each call
// performs a full scan of the filtered range and recomputes the rollups.
// O(n) over the matched entries, acceptable while retention bounds the
// corpus; deliberately uncached since it serves an admin dashboard rather
// than a hot path.
type StatsQuery struct {
	repo types.Repository
}

// NewStatsQuery constructs the stats helper.
func NewStatsQuery(repo types.Repository) *StatsQuery {
	return &StatsQuery{repo: repo}
}

var _ gocommand.Querier[types.StatsFilter, types.Stats] = (*StatsQuery)(nil)

// Query scans the filtered range and computes total, per-action, per-severity,
// top-10 users, and an hourly histogram keyed by the hour component of
// CreatedAt in local server time.
func (q *StatsQuery) Query(ctx context.Context, filter types.StatsFilter) (types.Stats, error) {
	if q.repo == nil {
		return types.Stats{}, types.ErrMissingRepository
	}
	entries, err := q.repo.ScanRange(ctx, filter.Scan())
	if err != nil {
		return types.Stats{}, err
	}

	stats := types.Stats{
		ByAction:   make(map[types.Action]int),
		BySeverity: make(map[types.Severity]int),
	}
	type userTotal struct {
		email string
		count int
	}
	users := make(map[uuid.UUID]*userTotal)

	for _, entry := range entries {
		stats.Total++
		stats.ByAction[entry.Action]++
		stats.BySeverity[entry.Severity]++
		stats.Hourly[entry.CreatedAt.Local().Hour()]++

		total, ok := users[entry.UserID]
		if !ok {
			total = &userTotal{email: entry.UserEmail}
			users[entry.UserID] = total
		}
		total.count++
	}

	top := make([]types.UserCount, 0, len(users))
	for id, total := range users {
		top = append(top, types.UserCount{
			UserID:    id,
			UserEmail: total.email,
			Count:     total.count,
		})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if len(top) > topUserCount {
		top = top[:topUserCount]
	}
	stats.TopUsers = top
	return stats, nil
}
