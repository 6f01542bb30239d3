package query

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-activitylog/pkg/types"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/google/uuid"
)

const (
	// failedLoginThreshold flags a (user, ip) pair once its failed login count
	// exceeds this value within the window. Strictly greater-than: exactly 5
	// does not flag.
	failedLoginThreshold = 5
	// apiCallThreshold flags a user once their api.call count exceeds this
	// value within the window.
	apiCallThreshold = 100
	// suspiciousWindow is how far back both heuristics look.
	suspiciousWindow = time.Hour

	// FeatureAnomalyScan gates the detector; when disabled, Query returns an
	// empty result.
	FeatureAnomalyScan = "activitylog.anomaly_scan"
)

// SuspiciousQuery scans the recent log for brute-force and abuse patterns.
// Pure read side: no state is mutated, and an entry matching both heuristics
// appears twice since the output is meant for human review.
type SuspiciousQuery struct {
	repo  types.Repository
	clock types.Clock
	gate  featuregate.FeatureGate
}

// SuspiciousQueryConfig wires the detector dependencies.
type SuspiciousQueryConfig struct {
	Repository types.Repository
	Clock      types.Clock
	Gate       featuregate.FeatureGate
}

// NewSuspiciousQuery constructs the anomaly detector.
func NewSuspiciousQuery(cfg SuspiciousQueryConfig) *SuspiciousQuery {
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	return &SuspiciousQuery{
		repo:  cfg.Repository,
		clock: clock,
		gate:  cfg.Gate,
	}
}

var _ gocommand.Querier[types.SuspiciousFilter, []types.Entry] = (*SuspiciousQuery)(nil)

// Query returns the union of entries flagged by the failed-login heuristic
// (more than 5 failed logins per (user, ip) in the last hour) and the call
// volume heuristic (more than 100 api.call entries per user in the last hour).
func (q *SuspiciousQuery) Query(ctx context.Context, filter types.SuspiciousFilter) ([]types.Entry, error) {
	if q.repo == nil {
		return nil, types.ErrMissingRepository
	}
	if q.gate != nil {
		if enabled, err := q.gate.Enabled(ctx, FeatureAnomalyScan); err == nil && !enabled {
			return []types.Entry{}, nil
		}
	}
	now := q.clock.Now()
	if filter.Now != nil && !filter.Now.IsZero() {
		now = *filter.Now
	}
	since := now.Add(-suspiciousWindow)

	flagged := []types.Entry{}

	failedLogins, err := q.repo.ScanRange(ctx, types.ScanFilter{
		Actions:    []types.Action{types.ActionAuthLogin},
		Severities: []types.Severity{types.SeverityError},
		Since:      &since,
	})
	if err != nil {
		return nil, err
	}
	byUserIP := make(map[string][]types.Entry)
	for _, entry := range failedLogins {
		key := entry.UserID.String() + "|" + entry.IP
		byUserIP[key] = append(byUserIP[key], entry)
	}
	for _, group := range byUserIP {
		if len(group) > failedLoginThreshold {
			flagged = append(flagged, group...)
		}
	}

	apiCalls, err := q.repo.ScanRange(ctx, types.ScanFilter{
		Actions: []types.Action{types.ActionAPICall},
		Since:   &since,
	})
	if err != nil {
		return nil, err
	}
	byUser := make(map[uuid.UUID][]types.Entry)
	for _, entry := range apiCalls {
		byUser[entry.UserID] = append(byUser[entry.UserID], entry)
	}
	for _, group := range byUser {
		if len(group) > apiCallThreshold {
			flagged = append(flagged, group...)
		}
	}

	return flagged, nil
}
