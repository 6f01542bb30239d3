package types

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity classifies an entry and drives the escalation path: error-severity
// entries bypass batching and are written immediately.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Known reports whether the severity is part of the closed set.
func (s Severity) Known() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// ResourceType identifies the kind of entity an entry refers to.
type ResourceType string

const (
	ResourceUser         ResourceType = "user"
	ResourceProject      ResourceType = "project"
	ResourceQuote        ResourceType = "quote"
	ResourceFile         ResourceType = "file"
	ResourceConsultation ResourceType = "consultation"
	ResourceMessage      ResourceType = "message"
	ResourceNotification ResourceType = "notification"
	ResourceSystem       ResourceType = "system"
)

// Known reports whether the resource type is part of the closed set.
func (r ResourceType) Known() bool {
	switch r {
	case ResourceUser, ResourceProject, ResourceQuote, ResourceFile,
		ResourceConsultation, ResourceMessage, ResourceNotification, ResourceSystem:
		return true
	}
	return false
}

// Entry is one immutable audit record. ID doubles as an idempotency key: it is
// generated client-side at enqueue time so the escalation write and the later
// batched write of the same critical entry collapse into a single row.
// CreatedAt is assigned by the store at commit time, never by the caller.
type Entry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	UserEmail    string
	UserName     string
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	ResourceName string
	Metadata     map[string]any
	CreatedAt    time.Time
	IP           string
	UserAgent    string
	Location     string
	Severity     Severity
	Description  string
}

// Validate checks the fields required before an entry may be enqueued.
func (e Entry) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if strings.TrimSpace(e.UserEmail) == "" {
		return ErrUserEmailRequired
	}
	if !e.Action.Known() {
		return ErrUnknownAction
	}
	if !e.ResourceType.Known() {
		return ErrUnknownResourceType
	}
	if e.Severity != "" && !e.Severity.Known() {
		return ErrUnknownSeverity
	}
	return nil
}

// Clone returns a copy with the metadata map detached from the original so
// callers can keep mutating their map after Log returns.
func (e Entry) Clone() Entry {
	out := e
	out.Metadata = CloneMetadata(e.Metadata)
	return out
}

// CloneMetadata copies a metadata bag, normalizing nil to an empty map.
func CloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Filter narrows the activity feed. All predicates are optional and combined
// with AND. Cursor is the opaque keyset-pagination token returned by the
// previous page.
type Filter struct {
	UserID       uuid.UUID
	Action       Action
	ResourceType ResourceType
	Severity     Severity
	Since        *time.Time
	Until        *time.Time
	Limit        int
	Cursor       string
}

// ScanFilter narrows full-range scans used by the stats aggregator and the
// anomaly detector. Unlike Filter it is never paginated.
type ScanFilter struct {
	UserID     uuid.UUID
	Actions    []Action
	Severities []Severity
	Since      *time.Time
	Until      *time.Time
}

// StatsFilter is the coarse filter accepted by the stats aggregator.
type StatsFilter struct {
	UserID uuid.UUID
	Since  *time.Time
	Until  *time.Time
}

// Scan converts the stats filter into the repository scan filter.
func (f StatsFilter) Scan() ScanFilter {
	return ScanFilter{
		UserID: f.UserID,
		Since:  f.Since,
		Until:  f.Until,
	}
}

// SuspiciousFilter controls the anomaly detector window. A zero Now defers to
// the detector's clock.
type SuspiciousFilter struct {
	Now *time.Time
}

// Page is one page of the activity feed, newest first.
type Page struct {
	Entries    []Entry
	NextCursor string
	HasMore    bool
	Total      int
}

// UserCount pairs a user with their activity count for top-N rollups.
type UserCount struct {
	UserID    uuid.UUID
	UserEmail string
	Count     int
}

// Stats aggregates a filtered range of entries. Hourly buckets activity by the
// hour component of CreatedAt in local server time.
type Stats struct {
	Total      int
	ByAction   map[Action]int
	BySeverity map[Severity]int
	TopUsers   []UserCount
	Hourly     [24]int
}

// Recorder is the fire-and-forget write contract consumed by business code.
// Log returns once the entry is enqueued; storage failures never reach the
// caller.
type Recorder interface {
	Log(ctx context.Context, entry Entry)
}

// Sink persists a single entry synchronously. The store repository implements
// it for the escalation path.
type Sink interface {
	Log(ctx context.Context, entry Entry) error
}

// BatchWriter persists many entries in one atomic transaction.
type BatchWriter interface {
	Insert(ctx context.Context, entries ...Entry) error
}

// Repository exposes read-side and retention access to persisted entries.
type Repository interface {
	List(ctx context.Context, filter Filter) (Page, error)
	ScanRange(ctx context.Context, filter ScanFilter) ([]Entry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time, batchSize int) (int, error)
}

// Store combines every persistence contract the service wires together.
type Store interface {
	Sink
	BatchWriter
	Repository
}

// Hooks groups optional callbacks invoked after key operations complete.
type Hooks struct {
	AfterLog     func(context.Context, Entry)
	AfterFlush   func(context.Context, int)
	AfterCleanup func(context.Context, int)
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures the operator-visible error channel plus basic diagnostics.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID implements IDGenerator.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrUserIDRequired indicates an entry was missing the acting user id.
	ErrUserIDRequired = errors.New("go-activitylog: user id required")
	// ErrUserEmailRequired indicates an entry was missing the acting user email.
	ErrUserEmailRequired = errors.New("go-activitylog: user email required")
	// ErrUnknownAction indicates an action outside the closed enumeration.
	ErrUnknownAction = errors.New("go-activitylog: unknown action")
	// ErrUnknownResourceType indicates a resource type outside the closed enumeration.
	ErrUnknownResourceType = errors.New("go-activitylog: unknown resource type")
	// ErrUnknownSeverity indicates a severity outside info/warning/error.
	ErrUnknownSeverity = errors.New("go-activitylog: unknown severity")
	// ErrInvalidCursor indicates a pagination cursor that could not be decoded.
	ErrInvalidCursor = errors.New("go-activitylog: invalid pagination cursor")
	// ErrMissingSink occurs when no sink was supplied.
	ErrMissingSink = errors.New("go-activitylog: missing sink")
	// ErrMissingRecorder occurs when no recorder was supplied.
	ErrMissingRecorder = errors.New("go-activitylog: missing recorder")
	// ErrMissingRepository occurs when no repository was supplied.
	ErrMissingRepository = errors.New("go-activitylog: missing repository")
	// ErrMissingStore occurs when the batching service has no store to write to.
	ErrMissingStore = errors.New("go-activitylog: missing store")
)
