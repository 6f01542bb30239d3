package command

import (
	"context"
	"strings"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/google/uuid"
)

// EntryOption mutates entries produced by the convenience builders.
type EntryOption func(*types.Entry)

// WithUserName sets the display name recorded alongside the user email.
func WithUserName(name string) EntryOption {
	return func(entry *types.Entry) {
		entry.UserName = strings.TrimSpace(name)
	}
}

// WithSeverity overrides the action's default severity band.
func WithSeverity(severity types.Severity) EntryOption {
	return func(entry *types.Entry) {
		entry.Severity = severity
	}
}

// WithMetadata attaches action-specific context; the map is defensively copied.
func WithMetadata(metadata map[string]any) EntryOption {
	return func(entry *types.Entry) {
		entry.Metadata = types.CloneMetadata(metadata)
	}
}

// WithClientInfo attaches request context when the transport already has it.
func WithClientInfo(ip, userAgent, location string) EntryOption {
	return func(entry *types.Entry) {
		entry.IP = strings.TrimSpace(ip)
		entry.UserAgent = strings.TrimSpace(userAgent)
		entry.Location = strings.TrimSpace(location)
	}
}

// BuildAuthEntry builds a well-formed authentication entry. The resource is
// the user themselves.
func BuildAuthEntry(userID uuid.UUID, email string, action types.Action, opts ...EntryOption) types.Entry {
	entry := types.Entry{
		UserID:       userID,
		UserEmail:    strings.TrimSpace(email),
		Action:       action,
		ResourceType: types.ResourceUser,
		ResourceID:   userID.String(),
		Severity:     action.DefaultSeverity(),
		Description:  types.DescriptionFor(action, ""),
		Metadata:     map[string]any{},
	}
	return applyEntryOptions(entry, opts)
}

// BuildResourceEntry builds a well-formed entry for an operation on a named
// resource.
func BuildResourceEntry(userID uuid.UUID, email string, action types.Action, resource types.ResourceType, resourceID, resourceName string, opts ...EntryOption) types.Entry {
	entry := types.Entry{
		UserID:       userID,
		UserEmail:    strings.TrimSpace(email),
		Action:       action,
		ResourceType: resource,
		ResourceID:   strings.TrimSpace(resourceID),
		ResourceName: strings.TrimSpace(resourceName),
		Severity:     action.DefaultSeverity(),
		Description:  types.DescriptionFor(action, resourceName),
		Metadata:     map[string]any{},
	}
	return applyEntryOptions(entry, opts)
}

// BuildErrorEntry builds an error-severity entry, which always takes the
// escalation path. The failure is recorded in metadata so the original error
// string survives masking of free-form fields.
func BuildErrorEntry(userID uuid.UUID, email string, action types.Action, resource types.ResourceType, failure error, opts ...EntryOption) types.Entry {
	entry := types.Entry{
		UserID:       userID,
		UserEmail:    strings.TrimSpace(email),
		Action:       action,
		ResourceType: resource,
		Severity:     types.SeverityError,
		Description:  types.DescriptionFor(action, ""),
		Metadata:     map[string]any{},
	}
	if failure != nil {
		entry.Metadata["error"] = failure.Error()
	}
	return applyEntryOptions(entry, opts)
}

func applyEntryOptions(entry types.Entry, opts []EntryOption) types.Entry {
	for _, opt := range opts {
		if opt != nil {
			opt(&entry)
		}
	}
	return entry
}

func safeClock(clock types.Clock) types.Clock {
	if clock != nil {
		return clock
	}
	return types.SystemClock{}
}

func safeLogger(logger types.Logger) types.Logger {
	if logger != nil {
		return logger
	}
	return types.NopLogger{}
}

func emitLogHook(ctx context.Context, hooks types.Hooks, entry types.Entry) {
	if hooks.AfterLog == nil {
		return
	}
	hooks.AfterLog(ctx, entry)
}

func emitCleanupHook(ctx context.Context, hooks types.Hooks, deleted int) {
	if hooks.AfterCleanup == nil {
		return
	}
	hooks.AfterCleanup(ctx, deleted)
}
