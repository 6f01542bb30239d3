package store

import (
	"time"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// LogEntry models the persisted row in activity_log.
type LogEntry struct {
	bun.BaseModel `bun:"table:activity_log"`

	ID           uuid.UUID      `bun:",pk,type:uuid"`
	UserID       uuid.UUID      `bun:"user_id,type:uuid"`
	UserEmail    string         `bun:"user_email"`
	UserName     string         `bun:"user_name"`
	Action       string         `bun:"action"`
	ResourceType string         `bun:"resource_type"`
	ResourceID   string         `bun:"resource_id"`
	ResourceName string         `bun:"resource_name"`
	Metadata     map[string]any `bun:"metadata,type:jsonb"`
	IP           string         `bun:"ip"`
	UserAgent    string         `bun:"user_agent"`
	Location     string         `bun:"location"`
	Severity     string         `bun:"severity"`
	Description  string         `bun:"description"`
	CreatedAt    time.Time      `bun:"created_at"`
}

func fromEntry(entry types.Entry) *LogEntry {
	return &LogEntry{
		ID:           entry.ID,
		UserID:       entry.UserID,
		UserEmail:    entry.UserEmail,
		UserName:     entry.UserName,
		Action:       string(entry.Action),
		ResourceType: string(entry.ResourceType),
		ResourceID:   entry.ResourceID,
		ResourceName: entry.ResourceName,
		Metadata:     types.CloneMetadata(entry.Metadata),
		IP:           entry.IP,
		UserAgent:    entry.UserAgent,
		Location:     entry.Location,
		Severity:     string(entry.Severity),
		Description:  entry.Description,
		CreatedAt:    entry.CreatedAt,
	}
}

func toEntry(model *LogEntry) types.Entry {
	if model == nil {
		return types.Entry{}
	}
	return types.Entry{
		ID:           model.ID,
		UserID:       model.UserID,
		UserEmail:    model.UserEmail,
		UserName:     model.UserName,
		Action:       types.Action(model.Action),
		ResourceType: types.ResourceType(model.ResourceType),
		ResourceID:   model.ResourceID,
		ResourceName: model.ResourceName,
		Metadata:     types.CloneMetadata(model.Metadata),
		IP:           model.IP,
		UserAgent:    model.UserAgent,
		Location:     model.Location,
		Severity:     types.Severity(model.Severity),
		Description:  model.Description,
		CreatedAt:    model.CreatedAt,
	}
}

// FromEntry converts a domain entry into the Bun model so transports can reuse
// the conversion without duplicating it.
func FromEntry(entry types.Entry) *LogEntry {
	return fromEntry(entry)
}

// ToEntry converts the Bun model into the domain entry.
func ToEntry(model *LogEntry) types.Entry {
	return toEntry(model)
}
