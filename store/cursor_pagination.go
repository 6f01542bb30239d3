package store

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Cursor is the keyset-pagination anchor for the activity feed. It references
// the last row of the previous page so consecutive pages never repeat entries
// under a static filter set.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Encode serializes the cursor into the opaque token handed to transports.
func (c Cursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Encode. Empty input yields a nil
// cursor (first page).
func DecodeCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, types.ErrInvalidCursor
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, types.ErrInvalidCursor
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, types.ErrInvalidCursor
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, types.ErrInvalidCursor
	}
	return &Cursor{CreatedAt: ts, ID: id}, nil
}

// ApplyCursorPagination applies keyset pagination using created_at/id
// ordering. Results are ordered by created_at DESC, id DESC, and filtered to
// rows older than the supplied cursor.
func ApplyCursorPagination(q *bun.SelectQuery, cursor *Cursor, limit int) *bun.SelectQuery {
	if q == nil {
		return nil
	}
	q = q.OrderExpr("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if cursor == nil || cursor.CreatedAt.IsZero() {
		return q
	}
	if cursor.ID == uuid.Nil {
		return q.Where("created_at < ?", cursor.CreatedAt)
	}
	return q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
}
