// Package export serializes activity log entries to CSV for admin downloads.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-activitylog/pkg/types"
)

// csvHeader fixes the column order of every export.
var csvHeader = []string{
	"timestamp",
	"user_email",
	"user_name",
	"action",
	"resource_type",
	"resource_name",
	"severity",
	"description",
	"ip",
	"user_agent",
	"location",
}

// CSVExporter pages through the feed query and serializes every matching
// entry. The full result set is buffered in memory, which stays acceptable
// only because retention caps the corpus; an export over unbounded history
// would need streaming instead.
type CSVExporter struct {
	feed gocommand.Querier[types.Filter, types.Page]
}

// NewCSVExporter constructs an exporter over the supplied feed query.
func NewCSVExporter(feed gocommand.Querier[types.Filter, types.Page]) *CSVExporter {
	return &CSVExporter{feed: feed}
}

// Export collects every entry matching the filter and returns the CSV bytes.
func (e *CSVExporter) Export(ctx context.Context, filter types.Filter) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(ctx, filter, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the CSV serialization of every matching entry to w, paging
// through the feed until the cursor is exhausted. Fields with embedded commas
// or quotes round-trip via RFC 4180 quoting.
func (e *CSVExporter) Write(ctx context.Context, filter types.Filter, w io.Writer) error {
	if e.feed == nil {
		return types.ErrMissingRepository
	}
	entries, err := e.collect(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writer.Write(csvRow(entry)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (e *CSVExporter) collect(ctx context.Context, filter types.Filter) ([]types.Entry, error) {
	all := []types.Entry{}
	for {
		page, err := e.feed.Query(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Entries...)
		if !page.HasMore || page.NextCursor == "" {
			return all, nil
		}
		filter.Cursor = page.NextCursor
	}
}

func csvRow(entry types.Entry) []string {
	return []string{
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.UserEmail,
		entry.UserName,
		string(entry.Action),
		string(entry.ResourceType),
		entry.ResourceName,
		string(entry.Severity),
		entry.Description,
		entry.IP,
		entry.UserAgent,
		entry.Location,
	}
}
