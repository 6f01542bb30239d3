package export

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-activitylog/pkg/types"
)

func TestCSVExporterWritesHeaderAndRows(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	feed := &fakeFeed{pages: []types.Page{{
		Entries: []types.Entry{{
			UserID:       uuid.New(),
			UserEmail:    "ada@example.com",
			UserName:     "Ada",
			Action:       types.ActionQuoteAccept,
			ResourceType: types.ResourceQuote,
			ResourceName: "Kitchen remodel",
			Severity:     types.SeverityInfo,
			Description:  "Accepted quote Kitchen remodel",
			IP:           "203.0.113.7",
			CreatedAt:    createdAt,
		}},
	}}}

	out, err := NewCSVExporter(feed).Export(ctx, types.Filter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, csvHeader, records[0])
	require.Equal(t, createdAt.Format(time.RFC3339Nano), records[1][0])
	require.Equal(t, "ada@example.com", records[1][1])
	require.Equal(t, "quote.accept", records[1][3])
	require.Equal(t, "Kitchen remodel", records[1][5])
}

func TestCSVExporterRoundTripsSpecialCharacters(t *testing.T) {
	ctx := context.Background()
	feed := &fakeFeed{pages: []types.Page{{
		Entries: []types.Entry{{
			UserEmail:    "ada@example.com",
			Action:       types.ActionProjectUpdate,
			ResourceType: types.ResourceProject,
			ResourceName: `Annex "B", floors 2-4`,
			Description:  "Updated project\nwith a newline, and commas",
		}},
	}}}

	out, err := NewCSVExporter(feed).Export(ctx, types.Filter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, `Annex "B", floors 2-4`, records[1][5])
	require.Equal(t, "Updated project\nwith a newline, and commas", records[1][7])
}

func TestCSVExporterWalksAllPages(t *testing.T) {
	ctx := context.Background()
	feed := &fakeFeed{pages: []types.Page{
		{
			Entries:    []types.Entry{{UserEmail: "a@example.com", Action: types.ActionAPICall}},
			HasMore:    true,
			NextCursor: "page-2",
		},
		{
			Entries:    []types.Entry{{UserEmail: "b@example.com", Action: types.ActionAPICall}},
			HasMore:    true,
			NextCursor: "page-3",
		},
		{
			Entries: []types.Entry{{UserEmail: "c@example.com", Action: types.ActionAPICall}},
		},
	}}

	out, err := NewCSVExporter(feed).Export(ctx, types.Filter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	require.Equal(t, []string{"", "page-2", "page-3"}, feed.cursors)
}

func TestCSVExporterEmptyResult(t *testing.T) {
	feed := &fakeFeed{pages: []types.Page{{}}}
	out, err := NewCSVExporter(feed).Export(context.Background(), types.Filter{})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestCSVExporterRequiresFeed(t *testing.T) {
	_, err := NewCSVExporter(nil).Export(context.Background(), types.Filter{})
	require.ErrorIs(t, err, types.ErrMissingRepository)
}

type fakeFeed struct {
	pages   []types.Page
	cursors []string
	call    int
}

func (f *fakeFeed) Query(_ context.Context, filter types.Filter) (types.Page, error) {
	f.cursors = append(f.cursors, filter.Cursor)
	page := f.pages[f.call]
	if f.call < len(f.pages)-1 {
		f.call++
	}
	return page, nil
}
