package store

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestEnricherChainOrder(t *testing.T) {
	ctx := context.Background()
	entry := types.Entry{
		Metadata: map[string]any{"orig": "1"},
	}

	chain := EnricherChain{
		EnricherFunc(func(_ context.Context, e types.Entry) (types.Entry, error) {
			e.Metadata = types.CloneMetadata(e.Metadata)
			e.Metadata["first"] = "yes"
			return e, nil
		}),
		EnricherFunc(func(_ context.Context, e types.Entry) (types.Entry, error) {
			e.Metadata = types.CloneMetadata(e.Metadata)
			e.Metadata["second"] = "yes"
			return e, nil
		}),
	}

	out, err := chain.Enrich(ctx, entry)
	require.NoError(t, err)
	require.Equal(t, "1", out.Metadata["orig"])
	require.Equal(t, "yes", out.Metadata["first"])
	require.Equal(t, "yes", out.Metadata["second"])
}

func TestEnricherChainContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	entry := types.Entry{}

	chain := EnricherChain{
		EnricherFunc(func(_ context.Context, e types.Entry) (types.Entry, error) {
			e.IP = "10.0.0.1"
			return e, nil
		}),
		EnricherFunc(func(_ context.Context, e types.Entry) (types.Entry, error) {
			return types.Entry{}, errors.New("geo lookup down")
		}),
		EnricherFunc(func(_ context.Context, e types.Entry) (types.Entry, error) {
			e.UserAgent = "curl/8.0"
			return e, nil
		}),
	}

	out, err := chain.Enrich(ctx, entry)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.1", out.IP)
	require.Equal(t, "curl/8.0", out.UserAgent)
}

func TestClientContextEnricher(t *testing.T) {
	ctx := WithClientContext(context.Background(), ClientContext{
		IP:        "203.0.113.7",
		UserAgent: "Mozilla/5.0",
		Location:  "Berlin, DE",
	})

	out, err := ClientContextEnricher().Enrich(ctx, types.Entry{})
	require.NoError(t, err)
	require.Equal(t, "203.0.113.7", out.IP)
	require.Equal(t, "Mozilla/5.0", out.UserAgent)
	require.Equal(t, "Berlin, DE", out.Location)
}

func TestClientContextEnricherKeepsExplicitValues(t *testing.T) {
	ctx := WithClientContext(context.Background(), ClientContext{
		IP: "203.0.113.7",
	})

	out, err := ClientContextEnricher().Enrich(ctx, types.Entry{IP: "198.51.100.4"})
	require.NoError(t, err)
	require.Equal(t, "198.51.100.4", out.IP)
}

func TestClientContextEnricherNoContext(t *testing.T) {
	out, err := ClientContextEnricher().Enrich(context.Background(), types.Entry{})
	require.NoError(t, err)
	require.Empty(t, out.IP)
	require.Empty(t, out.UserAgent)
}
