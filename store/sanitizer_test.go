package store

import (
	"testing"

	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestSanitizeMetadataMasksSensitiveKeys(t *testing.T) {
	metadata := map[string]any{
		"password": "hunter2",
		"token":    "abc123",
		"plan":     "premium",
	}

	masked := SanitizeMetadata(nil, metadata)
	require.NotEqual(t, "hunter2", masked["password"])
	require.NotEqual(t, "abc123", masked["token"])
	require.Equal(t, "premium", masked["plan"])

	// Input bag stays untouched.
	require.Equal(t, "hunter2", metadata["password"])
}

func TestSanitizeMetadataEmptyBag(t *testing.T) {
	require.Nil(t, SanitizeMetadata(nil, nil))
	require.Empty(t, SanitizeMetadata(nil, map[string]any{}))
}

func TestSanitizeEntry(t *testing.T) {
	entry := types.Entry{
		Metadata: map[string]any{"secret": "s3cr3t", "ok": "keep"},
	}
	out := SanitizeEntry(nil, entry)
	require.NotEqual(t, "s3cr3t", out.Metadata["secret"])
	require.Equal(t, "keep", out.Metadata["ok"])
}
