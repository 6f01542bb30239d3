package store

import (
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-activitylog/pkg/types"
)

// SanitizerConfig controls the masker used for metadata sanitization.
type SanitizerConfig struct {
	Masker *masker.Masker
}

var defaultMaskerOnce sync.Once

// DefaultMasker returns a configured masker instance with the default denylist.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeMetadata masks sensitive values in a metadata bag before it reaches
// the store. On masking failure the bag is dropped entirely rather than risk
// persisting a credential.
func SanitizeMetadata(mask *masker.Masker, metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return metadata
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		return map[string]any{}
	}

	cloned := types.CloneMetadata(metadata)
	masked, err := mask.Mask(cloned)
	if err != nil {
		return map[string]any{}
	}

	switch masked := masked.(type) {
	case map[string]any:
		return masked
	default:
		return map[string]any{}
	}
}

// SanitizeEntry masks sensitive values in the entry metadata.
func SanitizeEntry(mask *masker.Masker, entry types.Entry) types.Entry {
	entry.Metadata = SanitizeMetadata(mask, entry.Metadata)
	return entry
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("secret", "filled4")
	mask.RegisterMaskField("Secret", "filled4")
	mask.RegisterMaskField("password", "filled4")
	mask.RegisterMaskField("token", "filled4")
	mask.RegisterMaskField("apiKey", "filled4")
}
