package service

import (
	"time"

	opts "github.com/goliatone/go-options"

	"github.com/goliatone/go-activitylog/batch"
	"github.com/goliatone/go-activitylog/command"
)

// Setting keys hosts can override via Config.Settings.
const (
	SettingFlushSize    = "flush_size"
	SettingFlushDelayMS = "flush_delay_ms"
	SettingRetention    = "retention_days"
)

// Settings holds the effective batching and retention configuration after
// merging defaults with host overrides.
type Settings struct {
	FlushSize     int
	FlushDelay    time.Duration
	RetentionDays int
}

func defaultSettings() map[string]any {
	return map[string]any{
		SettingFlushSize:    batch.DefaultFlushSize,
		SettingFlushDelayMS: int(batch.DefaultFlushDelay / time.Millisecond),
		SettingRetention:    command.DefaultRetentionDays,
	}
}

// resolveSettings merges the built-in defaults with host-supplied overrides.
// The host layer wins on key conflicts.
func resolveSettings(overrides map[string]any) (Settings, error) {
	defScope := opts.NewScope("defaults", opts.ScopePrioritySystem,
		opts.WithScopeLabel("Built-in Defaults"))
	layers := []opts.Layer[map[string]any]{
		opts.NewLayer(defScope, defaultSettings(), opts.WithSnapshotID[map[string]any](defScope.Name)),
	}
	if len(overrides) > 0 {
		hostScope := opts.NewScope("host", opts.ScopePriorityUser,
			opts.WithScopeLabel("Host Overrides"))
		layers = append(layers, opts.NewLayer(hostScope, overrides, opts.WithSnapshotID[map[string]any](hostScope.Name)))
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return Settings{}, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return Settings{}, err
	}

	values := merged.Value
	resolved := Settings{
		FlushSize:     intSetting(values, SettingFlushSize, batch.DefaultFlushSize),
		RetentionDays: intSetting(values, SettingRetention, command.DefaultRetentionDays),
	}
	delayMS := intSetting(values, SettingFlushDelayMS, int(batch.DefaultFlushDelay/time.Millisecond))
	resolved.FlushDelay = time.Duration(delayMS) * time.Millisecond
	return resolved, nil
}

// intSetting coerces the numeric types that survive JSON decoding.
func intSetting(values map[string]any, key string, fallback int) int {
	raw, ok := values[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
