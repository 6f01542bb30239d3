package command

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-activitylog/pkg/types"
)

// LogInput wraps an entry to enqueue through the batching recorder.
type LogInput struct {
	Entry types.Entry
}

// Type implements gocommand.Message.
func (LogInput) Type() string {
	return "command.activitylog.record"
}

// Validate implements gocommand.Message.
func (input LogInput) Validate() error {
	return input.Entry.Validate()
}

// LogCommand records activity entries through the batching recorder.
type LogCommand struct {
	recorder types.Recorder
	hooks    types.Hooks
}

// LogConfig wires dependencies for the record command.
type LogConfig struct {
	Recorder types.Recorder
	Hooks    types.Hooks
}

// NewLogCommand constructs the record command handler.
func NewLogCommand(cfg LogConfig) *LogCommand {
	return &LogCommand{
		recorder: cfg.Recorder,
		hooks:    cfg.Hooks,
	}
}

var _ gocommand.Commander[LogInput] = (*LogCommand)(nil)

// Execute validates the entry and hands it to the recorder. The recorder is
// fire-and-forget, so a nil error here means enqueued, not persisted.
func (c *LogCommand) Execute(ctx context.Context, input LogInput) error {
	if c.recorder == nil {
		return types.ErrMissingRecorder
	}
	if err := input.Validate(); err != nil {
		return err
	}
	c.recorder.Log(ctx, input.Entry)
	emitLogHook(ctx, c.hooks, input.Entry)
	return nil
}
