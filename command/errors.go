package command

import (
	"errors"

	"github.com/goliatone/go-activitylog/pkg/types"
)

var (
	// ErrInvalidBatchSize indicates a negative cleanup batch size.
	ErrInvalidBatchSize = errors.New("go-activitylog: cleanup batch size must not be negative")
	// ErrMissingRecorder indicates the log command has no recorder wired.
	ErrMissingRecorder = types.ErrMissingRecorder
	// ErrMissingRepository indicates the cleanup command has no repository wired.
	ErrMissingRepository = types.ErrMissingRepository
)
