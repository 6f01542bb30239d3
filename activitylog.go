package activitylog

import "github.com/goliatone/go-activitylog/service"

// Re-export the service package entry point so consumers can do
// `activitylog.New(...)` without importing internal wiring helpers.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
	Queries  = service.Queries
	Settings = service.Settings
)

// New constructs the go-activitylog runtime using the provided configuration.
func New(cfg Config) (*Service, error) {
	return service.New(cfg)
}
