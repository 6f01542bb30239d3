// Package command exposes go-command compatible handlers for the activity
// log write path: recording entries and retention cleanup. Commands are wired
// by the service layer and can be invoked by any transport or scheduler.
package command
