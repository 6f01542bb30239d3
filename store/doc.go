// Package store provides the Bun-backed persistence layer for activity log
// entries. The Repository implements the write-side sink and batch-writer
// contracts plus the read-side Repository contract, so the batching service
// can flush through it and dashboards can query it. Host applications can
// swap the repository if they prefer a different storage engine.
package store
