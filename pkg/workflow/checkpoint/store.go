// Package checkpoint provides persistent execution snapshots for resume.
//
// A store holds at most one record per execution ID; every save overwrites
// the whole record. Content is opaque to the store: it is whatever the
// execution state contained at snapshot time, wrapped in the Checkpoint
// envelope.
package checkpoint

import (
	"errors"
	"sort"
	"time"
)

// Store persists checkpoints keyed strictly by execution ID.
// Implementations must be safe for concurrent use across distinct
// execution IDs and must serialize writes for a single ID.
type Store interface {
	// Save stores the checkpoint for an execution, overwriting any
	// previous record. Idempotent.
	Save(executionID string, data []byte) error

	// Load retrieves the checkpoint for an execution.
	// Returns ErrNotFound if none exists.
	Load(executionID string) ([]byte, error)

	// Delete removes the checkpoint for an execution.
	// Returns nil if none exists.
	Delete(executionID string) error

	// List returns metadata for every stored checkpoint, ordered by
	// execution ID. Returns an empty slice, not an error, when empty.
	List() ([]Info, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Info is checkpoint metadata, available without loading the full record.
type Info struct {
	ExecutionID string
	Timestamp   time.Time
	Size        int64
}

// sortInfos orders checkpoint metadata by execution ID.
func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ExecutionID < infos[j].ExecutionID
	})
}

// Sentinel errors for checkpoint operations.
var (
	// ErrNotFound indicates no checkpoint exists for the execution.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("checkpoint store closed")
)
