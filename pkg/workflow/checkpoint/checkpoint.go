package checkpoint

import (
	"encoding/json"
	"time"
)

// Version is the current checkpoint format version.
// Increment on breaking changes to the envelope.
const Version = 1

// Checkpoint is the persisted snapshot envelope. No schema versioning is
// assumed for the state payload itself; readers must tolerate forward and
// backward compatible field sets.
type Checkpoint struct {
	Version      int       `json:"version"`
	ExecutionID  string    `json:"execution_id"`
	WorkflowName string    `json:"workflow_name"`
	NodeID       string    `json:"node_id"`
	Sequence     int       `json:"sequence"`
	Timestamp    time.Time `json:"timestamp"`

	// State is the serialized ExecutionState at snapshot time.
	State json.RawMessage `json:"state"`
}

// New creates a checkpoint envelope. State must already be serialized.
func New(executionID, workflowName, nodeID string, sequence int, state []byte) *Checkpoint {
	return &Checkpoint{
		Version:      Version,
		ExecutionID:  executionID,
		WorkflowName: workflowName,
		NodeID:       nodeID,
		Sequence:     sequence,
		Timestamp:    time.Now().UTC(),
		State:        state,
	}
}

// Marshal serializes the checkpoint to JSON.
func (c *Checkpoint) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal deserializes a checkpoint from JSON.
func Unmarshal(data []byte) (*Checkpoint, error) {
	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
