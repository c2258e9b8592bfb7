package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeBatchCompleted is emitted after a matching batch finishes.
	EventTypeBatchCompleted = "crewmatch.batch.completed"
)

// BatchCompletedEvent is a transport-neutral summary of a finished
// matching batch.
type BatchCompletedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// Requirements is the batch size; Succeeded and Failed partition it.
	Requirements int `json:"requirements"`
	Succeeded    int `json:"succeeded"`
	Failed       int `json:"failed"`

	// TopK is the user-facing result size the batch ran with.
	TopK int `json:"top_k"`

	DurationMs int64 `json:"duration_ms"`
}
