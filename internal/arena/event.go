package arena

import "github.com/hpn/prompt-arena/internal/domain"

// EventType tags the payload carried by an Event.
type EventType string

const (
	// EventStatus reports one model transition.
	EventStatus EventType = "status"

	// EventAggregation carries the evaluator verdict.
	EventAggregation EventType = "aggregation"

	// EventDone carries the final run state and ends the stream.
	EventDone EventType = "done"
)

// Event is one incremental update of a run.
type Event struct {
	Type  EventType `json:"type"`
	RunID string    `json:"run_id"`

	// Set on status events.
	ModelID domain.ModelID           `json:"model,omitempty"`
	Status  domain.Status            `json:"status,omitempty"`
	Result  *domain.CompletionResult `json:"result,omitempty"`

	Aggregation *domain.AggregationResult `json:"aggregation,omitempty"`
	State       *domain.RunState          `json:"state,omitempty"`
}
