package domain

import "time"

// Status is the lifecycle tag of one model within a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInFlight  Status = "in-flight"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the status ends a model's lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// RunEntry tracks a single model of a run.
type RunEntry struct {
	Status Status            `json:"status"`
	Result *CompletionResult `json:"result,omitempty"`
}

// RunState maps every requested model to its status and result.
// The key set is fixed when the run starts.
type RunState struct {
	RunID     string                `json:"run_id"`
	Order     []ModelID             `json:"order"`
	Entries   map[ModelID]*RunEntry `json:"entries"`
	StartedAt time.Time             `json:"started_at"`
	ElapsedMs int64                 `json:"elapsed_ms"`
}

// NewRunState creates a state with every model pending.
func NewRunState(runID string, models []ModelID, startedAt time.Time) *RunState {
	s := &RunState{
		RunID:     runID,
		Order:     append([]ModelID(nil), models...),
		Entries:   make(map[ModelID]*RunEntry, len(models)),
		StartedAt: startedAt,
	}
	for _, m := range models {
		s.Entries[m] = &RunEntry{Status: StatusPending}
	}
	return s
}

// Settled reports whether every model reached a terminal status.
func (s *RunState) Settled() bool {
	for _, e := range s.Entries {
		if !e.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Succeeded returns the models whose calls succeeded, in request order.
func (s *RunState) Succeeded() []ModelID {
	out := make([]ModelID, 0, len(s.Order))
	for _, m := range s.Order {
		if e := s.Entries[m]; e != nil && e.Status == StatusSucceeded {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s *RunState) Clone() RunState {
	c := RunState{
		RunID:     s.RunID,
		Order:     append([]ModelID(nil), s.Order...),
		Entries:   make(map[ModelID]*RunEntry, len(s.Entries)),
		StartedAt: s.StartedAt,
		ElapsedMs: s.ElapsedMs,
	}
	for k, e := range s.Entries {
		entry := &RunEntry{Status: e.Status}
		if e.Result != nil {
			r := *e.Result
			entry.Result = &r
		}
		c.Entries[k] = entry
	}
	return c
}

// Mode selects how the aggregation step treats the succeeded responses.
type Mode string

const (
	// ModeRank asks the evaluator to pick and justify a single winner.
	ModeRank Mode = "rank"

	// ModeSynthesize asks the evaluator to merge the responses into one answer.
	ModeSynthesize Mode = "synthesize"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeRank || m == ModeSynthesize
}

// AggregationResult is the verdict produced once per run when at least two
// models succeeded.
type AggregationResult struct {
	Verdict          string  `json:"verdict"`
	EvaluatorModelID ModelID `json:"evaluator_model"`
	Mode             Mode    `json:"mode"`

	// Failed is set when Verdict holds an error message instead of a verdict.
	Failed    bool  `json:"failed"`
	LatencyMs int64 `json:"latency_ms"`
}
