package condiloader

import (
	"fmt"
	"time"
)

// State is the processing state of one item.
type State int

const (
	StatePending State = iota
	StateConditionChecked
	StateLoading
	StateSettled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateConditionChecked:
		return "condition_checked"
	case StateLoading:
		return "loading"
	case StateSettled:
		return "settled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome is how a settled item ended.
type Outcome string

const (
	// OutcomeSkipped means the condition did not hold.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeReady means every resource loaded and the completion actions ran.
	OutcomeReady Outcome = "ready"
	// OutcomeFailed means a load or a completion action failed.
	OutcomeFailed Outcome = "failed"
)

// Result is the processing report for one item.
type Result struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	State    State         `json:"state"`
	Outcome  Outcome       `json:"outcome,omitempty"`
	Error    string        `json:"error,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration_ns"`
}

// Summary counts results by outcome.
type Summary struct {
	Total   int `json:"total"`
	Ready   int `json:"ready"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeReady:
			s.Ready++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}
