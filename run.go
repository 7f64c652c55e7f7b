package farecast

import (
	"time"

	"github.com/google/uuid"
	"github.com/hscells/farecast/model"
)

// State is the phase a training run has reached. Runs move strictly forward
// through the states and never branch back.
type State int

const (
	Loaded State = iota
	Split
	Fitted
	Scored
	Validated
	Exported
)

func (s State) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Split:
		return "split"
	case Fitted:
		return "fitted"
	case Scored:
		return "scored"
	case Validated:
		return "validated"
	case Exported:
		return "exported"
	}
	return "unknown"
}

// Run is the context of one training run: its identity, configuration,
// metrics, and the fitted model. It is threaded through the pipeline's
// steps in place of any global state.
type Run struct {
	ID      uuid.UUID
	Config  Config
	State   State
	Metrics map[string]float64
	Model   *model.Model
	Started time.Time
}

// Metadata is attached to the exported artifact.
type Metadata struct {
	RunID   string    `json:"run_id"`
	Config  Config    `json:"config"`
	Started time.Time `json:"started"`
}
