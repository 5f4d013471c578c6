package diagnosis

import "fmt"

// State tracks a diagnosis through the pipeline. Complete and Failed are
// terminal; Failed is reachable from any non-terminal state.
type State string

const (
	StatePendingValidation State = "pending_validation"
	StateValidated         State = "validated"
	StateDecoded           State = "decoded"
	StateClassified        State = "classified"
	StateEnriched          State = "enriched"
	StateComplete          State = "complete"
	StateFailed            State = "failed"
)

var transitions = map[State]State{
	StatePendingValidation: StateValidated,
	StateValidated:         StateDecoded,
	StateDecoded:           StateClassified,
	StateClassified:        StateEnriched,
	StateEnriched:          StateComplete,
}

type run struct {
	state  State
	reason string
}

func newRun() *run {
	return &run{state: StatePendingValidation}
}

// advance moves to the next pipeline state, panicking on an out-of-order
// transition; those are programming errors, not runtime conditions.
func (r *run) advance(next State) {
	if r.state == StateFailed || r.state == StateComplete {
		panic(fmt.Sprintf("diagnosis: transition from terminal state %s", r.state))
	}
	if transitions[r.state] != next {
		panic(fmt.Sprintf("diagnosis: invalid transition %s -> %s", r.state, next))
	}
	r.state = next
}

// fail moves to the terminal Failed state, recording the reason.
func (r *run) fail(reason string) {
	r.state = StateFailed
	r.reason = reason
}
