// Package lifecycle tracks which scenario a lane is running and how many of
// its steps have completed.
//
// A Tracker is plain mutable state without locking. Each execution lane owns
// its own instance; sharing one between lanes running scenarios concurrently
// mixes their step indices.
package lifecycle

type Position struct {
	ScenarioName string
	StepIndex    int
}

type Tracker struct {
	pos Position
}

func New() *Tracker {
	return &Tracker{}
}

// StartScenario records name and resets the step index to zero.
func (t *Tracker) StartScenario(name string) {
	t.pos = Position{ScenarioName: name}
}

// CompleteStep advances the index whatever the step outcome was and returns
// the new value.
func (t *Tracker) CompleteStep() int {
	t.pos.StepIndex++
	return t.pos.StepIndex
}

func (t *Tracker) Current() Position {
	return t.pos
}
