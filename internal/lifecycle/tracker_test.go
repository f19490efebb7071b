package lifecycle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTracker(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.StartScenario("X")

	var last int
	for i := 0; i < 3; i++ {
		last = tr.CompleteStep()
	}

	if diff := cmp.Diff(Position{ScenarioName: "X", StepIndex: 3}, tr.Current()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(3, last); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	tr.StartScenario("Y")
	if diff := cmp.Diff(Position{ScenarioName: "Y"}, tr.Current()); diff != "" {
		t.Errorf("reset mismatch (-want, +got):\n%s", diff)
	}
}

func TestTracker_IndependentLanes(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.StartScenario("A")
	b.StartScenario("B")

	a.CompleteStep()
	a.CompleteStep()
	b.CompleteStep()

	if diff := cmp.Diff(2, a.Current().StepIndex); diff != "" {
		t.Errorf("lane a (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(1, b.Current().StepIndex); diff != "" {
		t.Errorf("lane b (-want, +got):\n%s", diff)
	}
}
