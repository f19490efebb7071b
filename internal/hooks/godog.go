package hooks

import (
	"context"

	"github.com/cucumber/godog"
)

// Register binds the lane to a godog scenario context. godog calls the
// scenario initializer once per scenario, so a lane lives for exactly one
// scenario and concurrent scenarios never share a tracker.
func (l *Lane) Register(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return l.ScenarioStart(ctx, s.Name)
	})

	sc.StepContext().After(
		func(ctx context.Context, st *godog.Step, status godog.StepResultStatus, err error) (context.Context, error) {
			if status == godog.StepSkipped || status == godog.StepUndefined || status == godog.StepPending {
				return ctx, nil
			}

			l.AfterEachStep(ctx, st.Text, status == godog.StepFailed || err != nil)

			return ctx, nil
		},
	)

	sc.After(func(ctx context.Context, s *godog.Scenario, err error) (context.Context, error) {
		l.ScenarioEnd(ctx, s.Name, err != nil)
		return ctx, nil
	})
}
