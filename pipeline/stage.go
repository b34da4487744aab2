package pipeline

import (
	"context"
	"time"
)

// Stage is one step of the decision pipeline. Process mutates the
// state in place; stage configuration itself is immutable after
// construction.
type Stage interface {
	Name() string
	Process(ctx context.Context, state *State) error
}

// runStage executes a stage and records its elapsed time under the
// stage name. Timing is recorded even when the stage fails.
func runStage(ctx context.Context, stage Stage, state *State) error {
	start := time.Now()
	err := stage.Process(ctx, state)
	state.TimeMS[stage.Name()] = time.Since(start).Milliseconds()
	return err
}
