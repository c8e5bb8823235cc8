package pipeline

import "fmt"

// Stage names a pipeline step
type Stage string

// stages that can abort a run
const (
	StageFetch   Stage = "fetch"
	StageEnrich  Stage = "enrich"
	StageRender  Stage = "render"
	StageDeliver Stage = "deliver"
)

// StageError is returned by Run when a stage aborts the run
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
