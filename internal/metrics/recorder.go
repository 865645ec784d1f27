package metrics

import "time"

// Outcome labels the result of a generation run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// Recorder receives generation metrics.
type Recorder interface {
	ObserveGenerationDuration(d time.Duration)
	IncGenerationOutcome(outcome Outcome)
	SetHooksDiscovered(n int)
	SetDocumentBytes(n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) ObserveGenerationDuration(time.Duration) {}
func (NoopRecorder) IncGenerationOutcome(Outcome)            {}
func (NoopRecorder) SetHooksDiscovered(int)                  {}
func (NoopRecorder) SetDocumentBytes(int)                    {}
