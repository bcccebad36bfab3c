package gesture

import (
	"context"

	"tabula/internal/events"
)

// Pipeline chains stage 1 (persistence) and stage 2 (tap recognition)
// under one cancelable scope, mirroring keystream.Pipeline.
type Pipeline struct {
	cancel context.CancelFunc
	input  chan events.TouchReport
	output <-chan events.TapEvent
}

// New builds and starts the gesturestream pipeline.
func New(ctx context.Context) *Pipeline {
	scope, cancel := context.WithCancel(ctx)
	input := make(chan events.TouchReport)
	persisted := StagePersist(scope, input)
	taps := StageRecognize(scope, persisted)
	return &Pipeline{cancel: cancel, input: input, output: taps}
}

// Input is where the device adapter's touchscreen reader feeds raw frames.
func (p *Pipeline) Input() chan<- events.TouchReport { return p.input }

// Output is the tap-event stream the event bus reads from.
func (p *Pipeline) Output() <-chan events.TapEvent { return p.output }

// Close cancels the pipeline's scope.
func (p *Pipeline) Close() { p.cancel() }
