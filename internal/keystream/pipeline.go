// Package keystream implements the multi-stage asynchronous pipeline that
// converts raw key-up/key-down events into annotated, character-bearing
// events (spec.md §4.1). Each stage is a goroutine reading from one bounded
// channel and writing to the next; tearing down the pipeline's context
// cancels every stage at its next channel operation.
package keystream

import (
	"context"

	"tabula/internal/events"
)

// ComposeSequence is one entry of the settings file's `compose_sequences`
// table: a sequence of input characters mapping to one output character.
type ComposeSequence struct {
	Input  []rune
	Output rune
}

// Config configures a pipeline build. EnableComposes installs stages 5 and
// 6; without it, compose key events still leave stage 4 as
// KeyComposeSentinel events but get no character resolution, matching the
// "configuration toggle" in §4.1.
type Config struct {
	ComposeKey events.KeyCode
	Keymap     map[events.KeyCode]KeymapEntry
	Composes   []ComposeSequence
	EnableComposes bool
}

// Pipeline owns the chain of stages running under one cancelable scope.
type Pipeline struct {
	cancel context.CancelFunc
	input  chan events.KeyEvent
	output <-chan events.AnnotatedKeyEvent
}

// New builds and starts a pipeline per Config. The caller feeds raw events
// into Input() and reads annotated events from Output(); closing Close()
// (or canceling a parent context supplied by the device adapter) tears the
// whole chain down, per "reset_keystream" in §4.3.
func New(ctx context.Context, cfg Config) *Pipeline {
	scope, cancel := context.WithCancel(ctx)
	input := make(chan events.KeyEvent)

	stage1 := stageModifierTracking(scope, input)
	stage2 := stageReleaseFilter(scope, stage1)
	stage3 := stageCharacterMapping(scope, stage2, cfg.Keymap)
	stage4 := stageComposeNormalization(scope, stage3, cfg.ComposeKey)
	out := stage4

	if cfg.EnableComposes {
		stage5 := stageSyntheticSequence(scope, stage4, newSyntheticTrie())
		composeTrie := newTrie()
		for _, seq := range cfg.Composes {
			composeTrie.insert(seq.Input, seq.Output)
		}
		stage6 := stageComposeResolution(scope, stage5, composeTrie)
		out = stage6
	}

	return &Pipeline{cancel: cancel, input: input, output: out}
}

// Input is where the device adapter's raw key-event stream is fed in.
func (p *Pipeline) Input() chan<- events.KeyEvent { return p.input }

// Output is the annotated-event stream the event bus (dispatcher) reads
// from.
func (p *Pipeline) Output() <-chan events.AnnotatedKeyEvent { return p.output }

// Close cancels the pipeline's scope. All stage goroutines observe
// cancellation at their next channel operation and exit, closing their
// downstream channel in turn.
func (p *Pipeline) Close() {
	p.cancel()
}
