// Package screen implements the screen stack and dispatcher (Component G,
// spec.md §4.6): a closed Verb variant, three stack behaviors, a
// cooperative dispatcher loop, and the modal dialog pattern.
package screen

// StackBehavior controls how a ChangeScreen verb updates the dispatcher's
// stack.
type StackBehavior int

const (
	// ReplaceAll discards the whole stack and starts fresh with the new
	// screen (e.g. returning to the top-level drafting screen).
	ReplaceAll StackBehavior = iota
	// ReplaceLast swaps only the top of the stack.
	ReplaceLast
	// Append pushes the new screen on top, leaving the rest of the stack
	// intact underneath it (e.g. opening a menu over the drafting screen).
	Append
)

// Verb is the closed set of actions a Screen's Run method can return
// (spec.md §4.6).
type Verb interface{ isVerb() }

// ChangeScreen requests that Next replace part or all of the stack,
// according to Behavior.
type ChangeScreen struct {
	Next     Screen
	Behavior StackBehavior
}

// Close pops the top of the stack, returning control to whatever screen
// is underneath.
type Close struct{}

// Shutdown tears the whole application down: the dispatcher runs its
// onShutdown hook, clears the display and empties the stack, so
// Dispatcher.Run returns. Settings are not written back to the settings
// file.
type Shutdown struct{}

func (ChangeScreen) isVerb() {}
func (Close) isVerb()        {}
func (Shutdown) isVerb()     {}
