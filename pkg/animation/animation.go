// Package animation provides animation definitions and a small state
// machine that steps them by elapsed time. The state machine is pure: each
// update returns the events it fired instead of invoking callbacks, so
// callers decide how to dispatch without re-entrancy surprises.
package animation

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Animation errors.
var (
	ErrEmptyAnimation  = errors.New("animation has no frames")
	ErrFrameOutOfRange = errors.New("animation frame index out of range")
)

// Definition is an authored animation: an ordered list of indices into a
// sprite sheet's region table plus playback flags. Immutable once built.
type Definition struct {
	Name         string
	FrameIndexes []int
	IsLooping    bool
	IsReversed   bool
	IsPingPong   bool
}

// Frame is one resolved animation frame: a region of the sheet texture and
// how long it stays on screen.
type Frame struct {
	Bounds   image.Rectangle
	Duration time.Duration
}

// EventKind discriminates the events an update can fire.
type EventKind int

// Update event kinds.
const (
	EventFrameBegin EventKind = iota
	EventFrameEnd
	EventLoop
	EventEnd
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventFrameBegin:
		return "frame-begin"
	case EventFrameEnd:
		return "frame-end"
	case EventLoop:
		return "loop"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is one state-machine transition fired during an update.
// FrameIndex is the frame being left for frame-end events and the frame
// being entered for all others.
type Event struct {
	Kind       EventKind
	FrameIndex int
}

// Instance is a playing animation. One instance belongs to exactly one
// sprite; selecting a different animation replaces the instance wholesale.
type Instance struct {
	def       Definition
	frames    []Frame
	index     int
	direction int
	timer     time.Duration
	finished  bool
}

// NewInstance resolves a definition against a sheet's region table and
// resets it to its starting frame. A reversed definition starts on its last
// listed frame moving backwards.
func NewInstance(def Definition, table []Frame) (*Instance, error) {
	if len(def.FrameIndexes) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyAnimation, def.Name)
	}

	frames := make([]Frame, 0, len(def.FrameIndexes))
	for _, idx := range def.FrameIndexes {
		if idx < 0 || idx >= len(table) {
			return nil, fmt.Errorf("%w: %q references frame %d (sheet has %d)",
				ErrFrameOutOfRange, def.Name, idx, len(table))
		}
		frames = append(frames, table[idx])
	}

	in := &Instance{
		def:       def,
		frames:    frames,
		direction: 1,
	}
	if def.IsReversed {
		in.direction = -1
		in.index = len(frames) - 1
	}
	return in, nil
}

// Definition returns the definition this instance was created from.
func (in *Instance) Definition() Definition { return in.def }

// CurrentFrame returns the index of the frame currently shown, relative to
// the definition's frame list.
func (in *Instance) CurrentFrame() int { return in.index }

// Frame returns the resolved frame currently shown.
func (in *Instance) Frame() Frame { return in.frames[in.index] }

// Direction returns the current playback direction: 1 forward, -1 reverse.
func (in *Instance) Direction() int { return in.direction }

// Finished reports whether a non-looping animation has passed its last
// frame. Further updates on a finished instance are no-ops.
func (in *Instance) Finished() bool { return in.finished }

// Update accumulates elapsed time and advances the animation, returning the
// events fired this step in order. At most one full cycle of frames is
// consumed per call, so zero or negative frame durations cannot spin the
// advance loop forever.
func (in *Instance) Update(dt time.Duration) []Event {
	if in.finished {
		return nil
	}

	in.timer += dt

	var events []Event
	for steps := 0; in.timer >= in.frames[in.index].Duration; steps++ {
		if steps >= len(in.frames) {
			break
		}
		in.timer -= in.frames[in.index].Duration
		events = append(events, Event{Kind: EventFrameEnd, FrameIndex: in.index})

		ended := in.advance(&events)
		if ended {
			return events
		}
		events = append(events, Event{Kind: EventFrameBegin, FrameIndex: in.index})
	}
	return events
}

// advance moves the frame index one step in the current direction, handling
// boundary behavior. It reports whether the animation just finished.
func (in *Instance) advance(events *[]Event) bool {
	next := in.index + in.direction
	if next >= 0 && next < len(in.frames) {
		in.index = next
		return false
	}

	switch {
	case in.def.IsPingPong:
		// Bounce off the boundary instead of wrapping. The boundary frame
		// is not shown twice in a row (except for single-frame animations).
		in.direction = -in.direction
		if next >= len(in.frames) {
			in.index = max(len(in.frames)-2, 0)
		} else {
			in.index = min(1, len(in.frames)-1)
		}
		*events = append(*events, Event{Kind: EventLoop, FrameIndex: in.index})
	case in.def.IsLooping:
		if next >= len(in.frames) {
			in.index = 0
		} else {
			in.index = len(in.frames) - 1
		}
		*events = append(*events, Event{Kind: EventLoop, FrameIndex: in.index})
	default:
		// Clamp at the boundary and stop consuming time for good.
		if next >= len(in.frames) {
			in.index = len(in.frames) - 1
		} else {
			in.index = 0
		}
		in.finished = true
		*events = append(*events, Event{Kind: EventEnd, FrameIndex: in.index})
		return true
	}
	return false
}
