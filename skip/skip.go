// Package skip implements the auto-skip state machine that seeks past known segments during playback.
package skip

import (
	"fmt"

	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/segment"
)

var logger = log.Component("skip")

// Seeker moves the playback position.
type Seeker interface {
	Seek(seconds float64) error
}

// Notifier is told about every skip. It is purely decorative.
type Notifier interface {
	ShowSkip(s segment.Segment)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) ShowSkip(segment.Segment) {}

// State is the controller's position relative to the known segments.
type State struct {
	// Index of the active segment in Controller.Segments, or -1 when idle.
	Index int
	ID    string
}

// Idle reports whether no segment is active.
func (s State) Idle() bool {
	return s.Index < 0
}

func (s State) String() string {
	if s.Idle() {
		return "Idle"
	}
	return fmt.Sprintf("InSegment(%s)", s.ID)
}

var idle = State{Index: -1}

// Controller decides, for each progress notification, whether to skip.
// It is not safe for concurrent use; callers serialise notifications.
type Controller struct {
	segments []segment.Segment
	state    State
	seeker   Seeker
	notifier Notifier
}

// New keeps the segments longer than threshold, in the given order.
// A nil notifier is replaced with NopNotifier.
func New(segments []segment.Segment, threshold float64, seeker Seeker, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Controller{
		segments: segment.Qualifying(segments, threshold),
		state:    idle,
		seeker:   seeker,
		notifier: notifier,
	}
}

// Segments returns the skippable segments.
func (c *Controller) Segments() []segment.Segment {
	return c.segments
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Progress handles a playback-time notification.
//
// The first segment containing pos wins. Entering a segment other than the
// active one seeks to its end and notifies once; staying inside the active
// segment does nothing; leaving every segment returns to Idle.
func (c *Controller) Progress(pos float64) (skipped bool, err error) {
	idx := c.match(pos)
	if idx < 0 {
		c.state = idle
		return false, nil
	}

	if c.state.Index == idx {
		return false, nil
	}

	s := c.segments[idx]
	c.state = State{Index: idx, ID: s.ID}

	logger.Infof("skipping %s segment %.2f-%.2f at %.2f", s.Category, s.Interval.Start, s.Interval.End, pos)
	if err := c.seeker.Seek(s.Interval.End); err != nil {
		logger.Warnf("seek past %s failed: %v", s, err)
		return false, fmt.Errorf("seek to %.2f: %w", s.Interval.End, err)
	}

	c.notifier.ShowSkip(s)
	return true, nil
}

func (c *Controller) match(pos float64) int {
	for i, s := range c.segments {
		if s.Interval.Contains(pos) {
			return i
		}
	}
	return -1
}
