// Package segment holds the skippable-interval model shared by the provider and the skip controller.
package segment

import (
	"fmt"

	"github.com/samber/lo"
)

// DefaultThreshold is the minimum duration, in seconds, a segment must exceed to be skipped.
const DefaultThreshold = 0.5

// Interval is a closed time range in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End - Start.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Contains reports whether pos lies within [Start, End].
func (i Interval) Contains(pos float64) bool {
	return pos >= i.Start && pos <= i.End
}

// Valid reports whether the interval satisfies End > Start.
func (i Interval) Valid() bool {
	return i.End > i.Start
}

// Segment is a skippable interval annotated by the remote database.
type Segment struct {
	ID       string   `json:"id" jsonschema:"description=Remote UUID of the segment"`
	Category Category `json:"category"`
	Interval Interval `json:"interval"`

	ActionType    string  `json:"action_type,omitempty"`
	VideoDuration float64 `json:"video_duration,omitempty"`
	Locked        bool    `json:"locked,omitempty"`
	Votes         int     `json:"votes,omitempty"`
}

// Qualifies reports whether s is long enough to be skipped.
func (s Segment) Qualifies(threshold float64) bool {
	return s.Interval.Duration() > threshold
}

func (s Segment) String() string {
	return fmt.Sprintf("%s[%s] %.2f-%.2f", s.Category, s.ID, s.Interval.Start, s.Interval.End)
}

// Qualifying returns the segments longer than threshold, preserving order.
func Qualifying(segments []Segment, threshold float64) []Segment {
	return lo.Filter(segments, func(s Segment, _ int) bool {
		return s.Qualifies(threshold)
	})
}
