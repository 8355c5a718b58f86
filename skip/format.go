package skip

import (
	"fmt"
	"math"

	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/util"
)

// FormatTime renders seconds as m:ss, truncating fractions.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Message is the notification headline for a skipped segment.
func Message(s segment.Segment) string {
	return fmt.Sprintf("Skipped %s segment", s.Category.Title())
}

// Span is the notification detail line, e.g. "0:05 - 0:15".
func Span(s segment.Segment) string {
	return FormatTime(s.Interval.Start) + " - " + FormatTime(s.Interval.End)
}

// Badge summarises the known segments, e.g. "3 segments".
func Badge(segments []segment.Segment) string {
	return util.Quantify(len(segments), "segment", "segments")
}
