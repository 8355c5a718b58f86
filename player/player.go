// Package player drives an mpv process over its JSON-IPC socket and exposes it
// as a playback host: a single "document" whose video is the loaded file.
package player

import "time"

// Player is the part of mpv's IPC surface the host relies on.
type Player interface {
	// Seek moves playback to an absolute position in seconds.
	Seek(seconds float64) error

	// GetTimePos retrieves the current playback position in seconds.
	GetTimePos() (float64, error)

	// GetPath retrieves the path or URL of the loaded file.
	// It returns an empty string when nothing is loaded.
	GetPath() (string, error)

	// ShowText displays an OSD message for the given duration.
	ShowText(text string, duration time.Duration) error

	// SetChapters replaces the chapter markers of the loaded file.
	SetChapters(chapters []Chapter) error
}

// Chapter is an entry of mpv's chapter-list property.
type Chapter struct {
	Title string  `json:"title"`
	Time  float64 `json:"time"`
}
