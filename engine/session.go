package engine

import (
	"context"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/skip"
)

// Session is the record of one video binding. A rebind replaces it whole.
type Session struct {
	Generation uint64
	Video      locator.Video
	Identity   identity.Identity
	// Resolved is set once the identity lookup and segment fetch have completed.
	Resolved bool
	// Segments are the skippable segments; empty while auto-skip is inactive.
	Segments []segment.Segment
	// Skip is the skip state captured when the snapshot was taken; None while inactive.
	Skip mo.Option[skip.State]

	controller  *skip.Controller
	cancel      context.CancelFunc
	unsubscribe func()
}

// Active reports whether auto-skip is armed for this binding.
func (s Session) Active() bool {
	return s.controller != nil
}

func (s *Session) snapshot() Session {
	snap := *s
	snap.Skip = mo.None[skip.State]()
	if s.controller != nil {
		snap.Skip = mo.Some(s.controller.State())
	}
	return snap
}

func (s *Session) release() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
