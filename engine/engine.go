// Package engine wires video discovery, segment lookup and auto-skip together.
//
// Every callback (document changes, poll timers, lookup completions, playback
// progress) is posted onto a single loop goroutine, so the session record is
// only ever touched from one place.
package engine

import (
	"context"
	"time"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/skip"
)

const queueSize = 256

var logger = log.Component("engine")

// Provider looks up the segments of a video.
type Provider interface {
	Fetch(ctx context.Context, id identity.Identity) mo.Option[[]segment.Segment]
}

// Decorator renders the host's skip notification and segment badge.
type Decorator interface {
	skip.Notifier
	ShowBadge(segments []segment.Segment)
}

type nopDecorator struct{ skip.NopNotifier }

func (nopDecorator) ShowBadge([]segment.Segment) {}

// Options is the static configuration of an engine.
type Options struct {
	Threshold    float64
	PollInterval time.Duration
	Notify       bool
	Badge        bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		Threshold:    segment.DefaultThreshold,
		PollInterval: locator.DefaultInterval,
		Notify:       true,
		Badge:        true,
	}
}

// Engine owns the current binding.
type Engine struct {
	page      locator.Page
	provider  Provider
	decorator Decorator
	opts      Options

	events chan func()
	done   chan struct{}

	ctx        context.Context
	locator    *locator.Locator
	session    *Session
	generation uint64
}

// New returns an Engine. A nil decorator disables notifications and badges.
func New(page locator.Page, provider Provider, decorator Decorator, opts Options) *Engine {
	if decorator == nil {
		decorator = nopDecorator{}
	}

	return &Engine{
		page:      page,
		provider:  provider,
		decorator: decorator,
		opts:      opts,
		events:    make(chan func(), queueSize),
		done:      make(chan struct{}),
	}
}

// Run processes events until ctx is done. It must be called once.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	e.ctx = ctx
	e.locator = locator.New(e.page, e, e.opts.PollInterval, locator.Callbacks{
		OnBind:   e.bind,
		OnUnbind: e.unbind,
	})
	e.locator.Start()

	for {
		select {
		case <-ctx.Done():
			e.locator.Stop()
			logger.Infof("stopped")
			return nil
		case fn := <-e.events:
			fn()
		}
	}
}

// Post queues fn on the loop. It is a no-op once Run has returned.
func (e *Engine) Post(fn func()) {
	select {
	case e.events <- fn:
	case <-e.done:
	}
}

// After posts fn to the loop once d has elapsed. The returned cancel func must
// be called from the loop; a cancelled fn never runs, even if its timer already fired.
func (e *Engine) After(d time.Duration, fn func()) (cancel func()) {
	cancelled := false
	t := time.AfterFunc(d, func() {
		e.Post(func() {
			if !cancelled {
				fn()
			}
		})
	})

	return func() {
		cancelled = true
		t.Stop()
	}
}

// Session returns a copy of the current session, if a video is bound.
func (e *Engine) Session() mo.Option[Session] {
	result := mo.None[Session]()
	e.call(func() {
		if e.session != nil {
			result = mo.Some(e.session.snapshot())
		}
	})
	return result
}

// call runs fn on the loop and waits for it.
func (e *Engine) call(fn func()) {
	finished := make(chan struct{})
	e.Post(func() {
		fn()
		close(finished)
	})

	select {
	case <-finished:
	case <-e.done:
	}
}

func (e *Engine) bind(v locator.Video) {
	e.generation++
	gen := e.generation

	ctx, cancel := context.WithCancel(e.ctx)
	e.session = &Session{
		Generation: gen,
		Video:      v,
		cancel:     cancel,
	}

	location := e.page.Location()
	logger.With(log.Fields{"generation": gen}).Infof("resolving segments for %s", location)

	go func() {
		id := identity.Resolve(location, e.page.EmbeddedState())
		if id.Empty() {
			e.Post(func() { e.apply(gen, id, mo.None[[]segment.Segment]()) })
			return
		}

		segments := e.provider.Fetch(ctx, id)
		e.Post(func() { e.apply(gen, id, segments) })
	}()
}

func (e *Engine) apply(gen uint64, id identity.Identity, segments mo.Option[[]segment.Segment]) {
	s := e.session
	if s == nil || s.Generation != gen {
		logger.Debugf("discarding lookup result of superseded binding %d", gen)
		return
	}

	s.Identity = id
	s.Resolved = true
	l := logger.With(log.Fields{"generation": gen, "video": id.String()})

	if id.Empty() {
		l.Infof("video id unresolvable, auto-skip inactive")
		return
	}

	list, ok := segments.Get()
	if !ok || len(list) == 0 {
		l.Infof("no segments, auto-skip inactive")
		return
	}

	var notifier skip.Notifier = skip.NopNotifier{}
	if e.opts.Notify {
		notifier = e.decorator
	}

	controller := skip.New(list, e.opts.Threshold, s.Video, notifier)
	if len(controller.Segments()) == 0 {
		l.Infof("all %d segments below %.2fs threshold", len(list), e.opts.Threshold)
		return
	}

	s.controller = controller
	s.Segments = controller.Segments()
	s.unsubscribe = s.Video.OnTimeUpdate(func(pos float64) {
		e.Post(func() { e.progress(gen, pos) })
	})

	l.Infof("auto-skip armed with %s", skip.Badge(s.Segments))
	if e.opts.Badge {
		e.decorator.ShowBadge(s.Segments)
	}

	// A paused video may already sit inside a segment and emit no updates.
	if pos, err := s.Video.CurrentTime(); err != nil {
		l.Debugf("initial position: %v", err)
	} else {
		e.progress(gen, pos)
	}
}

func (e *Engine) progress(gen uint64, pos float64) {
	s := e.session
	if s == nil || s.Generation != gen || s.controller == nil {
		return
	}

	if _, err := s.controller.Progress(pos); err != nil {
		logger.Warnf("auto-skip: %v", err)
	}
}

func (e *Engine) unbind(v locator.Video) {
	s := e.session
	if s == nil || s.Video != v {
		return
	}

	s.release()
	e.session = nil
}
