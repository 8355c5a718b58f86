// Package locator keeps track of the playback element currently shown by the host page,
// re-acquiring it whenever the page replaces or removes it.
package locator

import (
	"net/url"
	"time"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/log"
)

// DefaultInterval is the delay between discovery attempts.
const DefaultInterval = time.Second

var logger = log.Component("locator")

// Page is the host document.
type Page interface {
	// OnStructuralChange registers handler for insertions and removals in the document.
	OnStructuralChange(handler func()) (unsubscribe func())
	// FindVideo returns the playback element, if one is present.
	FindVideo() (Video, bool)
	// Location is the address of the page currently displayed.
	Location() *url.URL
	// EmbeddedState returns the page's embedded identity fallback.
	EmbeddedState() mo.Option[identity.PageState]
}

// Video is a playback element.
type Video interface {
	Attached() bool
	Marked() bool
	Mark()
	Unmark()
	CurrentTime() (float64, error)
	Seek(seconds float64) error
	OnTimeUpdate(handler func(pos float64)) (unsubscribe func())
}

// Dispatcher runs callbacks on the owner's event loop.
type Dispatcher interface {
	Post(fn func())
	After(d time.Duration, fn func()) (cancel func())
}

// Callbacks receive binding transitions. Both run on the dispatcher's loop.
type Callbacks struct {
	OnBind   func(v Video)
	OnUnbind func(v Video)
}

// Locator binds to at most one video at a time.
// All methods must be called from the dispatcher's loop.
type Locator struct {
	page       Page
	dispatcher Dispatcher
	interval   time.Duration
	callbacks  Callbacks

	current     mo.Option[Video]
	retry       func()
	unsubscribe func()
}

// New returns a Locator. A non-positive interval selects DefaultInterval.
func New(page Page, dispatcher Dispatcher, interval time.Duration, callbacks Callbacks) *Locator {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Locator{
		page:       page,
		dispatcher: dispatcher,
		interval:   interval,
		callbacks:  callbacks,
	}
}

// Start subscribes to document changes and runs the first discovery.
func (l *Locator) Start() {
	l.unsubscribe = l.page.OnStructuralChange(func() {
		l.dispatcher.Post(l.handleChange)
	})
	l.discover()
}

// Stop drops the subscription, cancels pending retries and releases the binding.
func (l *Locator) Stop() {
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	l.cancelRetry()
	l.release()
}

// Current returns the bound video.
func (l *Locator) Current() mo.Option[Video] {
	return l.current
}

func (l *Locator) handleChange() {
	if v, ok := l.current.Get(); ok && v.Attached() {
		return
	}

	l.release()
	l.discover()
}

func (l *Locator) discover() {
	if l.current.IsPresent() {
		return
	}

	v, ok := l.page.FindVideo()
	if ok && !v.Marked() {
		l.cancelRetry()
		v.Mark()
		l.current = mo.Some(v)
		logger.Infof("bound video at %s", l.page.Location())

		if l.callbacks.OnBind != nil {
			l.callbacks.OnBind(v)
		}
		return
	}

	l.scheduleRetry()
}

// scheduleRetry keeps a single pending timer no matter how often discovery fails.
func (l *Locator) scheduleRetry() {
	if l.retry != nil {
		return
	}

	l.retry = l.dispatcher.After(l.interval, func() {
		l.retry = nil
		l.discover()
	})
}

func (l *Locator) cancelRetry() {
	if l.retry != nil {
		l.retry()
		l.retry = nil
	}
}

func (l *Locator) release() {
	v, ok := l.current.Get()
	if !ok {
		return
	}

	l.current = mo.None[Video]()
	v.Unmark()
	logger.Infof("video detached, rediscovering")

	if l.callbacks.OnUnbind != nil {
		l.callbacks.OnUnbind(v)
	}
}
