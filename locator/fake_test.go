package locator

import (
	"net/url"
	"time"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
)

type fakeVideo struct {
	name     string
	attached bool
	marked   bool
	time     float64
	handlers map[int]func(float64)
	next     int
}

func newFakeVideo(name string) *fakeVideo {
	return &fakeVideo{name: name, attached: true, handlers: map[int]func(float64){}}
}

func (v *fakeVideo) Attached() bool                { return v.attached }
func (v *fakeVideo) Marked() bool                  { return v.marked }
func (v *fakeVideo) Mark()                         { v.marked = true }
func (v *fakeVideo) Unmark()                       { v.marked = false }
func (v *fakeVideo) CurrentTime() (float64, error) { return v.time, nil }
func (v *fakeVideo) Seek(seconds float64) error    { v.time = seconds; return nil }

func (v *fakeVideo) OnTimeUpdate(handler func(float64)) func() {
	id := v.next
	v.next++
	v.handlers[id] = handler
	return func() { delete(v.handlers, id) }
}

type fakePage struct {
	video     *fakeVideo
	observers map[int]func()
	next      int
	location  *url.URL
}

func newFakePage() *fakePage {
	u, _ := url.Parse("https://www.bilibili.com/video/BV1GJ411x7h7/")
	return &fakePage{observers: map[int]func(){}, location: u}
}

func (p *fakePage) OnStructuralChange(handler func()) func() {
	id := p.next
	p.next++
	p.observers[id] = handler
	return func() { delete(p.observers, id) }
}

func (p *fakePage) FindVideo() (Video, bool) {
	if p.video == nil || !p.video.attached {
		return nil, false
	}
	return p.video, true
}

func (p *fakePage) Location() *url.URL { return p.location }

func (p *fakePage) EmbeddedState() mo.Option[identity.PageState] {
	return mo.None[identity.PageState]()
}

// mutate replaces the page's video and fires the observers.
func (p *fakePage) mutate(v *fakeVideo) {
	if p.video != nil && p.video != v {
		p.video.attached = false
	}
	p.video = v
	for _, h := range p.observers {
		h()
	}
}

type timer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// syncDispatcher runs posts inline and holds timers until fire is called.
type syncDispatcher struct {
	timers []*timer
}

func (d *syncDispatcher) Post(fn func()) { fn() }

func (d *syncDispatcher) After(delay time.Duration, fn func()) func() {
	t := &timer{delay: delay, fn: fn}
	d.timers = append(d.timers, t)
	return func() { t.cancelled = true }
}

func (d *syncDispatcher) pending() int {
	n := 0
	for _, t := range d.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// fire runs every pending timer once.
func (d *syncDispatcher) fire() {
	timers := d.timers
	d.timers = nil
	for _, t := range timers {
		if !t.cancelled {
			t.fn()
		}
	}
}
