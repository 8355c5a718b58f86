package engine

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/segment"
)

type fakeVideo struct {
	mu       sync.Mutex
	attached bool
	marked   bool
	time     float64
	seeks    []float64
	handlers map[int]func(float64)
	next     int
}

func newFakeVideo() *fakeVideo {
	return &fakeVideo{attached: true, handlers: map[int]func(float64){}}
}

func (v *fakeVideo) Attached() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attached
}

func (v *fakeVideo) Marked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.marked
}

func (v *fakeVideo) Mark() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marked = true
}

func (v *fakeVideo) Unmark() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marked = false
}

func (v *fakeVideo) CurrentTime() (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.time, nil
}

func (v *fakeVideo) Seek(seconds float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.time = seconds
	v.seeks = append(v.seeks, seconds)
	return nil
}

func (v *fakeVideo) OnTimeUpdate(handler func(float64)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := v.next
	v.next++
	v.handlers[id] = handler
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.handlers, id)
	}
}

func (v *fakeVideo) subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.handlers)
}

func (v *fakeVideo) seekLog() []float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]float64(nil), v.seeks...)
}

// emit plays the video to pos and fires a time update.
func (v *fakeVideo) emit(pos float64) {
	v.mu.Lock()
	v.time = pos
	handlers := make([]func(float64), 0, len(v.handlers))
	for _, h := range v.handlers {
		handlers = append(handlers, h)
	}
	v.mu.Unlock()

	for _, h := range handlers {
		h(pos)
	}
}

type fakePage struct {
	mu        sync.Mutex
	video     *fakeVideo
	location  *url.URL
	state     mo.Option[identity.PageState]
	observers map[int]func()
	next      int
}

func newFakePage(rawURL string, video *fakeVideo) *fakePage {
	u, _ := url.Parse(rawURL)
	return &fakePage{video: video, location: u, state: mo.None[identity.PageState](), observers: map[int]func(){}}
}

func (p *fakePage) OnStructuralChange(handler func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.observers[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.observers, id)
	}
}

func (p *fakePage) FindVideo() (locator.Video, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.video == nil || !p.video.Attached() {
		return nil, false
	}
	return p.video, true
}

func (p *fakePage) Location() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

func (p *fakePage) EmbeddedState() mo.Option[identity.PageState] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// navigate swaps the video and location, then fires the observers.
func (p *fakePage) navigate(rawURL string, video *fakeVideo) {
	p.mu.Lock()
	if p.video != nil {
		p.video.mu.Lock()
		p.video.attached = false
		p.video.mu.Unlock()
	}
	p.video = video
	p.location, _ = url.Parse(rawURL)
	observers := make([]func(), 0, len(p.observers))
	for _, h := range p.observers {
		observers = append(observers, h)
	}
	p.mu.Unlock()

	for _, h := range observers {
		h()
	}
}

type call struct {
	id     identity.Identity
	result chan mo.Option[[]segment.Segment]
}

// fakeProvider blocks each Fetch until the test resolves it, unless auto is set.
type fakeProvider struct {
	mu    sync.Mutex
	calls []*call
	auto  mo.Option[mo.Option[[]segment.Segment]]
}

func (p *fakeProvider) Fetch(_ context.Context, id identity.Identity) mo.Option[[]segment.Segment] {
	c := &call{id: id, result: make(chan mo.Option[[]segment.Segment], 1)}

	p.mu.Lock()
	p.calls = append(p.calls, c)
	auto, ok := p.auto.Get()
	p.mu.Unlock()

	if ok {
		return auto
	}
	return <-c.result
}

func (p *fakeProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakeProvider) call(i int) *call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[i]
}

type fakeDecorator struct {
	mu      sync.Mutex
	skipped []segment.Segment
	badges  [][]segment.Segment
}

func (d *fakeDecorator) ShowSkip(s segment.Segment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.skipped = append(d.skipped, s)
}

func (d *fakeDecorator) ShowBadge(segments []segment.Segment) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.badges = append(d.badges, segments)
}

func (d *fakeDecorator) skips() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.skipped)
}

func (d *fakeDecorator) badgeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.badges)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func sponsor(id string, start, end float64) segment.Segment {
	return segment.Segment{ID: id, Category: segment.Sponsor, Interval: segment.Interval{Start: start, End: end}}
}

func some(segments ...segment.Segment) mo.Option[mo.Option[[]segment.Segment]] {
	return mo.Some(mo.Some(segments))
}
