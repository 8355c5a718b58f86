package player

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/skip"
	"github.com/sbskip/sbskip/util"
)

var logger = log.Component("mpv")

const pageStateTimeout = 10 * time.Second

// HostOptions configures a Host.
type HostOptions struct {
	// NotifyDuration is how long OSD messages stay on screen.
	NotifyDuration time.Duration
	// PageState enables downloading the video page to read its embedded ids.
	PageState bool
	// Client is used for page downloads.
	Client *http.Client
}

// Host presents an mpv instance as a page holding at most one video: the loaded file.
type Host struct {
	player Player
	opts   HostOptions

	mu           sync.Mutex
	path         string
	loads        uint64
	current      *video
	observers    map[int]func()
	nextObserver int
	states       map[string]mo.Option[identity.PageState]
}

// NewHost wraps p. Feed mpv notifications to HandleEvent.
func NewHost(p Player, opts HostOptions) *Host {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	return &Host{
		player:    p,
		opts:      opts,
		observers: make(map[int]func()),
		states:    make(map[string]mo.Option[identity.PageState]),
	}
}

// Sync attaches the file mpv already has loaded, for hosts started after playback began.
func (h *Host) Sync() error {
	path, err := h.player.GetPath()
	if err != nil {
		return err
	}

	if path != "" {
		h.HandleEvent(PropertyPath, path)
		h.HandleEvent(EventFileLoaded, nil)
	}
	return nil
}

// HandleEvent is the EventCallback driving the host.
func (h *Host) HandleEvent(name string, data any) {
	switch name {
	case PropertyTimePos:
		if pos, ok := data.(float64); ok {
			h.mu.Lock()
			v := h.current
			h.mu.Unlock()

			if v != nil {
				v.emit(pos)
			}
		}
		return
	case PropertyPath:
		path, _ := data.(string)
		h.mu.Lock()
		changed := h.path != path
		h.path = path
		if changed && h.current != nil {
			h.current = h.newVideo()
		}
		h.mu.Unlock()

		if !changed {
			return
		}
	case EventStartFile, EventEndFile:
		h.mu.Lock()
		h.current = nil
		h.mu.Unlock()
	case EventFileLoaded:
		h.mu.Lock()
		h.current = h.newVideo()
		h.mu.Unlock()
	default:
		return
	}

	h.notify()
}

func (h *Host) newVideo() *video {
	h.loads++
	logger.Debugf("file %d loaded: %s", h.loads, h.path)
	return &video{host: h, load: h.loads, path: h.path, handlers: make(map[int]func(float64))}
}

func (h *Host) notify() {
	h.mu.Lock()
	observers := make([]func(), 0, len(h.observers))
	for _, fn := range h.observers {
		observers = append(observers, fn)
	}
	h.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// OnStructuralChange registers handler for file loads and unloads.
func (h *Host) OnStructuralChange(handler func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextObserver
	h.nextObserver++
	h.observers[id] = handler

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.observers, id)
	}
}

// FindVideo returns the loaded file.
func (h *Host) FindVideo() (locator.Video, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		return nil, false
	}
	return h.current, true
}

// Location is the URL of the loaded file, or nil for local files.
func (h *Host) Location() *url.URL {
	h.mu.Lock()
	path := h.path
	h.mu.Unlock()

	return locationOf(path)
}

func locationOf(path string) *url.URL {
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		return nil
	}

	u, err := url.Parse(path)
	if err != nil {
		return nil
	}
	return u
}

// EmbeddedState downloads the page of the loaded file and reads its embedded
// ids. Results are remembered per URL, failures included.
func (h *Host) EmbeddedState() mo.Option[identity.PageState] {
	u := h.Location()
	if !h.opts.PageState || u == nil {
		return mo.None[identity.PageState]()
	}

	key := u.String()
	h.mu.Lock()
	state, ok := h.states[key]
	h.mu.Unlock()
	if ok {
		return state
	}

	ctx, cancel := context.WithTimeout(context.Background(), pageStateTimeout)
	defer cancel()

	state, err := identity.FetchPageState(ctx, h.opts.Client, u)
	if err != nil {
		logger.Warnf("page state of %s: %v", key, err)
	}

	h.mu.Lock()
	h.states[key] = state
	h.mu.Unlock()
	return state
}

// ShowSkip puts the skip notification on the OSD.
func (h *Host) ShowSkip(s segment.Segment) {
	text := skip.Message(s) + " (" + skip.Span(s) + ")"
	if err := h.player.ShowText(text, h.opts.NotifyDuration); err != nil {
		logger.Warnf("show skip notification: %v", err)
	}
}

// ShowBadge marks every segment on the timeline and announces the count.
func (h *Host) ShowBadge(segments []segment.Segment) {
	if err := h.player.SetChapters(Chapters(segments)); err != nil {
		logger.Warnf("set chapters: %v", err)
	}

	if err := h.player.ShowText(skip.Badge(segments), h.opts.NotifyDuration); err != nil {
		logger.Warnf("show badge: %v", err)
	}
}

// Chapters turns segments into timeline markers: a titled chapter at each
// start and an untitled one at each end, ordered by time.
func Chapters(segments []segment.Segment) []Chapter {
	chapters := make([]Chapter, 0, len(segments)*2)
	for _, s := range segments {
		chapters = append(chapters,
			Chapter{Title: util.Capitalize(s.Category.Title()), Time: s.Interval.Start},
			Chapter{Time: s.Interval.End},
		)
	}

	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Time < chapters[j].Time
	})
	return chapters
}

// video is one load of a file. A reload of the same path is a new video.
type video struct {
	host *Host
	load uint64
	path string

	mu       sync.Mutex
	marked   bool
	handlers map[int]func(float64)
	next     int
}

func (v *video) Attached() bool {
	v.host.mu.Lock()
	defer v.host.mu.Unlock()
	return v.host.current == v
}

func (v *video) Marked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.marked
}

func (v *video) Mark() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marked = true
}

func (v *video) Unmark() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marked = false
}

func (v *video) CurrentTime() (float64, error) {
	return v.host.player.GetTimePos()
}

func (v *video) Seek(seconds float64) error {
	return v.host.player.Seek(seconds)
}

func (v *video) OnTimeUpdate(handler func(float64)) func() {
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

func (v *video) emit(pos float64) {
	v.mu.Lock()
	handlers := make([]func(float64), 0, len(v.handlers))
	for _, fn := range v.handlers {
		handlers = append(handlers, fn)
	}
	v.mu.Unlock()

	for _, fn := range handlers {
		fn(pos)
	}
}
