// Package browser hosts the engine in a Chromium tab driven over CDP.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/where"
	"github.com/ysmood/gson"
)

var logger = log.Component("browser")

// Options configures Launch.
type Options struct {
	// URL is opened in a new tab.
	URL string
	// ControlURL connects to a running browser instead of launching one.
	ControlURL string
	Headless   bool
	// Bin is the Chromium executable. Empty means look it up, downloading one if needed.
	Bin string
	// NotifyDuration is how long skip notifications stay on screen.
	NotifyDuration time.Duration
}

// Page is one browser tab. It implements the engine's page and decorator.
type Page struct {
	browser  *rod.Browser
	page     *rod.Page
	launched *launcher.Launcher
	opts     Options

	mu           sync.Mutex
	observers    map[int]func()
	nextObserver int
	handlers     map[string]func(float64)
	nextHandler  int

	cleanup []func() error
}

// Launch starts or connects to Chromium and opens opts.URL.
func Launch(ctx context.Context, opts Options) (*Page, error) {
	p := &Page{
		opts:      opts,
		observers: make(map[int]func()),
		handlers:  make(map[string]func(float64)),
	}

	controlURL := opts.ControlURL
	if controlURL == "" {
		l := launcher.New().
			Headless(opts.Headless).
			UserDataDir(filepath.Join(where.Browser(), "profile"))
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		} else if bin, ok := launcher.LookPath(); ok {
			l = l.Bin(bin)
		}

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
		p.launched = l
	}

	p.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := p.browser.Connect(); err != nil {
		p.kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	p.page = page

	if err := p.install(); err != nil {
		_ = p.Close()
		return nil, err
	}

	if err := page.Navigate(opts.URL); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("navigate to %s: %w", opts.URL, err)
	}

	logger.Infof("opened %s", opts.URL)
	return p, nil
}

// install exposes the bindings and arranges for the observer to run in every document.
func (p *Page) install() error {
	stopMutation, err := p.page.Expose(mutationBinding, func(gson.JSON) (any, error) {
		p.notify()
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("expose %s: %w", mutationBinding, err)
	}
	p.cleanup = append(p.cleanup, stopMutation)

	stopTime, err := p.page.Expose(timeBinding, func(arg gson.JSON) (any, error) {
		p.dispatchTime(arg.Get("token").Str(), arg.Get("time").Num())
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("expose %s: %w", timeBinding, err)
	}
	p.cleanup = append(p.cleanup, stopTime)

	remove, err := p.page.EvalOnNewDocument(fmt.Sprintf("(%s)(%q)", observeScript, mutationBinding))
	if err != nil {
		return fmt.Errorf("install observer: %w", err)
	}
	p.cleanup = append(p.cleanup, remove)

	return nil
}

// Done is closed when the browser connection goes away.
func (p *Page) Done() <-chan struct{} {
	return p.browser.GetContext().Done()
}

// Close releases the bindings, closes the tab and stops a launched browser.
func (p *Page) Close() error {
	for _, fn := range p.cleanup {
		_ = fn()
	}
	p.cleanup = nil

	var err error
	if p.launched != nil {
		err = p.browser.Close()
		p.kill()
	} else if p.page != nil {
		err = p.page.Close()
	}
	return err
}

func (p *Page) kill() {
	if p.launched != nil {
		p.launched.Kill()
		p.launched = nil
	}
}

func (p *Page) notify() {
	p.mu.Lock()
	observers := lo.Values(p.observers)
	p.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func (p *Page) dispatchTime(token string, pos float64) {
	p.mu.Lock()
	fn, ok := p.handlers[token]
	p.mu.Unlock()

	if ok {
		fn(pos)
	}
}

// OnStructuralChange registers handler for DOM insertions and removals.
func (p *Page) OnStructuralChange(handler func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextObserver
	p.nextObserver++
	p.observers[id] = handler

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.observers, id)
	}
}

// FindVideo returns the first video element of the document.
func (p *Page) FindVideo() (locator.Video, bool) {
	elements, err := p.page.Elements("video")
	if err != nil || elements.Empty() {
		return nil, false
	}
	return &video{page: p, el: elements.First()}, true
}

// Location is the URL currently displayed by the tab.
func (p *Page) Location() *url.URL {
	info, err := p.page.Info()
	if err != nil {
		return nil
	}

	u, err := url.Parse(info.URL)
	if err != nil {
		return nil
	}
	return u
}

// EmbeddedState reads window.__INITIAL_STATE__.videoData.
func (p *Page) EmbeddedState() mo.Option[identity.PageState] {
	res, err := p.page.Eval(pageStateScript)
	if err != nil {
		logger.Debugf("page state: %v", err)
		return mo.None[identity.PageState]()
	}

	state, err := identity.ParseVideoData([]byte(res.Value.Str()))
	if err != nil {
		logger.Debugf("page state: %v", err)
	}
	return state
}

func (p *Page) subscribe(handler func(float64)) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	token := fmt.Sprintf("t%d", p.nextHandler)
	p.nextHandler++
	p.handlers[token] = handler
	return token
}

func (p *Page) unsubscribe(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.handlers, token)
}
