package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/sbskip/sbskip/identity"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/segment"
	"github.com/sbskip/sbskip/sponsorblock"
	. "github.com/smartystreets/goconvey/convey"
)

const videoURL = "https://www.bilibili.com/video/BV1GJ411x7h7/"

func start(page *fakePage, provider Provider, decorator Decorator, opts Options) (*Engine, func()) {
	e := New(page, provider, decorator, opts)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = e.Run(ctx)
		close(stopped)
	}()

	return e, func() {
		cancel()
		<-stopped
	}
}

func resolved(e *Engine) func() bool {
	return func() bool {
		s, ok := e.Session().Get()
		return ok && s.Resolved
	}
}

func TestEngine(t *testing.T) {
	Convey("Engine", t, func() {
		video := newFakeVideo()
		page := newFakePage(videoURL, video)
		decorator := &fakeDecorator{}
		opts := DefaultOptions()
		opts.PollInterval = 10 * time.Millisecond

		Convey("Skips a sponsor segment once and notifies", func() {
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(func() bool { return video.subscribers() == 1 }), ShouldBeTrue)
			So(decorator.badgeCount(), ShouldEqual, 1)

			video.emit(10)
			So(waitFor(func() bool { return len(video.seekLog()) == 1 }), ShouldBeTrue)
			So(video.seekLog(), ShouldResemble, []float64{15})

			video.emit(15)
			video.emit(15)
			s := e.Session().MustGet()
			So(s.Skip.MustGet().ID, ShouldEqual, "s1")
			So(video.seekLog(), ShouldResemble, []float64{15})
			So(decorator.skips(), ShouldEqual, 1)

			So(provider.call(0).id.ShortCode.OrEmpty(), ShouldEqual, "BV1GJ411x7h7")
		})

		Convey("Skips right away when the video already sits inside a segment", func() {
			video.emit(7)
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			_, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(func() bool { return len(video.seekLog()) == 1 }), ShouldBeTrue)
			So(video.seekLog(), ShouldResemble, []float64{15})
			So(decorator.skips(), ShouldEqual, 1)
		})

		Convey("Leaves the position alone when it is outside every segment", func() {
			video.emit(30)
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(func() bool { return video.subscribers() == 1 }), ShouldBeTrue)
			So(video.seekLog(), ShouldBeEmpty)
			So(e.Session().MustGet().Skip.MustGet().Idle(), ShouldBeTrue)
		})

		Convey("Stays inert when the remote fails", func() {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			sbOpts := sponsorblock.DefaultOptions()
			sbOpts.BaseURL = server.URL
			e, stop := start(page, sponsorblock.New(sbOpts, server.Client()), decorator, opts)
			defer stop()

			So(waitFor(resolved(e)), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 1)

			s := e.Session().MustGet()
			So(s.Active(), ShouldBeFalse)
			So(video.subscribers(), ShouldEqual, 0)

			video.emit(10)
			So(video.seekLog(), ShouldBeEmpty)
			So(decorator.badgeCount(), ShouldEqual, 0)
		})

		Convey("Makes no lookup without any id", func() {
			page = newFakePage("https://www.bilibili.com/", video)
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(resolved(e)), ShouldBeTrue)
			So(provider.count(), ShouldEqual, 0)
			So(e.Session().MustGet().Identity.Empty(), ShouldBeTrue)
		})

		Convey("Falls back to the page-embedded state", func() {
			page = newFakePage("https://www.bilibili.com/festival/x", video)
			page.state = mo.Some(identity.PageState{AID: "170001"})
			provider := &fakeProvider{auto: some()}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(resolved(e)), ShouldBeTrue)
			So(provider.call(0).id.NumericID.OrEmpty(), ShouldEqual, "170001")
			So(e.Session().MustGet().Active(), ShouldBeFalse)
		})

		Convey("Ignores segments below the threshold", func() {
			provider := &fakeProvider{auto: some(sponsor("tiny", 5, 5.4))}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(resolved(e)), ShouldBeTrue)
			So(e.Session().MustGet().Active(), ShouldBeFalse)
			So(video.subscribers(), ShouldEqual, 0)
		})

		Convey("Seeks without notifying when notifications are off", func() {
			opts.Notify = false
			opts.Badge = false
			provider := &fakeProvider{auto: some(sponsor("s1", 0, 30))}
			_, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(func() bool { return video.subscribers() == 1 }), ShouldBeTrue)
			video.emit(1)
			So(waitFor(func() bool { return len(video.seekLog()) == 1 }), ShouldBeTrue)
			So(decorator.skips(), ShouldEqual, 0)
			So(decorator.badgeCount(), ShouldEqual, 0)
		})

		Convey("Discards the lookup of a replaced video", func() {
			provider := &fakeProvider{}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(func() bool { return provider.count() == 1 }), ShouldBeTrue)

			next := newFakeVideo()
			page.navigate("https://www.bilibili.com/video/BV1next/", next)
			So(waitFor(func() bool { return provider.count() == 2 }), ShouldBeTrue)
			So(provider.call(1).id.ShortCode.OrEmpty(), ShouldEqual, "BV1next")

			provider.call(0).result <- mo.Some([]segment.Segment{sponsor("old", 0, 10)})
			provider.call(1).result <- mo.Some([]segment.Segment{sponsor("new", 20, 30)})

			So(waitFor(func() bool { return next.subscribers() == 1 }), ShouldBeTrue)
			So(video.subscribers(), ShouldEqual, 0)

			s := e.Session().MustGet()
			So(s.Generation, ShouldEqual, 2)
			So(s.Video == locator.Video(next), ShouldBeTrue)
			So(s.Segments[0].ID, ShouldEqual, "new")
		})

		Convey("Drops the time subscription when the video goes away", func() {
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			e, stop := start(page, provider, decorator, opts)
			defer stop()

			So(waitFor(func() bool { return video.subscribers() == 1 }), ShouldBeTrue)

			page.navigate(videoURL, nil)
			So(waitFor(func() bool { return video.subscribers() == 0 }), ShouldBeTrue)
			So(waitFor(func() bool { return e.Session().IsAbsent() }), ShouldBeTrue)
			So(video.Marked(), ShouldBeFalse)
		})

		Convey("Finds a video that appears later by polling", func() {
			page = newFakePage(videoURL, nil)
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			_, stop := start(page, provider, decorator, opts)
			defer stop()

			time.Sleep(30 * time.Millisecond)
			So(provider.count(), ShouldEqual, 0)

			page.mu.Lock()
			page.video = video
			page.mu.Unlock()

			So(waitFor(func() bool { return video.subscribers() == 1 }), ShouldBeTrue)
		})

		Convey("Run releases the binding on shutdown", func() {
			provider := &fakeProvider{auto: some(sponsor("s1", 5, 15))}
			_, stop := start(page, provider, decorator, opts)

			So(waitFor(func() bool { return video.subscribers() == 1 }), ShouldBeTrue)
			stop()

			So(video.subscribers(), ShouldEqual, 0)
			So(video.Marked(), ShouldBeFalse)
			So(page.observers, ShouldBeEmpty)
		})
	})
}
