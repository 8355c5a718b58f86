package browser

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sbskip/sbskip/segment"
	. "github.com/smartystreets/goconvey/convey"
)

const testDocument = `<!doctype html>
<html><body>
<div class="bpx-player-video-wrap"><video muted></video></div>
<script>window.__INITIAL_STATE__ = {"videoData": {"aid": 170001, "bvid": "BV17x411w7KC"}};</script>
</body></html>`

// launchTestPage starts a headless Chromium with the bindings installed.
// The test is skipped when no Chromium is installed.
func launchTestPage(t *testing.T) *Page {
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no Chromium found")
	}

	l := launcher.New().Bin(bin).Headless(true).NoSandbox(true).UserDataDir(t.TempDir())
	controlURL, err := l.Launch()
	if err != nil {
		t.Skipf("launch Chromium: %v", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		t.Skipf("connect to Chromium: %v", err)
	}

	p := &Page{
		browser:   b,
		launched:  l,
		opts:      Options{NotifyDuration: time.Minute},
		observers: make(map[int]func()),
		handlers:  make(map[string]func(float64)),
	}
	p.page, err = b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = p.Close()
		t.Fatalf("open tab: %v", err)
	}
	if err := p.install(); err != nil {
		_ = p.Close()
		t.Fatalf("install bindings: %v", err)
	}

	t.Cleanup(func() { _ = p.Close() })
	return p
}

func count(p *Page, selector string) int {
	res, err := p.page.Eval(fmt.Sprintf(`() => document.querySelectorAll(%q).length`, selector))
	So(err, ShouldBeNil)
	return res.Value.Int()
}

func receive[T any](ch chan T, timeout time.Duration) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func TestPageOverCDP(t *testing.T) {
	p := launchTestPage(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(testDocument))
	}))
	defer server.Close()

	Convey("Page over CDP", t, func() {
		So(p.page.Navigate(server.URL+"/video/BV17x411w7KC"), ShouldBeNil)
		So(p.page.WaitLoad(), ShouldBeNil)

		found, ok := p.FindVideo()
		So(ok, ShouldBeTrue)
		v := found.(*video)

		Convey("Location and EmbeddedState should describe the tab", func() {
			So(p.Location().Path, ShouldEqual, "/video/BV17x411w7KC")

			state, ok := p.EmbeddedState().Get()
			So(ok, ShouldBeTrue)
			So(string(state.AID), ShouldEqual, "170001")
			So(state.BVID, ShouldEqual, "BV17x411w7KC")
		})

		Convey("Mark should be visible to later handles of the same element", func() {
			So(v.Marked(), ShouldBeFalse)
			v.Mark()

			again, ok := p.FindVideo()
			So(ok, ShouldBeTrue)
			So(again.Marked(), ShouldBeTrue)

			v.Unmark()
			So(again.Marked(), ShouldBeFalse)
		})

		Convey("Attached should turn false once the element is removed", func() {
			So(v.Attached(), ShouldBeTrue)
			_, err := p.page.Eval(`() => document.querySelector("video").remove()`)
			So(err, ShouldBeNil)
			So(v.Attached(), ShouldBeFalse)

			_, ok := p.FindVideo()
			So(ok, ShouldBeFalse)
		})

		Convey("Structural changes should reach the observers", func() {
			changed := make(chan struct{}, 8)
			unsubscribe := p.OnStructuralChange(func() { offer(changed, struct{}{}) })
			defer unsubscribe()

			_, err := p.page.Eval(`() => document.body.appendChild(document.createElement("video"))`)
			So(err, ShouldBeNil)

			_, ok := receive(changed, 5*time.Second)
			So(ok, ShouldBeTrue)
		})

		Convey("Time updates should be delivered until unsubscribed", func() {
			positions := make(chan float64, 8)
			unsubscribe := v.OnTimeUpdate(func(pos float64) { offer(positions, pos) })

			So(v.Seek(0), ShouldBeNil)
			pos, err := v.CurrentTime()
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 0)

			fire := `function () { this.dispatchEvent(new Event("timeupdate")); }`
			_, err = v.el.Eval(fire)
			So(err, ShouldBeNil)

			got, ok := receive(positions, 5*time.Second)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, 0)

			unsubscribe()
			_, err = v.el.Eval(fire)
			So(err, ShouldBeNil)

			_, ok = receive(positions, 300*time.Millisecond)
			So(ok, ShouldBeFalse)
		})

		Convey("Decorations should not stack", func() {
			sponsor := segment.Segment{ID: "a", Category: segment.Sponsor, Interval: segment.Interval{Start: 5, End: 15}}

			p.ShowSkip(sponsor)
			p.ShowSkip(sponsor)
			So(count(p, ".sbskip-notification"), ShouldEqual, 1)

			p.ShowBadge([]segment.Segment{sponsor})
			p.ShowBadge([]segment.Segment{sponsor})
			So(count(p, ".sbskip-badge"), ShouldEqual, 1)
			So(count(p, ".bpx-player-video-wrap > .sbskip-badge"), ShouldEqual, 1)
		})
	})
}
