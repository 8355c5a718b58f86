package browser

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sbskip/sbskip/engine"
	"github.com/sbskip/sbskip/locator"
	"github.com/sbskip/sbskip/segment"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	_ locator.Page     = (*Page)(nil)
	_ locator.Video    = (*video)(nil)
	_ engine.Decorator = (*Page)(nil)
)

func TestDecorations(t *testing.T) {
	Convey("Decorations", t, func() {
		p := &Page{opts: Options{NotifyDuration: 3500 * time.Millisecond}}
		sponsor := segment.Segment{ID: "a", Category: segment.Sponsor, Interval: segment.Interval{Start: 5, End: 75.9}}
		intro := segment.Segment{ID: "b", Category: segment.Intro, Interval: segment.Interval{Start: 0, End: 4}}

		Convey("notificationFor should describe the skipped segment", func() {
			n := p.notificationFor(sponsor)
			So(n.Title, ShouldEqual, "Skipped sponsor segment")
			So(n.Detail, ShouldEqual, "0:05 - 1:15")
			So(n.Color, ShouldEqual, "#00d400")
			So(n.Duration, ShouldEqual, 3500)
		})

		Convey("badgeFor should add one pill per segment", func() {
			b := badgeFor([]segment.Segment{sponsor, intro})
			So(b.Label, ShouldEqual, "2 segments")
			So(b.Pills, ShouldHaveLength, 2)
			So(b.Pills[1].Title, ShouldEqual, "intro 0:00 - 0:04")
			So(b.Selector, ShouldEqual, ".bpx-player-video-wrap, .bilibili-player-video")

			data, err := json.Marshal(b)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"pills":[{"title":"sponsor 0:05 - 1:15","color":"#00d400"}`)
		})
	})
}

func TestScripts(t *testing.T) {
	Convey("Element and page scripts should be function expressions", t, func() {
		for _, js := range []string{
			observeScript, pageStateScript, attachedScript, markedScript, markScript,
			unmarkScript, timeScript, seekScript, subscribeScript, unsubscribeScript,
			notifyScript, badgeScript,
		} {
			So(strings.HasPrefix(js, "function") || strings.HasPrefix(js, "() =>"), ShouldBeTrue)
		}
	})

	Convey("Element scripts should use the binding mark", t, func() {
		So(markScript, ShouldContainSubstring, "sponsorblockInit")
		So(markedScript, ShouldContainSubstring, "sponsorblockInit")
		So(unmarkScript, ShouldContainSubstring, "delete")
	})

	Convey("Decoration scripts should replace what they showed before", t, func() {
		So(notifyScript, ShouldContainSubstring, `querySelectorAll(".sbskip-notification").forEach((e) => e.remove())`)
		So(badgeScript, ShouldContainSubstring, `querySelectorAll(".sbskip-badge").forEach((e) => e.remove())`)
		So(badgeScript, ShouldContainSubstring, "(wrap || document.body)")
	})
}
