package locator

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLocator(t *testing.T) {
	Convey("Locator", t, func() {
		page := newFakePage()
		dispatcher := &syncDispatcher{}

		var bound, unbound []Video
		l := New(page, dispatcher, 0, Callbacks{
			OnBind:   func(v Video) { bound = append(bound, v) },
			OnUnbind: func(v Video) { unbound = append(unbound, v) },
		})

		Convey("Binds a video present at start and marks it", func() {
			video := newFakeVideo("first")
			page.video = video

			l.Start()
			So(len(bound), ShouldEqual, 1)
			So(video.marked, ShouldBeTrue)
			So(l.Current().MustGet(), ShouldEqual, video)
			So(dispatcher.pending(), ShouldEqual, 0)
		})

		Convey("Polls at the default interval until a video appears", func() {
			l.Start()
			So(bound, ShouldBeEmpty)
			So(dispatcher.pending(), ShouldEqual, 1)
			So(dispatcher.timers[0].delay, ShouldEqual, time.Second)

			dispatcher.fire()
			So(bound, ShouldBeEmpty)
			So(dispatcher.pending(), ShouldEqual, 1)

			page.video = newFakeVideo("late")
			dispatcher.fire()
			So(len(bound), ShouldEqual, 1)
			So(dispatcher.pending(), ShouldEqual, 0)
		})

		Convey("Bursts of changes keep a single pending retry", func() {
			l.Start()
			for i := 0; i < 5; i++ {
				page.mutate(nil)
			}
			So(dispatcher.pending(), ShouldEqual, 1)
		})

		Convey("Ignores changes while the bound video stays attached", func() {
			page.video = newFakeVideo("first")
			l.Start()

			page.mutate(page.video)
			page.mutate(page.video)
			So(len(bound), ShouldEqual, 1)
			So(unbound, ShouldBeEmpty)
		})

		Convey("Rebinds when the video is replaced", func() {
			first := newFakeVideo("first")
			page.video = first
			l.Start()

			second := newFakeVideo("second")
			page.mutate(second)

			So(unbound, ShouldResemble, []Video{first})
			So(first.marked, ShouldBeFalse)
			So(len(bound), ShouldEqual, 2)
			So(bound[1], ShouldEqual, second)
			So(second.marked, ShouldBeTrue)
		})

		Convey("Clears the binding on removal and rebinds on reinsertion", func() {
			first := newFakeVideo("first")
			page.video = first
			l.Start()

			first.attached = false
			page.mutate(nil)
			So(l.Current().IsAbsent(), ShouldBeTrue)
			So(len(unbound), ShouldEqual, 1)
			So(dispatcher.pending(), ShouldEqual, 1)

			next := newFakeVideo("next")
			page.video = next
			dispatcher.fire()
			So(l.Current().MustGet(), ShouldEqual, next)
		})

		Convey("Does not bind a video already marked by someone else", func() {
			video := newFakeVideo("taken")
			video.marked = true
			page.video = video

			l.Start()
			So(bound, ShouldBeEmpty)
			So(dispatcher.pending(), ShouldEqual, 1)
		})

		Convey("Stop releases everything", func() {
			page.video = newFakeVideo("first")
			l.Start()
			l.Stop()

			So(page.observers, ShouldBeEmpty)
			So(len(unbound), ShouldEqual, 1)
			So(page.video.marked, ShouldBeFalse)
		})
	})
}
