package log

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestComponent(t *testing.T) {
	Convey("Component logger", t, func() {
		var buf bytes.Buffer
		SetupWriter(&buf, true, "debug")
		defer func() { enabled = false }()

		Convey("Should tag entries with the component name", func() {
			Component("skip").Infof("skipped %s", "sponsor")

			var entry map[string]any
			So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)
			So(entry["component"], ShouldEqual, "skip")
			So(entry["msg"], ShouldEqual, "skipped sponsor")
		})

		Convey("With should merge fields without touching the parent", func() {
			parent := Component("engine")
			child := parent.With(Fields{"generation": 3})
			child.Debugf("bound")

			var entry map[string]any
			So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)
			So(entry["generation"], ShouldEqual, float64(3))
			So(parent.fields, ShouldNotContainKey, "generation")
		})

		Convey("Should respect the level", func() {
			SetupWriter(&buf, true, "warn")
			Component("x").Infof("hidden")
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}
