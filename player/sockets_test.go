package player

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/sbskip/sbskip/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRemoveStaleSockets(t *testing.T) {
	Convey("RemoveStaleSockets", t, func() {
		filesystem.SetOsFs()
		dir, err := os.MkdirTemp("", "sbskip")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		live := filepath.Join(dir, "sbskip-live.sock")
		liveLn, err := net.Listen("unix", live)
		So(err, ShouldBeNil)
		defer liveLn.Close()

		stale := filepath.Join(dir, "sbskip-dead.sock")
		deadLn, err := net.Listen("unix", stale)
		So(err, ShouldBeNil)
		deadLn.(*net.UnixListener).SetUnlinkOnClose(false)
		So(deadLn.Close(), ShouldBeNil)

		other := filepath.Join(dir, "notes.txt")
		So(os.WriteFile(other, nil, 0o644), ShouldBeNil)

		removed, err := RemoveStaleSockets(dir)
		So(err, ShouldBeNil)
		So(removed, ShouldResemble, []string{stale})

		Convey("A running player's socket should still accept connections", func() {
			conn, err := net.Dial("unix", live)
			So(err, ShouldBeNil)
			_ = conn.Close()
		})

		Convey("Only sockets should be considered", func() {
			_, err := os.Stat(other)
			So(err, ShouldBeNil)
			_, err = os.Stat(stale)
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})

	Convey("RemoveStaleSockets on a missing directory", t, func() {
		filesystem.SetOsFs()
		_, err := RemoveStaleSockets(filepath.Join(os.TempDir(), "sbskip-missing-dir"))
		So(err, ShouldNotBeNil)
	})
}
