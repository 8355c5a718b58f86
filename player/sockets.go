package player

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sbskip/sbskip/filesystem"
	"github.com/sbskip/sbskip/log"
)

const staleDialTimeout = 200 * time.Millisecond

// RemoveStaleSockets deletes the *.sock files in dir that no process
// listens on any more. Sockets of running players are left alone.
func RemoveStaleSockets(dir string) (removed []string, err error) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sockets := lo.FilterMap(entries, func(e os.FileInfo, _ int) (string, bool) {
		return filepath.Join(dir, e.Name()), strings.HasSuffix(e.Name(), ".sock")
	})
	for _, path := range sockets {
		if conn, err := net.DialTimeout("unix", path, staleDialTimeout); err == nil {
			_ = conn.Close()
			continue
		}

		if err := filesystem.API().Remove(path); err != nil {
			log.Warnf("remove stale socket %s: %v", path, err)
			continue
		}
		removed = append(removed, path)
	}

	return removed, nil
}
