package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/log"
	"github.com/sbskip/sbskip/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// Executable is the mpv binary looked up in PATH.
const Executable = "mpv"

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // serialises IPC round trips
}

// NewMPV creates a new MPV player instance (does not start playback).
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// AttachMPV returns an MPV talking to an already running instance.
// The instance is not owned by the caller and should not be closed.
func AttachMPV(socketPath string) *MPV {
	return &MPV{socketPath: socketPath, exited: make(chan struct{})}
}

// Play starts mpv with the given target. If mpv is already running,
// the target is loaded into the existing instance.
func (m *MPV) Play(target string, title string, headers map[string]string) error {
	safeTarget, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.IsRunning() {
		_, err := m.sendCommand([]any{"loadfile", safeTarget, "replace"})
		return err
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))
	}

	m.cmd = exec.Command(Executable, buildArgs(m.socketPath, safeTarget, sanitizeTitle(title), headers)...)

	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// buildArgs passes only the socket, title, headers and target.
// Video output and decoding options are left to the user's mpv.conf.
func buildArgs(socketPath, target, title string, headers map[string]string) []string {
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--force-window=yes",
		"--idle=yes",
	}

	if title != "" {
		args = append(args,
			fmt.Sprintf("--force-media-title=%s", title),
			fmt.Sprintf("--title=%s", title), // some mpv builds only respect --title
		)
	}

	if len(headers) > 0 {
		keys := make([]string, 0, len(headers))
		for k := range headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s: %s", k, strings.ReplaceAll(headers[k], ",", "%2C")))
		}
		args = append(args, fmt.Sprintf("--http-header-fields=%s", strings.Join(fields, ",")))
	}

	return append(args, target)
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// GetTimePos returns the current playback position in seconds.
func (m *MPV) GetTimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// GetPath returns the path of the loaded file.
// "property unavailable" means nothing is loaded, which is not an error.
func (m *MPV) GetPath() (string, error) {
	data, err := m.sendCommand([]any{"get_property", "path"})
	if err != nil {
		if strings.Contains(err.Error(), "property unavailable") {
			return "", nil
		}
		return "", err
	}

	path, _ := data.(string)
	return path, nil
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]any{"seek", seconds, "absolute"})
	return err
}

// ShowText displays an OSD message.
func (m *MPV) ShowText(text string, duration time.Duration) error {
	_, err := m.sendCommand([]any{"show-text", text, duration.Milliseconds()})
	return err
}

// SetChapters replaces the chapter markers on the timeline.
func (m *MPV) SetChapters(chapters []Chapter) error {
	_, err := m.sendCommand([]any{"set_property", "chapter-list", chapters})
	return err
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]any{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand([]any{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = terminate(m.cmd, m.exited)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]any{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
