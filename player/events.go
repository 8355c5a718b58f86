package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/sbskip/sbskip/log"
)

// EventCallback receives mpv notifications. For property changes name is the
// property and data its new value; for other events name is the event and
// data the whole event object.
type EventCallback func(name string, data any)

// Observed properties.
const (
	PropertyTimePos = "time-pos"
	PropertyPath    = "path"
)

// Forwarded events.
const (
	EventStartFile  = "start-file"
	EventEndFile    = "end-file"
	EventFileLoaded = "file-loaded"
)

var observed = []string{PropertyTimePos, PropertyPath}

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	mu         sync.Mutex
	listening  bool
	done       chan struct{}
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		done:       make(chan struct{}),
	}
}

// Start opens a persistent connection, registers the property observers on it
// and starts the read loop. Observers are bound to the connection they were
// registered on.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := encodeCommand([]any{"observe_property", i + 1, name})
		if err == nil {
			_, err = conn.Write(payload)
		}
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	log.Infof("mpv event listener started on %s (observing: %s)", el.socketPath, strings.Join(observed, ", "))
	return nil
}

// Stop terminates the event listener.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	_ = el.conn.Close()
	el.listening = false
}

// Done is closed when the read loop exits, either after Stop or because mpv went away.
func (el *EventListener) Done() <-chan struct{} {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		if line = strings.TrimSpace(line); line != "" {
			el.processEvent(line)
		}
	}
}

// processEvent parses and dispatches a single mpv event JSON line.
// Command replies carry no event and are dropped.
func (el *EventListener) processEvent(line string) {
	if el.callback == nil {
		return
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok {
		return
	}

	switch eventType {
	case "property-change":
		name, _ := event["name"].(string)
		if lo.Contains(observed, name) {
			el.callback(name, event["data"])
		}
	case EventStartFile, EventEndFile, EventFileLoaded:
		el.callback(eventType, event)
	}
}
