package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-rnbo/debug"
)

// PortEvent is emitted when an input port appears or goes away
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

func (t PortEventType) String() string {
	if t == PortConnected {
		return "connected"
	}
	return "disconnected"
}

// Watcher handles hot-plug of MIDI keyboards. Ports accepted by Match are
// opened as they appear and their notes merged into one channel.
type Watcher struct {
	Match func(name string) bool

	inputs   map[string]*Input
	known    map[string]bool
	mu       sync.Mutex
	events   chan PortEvent
	notes    chan Event
	pollRate time.Duration

	list func() []string
	open func(name string) (*Input, error)
}

// NewWatcher creates a watcher; a nil match opens nothing and only reports
func NewWatcher(match func(name string) bool) *Watcher {
	return &Watcher{
		Match:    match,
		inputs:   make(map[string]*Input),
		known:    make(map[string]bool),
		events:   make(chan PortEvent, 16),
		notes:    make(chan Event, 64),
		pollRate: time.Second,
		list:     InPorts,
		open:     OpenInput,
	}
}

// MatchName accepts ports whose name contains sub, ignoring case
func MatchName(sub string) func(name string) bool {
	sub = strings.ToLower(sub)
	return func(name string) bool {
		return strings.Contains(strings.ToLower(name), sub)
	}
}

// Events returns port connect/disconnect events; it is closed when Run returns
func (w *Watcher) Events() <-chan PortEvent {
	return w.events
}

// Notes returns notes from every open port. It is never closed.
func (w *Watcher) Notes() <-chan Event {
	return w.notes
}

// Open returns the names of the ports currently open
func (w *Watcher) Open() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.inputs))
	for name := range w.inputs {
		names = append(names, name)
	}
	return names
}

// Run starts the polling loop (blocking - run in goroutine)
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-ctx.Done():
			w.closeAll()
			close(w.events)
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	// Port listing can hang on CoreMIDI
	ch := make(chan []string, 1)
	go func() {
		ch <- w.list()
	}()

	var names []string
	select {
	case names = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("midi", "port scan timed out (sudo killall coreaudiod midiserver)")
		return
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true

		w.mu.Lock()
		known := w.known[name]
		w.known[name] = true
		w.mu.Unlock()
		if known {
			continue
		}

		w.emit(PortEvent{Type: PortConnected, Name: name})
		if w.Match != nil && w.Match(name) {
			w.attach(name)
		}
	}

	w.mu.Lock()
	var gone []string
	for name := range w.known {
		if !seen[name] {
			gone = append(gone, name)
		}
	}
	for _, name := range gone {
		delete(w.known, name)
		if in, ok := w.inputs[name]; ok {
			in.Close()
			delete(w.inputs, name)
		}
	}
	w.mu.Unlock()

	for _, name := range gone {
		w.emit(PortEvent{Type: PortDisconnected, Name: name})
	}
}

func (w *Watcher) attach(name string) {
	in, err := w.open(name)
	if err != nil {
		debug.Log("midi", "open %s: %v", name, err)
		return
	}
	w.mu.Lock()
	w.inputs[name] = in
	w.mu.Unlock()
	debug.Log("midi", "listening on %s", name)

	go func() {
		for ev := range in.Events() {
			select {
			case w.notes <- ev:
			default:
			}
		}
	}()
}

func (w *Watcher) emit(ev PortEvent) {
	select {
	case w.events <- ev:
	default:
		debug.Log("midi", "dropped port event %s %s", ev.Type, ev.Name)
	}
}

func (w *Watcher) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, in := range w.inputs {
		in.Close()
	}
	w.inputs = make(map[string]*Input)
}
