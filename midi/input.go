package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Input forwards notes from a hardware MIDI keyboard. A driver must be
// registered by the importing command (e.g. rtmididrv).
type Input struct {
	name     string
	stopFunc func()
	events   chan Event
}

// InPorts lists the available input port names
func InPorts() []string {
	var names []string
	for _, p := range gomidi.GetInPorts() {
		names = append(names, p.String())
	}
	return names
}

// OpenInput starts listening on the named port
func OpenInput(name string) (*Input, error) {
	port, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("find input %q: %w", name, err)
	}

	in := &Input{
		name:   port.String(),
		events: make(chan Event, 32),
	}
	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		ev, ok := Parse(msg)
		if !ok {
			return
		}
		select {
		case in.events <- ev:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	in.stopFunc = stop
	return in, nil
}

func (in *Input) Name() string {
	return in.name
}

// Events delivers note on/off; it is closed by Close
func (in *Input) Events() <-chan Event {
	return in.events
}

func (in *Input) Close() error {
	if in.stopFunc != nil {
		in.stopFunc()
	}
	close(in.events)
	return nil
}
