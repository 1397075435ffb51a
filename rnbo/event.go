package rnbo

import (
	"fmt"
	"strings"
)

// TimeNow schedules an event for immediate delivery. Event times are
// otherwise milliseconds on the device's audio clock.
const TimeNow = -1.0

// Event is anything a device can schedule
type Event interface {
	EventTime() float64
}

// MessageEvent is a tagged list of numbers sent to or from a device
type MessageEvent struct {
	Time    float64
	Tag     string
	Payload []float64
}

func (e MessageEvent) EventTime() float64 { return e.Time }

// String formats the event the way the outport console shows it
func (e MessageEvent) String() string {
	parts := make([]string, len(e.Payload))
	for i, v := range e.Payload {
		parts[i] = fmt.Sprint(v)
	}
	return e.Tag + ": " + strings.Join(parts, ",")
}

// MIDIEvent is raw MIDI bytes delivered to a MIDI input port
type MIDIEvent struct {
	Time float64
	Port int
	Data []byte
}

func (e MIDIEvent) EventTime() float64 { return e.Time }

// AudioTimeMs converts the audio clock to event time
func AudioTimeMs(ac AudioContext) float64 {
	return ac.CurrentTime() * 1000
}
