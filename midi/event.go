package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Event is a channel voice message
type Event struct {
	Type     uint8 // NoteOn, NoteOff, CC
	Channel  uint8 // 0-15
	Note     uint8 // key, or controller number for CC
	Velocity uint8 // velocity, or value for CC
}

// Bytes encodes the event as a raw MIDI message
func (e Event) Bytes() []byte {
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return gomidi.NoteOff(e.Channel, e.Note)
	case CC:
		return gomidi.ControlChange(e.Channel, e.Note, e.Velocity)
	}
	return nil
}

// NoteOnBytes returns [144+ch, note, velocity]
func NoteOnBytes(channel, note, velocity uint8) []byte {
	return Event{Type: NoteOn, Channel: channel, Note: note, Velocity: velocity}.Bytes()
}

// NoteOffBytes returns [128+ch, note, 0]
func NoteOffBytes(channel, note uint8) []byte {
	return Event{Type: NoteOff, Channel: channel, Note: note}.Bytes()
}

// Parse decodes note on/off messages
func Parse(data []byte) (Event, bool) {
	msg := gomidi.Message(data)
	var ch, key, vel uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		return Event{Type: NoteOn, Channel: ch, Note: key, Velocity: vel}, true
	case msg.GetNoteOff(&ch, &key, &vel):
		return Event{Type: NoteOff, Channel: ch, Note: key, Velocity: vel}, true
	}
	return Event{}, false
}

// Describe formats raw bytes for logs
func Describe(data []byte) string {
	return gomidi.Message(data).String()
}
