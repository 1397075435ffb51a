package controls

import (
	"fmt"

	"go-rnbo/debug"
	"go-rnbo/midi"
	"go-rnbo/rnbo"
)

// KeyboardConfig sets what the on-screen keys send
type KeyboardConfig struct {
	Notes          []int
	Channel        uint8
	Port           int
	Velocity       uint8
	NoteDurationMs float64
}

// Keyboard is a row of clickable keys sending MIDI to the device
type Keyboard struct {
	dev  rnbo.Device
	cfg  KeyboardConfig
	Keys []*Key
}

// Key is one on-screen key
type Key struct {
	Note    uint8
	kb      *Keyboard
	pressed bool
}

// BindKeyboard mounts one key per configured note. It returns nil and
// leaves the mount untouched when the device takes no MIDI input.
func BindKeyboard(surface Surface, dev rnbo.Device, cfg KeyboardConfig) (*Keyboard, error) {
	if dev.NumMIDIInputPorts() == 0 {
		return nil, nil
	}

	kb := &Keyboard{dev: dev, cfg: cfg}
	for _, n := range cfg.Notes {
		if n < 0 || n > 127 {
			return nil, fmt.Errorf("keyboard: note %d out of range", n)
		}
		kb.Keys = append(kb.Keys, &Key{Note: uint8(n), kb: kb})
	}

	surface.Remove(KeyboardMount, NoMIDILabel)
	for _, k := range kb.Keys {
		surface.MountKey(k)
	}
	return kb, nil
}

// Play schedules a note-on now and its note-off after the configured
// duration, timed on the device's audio clock
func (kb *Keyboard) Play(note, velocity uint8) error {
	now := rnbo.AudioTimeMs(kb.dev.Context())
	on := rnbo.MIDIEvent{
		Time: now,
		Port: kb.cfg.Port,
		Data: midi.NoteOnBytes(kb.cfg.Channel, note, velocity),
	}
	off := rnbo.MIDIEvent{
		Time: now + kb.cfg.NoteDurationMs,
		Port: kb.cfg.Port,
		Data: midi.NoteOffBytes(kb.cfg.Channel, note),
	}
	if err := kb.dev.ScheduleEvent(on); err != nil {
		return fmt.Errorf("note on %d: %w", note, err)
	}
	if err := kb.dev.ScheduleEvent(off); err != nil {
		return fmt.Errorf("note off %d: %w", note, err)
	}
	debug.Log("keyboard", "%s at %.1f", midi.Describe(on.Data), now)
	return nil
}

// Send forwards a live note event (from a hardware keyboard) immediately
func (kb *Keyboard) Send(ev midi.Event) error {
	return kb.dev.ScheduleEvent(rnbo.MIDIEvent{
		Time: rnbo.AudioTimeMs(kb.dev.Context()),
		Port: kb.cfg.Port,
		Data: ev.Bytes(),
	})
}

// Key returns the key for note, or nil
func (kb *Keyboard) Key(note uint8) *Key {
	for _, k := range kb.Keys {
		if k.Note == note {
			return k
		}
	}
	return nil
}

// Press plays the key's note with the configured velocity
func (k *Key) Press() error {
	k.pressed = true
	return k.kb.Play(k.Note, k.kb.cfg.Velocity)
}

// Release only clears the pressed state; the note-off is already scheduled
func (k *Key) Release() {
	k.pressed = false
}

func (k *Key) Pressed() bool {
	return k.pressed
}
