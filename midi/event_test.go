package midi

import (
	"bytes"
	"testing"
)

func TestNoteBytes(t *testing.T) {
	if got := NoteOnBytes(0, 49, 100); !bytes.Equal(got, []byte{144, 49, 100}) {
		t.Errorf("note on = %v", got)
	}
	if got := NoteOffBytes(0, 49); !bytes.Equal(got, []byte{128, 49, 0}) {
		t.Errorf("note off = %v", got)
	}
	if got := NoteOnBytes(2, 60, 90); !bytes.Equal(got, []byte{146, 60, 90}) {
		t.Errorf("note on ch2 = %v", got)
	}
}

func TestParse(t *testing.T) {
	ev, ok := Parse([]byte{0x91, 52, 64})
	if !ok || ev != (Event{Type: NoteOn, Channel: 1, Note: 52, Velocity: 64}) {
		t.Errorf("Parse note on = %+v, %v", ev, ok)
	}
	ev, ok = Parse([]byte{0x80, 52, 0})
	if !ok || ev.Type != NoteOff || ev.Note != 52 {
		t.Errorf("Parse note off = %+v, %v", ev, ok)
	}
	if _, ok := Parse([]byte{0xB0, 7, 100}); ok {
		t.Error("CC should not parse as a note")
	}
}
