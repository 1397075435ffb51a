package tui

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-rnbo/config"
	"go-rnbo/controls"
	"go-rnbo/midi"
	"go-rnbo/page"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
	"go-rnbo/rnbo/sim"
	"go-rnbo/snapshot"
	"go-rnbo/theme"
)

const export = `{
  "desc": {
    "meta": {"rnboversion": "1.3.1", "filename": "preview.maxpat"},
    "numMidiInputPorts": 1,
    "parameters": [
      {"name": "FX_1_Clean", "minimum": 0, "maximum": 1},
      {"name": "playsmpa", "minimum": -1, "maximum": 7},
      {"name": "stopsmpa", "minimum": 0, "maximum": 1}
    ],
    "inports": [{"tag": "in1"}],
    "outports": [{"tag": "out1"}]
  },
  "presets": [
    {"name": "first", "preset": {"FX_1_Clean": {"value": 0.5}}},
    {"name": "second", "preset": {"FX_1_Clean": 0.25}}
  ]
}`

type staticPatch struct{ desc *patch.Description }

func (s staticPatch) LoadDescription(ctx context.Context) (*patch.Description, error) {
	return s.desc, nil
}

func (s staticPatch) LoadDependencies(ctx context.Context) []patch.Dependency { return nil }

func newModel(t *testing.T, notes chan midi.Event) (Model, *sim.Device) {
	t.Helper()
	var desc patch.Description
	if err := json.Unmarshal([]byte(export), &desc); err != nil {
		t.Fatal(err)
	}
	board := controls.NewBoard()
	p := &page.Page{
		Config:   config.DefaultConfig(),
		Patches:  staticPatch{&desc},
		Provider: rnbo.Static(&sim.Runtime{}),
		Audio:    sim.NewAudioContext(),
		Surface:  board,
	}
	s, err := p.Setup(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	s.Panel.Toggle()
	return NewModel(s, board, theme.New(nil), notes), s.Device.(*sim.Device)
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestNudgeSlider(t *testing.T) {
	m, dev := newModel(t, nil)
	m = press(m, "right", "right", "L")
	if got := dev.Param("FX_1_Clean").Value(); got < 0.119 || got > 0.121 {
		t.Errorf("FX_1_Clean = %v, want 0.12", got)
	}
	if !strings.Contains(m.View(), "0.12") {
		t.Error("view does not show the new value")
	}
}

func TestToggleSlot(t *testing.T) {
	m, dev := newModel(t, nil)
	m = press(m, "a", "3")
	if got := dev.Param("playsmpa").Value(); got != 2 {
		t.Errorf("playsmpa = %v, want 2", got)
	}
	m = press(m, "3")
	if got := dev.Param("stopsmpa").Value(); got != 1 {
		t.Errorf("stopsmpa = %v, want 1", got)
	}
	if m.Session.Banks[0].Current() != -1 {
		t.Error("column should be stopped")
	}
}

func TestKeysAndPresets(t *testing.T) {
	m, dev := newModel(t, nil)
	m = press(m, "z", "p", "p")
	if n := len(dev.Scheduled()); n != 2 {
		t.Errorf("scheduled %d events, want note on and off", n)
	}
	if got := m.Session.Presets.Current(); got != 1 {
		t.Errorf("preset = %d, want 1", got)
	}
	m = press(m, "p")
	if got := m.Session.Presets.Current(); got != 0 {
		t.Errorf("preset = %d, want wrap to 0", got)
	}
}

func TestHardwareNote(t *testing.T) {
	notes := make(chan midi.Event, 1)
	m, dev := newModel(t, notes)
	next, cmd := m.Update(NoteMsg{Type: midi.NoteOn, Note: 60, Velocity: 90})
	m = next.(Model)
	if cmd == nil {
		t.Error("model should keep listening for notes")
	}
	ev, ok := dev.Scheduled()[0].(rnbo.MIDIEvent)
	if !ok || ev.Data[1] != 60 || ev.Data[2] != 90 {
		t.Errorf("scheduled %+v", dev.Scheduled())
	}
}

func TestTabHidesEffects(t *testing.T) {
	m, _ := newModel(t, nil)
	if !strings.Contains(m.View(), "effects") {
		t.Fatal("effects should be visible")
	}
	m = press(m, "tab")
	if strings.Contains(m.View(), "effects") {
		t.Error("effects should be hidden after tab")
	}
}

func TestOutportReadout(t *testing.T) {
	m, dev := newModel(t, nil)
	dev.Emit("out1", 1, 2)
	if !strings.Contains(m.View(), "out1: 1,2") {
		t.Errorf("view missing readout:\n%s", m.View())
	}
}

func TestSnapshotKeys(t *testing.T) {
	m, dev := newModel(t, nil)
	m.Store = &snapshot.Store{Dir: t.TempDir()}

	m = press(m, "L", "S", "L", "R")
	if got := dev.Param("FX_1_Clean").Value(); got < 0.099 || got > 0.101 {
		t.Errorf("FX_1_Clean = %v after restore, want 0.1", got)
	}
	if !strings.Contains(m.status, "restored") {
		t.Errorf("status = %q", m.status)
	}
}
