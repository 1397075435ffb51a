package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-rnbo/controls"
	"go-rnbo/debug"
	"go-rnbo/midi"
	"go-rnbo/page"
	"go-rnbo/snapshot"
	"go-rnbo/theme"
	"go-rnbo/widgets"
)

const barWidth = 24

// keyTriggers are the computer keys playing the on-screen keys, in order
var keyTriggers = []string{"z", "x", "c", "v", "b", "n", "m"}

type Model struct {
	Session *page.Session
	Board   *controls.Board
	Theme   *theme.Theme
	Store   *snapshot.Store // optional, enables S/R

	notes    <-chan midi.Event
	slider   int
	column   int
	status   string
	help     bool
	quitting bool
}

// NoteMsg is a note from the hardware keyboard
type NoteMsg midi.Event

// NewModel builds the preview. notes may be nil when no MIDI input is open.
func NewModel(s *page.Session, board *controls.Board, th *theme.Theme, notes <-chan midi.Event) Model {
	return Model{
		Session: s,
		Board:   board,
		Theme:   th,
		notes:   notes,
	}
}

func ListenForNotes(notes <-chan midi.Event) tea.Cmd {
	if notes == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-notes
		if !ok {
			return nil
		}
		return NoteMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForNotes(m.notes)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case NoteMsg:
		if kb := m.Session.Keyboard; kb != nil {
			ev := midi.Event(msg)
			if err := kb.Send(ev); err != nil {
				m.status = err.Error()
			} else {
				m.status = midi.Describe(ev.Bytes())
			}
		}
		return m, ListenForNotes(m.notes)
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	s := m.Session
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.help = !m.help

	case "tab":
		s.Panel.Toggle()

	case "up", "k":
		if m.slider > 0 {
			m.slider--
		}
	case "down", "j":
		if m.slider < len(s.Sliders)-1 {
			m.slider++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "H":
		m.nudge(-10)
	case "L":
		m.nudge(10)

	case "a", "s", "d", "f", "g", "e", "r", "t":
		// index into the bound banks, not the configured columns
		m.column = strings.Index("asdfgert", key)

	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.toggleSlot(int(key[0] - '1'))

	case "p":
		m.nextPreset()

	case "S":
		m.save()
	case "R":
		m.restore()

	default:
		for i, trig := range keyTriggers {
			if key == trig {
				m.pressKey(i)
			}
		}
	}
	return m, nil
}

func (m *Model) nudge(n int) {
	if m.slider < 0 || m.slider >= len(m.Session.Sliders) {
		return
	}
	sl := m.Session.Sliders[m.slider]
	sl.Nudge(n)
	m.status = fmt.Sprintf("%s = %s", sl.Name, sl.Readout())
}

func (m *Model) toggleSlot(slot int) {
	if m.column < 0 || m.column >= len(m.Session.Banks) {
		return
	}
	b := m.Session.Banks[m.column]
	if err := b.Toggle(slot, !b.Checked(slot)); err != nil {
		m.status = err.Error()
		return
	}
	if b.Current() >= 0 {
		m.status = fmt.Sprintf("column %s playing slot %d", b.Column, b.Current())
	} else {
		m.status = fmt.Sprintf("column %s stopped", b.Column)
	}
}

func (m *Model) nextPreset() {
	p := m.Session.Presets
	if p == nil {
		return
	}
	next := (p.Current() + 1) % len(p.Names())
	if err := p.Select(next); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "preset " + p.Names()[next]
}

func (m *Model) save() {
	if m.Store == nil {
		return
	}
	info, err := m.Store.Save(snapshot.Capture(m.Session), "")
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + info.Filename
}

func (m *Model) restore() {
	if m.Store == nil {
		return
	}
	snap, err := m.Store.Load(m.Session.Description.Title("untitled"), "")
	if err == nil {
		err = snapshot.Apply(m.Session, snap)
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "restored latest snapshot"
}

func (m *Model) pressKey(i int) {
	kb := m.Session.Keyboard
	if kb == nil || i >= len(kb.Keys) {
		return
	}
	k := kb.Keys[i]
	if err := k.Press(); err != nil {
		m.status = err.Error()
		debug.Log("tui", "key %d: %v", k.Note, err)
		return
	}
	k.Release()
	m.status = fmt.Sprintf("note %d", k.Note)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.Session
	sym := m.Theme.Symbols
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Active())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(m.Board.Text(controls.TitleID)))
	out.WriteString("\n\n")

	// Effects
	if s.Panel.Visible() {
		out.WriteString(dimStyle.Render("effects"))
		out.WriteString("\n")
		if len(s.Sliders) == 0 {
			out.WriteString(dimStyle.Render("  no parameters"))
			out.WriteString("\n")
		}
		for i, sl := range s.Sliders {
			cursor := " "
			if i == m.slider {
				cursor = cursorStyle.Render(string(sym.Selected))
			}
			bar := widgets.RenderBar(sl.Value(), sl.Min, sl.Max, barWidth, sym.BarFull, sym.BarEmpty)
			fmt.Fprintf(&out, "%s %-14s %s %s\n", cursor, labelStyle.Render(sl.Label), activeStyle.Render(bar), sl.Readout())
		}
		out.WriteString("\n")
	}

	// Samples
	out.WriteString(dimStyle.Render("samples"))
	out.WriteString("\n")
	if len(s.Banks) == 0 {
		out.WriteString(dimStyle.Render("  no sample columns"))
		out.WriteString("\n")
	}
	for i, b := range s.Banks {
		checked := make([]bool, b.Slots())
		for j := range checked {
			checked[j] = b.Checked(j)
		}
		cursor := " "
		if i == m.column {
			cursor = cursorStyle.Render(string(sym.Selected))
		}
		fmt.Fprintf(&out, "%s %s  %s\n", cursor, labelStyle.Render(b.Column), widgets.RenderSlots(checked, sym.SlotOn, sym.SlotOff, activeStyle))
	}
	out.WriteString("\n")

	// Keyboard
	if kb := s.Keyboard; kb != nil {
		var keys []string
		for i, k := range kb.Keys {
			trig := ""
			if i < len(keyTriggers) {
				trig = keyTriggers[i]
			}
			keys = append(keys, widgets.RenderKey(trig, k.Note, k.Pressed(), sym.KeyUp, sym.KeyDown, labelStyle))
		}
		out.WriteString(strings.Join(keys, "  "))
		out.WriteString("\n\n")
	} else {
		out.WriteString(dimStyle.Render("no MIDI input"))
		out.WriteString("\n\n")
	}

	// Ports and presets
	if s.Inports != nil {
		out.WriteString(dimStyle.Render("inports: " + strings.Join(s.Inports.Tags(), " ")))
		out.WriteString("\n")
	}
	if s.Outports != nil {
		out.WriteString(dimStyle.Render("outport: "))
		out.WriteString(labelStyle.Render(m.Board.Text(controls.ConsoleReadout)))
		out.WriteString("\n")
	}
	if p := s.Presets; p != nil && p.Current() >= 0 {
		out.WriteString(dimStyle.Render("preset: " + p.Names()[p.Current()]))
		out.WriteString("\n")
	}

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(activeStyle.Render(m.status))
	}
	out.WriteString("\n\n")

	if m.help {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(helpSections)))
	} else {
		out.WriteString(dimStyle.Render("↑↓:param  ←→:nudge  asdfgert:column  1-8:slot  zxcv:keys  p:preset  ?:help  q:quit"))
	}
	return out.String()
}

var helpSections = []widgets.KeySection{
	{
		Title: "Effects",
		Keys: []widgets.KeyBinding{
			{Key: "↑/↓ k/j", Desc: "select parameter"},
			{Key: "←/→ h/l", Desc: "nudge one step"},
			{Key: "H/L", Desc: "nudge ten steps"},
			{Key: "tab", Desc: "show/hide effects"},
		},
	},
	{
		Title: "Samples",
		Keys: []widgets.KeyBinding{
			{Key: "asdfgert", Desc: "focus column"},
			{Key: "1-8", Desc: "toggle slot"},
		},
	},
	{
		Title: "Other",
		Keys: []widgets.KeyBinding{
			{Key: "zxcvbnm", Desc: "play keyboard"},
			{Key: "p", Desc: "next preset"},
			{Key: "S/R", Desc: "save/restore snapshot"},
			{Key: "q", Desc: "quit"},
		},
	},
}
