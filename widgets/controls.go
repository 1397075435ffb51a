package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBar draws value within [min, max] as a bar width cells wide
func RenderBar(value, min, max float64, width int, full, empty rune) string {
	if width <= 0 {
		return ""
	}
	n := 0
	if max > min {
		n = int((value - min) / (max - min) * float64(width))
	}
	n = clamp(n, 0, width)
	return strings.Repeat(string(full), n) + strings.Repeat(string(empty), width-n)
}

// RenderSlots renders a row of sample slots, marking the checked ones
func RenderSlots(checked []bool, on, off rune, style lipgloss.Style) string {
	var out strings.Builder
	for i, c := range checked {
		if i > 0 {
			out.WriteString(" ")
		}
		if c {
			out.WriteString(style.Render(string(on)))
		} else {
			out.WriteRune(off)
		}
	}
	return out.String()
}

// RenderKey renders one keyboard key with its trigger and note
func RenderKey(trigger string, note uint8, pressed bool, up, down rune, style lipgloss.Style) string {
	sym := up
	if pressed {
		sym = down
	}
	return style.Render(fmt.Sprintf("%c %s:%d", sym, trigger, note))
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
