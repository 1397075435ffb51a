package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"go-rnbo/page"
	"go-rnbo/theme"
)

// Reporter prints setup failures before the preview starts
type Reporter struct {
	W     io.Writer
	Theme *theme.Theme
}

func (r Reporter) Report(ec page.ErrorContext) {
	warn := lipgloss.NewStyle().Foreground(r.Theme.Warning()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(r.Theme.Muted())

	header := ec.Header
	if header == "" {
		header = "Setup failed"
	}
	fmt.Fprintln(r.W, warn.Render(header))
	if ec.Description != "" {
		fmt.Fprintln(r.W, ec.Description)
	}
	fmt.Fprintln(r.W, dim.Render(ec.Err.Error()))
}
