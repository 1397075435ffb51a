package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go-rnbo/page"
	"go-rnbo/theme"
)

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := Reporter{W: &buf, Theme: theme.New(nil)}
	r.Report(page.ErrorContext{
		Err:         errors.New("status 404"),
		Header:      "Couldn't load patcher export bundle",
		Description: "check export/patch.export.json",
	})
	out := buf.String()
	for _, want := range []string{"Couldn't load", "check export", "status 404"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReporterDefaultHeader(t *testing.T) {
	var buf bytes.Buffer
	Reporter{W: &buf, Theme: theme.New(nil)}.Report(page.ErrorContext{Err: errors.New("boom")})
	if !strings.Contains(buf.String(), "Setup failed") {
		t.Errorf("got %q", buf.String())
	}
}
