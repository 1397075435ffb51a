package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go-rnbo/config"
	"go-rnbo/controls"
	"go-rnbo/page"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
	"go-rnbo/rnbo/sim"
	"go-rnbo/snapshot"
)

const export = `{
  "desc": {
    "meta": {"rnboversion": "1.3.1", "filename": "console.maxpat"},
    "numMidiInputPorts": 1,
    "parameters": [
      {"name": "FX_1_Clean", "minimum": 0, "maximum": 1},
      {"name": "playsmpb", "minimum": -1, "maximum": 7},
      {"name": "stopsmpb", "minimum": 0, "maximum": 1}
    ],
    "inports": [{"tag": "in1"}],
    "outports": [{"tag": "out1"}]
  },
  "presets": [{"name": "loud", "preset": {"FX_1_Clean": 1}}]
}`

type staticPatch struct{ desc *patch.Description }

func (s staticPatch) LoadDescription(ctx context.Context) (*patch.Description, error) {
	return s.desc, nil
}

func (s staticPatch) LoadDependencies(ctx context.Context) []patch.Dependency { return nil }

func newEnv(t *testing.T) *env {
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
	return &env{
		session: s,
		board:   board,
		device:  s.Device.(*sim.Device),
		store:   &snapshot.Store{Dir: t.TempDir()},
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{input: "set FX_1_Clean 0.5", want: "FX_1_Clean = 0.50"},
		{input: "set FX_1_Clean 9", want: "FX_1_Clean = 1.00"},
		{input: "set nope 1", wantErr: "unknown parameter"},
		{input: "set FX_1_Clean", wantErr: "wrong number of arguments"},
		{input: "set FX_1_Clean loud", wantErr: "expected a number"},
		{input: "send in1 1 2.5", want: "in1: 1,2.5"},
		{input: "send out1 1", wantErr: "send error"},
		{input: "emit out1 3 4", want: "out1: 3,4"},
		{input: "sample b 2", want: "b playing 2"},
		{input: "sample b 2", want: "b stopped"},
		{input: "sample z 2", wantErr: "unknown sample column"},
		{input: "preset 0", want: "loud"},
		{input: "note 200", wantErr: "out of range"},
		{input: "bogus", wantErr: "unknown command"},
	}

	e := newEnv(t)
	for _, tt := range tests {
		got, err := e.eval(tt.input)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("%q: err = %v, want %q", tt.input, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNoteSchedulesEvents(t *testing.T) {
	e := newEnv(t)
	if _, err := e.eval("note 49"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.eval("note 60"); err != nil {
		t.Fatal(err)
	}
	out, _ := e.eval("events")
	if lines := strings.Split(out, "\n"); len(lines) != 3 {
		t.Errorf("events:\n%s", out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	out, err := newEnv(t).eval("help")
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range commands {
		if !strings.Contains(out, c.name) {
			t.Errorf("help missing %s", c.name)
		}
	}
}

func TestSaveAndRestore(t *testing.T) {
	e := newEnv(t)
	steps := []struct{ input, want string }{
		{"set FX_1_Clean 0.3", "FX_1_Clean = 0.30"},
		{"save warm", ""},
		{"set FX_1_Clean 0.9", "FX_1_Clean = 0.90"},
		{"restore 0", ""},
	}
	for _, s := range steps {
		got, err := e.eval(s.input)
		if err != nil {
			t.Fatalf("%q: %v", s.input, err)
		}
		if s.want != "" && got != s.want {
			t.Errorf("%q = %q, want %q", s.input, got, s.want)
		}
	}
	if got := e.device.Param("FX_1_Clean").Value(); got != 0.3 {
		t.Errorf("FX_1_Clean = %v after restore, want 0.3", got)
	}
	out, _ := e.eval("saves")
	if !strings.Contains(out, "warm") {
		t.Errorf("saves = %q", out)
	}
	if _, err := e.eval("restore 5"); err == nil {
		t.Error("expected an error for a missing snapshot")
	}

	renamed, err := e.eval("rename 0 bright")
	if err != nil || !strings.HasSuffix(renamed, "_bright.json") {
		t.Fatalf("rename = %q, %v", renamed, err)
	}
	if _, err := e.eval("drop 0"); err != nil {
		t.Fatal(err)
	}
	if out, _ := e.eval("saves"); strings.Contains(out, "bright") {
		t.Errorf("saves after drop = %q", out)
	}
}
