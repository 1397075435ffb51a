// Package snapshot saves and restores the state of a patch's controls:
// parameter values, playing sample slots and the last preset.
package snapshot

import (
	"fmt"

	"go-rnbo/debug"
	"go-rnbo/page"
	"go-rnbo/rnbo"
)

// Snapshot is the saved control state of one patch
type Snapshot struct {
	Patch   string             `json:"patch"`
	Params  map[string]float64 `json:"params"`
	Samples map[string]int     `json:"samples,omitempty"` // column -> slot, -1 when stopped
	Preset  int                `json:"preset"`
}

// Capture reads the session's current state. Sample bank parameters are
// kept as slot selections, not raw values.
func Capture(s *page.Session) *Snapshot {
	snap := &Snapshot{
		Patch:   s.Description.Title("untitled"),
		Params:  make(map[string]float64),
		Samples: make(map[string]int),
		Preset:  -1,
	}

	skip := make(map[string]bool)
	for _, b := range s.Banks {
		play, stop := b.Params()
		skip[play], skip[stop] = true, true
		snap.Samples[b.Column] = b.Current()
	}
	for _, p := range s.Device.Parameters() {
		if !skip[p.Name()] {
			snap.Params[p.Name()] = p.Value()
		}
	}
	if s.Presets != nil {
		snap.Preset = s.Presets.Current()
	}
	return snap
}

// Apply writes snap back to the session. Parameters the device no longer
// has are skipped.
func Apply(s *page.Session, snap *Snapshot) error {
	sliders := make(map[string]bool)
	for _, sl := range s.Sliders {
		if v, ok := snap.Params[sl.Name]; ok {
			sl.Input(v)
		}
		sliders[sl.Name] = true
	}
	for name, v := range snap.Params {
		if sliders[name] {
			continue
		}
		p := rnbo.FindParameter(s.Device, name)
		if p == nil {
			debug.Log("snapshot", "skipping unknown parameter %s", name)
			continue
		}
		p.SetValue(v)
	}

	for _, b := range s.Banks {
		slot, ok := snap.Samples[b.Column]
		if !ok {
			continue
		}
		var err error
		switch {
		case slot >= 0:
			err = b.Toggle(slot, true)
		case b.Current() >= 0:
			err = b.Toggle(b.Current(), false)
		}
		if err != nil {
			return fmt.Errorf("restore column %s: %w", b.Column, err)
		}
	}
	return nil
}
