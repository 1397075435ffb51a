package controls

import (
	"fmt"

	"go-rnbo/debug"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
)

// PresetSelector applies the patch's saved presets
type PresetSelector struct {
	dev     rnbo.Device
	presets []patch.Preset
	current int
}

// BindPresets fills the preset selector. It removes the selector and returns
// nil when the patch has no presets.
func BindPresets(surface Surface, dev rnbo.Device, presets []patch.Preset) *PresetSelector {
	if len(presets) == 0 {
		surface.Remove(PresetsMount, PresetSelectID)
		return nil
	}

	p := &PresetSelector{dev: dev, presets: presets, current: -1}
	surface.Remove(PresetsMount, NoPresetsLabel)
	surface.MountPresets(p)
	return p
}

func (p *PresetSelector) Names() []string {
	names := make([]string, len(p.presets))
	for i, pr := range p.presets {
		names[i] = pr.Name
	}
	return names
}

// Current is the index of the last applied preset, or -1
func (p *PresetSelector) Current() int {
	return p.current
}

// Select applies preset i to the device
func (p *PresetSelector) Select(i int) error {
	if i < 0 || i >= len(p.presets) {
		return fmt.Errorf("preset %d out of range", i)
	}
	if err := p.dev.SetPreset(p.presets[i].Preset); err != nil {
		return fmt.Errorf("preset %q: %w", p.presets[i].Name, err)
	}
	p.current = i
	debug.Log("preset", "applied %s", p.presets[i].Name)
	return nil
}
