package controls

import (
	"fmt"

	"go-rnbo/debug"
	"go-rnbo/rnbo"
)

// sliderSteps is how many discrete positions a slider has across its range
const sliderSteps = 100

// Slider is a range control bound to one parameter
type Slider struct {
	param rnbo.Parameter

	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64

	value float64
}

func newSlider(p rnbo.Parameter) *Slider {
	return &Slider{
		param: p,
		Name:  p.Name(),
		Label: p.DisplayName(),
		Min:   p.Min(),
		Max:   p.Max(),
		Step:  (p.Max() - p.Min()) / sliderSteps,
		value: p.Value(),
	}
}

func (s *Slider) Value() float64 {
	return s.value
}

// Readout is the value as shown next to the slider
func (s *Slider) Readout() string {
	return fmt.Sprintf("%.2f", s.value)
}

// Input writes a new value to the parameter
func (s *Slider) Input(v float64) {
	s.value = v
	s.param.SetValue(v)
	debug.LogEvery(20, "slider", "%s = %.2f", s.Name, v)
}

// Nudge moves the slider by n steps, staying inside the range
func (s *Slider) Nudge(n int) {
	s.Input(min(max(s.value+float64(n)*s.Step, s.Min), s.Max))
}

// BindSliders creates a slider for each parameter allow accepts. Other
// parameters are never exposed.
func BindSliders(surface Surface, dev rnbo.Device, allow func(name string) bool) []*Slider {
	var sliders []*Slider
	for _, p := range dev.Parameters() {
		if !allow(p.Name()) {
			continue
		}
		sliders = append(sliders, newSlider(p))
	}
	if len(sliders) == 0 {
		return nil
	}

	surface.Remove(SlidersMount, NoParamLabel)
	for _, s := range sliders {
		surface.MountSlider(s)
	}
	return sliders
}

// EffectsPanel tracks whether the slider panel is shown
type EffectsPanel struct {
	visible bool
}

// Toggle flips visibility and returns the new state
func (p *EffectsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

func (p *EffectsPanel) Visible() bool {
	return p.visible
}

// Classes returns the CSS class to add and the one to remove
func (p *EffectsPanel) Classes() (add, remove string) {
	if p.visible {
		return "up", "down"
	}
	return "down", "up"
}
