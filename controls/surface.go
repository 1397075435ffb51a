// Package controls binds generated controls to a device's parameters and
// message ports. Binders only hold control state and talk to the device;
// a Surface decides how the controls are drawn.
package controls

import (
	"sync"
)

// Mount points and placeholders on the page
const (
	TitleID = "patcher-title"

	SlidersMount = "rnbo-parameter-sliders"
	NoParamLabel = "no-param-label"

	SampleMountPrefix = "rnbo-parameter-checkboxes-"
	NoSamplesLabel    = "no-checkboxes-label"

	InportsMount   = "rnbo-inports"
	InportFormID   = "inport-form"
	InportSelectID = "inport-select"
	InportTextID   = "inport-text"
	NoInportsLabel = "no-inports-label"

	ConsoleMount    = "rnbo-console"
	ConsoleDiv      = "rnbo-console-div"
	ConsoleReadout  = "rnbo-console-readout"
	NoOutportsLabel = "no-outports-label"

	PresetsMount   = "rnbo-presets"
	PresetSelectID = "preset-select"
	NoPresetsLabel = "no-presets-label"

	KeyboardMount = "rnbo-clickable-keyboard"
	NoMIDILabel   = "no-midi-label"
)

// Surface is where binders put their controls
type Surface interface {
	// Remove prunes element id from mount. Missing elements are ignored.
	Remove(mount, id string)
	SetText(id, text string)

	MountSlider(s *Slider)
	MountSampleBank(b *SampleBank)
	MountInports(f *InportForm)
	MountOutports(c *OutportConsole)
	MountPresets(p *PresetSelector)
	MountKey(k *Key)
}

// Board is an in-memory Surface used by the terminal preview and tests
type Board struct {
	// mu guards every field, including the mounted controls
	mu      sync.Mutex
	removed map[string]bool
	text    map[string]string

	Sliders  []*Slider
	Banks    []*SampleBank
	Inports  *InportForm
	Outports *OutportConsole
	Presets  *PresetSelector
	Keys     []*Key
}

func NewBoard() *Board {
	return &Board{
		removed: make(map[string]bool),
		text:    make(map[string]string),
	}
}

func (b *Board) Remove(mount, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed[id] = true
}

// Removed reports whether element id was pruned
func (b *Board) Removed(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removed[id]
}

func (b *Board) SetText(id, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text[id] = text
}

func (b *Board) Text(id string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text[id]
}

func (b *Board) MountSlider(s *Slider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sliders = append(b.Sliders, s)
}

func (b *Board) MountSampleBank(sb *SampleBank) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Banks = append(b.Banks, sb)
}

func (b *Board) MountInports(f *InportForm) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Inports = f
}

func (b *Board) MountOutports(c *OutportConsole) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Outports = c
}

func (b *Board) MountPresets(p *PresetSelector) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Presets = p
}

func (b *Board) MountKey(k *Key) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Keys = append(b.Keys, k)
}
