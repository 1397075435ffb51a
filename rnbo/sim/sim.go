// Package sim is a native stand-in for the browser device runtime. It keeps
// parameter state, records scheduled events and decodes sample dependencies,
// but renders no audio.
package sim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"go-rnbo/debug"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
)

// AudioContext is a simulated audio graph with a settable clock
type AudioContext struct {
	// Clock returns the audio time in seconds
	Clock func() float64

	mu      sync.Mutex
	resumed bool
	outputs []*Output
}

// NewAudioContext returns a context whose clock starts at zero now
func NewAudioContext() *AudioContext {
	start := time.Now()
	return &AudioContext{
		Clock: func() float64 { return time.Since(start).Seconds() },
	}
}

func (ac *AudioContext) CurrentTime() float64 {
	return ac.Clock()
}

func (ac *AudioContext) Resume() error {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.resumed = true
	return nil
}

func (ac *AudioContext) Resumed() bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.resumed
}

func (ac *AudioContext) NewOutput() (rnbo.Output, error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	out := &Output{}
	ac.outputs = append(ac.outputs, out)
	return out, nil
}

// Output counts the devices summed into it
type Output struct {
	mu      sync.Mutex
	devices int
}

func (o *Output) ConnectedDevices() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.devices
}

// Runtime builds simulated devices. Sample dependencies are read from FS.
type Runtime struct {
	FS fs.FS
}

// CreateDevice builds a device from the exported description
func (r *Runtime) CreateDevice(ctx context.Context, ac rnbo.AudioContext, desc *patch.Description) (rnbo.Device, error) {
	if desc == nil {
		return nil, errors.New("create device: no patch description")
	}
	if ac == nil {
		return nil, errors.New("create device: no audio context")
	}
	return NewDevice(ac, desc, r.FS), nil
}

// Buffer is a decoded data dependency
type Buffer struct {
	ID         string
	File       string
	Channels   int
	SampleRate int
	Frames     int
}

// Device is a simulated patch instance
type Device struct {
	ac       rnbo.AudioContext
	fsys     fs.FS
	params   []*Param
	ports    []rnbo.MessagePort
	numMIDIs int

	mu        sync.Mutex
	scheduled []rnbo.Event
	subs      map[int]func(rnbo.MessageEvent)
	nextSub   int
	buffers   map[string]Buffer
	outputs   []rnbo.Output
}

// NewDevice builds a device from desc; fsys may be nil if the patch has no
// file dependencies
func NewDevice(ac rnbo.AudioContext, desc *patch.Description, fsys fs.FS) *Device {
	d := &Device{
		ac:       ac,
		fsys:     fsys,
		numMIDIs: desc.Desc.NumMIDIInputPorts,
		subs:     make(map[int]func(rnbo.MessageEvent)),
		buffers:  make(map[string]Buffer),
	}
	for _, p := range desc.Desc.Parameters {
		d.params = append(d.params, &Param{
			name:    p.Name,
			display: p.Label(),
			min:     p.Minimum,
			max:     p.Maximum,
			value:   clamp(p.InitialValue, p.Minimum, p.Maximum),
		})
	}
	for _, p := range desc.Desc.Inports {
		d.ports = append(d.ports, rnbo.MessagePort{Tag: p.Tag, Type: rnbo.Inport})
	}
	for _, p := range desc.Desc.Outports {
		d.ports = append(d.ports, rnbo.MessagePort{Tag: p.Tag, Type: rnbo.Outport})
	}
	return d
}

func (d *Device) Parameters() []rnbo.Parameter {
	out := make([]rnbo.Parameter, len(d.params))
	for i, p := range d.params {
		out[i] = p
	}
	return out
}

// Param returns the concrete parameter called name, or nil
func (d *Device) Param(name string) *Param {
	for _, p := range d.params {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (d *Device) Messages() []rnbo.MessagePort {
	return append([]rnbo.MessagePort(nil), d.ports...)
}

func (d *Device) NumMIDIInputPorts() int {
	return d.numMIDIs
}

func (d *Device) Context() rnbo.AudioContext {
	return d.ac
}

func (d *Device) ScheduleEvent(ev rnbo.Event) error {
	switch e := ev.(type) {
	case rnbo.MessageEvent:
		debug.Log("sim", "message %s at %v", e, e.Time)
	case rnbo.MIDIEvent:
		if e.Port < 0 || e.Port >= d.numMIDIs {
			return fmt.Errorf("schedule: midi port %d out of range", e.Port)
		}
		debug.Log("sim", "midi % x at %.1f", e.Data, e.Time)
	default:
		return fmt.Errorf("schedule: unsupported event %T", ev)
	}
	d.mu.Lock()
	d.scheduled = append(d.scheduled, ev)
	d.mu.Unlock()
	return nil
}

// Scheduled returns every event scheduled so far
func (d *Device) Scheduled() []rnbo.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]rnbo.Event(nil), d.scheduled...)
}

// SetPreset applies {"param": {"value": v}} or {"param": v} entries.
// Entries naming no parameter are ignored.
func (d *Device) SetPreset(preset json.RawMessage) error {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(preset, &entries); err != nil {
		return fmt.Errorf("set preset: %w", err)
	}
	for name, raw := range entries {
		p := d.Param(name)
		if p == nil {
			continue
		}
		var v struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			if err := json.Unmarshal(raw, &v.Value); err != nil {
				return fmt.Errorf("set preset %s: %w", name, err)
			}
		}
		p.SetValue(v.Value)
	}
	return nil
}

func (d *Device) SubscribeMessages(fn func(rnbo.MessageEvent)) func() {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Emit delivers a message event to subscribers, as if the patch sent it
func (d *Device) Emit(tag string, payload ...float64) {
	ev := rnbo.MessageEvent{Time: rnbo.AudioTimeMs(d.ac), Tag: tag, Payload: payload}

	d.mu.Lock()
	subs := make([]func(rnbo.MessageEvent), 0, len(d.subs))
	for _, fn := range d.subs {
		subs = append(subs, fn)
	}
	d.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (d *Device) Connect(out rnbo.Output) error {
	o, ok := out.(*Output)
	if !ok {
		return fmt.Errorf("connect: foreign output %T", out)
	}
	o.mu.Lock()
	o.devices++
	o.mu.Unlock()

	d.mu.Lock()
	d.outputs = append(d.outputs, out)
	d.mu.Unlock()
	return nil
}

// Buffers returns the decoded dependencies by id
func (d *Device) Buffers() map[string]Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]Buffer, len(d.buffers))
	for k, v := range d.buffers {
		out[k] = v
	}
	return out
}

// Param is a simulated parameter. Values are clamped to [min, max].
type Param struct {
	name, display string
	min, max      float64

	mu     sync.Mutex
	value  float64
	writes []float64
}

func (p *Param) Name() string        { return p.name }
func (p *Param) DisplayName() string { return p.display }
func (p *Param) Min() float64        { return p.min }
func (p *Param) Max() float64        { return p.max }

func (p *Param) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

func (p *Param) SetValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = clamp(v, p.min, p.max)
	p.writes = append(p.writes, p.value)
}

// Writes returns every value written, in order
func (p *Param) Writes() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.writes...)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return v
	}
	return min(max(v, lo), hi)
}
