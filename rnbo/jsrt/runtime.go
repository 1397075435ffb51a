//go:build js && wasm

package jsrt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"syscall/js"

	"go-rnbo/patch"
	"go-rnbo/rnbo"
)

// Runtime wraps the RNBO namespace object
type Runtime struct {
	ns js.Value
}

// Global returns the runtime if the RNBO script has been loaded
func Global() (*Runtime, bool) {
	ns := js.Global().Get("RNBO")
	if !ns.Truthy() {
		return nil, false
	}
	return &Runtime{ns: ns}, true
}

func (r *Runtime) CreateDevice(ctx context.Context, ac rnbo.AudioContext, desc *patch.Description) (rnbo.Device, error) {
	jac, ok := ac.(*AudioContext)
	if !ok {
		return nil, fmt.Errorf("create device: audio context %T is not a browser context", ac)
	}
	patcher, err := parseJSON(desc.Raw())
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}

	opts := js.Global().Get("Object").New()
	opts.Set("context", jac.v)
	opts.Set("patcher", patcher)

	var promise js.Value
	if err := try(func() { promise = r.ns.Call("createDevice", opts) }); err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	v, err := Await(ctx, promise)
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}
	return &Device{rt: r, v: v, ac: jac}, nil
}

func (r *Runtime) eventTime(t float64) js.Value {
	if t == rnbo.TimeNow {
		return r.ns.Get("TimeNow")
	}
	return js.ValueOf(t)
}

// AudioContext wraps a Web Audio context
type AudioContext struct {
	v js.Value
}

// NewAudioContext creates an AudioContext, falling back to the webkit prefix
func NewAudioContext() (*AudioContext, error) {
	ctor := js.Global().Get("AudioContext")
	if !ctor.Truthy() {
		ctor = js.Global().Get("webkitAudioContext") // safari
	}
	if !ctor.Truthy() {
		return nil, errors.New("web audio is not available")
	}
	return &AudioContext{v: ctor.New()}, nil
}

func (ac *AudioContext) CurrentTime() float64 {
	return ac.v.Get("currentTime").Float()
}

func (ac *AudioContext) Resume() error {
	return try(func() { ac.v.Call("resume") })
}

func (ac *AudioContext) NewOutput() (rnbo.Output, error) {
	out := &Output{}
	err := try(func() {
		out.v = ac.v.Call("createGain")
		out.v.Call("connect", ac.v.Get("destination"))
	})
	if err != nil {
		return nil, fmt.Errorf("create gain: %w", err)
	}
	return out, nil
}

// Output is a gain node feeding the destination
type Output struct {
	v       js.Value
	devices int
}

func (o *Output) ConnectedDevices() int {
	return o.devices
}

// Device wraps an RNBO device
type Device struct {
	rt *Runtime
	v  js.Value
	ac *AudioContext
}

func (d *Device) Parameters() []rnbo.Parameter {
	arr := d.v.Get("parameters")
	out := make([]rnbo.Parameter, arr.Length())
	for i := range out {
		out[i] = param{arr.Index(i)}
	}
	return out
}

func (d *Device) Messages() []rnbo.MessagePort {
	inport := d.rt.ns.Get("MessagePortType").Get("Inport")
	arr := d.v.Get("messages")
	out := make([]rnbo.MessagePort, arr.Length())
	for i := range out {
		m := arr.Index(i)
		t := rnbo.Outport
		if m.Get("type").Equal(inport) {
			t = rnbo.Inport
		}
		out[i] = rnbo.MessagePort{Tag: m.Get("tag").String(), Type: t}
	}
	return out
}

func (d *Device) NumMIDIInputPorts() int {
	return d.v.Get("numMIDIInputPorts").Int()
}

func (d *Device) ScheduleEvent(ev rnbo.Event) error {
	var jev js.Value
	switch e := ev.(type) {
	case rnbo.MessageEvent:
		jev = d.rt.ns.Get("MessageEvent").New(d.rt.eventTime(e.Time), e.Tag, floatArray(e.Payload))
	case rnbo.MIDIEvent:
		jev = d.rt.ns.Get("MIDIEvent").New(d.rt.eventTime(e.Time), e.Port, byteArray(e.Data))
	default:
		return fmt.Errorf("schedule: unsupported event %T", ev)
	}
	return try(func() { d.v.Call("scheduleEvent", jev) })
}

func (d *Device) SetPreset(preset json.RawMessage) error {
	v, err := parseJSON(preset)
	if err != nil {
		return err
	}
	return try(func() { d.v.Call("setPreset", v) })
}

func (d *Device) LoadDataBufferDependencies(ctx context.Context, deps []patch.Dependency) error {
	data, err := json.Marshal(deps)
	if err != nil {
		return err
	}
	arr, err := parseJSON(data)
	if err != nil {
		return err
	}
	var promise js.Value
	if err := try(func() { promise = d.v.Call("loadDataBufferDependencies", arr) }); err != nil {
		return err
	}
	_, err = Await(ctx, promise)
	return err
}

func (d *Device) SubscribeMessages(fn func(rnbo.MessageEvent)) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := arg0(args)
		fn(rnbo.MessageEvent{
			Time:    ev.Get("time").Float(),
			Tag:     ev.Get("tag").String(),
			Payload: floats(ev.Get("payload")),
		})
		return nil
	})
	sub := d.v.Get("messageEvent").Call("subscribe", cb)
	return func() {
		if sub.Truthy() && sub.Get("unsubscribe").Type() == js.TypeFunction {
			sub.Call("unsubscribe")
		}
		cb.Release()
	}
}

func (d *Device) Context() rnbo.AudioContext {
	return d.ac
}

func (d *Device) Connect(out rnbo.Output) error {
	o, ok := out.(*Output)
	if !ok {
		return fmt.Errorf("connect: foreign output %T", out)
	}
	if err := try(func() { d.v.Get("node").Call("connect", o.v) }); err != nil {
		return err
	}
	o.devices++
	return nil
}

type param struct {
	v js.Value
}

func (p param) Name() string { return p.v.Get("name").String() }

func (p param) DisplayName() string {
	if n := p.v.Get("displayName"); n.Truthy() {
		return n.String()
	}
	return p.Name()
}

func (p param) Min() float64       { return p.v.Get("min").Float() }
func (p param) Max() float64       { return p.v.Get("max").Float() }
func (p param) Value() float64     { return p.v.Get("value").Float() }
func (p param) SetValue(v float64) { p.v.Set("value", v) }
