//go:build js && wasm

// Package web draws the controls into the browser page and provides the
// browser halves of the runtime loader and error reporting.
package web

import (
	"fmt"
	"strconv"
	"syscall/js"

	"go-rnbo/controls"
	"go-rnbo/debug"
)

// Surface renders controls into the page's mount elements
type Surface struct {
	doc   js.Value
	funcs []js.Func
}

func NewSurface() *Surface {
	return &Surface{doc: js.Global().Get("document")}
}

func (s *Surface) byID(id string) js.Value {
	return s.doc.Call("getElementById", id)
}

func (s *Surface) create(tag string) js.Value {
	return s.doc.Call("createElement", tag)
}

// on attaches a listener and keeps the func alive for the page's lifetime
func (s *Surface) on(el js.Value, event string, fn func(ev js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	s.funcs = append(s.funcs, f)
	el.Call("addEventListener", event, f)
}

func (s *Surface) Remove(mount, id string) {
	el := s.byID(id)
	if !el.Truthy() {
		return
	}
	el.Get("parentNode").Call("removeChild", el)
}

func (s *Surface) SetText(id, text string) {
	if el := s.byID(id); el.Truthy() {
		el.Set("innerText", text)
	}
}

func (s *Surface) MountSlider(sl *controls.Slider) {
	mount := s.byID(controls.SlidersMount)
	if !mount.Truthy() {
		return
	}

	div := s.create("div")
	label := s.create("label")
	label.Set("textContent", sl.Label+": ")
	label.Call("setAttribute", "name", sl.Name)
	label.Call("setAttribute", "for", sl.Name)
	label.Get("classList").Call("add", "param-label")

	input := s.create("input")
	input.Set("type", "range")
	input.Set("id", sl.Name)
	input.Set("name", sl.Name)
	input.Get("classList").Call("add", "param-slider")
	input.Call("setAttribute", "min", sl.Min)
	input.Call("setAttribute", "max", sl.Max)
	input.Call("setAttribute", "step", sl.Step)
	input.Set("value", sl.Value())

	readout := s.create("span")
	readout.Get("classList").Call("add", "param-readout")
	readout.Set("textContent", sl.Readout())

	s.on(input, "input", func(js.Value) {
		v, err := strconv.ParseFloat(input.Get("value").String(), 64)
		if err != nil {
			return
		}
		sl.Input(v)
		readout.Set("textContent", sl.Readout())
	})

	div.Call("appendChild", label)
	div.Call("appendChild", input)
	div.Call("appendChild", readout)
	mount.Call("appendChild", div)
}

func (s *Surface) MountSampleBank(b *controls.SampleBank) {
	mount := s.byID(b.MountID())
	if !mount.Truthy() {
		debug.Log("web", "no mount for %s", b.MountID())
		return
	}

	boxes := make([]js.Value, b.Slots())
	for i := range boxes {
		id := fmt.Sprintf("%s-%d", b.MountID(), i)
		div := s.create("div")
		label := s.create("label")
		label.Set("textContent", strconv.Itoa(i))
		label.Call("setAttribute", "for", id)

		cb := s.create("input")
		cb.Set("type", "checkbox")
		cb.Set("id", id)
		cb.Get("classList").Call("add", "sample-checkbox")
		boxes[i] = cb

		slot := i
		s.on(cb, "change", func(js.Value) {
			if err := b.Toggle(slot, cb.Get("checked").Bool()); err != nil {
				debug.Log("web", "sample toggle: %v", err)
			}
			for j, other := range boxes {
				other.Set("checked", b.Checked(j))
			}
		})

		div.Call("appendChild", label)
		div.Call("appendChild", cb)
		mount.Call("appendChild", div)
	}
}

func (s *Surface) MountInports(f *controls.InportForm) {
	sel := s.byID(controls.InportSelectID)
	form := s.byID(controls.InportFormID)
	if !sel.Truthy() || !form.Truthy() {
		return
	}

	for _, tag := range f.Tags() {
		opt := s.create("option")
		opt.Set("textContent", tag)
		opt.Set("value", tag)
		sel.Call("appendChild", opt)
	}
	sel.Set("value", f.Selected())

	s.on(sel, "change", func(js.Value) {
		if err := f.Select(sel.Get("value").String()); err != nil {
			debug.Log("web", "inport select: %v", err)
		}
	})
	s.on(form, "submit", func(ev js.Value) {
		ev.Call("preventDefault")
		text := s.byID(controls.InportTextID).Get("value").String()
		if _, err := f.Submit(text); err != nil {
			debug.Log("web", "inport send: %v", err)
		}
	})
}

// MountOutports has nothing to draw; the console updates the readout by id
func (s *Surface) MountOutports(c *controls.OutportConsole) {}

func (s *Surface) MountPresets(p *controls.PresetSelector) {
	sel := s.byID(controls.PresetSelectID)
	if !sel.Truthy() {
		return
	}
	for i, name := range p.Names() {
		opt := s.create("option")
		opt.Set("textContent", name)
		opt.Set("value", i)
		sel.Call("appendChild", opt)
	}
	s.on(sel, "change", func(js.Value) {
		i, err := strconv.Atoi(sel.Get("value").String())
		if err != nil {
			return
		}
		if err := p.Select(i); err != nil {
			debug.Log("web", "preset: %v", err)
		}
	})
}

func (s *Surface) MountKey(k *controls.Key) {
	mount := s.byID(controls.KeyboardMount)
	if !mount.Truthy() {
		return
	}

	key := s.create("div")
	label := s.create("p")
	label.Set("textContent", strconv.Itoa(int(k.Note)))
	key.Call("appendChild", label)
	classes := key.Get("classList")

	s.on(key, "pointerdown", func(js.Value) {
		if err := k.Press(); err != nil {
			debug.Log("web", "key %d: %v", k.Note, err)
			return
		}
		classes.Call("add", "clicked")
	})
	s.on(key, "pointerup", func(js.Value) {
		k.Release()
		classes.Call("remove", "clicked")
	})

	mount.Call("appendChild", key)
}

// Release frees every listener the surface created
func (s *Surface) Release() {
	for _, f := range s.funcs {
		f.Release()
	}
	s.funcs = nil
}
