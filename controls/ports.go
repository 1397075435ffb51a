package controls

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go-rnbo/debug"
	"go-rnbo/rnbo"
)

// InportForm sends user-typed number lists to a device inport
type InportForm struct {
	dev      rnbo.Device
	tags     []string
	selected string
}

// BindInportForm populates the inport selector. It removes the form and
// returns nil when the device has no inports.
func BindInportForm(surface Surface, dev rnbo.Device) *InportForm {
	inports := rnbo.Ports(dev, rnbo.Inport)
	if len(inports) == 0 {
		surface.Remove(InportsMount, InportFormID)
		return nil
	}

	f := &InportForm{dev: dev}
	for _, p := range inports {
		f.tags = append(f.tags, p.Tag)
	}
	f.selected = f.tags[0]

	surface.Remove(InportsMount, NoInportsLabel)
	surface.MountInports(f)
	return f
}

func (f *InportForm) Tags() []string {
	return f.tags
}

func (f *InportForm) Selected() string {
	return f.selected
}

// Select changes the target inport
func (f *InportForm) Select(tag string) error {
	for _, t := range f.tags {
		if t == tag {
			f.selected = tag
			return nil
		}
	}
	return fmt.Errorf("unknown inport %q", tag)
}

// Submit parses text and schedules it for immediate delivery to the selected inport
func (f *InportForm) Submit(text string) (rnbo.MessageEvent, error) {
	ev := rnbo.MessageEvent{
		Time:    rnbo.TimeNow,
		Tag:     f.selected,
		Payload: ParsePayload(text),
	}
	if err := f.dev.ScheduleEvent(ev); err != nil {
		return ev, fmt.Errorf("send to %s: %w", f.selected, err)
	}
	debug.Log("inport", "sent %s", ev)
	return ev, nil
}

// ParsePayload splits text on whitespace and parses each field as a float.
// Fields that are not numbers become NaN and are passed on as-is.
func ParsePayload(text string) []float64 {
	fields := strings.Fields(text)
	values := make([]float64, len(fields))
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = math.NaN()
		}
		values[i] = v
	}
	return values
}

// OutportConsole mirrors outport messages to the log and a readout
type OutportConsole struct {
	surface     Surface
	tags        map[string]bool
	unsubscribe func()

	mu      sync.Mutex
	readout string
}

// BindOutports subscribes to the device's messages. It removes the console
// and returns nil when the device has no outports.
func BindOutports(surface Surface, dev rnbo.Device) *OutportConsole {
	outports := rnbo.Ports(dev, rnbo.Outport)
	if len(outports) == 0 {
		surface.Remove(ConsoleMount, ConsoleDiv)
		return nil
	}

	c := &OutportConsole{
		surface: surface,
		tags:    make(map[string]bool, len(outports)),
	}
	for _, p := range outports {
		c.tags[p.Tag] = true
	}

	surface.Remove(ConsoleMount, NoOutportsLabel)
	surface.MountOutports(c)
	c.unsubscribe = dev.SubscribeMessages(c.handle)
	return c
}

func (c *OutportConsole) handle(ev rnbo.MessageEvent) {
	if !c.tags[ev.Tag] {
		return
	}
	text := ev.String()
	debug.Log("outport", "%s", text)

	c.mu.Lock()
	c.readout = text
	c.mu.Unlock()
	c.surface.SetText(ConsoleReadout, text)
}

// Readout is the last outport message shown
func (c *OutportConsole) Readout() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readout
}

// Close stops listening to the device
func (c *OutportConsole) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}
