// Package rnbo describes the device runtime that instantiates exported
// patches. The runtime itself is external: in the browser it is the RNBO
// script, natively it is the simulator in rnbo/sim.
package rnbo

import (
	"context"
	"encoding/json"

	"go-rnbo/patch"
)

// PortType classifies message ports
type PortType int

const (
	Inport PortType = iota
	Outport
)

func (t PortType) String() string {
	switch t {
	case Inport:
		return "inport"
	case Outport:
		return "outport"
	}
	return "unknown"
}

// MessagePort is a named message endpoint on a device
type MessagePort struct {
	Tag  string
	Type PortType
}

// Parameter is a live device parameter
type Parameter interface {
	Name() string
	DisplayName() string
	Min() float64
	Max() float64
	Value() float64
	SetValue(v float64)
}

// Output is the node device audio is summed into
type Output interface {
	ConnectedDevices() int
}

// AudioContext is the audio graph a device runs in
type AudioContext interface {
	// CurrentTime is the audio clock in seconds
	CurrentTime() float64
	Resume() error
	// NewOutput creates a gain node connected to the destination
	NewOutput() (Output, error)
}

// Device is an instantiated patch
type Device interface {
	Parameters() []Parameter
	Messages() []MessagePort
	NumMIDIInputPorts() int

	ScheduleEvent(ev Event) error
	SetPreset(preset json.RawMessage) error
	LoadDataBufferDependencies(ctx context.Context, deps []patch.Dependency) error

	// SubscribeMessages calls fn for every message event the device emits
	SubscribeMessages(fn func(MessageEvent)) (unsubscribe func())

	Context() AudioContext
	Connect(out Output) error
}

// Runtime constructs devices from patch descriptions
type Runtime interface {
	CreateDevice(ctx context.Context, ac AudioContext, desc *patch.Description) (Device, error)
}

// FindParameter returns the parameter called name, or nil
func FindParameter(d Device, name string) Parameter {
	for _, p := range d.Parameters() {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Ports filters a device's message ports by type
func Ports(d Device, t PortType) []MessagePort {
	var out []MessagePort
	for _, m := range d.Messages() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}
