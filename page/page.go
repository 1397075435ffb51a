// Package page runs the startup sequence: load the patch, get a runtime,
// build the device, wire it to the output and bind the controls.
package page

import (
	"context"
	"errors"
	"fmt"

	"go-rnbo/config"
	"go-rnbo/controls"
	"go-rnbo/debug"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
)

// ErrReported marks a setup failure that was already handed to the Reporter
var ErrReported = errors.New("setup failed (reported)")

// ErrorContext is what a Reporter receives
type ErrorContext struct {
	Err         error
	Header      string
	Description string
}

// Reporter presents setup failures to the user
type Reporter interface {
	Report(ec ErrorContext)
}

// ReadyNotifier is implemented by reporters that want to know setup finished
type ReadyNotifier interface {
	Ready()
}

// PatchSource fetches the patch export and its dependencies
type PatchSource interface {
	LoadDescription(ctx context.Context) (*patch.Description, error)
	LoadDependencies(ctx context.Context) []patch.Dependency
}

// Page holds the collaborators of the setup sequence
type Page struct {
	Config   *config.Config
	Patches  PatchSource
	Provider rnbo.Provider
	Audio    rnbo.AudioContext
	Surface  controls.Surface

	// Panel is optional; Setup creates one when nil
	Panel *controls.EffectsPanel

	// Reporter is optional; without it failures are returned as is
	Reporter Reporter
}

// Session is a set-up page: the device and every control bound to it
type Session struct {
	Description  *patch.Description
	Dependencies []patch.Dependency
	Device       rnbo.Device
	Output       rnbo.Output

	Sliders  []*controls.Slider
	Banks    []*controls.SampleBank
	Inports  *controls.InportForm
	Outports *controls.OutportConsole
	Presets  *controls.PresetSelector
	Keyboard *controls.Keyboard
	Panel    *controls.EffectsPanel

	// DependencyErr is set when sample loading failed; the device runs without them
	DependencyErr error
}

// Setup runs the whole sequence. A failure before the device exists stops
// setup; no control is bound in that case.
func (p *Page) Setup(ctx context.Context) (*Session, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	out, err := p.Audio.NewOutput()
	if err != nil {
		return nil, p.fail(ErrorContext{Err: fmt.Errorf("create output: %w", err)})
	}

	desc, err := p.Patches.LoadDescription(ctx)
	if err != nil {
		ec := ErrorContext{Err: err}
		var lerr *patch.LoadError
		if errors.As(err, &lerr) {
			ec.Header, ec.Description = lerr.Header, lerr.Description
		}
		return nil, p.fail(ec)
	}

	// The manifest is optional and does not hold up the runtime.
	depsCh := make(chan []patch.Dependency, 1)
	go func() {
		depsCh <- p.Patches.LoadDependencies(ctx)
	}()

	rt, err := p.Provider.Runtime(ctx, desc.Desc.Meta.RNBOVersion)
	if err != nil {
		return nil, p.fail(ErrorContext{Err: err})
	}

	var deps []patch.Dependency
	select {
	case deps = <-depsCh:
	case <-ctx.Done():
		return nil, p.fail(ErrorContext{Err: ctx.Err()})
	}

	dev, err := rt.CreateDevice(ctx, p.Audio, desc)
	if err != nil {
		return nil, p.fail(ErrorContext{Err: err})
	}
	debug.Log("page", "device created: %d params, %d ports, %d midi in",
		len(dev.Parameters()), len(dev.Messages()), dev.NumMIDIInputPorts())

	s := &Session{
		Description:  desc,
		Dependencies: deps,
		Device:       dev,
		Output:       out,
		Panel:        p.Panel,
	}
	if s.Panel == nil {
		s.Panel = &controls.EffectsPanel{}
	}

	if len(deps) > 0 {
		if err := dev.LoadDataBufferDependencies(ctx, deps); err != nil {
			debug.Log("page", "continuing without samples: %v", err)
			s.DependencyErr = err
		}
	}

	if err := dev.Connect(out); err != nil {
		return nil, p.fail(ErrorContext{Err: fmt.Errorf("connect device: %w", err)})
	}

	p.Surface.SetText(controls.TitleID, desc.Title(cfg.UI.LoadingTitle))
	p.bind(s, cfg)

	if n, ok := p.Reporter.(ReadyNotifier); ok {
		n.Ready()
	}
	return s, nil
}

// bind runs every control binder. A binder error only costs that control.
func (p *Page) bind(s *Session, cfg *config.Config) {
	dev := s.Device
	c := cfg.Controls

	s.Sliders = controls.BindSliders(p.Surface, dev, cfg.AllowsSlider)

	banks, err := controls.BindSampleBanks(p.Surface, dev, cfg.SampleGroups(), c.SampleSlots)
	if err != nil {
		debug.Log("controls", "sample banks: %v", err)
	}
	s.Banks = banks

	s.Inports = controls.BindInportForm(p.Surface, dev)
	s.Outports = controls.BindOutports(p.Surface, dev)
	s.Presets = controls.BindPresets(p.Surface, dev, s.Description.Presets)

	kb, err := controls.BindKeyboard(p.Surface, dev, controls.KeyboardConfig{
		Notes:          c.KeyboardNotes,
		Channel:        c.MIDIChannel,
		Port:           c.MIDIPort,
		Velocity:       c.Velocity,
		NoteDurationMs: c.NoteDurationMs,
	})
	if err != nil {
		debug.Log("controls", "keyboard: %v", err)
	}
	s.Keyboard = kb
}

func (p *Page) fail(ec ErrorContext) error {
	debug.Log("page", "setup failed: %v", ec.Err)
	if p.Reporter == nil {
		return ec.Err
	}
	p.Reporter.Report(ec)
	return fmt.Errorf("%w: %w", ErrReported, ec.Err)
}

// Close releases the session's subscriptions
func (s *Session) Close() {
	if s.Outports != nil {
		s.Outports.Close()
	}
}
