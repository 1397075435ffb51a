//go:build js && wasm

package web

import (
	"context"
	"fmt"
	"syscall/js"

	"go-rnbo/config"
	"go-rnbo/controls"
	"go-rnbo/debug"
	"go-rnbo/page"
	"go-rnbo/patch"
	"go-rnbo/rnbo"
	"go-rnbo/rnbo/jsrt"
)

var exported []js.Func

// export publishes fn as a global function on window
func export(name string, fn func(this js.Value, args []js.Value) any) {
	f := js.FuncOf(fn)
	exported = append(exported, f)
	js.Global().Set(name, f)
}

// ExportGlobals publishes the helpers the page markup calls. They work from
// page load whatever setup does; the returned panel is the one effectsPanel
// toggles and should be handed to Run.
func ExportGlobals() *controls.EffectsPanel {
	export("hideWelcome", func(this js.Value, args []js.Value) any {
		el := js.Global().Get("document").Call("getElementById", "WelcomeScreen")
		if el.Truthy() {
			el.Get("classList").Call("add", "hide")
		}
		return nil
	})

	panel := &controls.EffectsPanel{}
	export("effectsPanel", func(this js.Value, args []js.Value) any {
		panel.Toggle()
		add, remove := panel.Classes()
		el := js.Global().Get("document").Call("getElementById", controls.SlidersMount)
		if el.Truthy() {
			el.Get("classList").Call("add", add)
			el.Get("classList").Call("remove", remove)
		}
		return nil
	})
	return panel
}

// Run builds the page from cfg: audio context, patch loader, runtime
// provider and DOM surface, then runs setup. panel may be nil.
func Run(ctx context.Context, cfg *config.Config, panel *controls.EffectsPanel) (*page.Session, error) {
	ac, err := jsrt.NewAudioContext()
	if err != nil {
		return nil, err
	}

	base := js.Global().Get("location").Get("href").String()
	p := &page.Page{
		Config:   cfg,
		Patches:  patch.NewLoader(cfg.Patch, base, nil),
		Provider: Provider(&rnbo.ScriptLoader{BaseURL: cfg.Runtime.BaseURL, Injector: ScriptInjector{}}),
		Audio:    ac,
		Surface:  NewSurface(),
		Panel:    panel,
		Reporter: LookupReporter(),
	}

	s, err := p.Setup(ctx)
	if err != nil {
		return nil, err
	}

	body := js.Global().Get("document").Get("body")
	resume := js.FuncOf(func(this js.Value, args []js.Value) any {
		if err := ac.Resume(); err != nil {
			debug.Log("web", "resume: %v", err)
		}
		return nil
	})
	exported = append(exported, resume)
	body.Set("onclick", resume)

	debug.Log("web", "%s ready", desc(s))
	return s, nil
}

func desc(s *page.Session) string {
	return fmt.Sprintf("%q (%d sliders, %d sample banks)",
		s.Description.Title(""), len(s.Sliders), len(s.Banks))
}
