//go:build js && wasm

package web

import (
	"strings"
	"syscall/js"

	"go-rnbo/page"
)

// Guardrails forwards setup failures to the page's guardrails() helper
type Guardrails struct {
	fn js.Value
}

// LookupReporter returns a Guardrails reporter when the page defines
// guardrails as a function, and nil otherwise.
func LookupReporter() page.Reporter {
	fn := js.Global().Get("guardrails")
	if fn.Type() != js.TypeFunction {
		return nil
	}
	return &Guardrails{fn: fn}
}

func (g *Guardrails) Report(ec page.ErrorContext) {
	ctx := js.Global().Get("Object").New()
	ctx.Set("error", js.Global().Get("Error").New(ec.Err.Error()))
	if ec.Header != "" {
		ctx.Set("header", ec.Header)
	}
	if ec.Description != "" {
		ctx.Set("description", ec.Description)
	}
	g.fn.Invoke(ctx)
}

// Ready calls guardrails() with no arguments
func (g *Guardrails) Ready() {
	g.fn.Invoke()
}

// ConsoleWriter sends debug lines to console.log
type ConsoleWriter struct{}

func (ConsoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// ConsoleError logs err with console.error as an Error, so the browser shows
// it like an uncaught one
func ConsoleError(err error) {
	js.Global().Get("console").Call("error", js.Global().Get("Error").New(err.Error()))
}
