//go:build js && wasm

package web

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"go-rnbo/rnbo"
	"go-rnbo/rnbo/jsrt"
)

// ScriptInjector appends a <script> element and waits for onload or onerror
type ScriptInjector struct{}

func (ScriptInjector) Inject(ctx context.Context, src string) error {
	doc := js.Global().Get("document")
	el := doc.Call("createElement", "script")

	done := make(chan error, 1)
	onload := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- nil
		return nil
	})
	defer onload.Release()
	onerror := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			js.Global().Get("console").Call("log", args[0])
		}
		done <- fmt.Errorf("script %s did not load", src)
		return nil
	})
	defer onerror.Release()

	el.Set("onload", onload)
	el.Set("onerror", onerror)
	el.Set("src", src)
	doc.Get("body").Call("append", el)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Provider uses window.RNBO when the page already has it and otherwise
// loads the runtime matching the patch version.
func Provider(loader *rnbo.ScriptLoader) rnbo.Provider {
	return rnbo.ProviderFunc(func(ctx context.Context, version string) (rnbo.Runtime, error) {
		if rt, ok := jsrt.Global(); ok {
			return rt, nil
		}
		if err := loader.Load(ctx, version); err != nil {
			return nil, err
		}
		rt, ok := jsrt.Global()
		if !ok {
			return nil, errors.New("rnbo.js loaded but RNBO is not defined")
		}
		return rt, nil
	})
}
