//go:build js && wasm

// Command web is the browser entry point. Build with
// GOOS=js GOARCH=wasm go build -o static/main.wasm ./cmd/web
package main

import (
	"context"
	"errors"
	"syscall/js"

	"go-rnbo/config"
	"go-rnbo/debug"
	"go-rnbo/page"
	"go-rnbo/web"
)

func main() {
	debug.EnableWriter(web.ConsoleWriter{})

	// The page may override defaults with a JSON string in window.rnboConfig
	cfg := config.DefaultConfig()
	if raw := js.Global().Get("rnboConfig"); raw.Type() == js.TypeString {
		parsed, err := config.Parse([]byte(raw.String()))
		if err != nil {
			debug.Log("web", "ignoring rnboConfig: %v", err)
		} else {
			cfg = parsed
		}
	}

	panel := web.ExportGlobals()

	go func() {
		if _, err := web.Run(context.Background(), cfg, panel); err != nil {
			if errors.Is(err, page.ErrReported) {
				return
			}
			// Nobody presented it. Keep the program alive so the page's
			// exported functions still work.
			web.ConsoleError(err)
		}
	}()

	select {}
}
