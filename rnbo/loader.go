package rnbo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go-rnbo/debug"
)

// ErrDebugVersion rejects patches exported with a development build
var ErrDebugVersion = errors.New("patcher exported with a debug version; specify the RNBO version to use")

var debugVersion = regexp.MustCompile(`^\d+\.\d+\.\d+-dev$`)

// IsDebugVersion reports whether version names a non-reproducible dev build
func IsDebugVersion(version string) bool {
	return debugVersion.MatchString(version)
}

// ScriptURL returns the download location of the runtime script for version
func ScriptURL(baseURL, version string) (string, error) {
	if IsDebugVersion(version) {
		return "", fmt.Errorf("%w (%s)", ErrDebugVersion, version)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + escapeComponent(version) + "/rnbo.min.js", nil
}

// componentUnescape undoes QueryEscape where encodeURIComponent differs
var componentUnescape = strings.NewReplacer(
	"+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*",
)

// escapeComponent escapes s with the same set as encodeURIComponent
func escapeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// ScriptInjector adds a script to the page and waits for it to load
type ScriptInjector interface {
	Inject(ctx context.Context, src string) error
}

// ScriptLoader fetches the runtime by version. It does not check whether the
// runtime is already present.
type ScriptLoader struct {
	BaseURL  string
	Injector ScriptInjector
}

// Load injects the runtime script for version
func (l *ScriptLoader) Load(ctx context.Context, version string) error {
	src, err := ScriptURL(l.BaseURL, version)
	if err != nil {
		return err
	}
	debug.Log("runtime", "loading %s", src)
	if err := l.Injector.Inject(ctx, src); err != nil {
		debug.Log("runtime", "inject failed: %v", err)
		return fmt.Errorf("failed to load rnbo.js v%s: %w", version, err)
	}
	return nil
}

// Provider hands out a runtime able to run patches exported for version
type Provider interface {
	Runtime(ctx context.Context, version string) (Runtime, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context, version string) (Runtime, error)

func (f ProviderFunc) Runtime(ctx context.Context, version string) (Runtime, error) {
	return f(ctx, version)
}

// Static returns a provider for a runtime that is linked in. Debug exports
// are still refused.
func Static(rt Runtime) Provider {
	return ProviderFunc(func(ctx context.Context, version string) (Runtime, error) {
		if IsDebugVersion(version) {
			return nil, fmt.Errorf("%w (%s)", ErrDebugVersion, version)
		}
		return rt, nil
	})
}
