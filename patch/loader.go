package patch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go-rnbo/config"
	"go-rnbo/debug"
)

// ErrStatus is wrapped by LoadError when the server answers outside 2xx
var ErrStatus = errors.New("unexpected status")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoadError is a patch fetch failure with a diagnostic for the user
type LoadError struct {
	Err         error
	Status      int
	Header      string
	Description string
}

func (e *LoadError) Error() string {
	if e.Description == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Description
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader fetches the patch export and its dependency manifest
type Loader struct {
	Client          Doer
	BaseURL         string
	ExportURL       string
	DependenciesURL string
	ExportDir       string
}

// NewLoader creates a loader for the configured resources.
// A nil client means http.DefaultClient.
func NewLoader(cfg config.PatchConfig, baseURL string, client Doer) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		Client:          client,
		BaseURL:         baseURL,
		ExportURL:       cfg.ExportURL,
		DependenciesURL: cfg.DependenciesURL,
		ExportDir:       cfg.ExportDir,
	}
}

// LoadDescription fetches and decodes the patch export
func (l *Loader) LoadDescription(ctx context.Context) (*Description, error) {
	var desc Description
	status, err := l.getJSON(ctx, l.ExportURL, &desc)
	if err != nil {
		if status != 0 && (status < 200 || status >= 300) {
			return nil, &LoadError{
				Err:    err,
				Status: status,
				Header: "Couldn't load patcher export bundle",
				Description: fmt.Sprintf("Check the page configuration to see what file it's trying to load. "+
					"Currently it's trying to load %q. If that doesn't match the name of the file you exported, "+
					"change patch.exportURL.", l.ExportURL),
			}
		}
		return nil, err
	}
	debug.Log("patch", "loaded %s (rnbo %s, %d params)",
		l.ExportURL, desc.Desc.Meta.RNBOVersion, len(desc.Desc.Parameters))
	return &desc, nil
}

// LoadDependencies fetches the optional dependency manifest. Any failure
// yields an empty list. File entries come back relative to ExportDir.
func (l *Loader) LoadDependencies(ctx context.Context) []Dependency {
	var deps []Dependency
	if _, err := l.getJSON(ctx, l.DependenciesURL, &deps); err != nil {
		debug.Log("patch", "no dependencies: %v", err)
		return nil
	}
	return RewriteDependencies(deps, l.ExportDir)
}

// RewriteDependencies returns a copy of deps with every file reference
// placed under dir. Entries without a file are copied unchanged.
func RewriteDependencies(deps []Dependency, dir string) []Dependency {
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		if d.File != "" {
			d.File = dir + "/" + d.File
		}
		out[i] = d
	}
	return out
}

func (l *Loader) resolve(ref string) (string, error) {
	if l.BaseURL == "" {
		return ref, nil
	}
	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("resource url: %w", err)
	}
	return base.ResolveReference(u).String(), nil
}

// getJSON returns the response status (0 if no response arrived)
func (l *Loader) getJSON(ctx context.Context, ref string, v any) (int, error) {
	target, err := l.resolve(ref)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", ref, err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("fetch %s: %w: %s", ref, ErrStatus, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", ref, err)
	}
	return resp.StatusCode, nil
}
