package patch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-rnbo/config"
)

const exportJSON = `{
  "patcher": {"box": {}},
  "desc": {
    "meta": {"rnboversion": "1.3.1", "filename": "loops.maxpat"},
    "numMidiInputPorts": 1,
    "parameters": [
      {"index": 0, "name": "FX_1_Clean", "displayName": "Clean", "minimum": 0, "maximum": 1, "initialValue": 0.25},
      {"index": 1, "name": "playsmpa", "minimum": -1, "maximum": 7, "initialValue": -1}
    ],
    "inports": [{"tag": "in1"}],
    "outports": [{"tag": "out1"}]
  },
  "presets": [{"name": "soft", "preset": {"FX_1_Clean": {"value": 0.1}}}]
}`

func newServer(t *testing.T, routes map[string]string, status map[string]int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code, ok := status[r.URL.Path]; ok {
			w.WriteHeader(code)
			w.Write([]byte("<html>nope</html>"))
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestLoader(srv *httptest.Server) *Loader {
	return NewLoader(config.DefaultConfig().Patch, srv.URL+"/", srv.Client())
}

func TestLoadDescription(t *testing.T) {
	srv := newServer(t, map[string]string{"/export/patch.export.json": exportJSON}, nil)

	desc, err := newTestLoader(srv).LoadDescription(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if desc.Desc.Meta.RNBOVersion != "1.3.1" {
		t.Errorf("version = %q", desc.Desc.Meta.RNBOVersion)
	}
	if desc.Title("fallback") != "loops.maxpat" {
		t.Errorf("title = %q", desc.Title("fallback"))
	}
	if len(desc.Desc.Parameters) != 2 || desc.Desc.Parameters[0].Label() != "Clean" || desc.Desc.Parameters[1].Label() != "playsmpa" {
		t.Errorf("parameters = %+v", desc.Desc.Parameters)
	}
	if len(desc.Presets) != 1 || desc.Presets[0].Name != "soft" {
		t.Errorf("presets = %+v", desc.Presets)
	}
	if !strings.Contains(string(desc.Raw()), `"patcher"`) {
		t.Error("raw document should keep fields we don't model")
	}
}

func TestLoadDescriptionBadStatus(t *testing.T) {
	srv := newServer(t, nil, map[string]int{"/export/patch.export.json": http.StatusNotFound})

	_, err := newTestLoader(srv).LoadDescription(context.Background())
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if lerr.Status != http.StatusNotFound {
		t.Errorf("status = %d", lerr.Status)
	}
	if !strings.Contains(lerr.Description, "export/patch.export.json") {
		t.Errorf("description %q does not name the resource", lerr.Description)
	}
	if !strings.Contains(err.Error(), "export/patch.export.json") {
		t.Errorf("error %q does not name the resource", err)
	}
	if !errors.Is(err, ErrStatus) {
		t.Error("expected ErrStatus in chain")
	}
}

func TestLoadDescriptionMalformed(t *testing.T) {
	srv := newServer(t, map[string]string{"/export/patch.export.json": "{not json"}, nil)

	_, err := newTestLoader(srv).LoadDescription(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var lerr *LoadError
	if errors.As(err, &lerr) {
		t.Error("a 200 response should not carry the bad-path diagnostic")
	}
}

func TestLoadDescriptionNetworkError(t *testing.T) {
	srv := newServer(t, nil, nil)
	l := newTestLoader(srv)
	srv.Close()

	if _, err := l.LoadDescription(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadDependencies(t *testing.T) {
	srv := newServer(t, map[string]string{
		"/export/dependencies.json": `[{"id": "kick", "file": "kick.wav"}, {"id": "remote", "url": "https://example.com/a.wav"}]`,
	}, nil)

	deps := newTestLoader(srv).LoadDependencies(context.Background())
	if len(deps) != 2 {
		t.Fatalf("got %d deps", len(deps))
	}
	if deps[0].File != "export/kick.wav" {
		t.Errorf("file = %q", deps[0].File)
	}
	if deps[1].File != "" || deps[1].URL != "https://example.com/a.wav" {
		t.Errorf("url dependency changed: %+v", deps[1])
	}
}

func TestLoadDependenciesFailures(t *testing.T) {
	tests := []struct {
		name   string
		routes map[string]string
		status map[string]int
	}{
		{name: "missing", status: map[string]int{"/export/dependencies.json": http.StatusNotFound}},
		{name: "malformed", routes: map[string]string{"/export/dependencies.json": "[{"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.routes, tt.status)
			if deps := newTestLoader(srv).LoadDependencies(context.Background()); len(deps) != 0 {
				t.Errorf("deps = %+v, want empty", deps)
			}
		})
	}
}

func TestRewriteDependencies(t *testing.T) {
	in := []Dependency{{ID: "kick", File: "kick.wav"}, {ID: "noise"}}
	out := RewriteDependencies(in, "export")

	if out[0].File != "export/kick.wav" {
		t.Errorf("file = %q, want export/kick.wav", out[0].File)
	}
	if out[1].ID != "noise" || out[1].File != "" {
		t.Errorf("entry without file changed: %+v", out[1])
	}
	if in[0].File != "kick.wav" {
		t.Error("input was mutated")
	}
}

func TestDependencyKeepsUnknownFields(t *testing.T) {
	var d Dependency
	if err := json.Unmarshal([]byte(`{"id": "a", "file": "a.wav", "channels": 2}`), &d); err != nil {
		t.Fatal(err)
	}
	d = RewriteDependencies([]Dependency{d}, "export")[0]

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	if fields["file"] != "export/a.wav" || fields["channels"] != float64(2) {
		t.Errorf("fields = %v", fields)
	}
}
