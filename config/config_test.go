package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{"patch":{"exportURL":"build/p.json"},"controls":{"sampleColumns":["x"]}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Patch.ExportURL != "build/p.json" {
		t.Errorf("ExportURL = %q", cfg.Patch.ExportURL)
	}
	if cfg.Patch.ExportDir != "export" {
		t.Errorf("ExportDir = %q, want default", cfg.Patch.ExportDir)
	}
	if cfg.Controls.NoteDurationMs != 250 {
		t.Errorf("NoteDurationMs = %v, want 250", cfg.Controls.NoteDurationMs)
	}

	groups := cfg.SampleGroups()
	if len(groups) != 1 {
		t.Fatalf("got %d groups", len(groups))
	}
	if groups[0] != (SampleGroup{Column: "x", Play: "playsmpx", Stop: "stopsmpx"}) {
		t.Errorf("group = %+v", groups[0])
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`{`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestDefaultGroups(t *testing.T) {
	groups := DefaultConfig().SampleGroups()
	if len(groups) != 8 {
		t.Fatalf("got %d groups, want 8", len(groups))
	}
	if groups[7].Play != "playsmph" || groups[7].Stop != "stopsmph" {
		t.Errorf("last group = %+v", groups[7])
	}
}

func TestAllowsSlider(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.AllowsSlider("FX_1_Clean") {
		t.Error("FX_1_Clean should be allowed")
	}
	if cfg.AllowsSlider("Unrelated_Param") {
		t.Error("Unrelated_Param should not be allowed")
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Runtime.BaseURL == "" {
		t.Error("expected default runtime base URL")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"ui":{"loadingTitle":"wait"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.LoadingTitle != "wait" {
		t.Errorf("LoadingTitle = %q", cfg.UI.LoadingTitle)
	}
}

func TestExpandPath(t *testing.T) {
	if got, err := ExpandPath("export/patch.json"); err != nil || got != "export/patch.json" {
		t.Errorf("ExpandPath = %q, %v", got, err)
	}
	if _, err := ExpandPath("~someone/config.json"); err == nil {
		t.Error("expected an error for another user's home")
	}
}
