package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/blockgrid/pkg/constraint"
	"github.com/matzehuels/blockgrid/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockgrid.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Size != 20 || cfg.Grid.Enabled {
		t.Errorf("grid defaults = %+v", cfg.Grid)
	}
	if cfg.Groups.Padding != 20 || cfg.Groups.MinWidth != 100 || cfg.Groups.MinHeight != 80 {
		t.Errorf("group defaults = %+v", cfg.Groups)
	}
	if cfg.Constraint.Padding != 10 || cfg.Constraint.Mode != "clamp" {
		t.Errorf("constraint defaults = %+v", cfg.Constraint)
	}
	if cfg.Server.Addr != ":8420" || cfg.Store.Backend != "memory" {
		t.Errorf("server/store defaults = %+v / %+v", cfg.Server, cfg.Store)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[grid]
size = 40.0
enabled = true
snap_threshold = 15.0

[constraint]
mode = "expand"

[server]
addr = ":9000"

[store]
backend = "file"
dir = "/tmp/sessions"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Grid.Size != 40 || !cfg.Grid.Enabled || cfg.Grid.SnapThreshold != 15 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	// Untouched sections keep their defaults.
	if cfg.Groups.Padding != 20 {
		t.Errorf("groups = %+v", cfg.Groups)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "file" || cfg.Store.Dir != "/tmp/sessions" {
		t.Errorf("store = %+v", cfg.Store)
	}

	mode, err := cfg.Mode()
	if err != nil {
		t.Fatal(err)
	}
	if mode != constraint.ModeExpand {
		t.Errorf("mode = %v, want expand", mode)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad threshold", "[grid]\nsize = 20.0\nsnap_threshold = 11.0\n"},
		{"bad mode", "[constraint]\nmode = \"bounce\"\n"},
		{"bad backend", "[store]\nbackend = \"sqlite\"\n"},
		{"negative group padding", "[groups]\npadding = -1.0\n"},
		{"not toml", "{json: true}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestModeParse(t *testing.T) {
	cfg := Default()

	cfg.Constraint.Mode = ""
	if m, err := cfg.Mode(); err != nil || m != constraint.ModeClamp {
		t.Errorf("empty mode = %v, %v", m, err)
	}

	cfg.Constraint.Mode = "bounce"
	if _, err := cfg.Mode(); errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("bad mode code = %s", errors.GetCode(err))
	}
}
