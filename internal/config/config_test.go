package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Bodies != 3400 {
		t.Errorf("expected 3400 bodies, got %d", cfg.Bodies)
	}
	if cfg.TargetJobs != 256 {
		t.Errorf("expected 256 target jobs, got %d", cfg.TargetJobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}

	p := cfg.Params()
	if p.G != 10 || p.Mass != 50 || p.Epsilon != 0.0001 {
		t.Errorf("unexpected physics params %+v", p)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := []byte("bodies: 512\nseed: 7\nphysics:\n  g: 2.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Bodies != 512 || cfg.Seed != 7 {
		t.Errorf("expected bodies=512 seed=7, got %d %d", cfg.Bodies, cfg.Seed)
	}
	if cfg.Physics.G != 2.5 {
		t.Errorf("expected g=2.5, got %g", cfg.Physics.G)
	}
	if cfg.Physics.Mass != 50 || cfg.Dt != DefaultDt {
		t.Errorf("omitted keys should keep defaults, got mass=%g dt=%g", cfg.Physics.Mass, cfg.Dt)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("dense")
	cfg.Seed = 99

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero bodies", func(c *Config) { c.Bodies = 0 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero target jobs", func(c *Config) { c.TargetJobs = 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero epsilon", func(c *Config) { c.Physics.Epsilon = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s listed but not found", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}

	a := GetPreset("small")
	a.Bodies = 1
	if Presets["small"].Bodies == 1 {
		t.Error("GetPreset must return a copy")
	}
}

func TestOptions(t *testing.T) {
	cfg := GetPreset("small")
	cfg.Seed = 5
	opts := cfg.Options()

	if opts.Bodies != 256 || opts.Width != 100 || opts.Workers != 4 || opts.TargetJobs != 64 || opts.Seed != 5 {
		t.Errorf("unexpected options %+v", opts)
	}
}
