package config

import "sort"

var Presets = map[string]*Config{
	"small": {
		Bodies: 256, Width: 100, Height: 100, Workers: 4, TargetJobs: 64,
		Dt: 0.016, Steps: 300,
		Physics: PhysicsConfig{G: 10, Mass: 50, Epsilon: 0.0001},
	},
	"default": {
		Bodies: 3400, Width: 1280, Height: 720, Workers: 8, TargetJobs: 256,
		Dt: 0.016, Steps: 600,
		Physics: PhysicsConfig{G: 10, Mass: 50, Epsilon: 0.0001},
	},
	"dense": {
		Bodies: 8192, Width: 512, Height: 512, Workers: 8, TargetJobs: 256,
		Dt: 0.008, Steps: 400,
		Physics: PhysicsConfig{G: 10, Mass: 50, Epsilon: 0.0001},
	},
	"soft": {
		Bodies: 1024, Width: 400, Height: 400, Workers: 8, TargetJobs: 128,
		Dt: 0.016, Steps: 1000,
		Physics: PhysicsConfig{G: 1, Mass: 50, Epsilon: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
