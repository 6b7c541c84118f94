package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/particlesim/internal/nbody"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBodies     = 3400
	DefaultWidth      = 1280.0
	DefaultHeight     = 720.0
	DefaultWorkers    = nbody.DefaultWorkers
	DefaultTargetJobs = nbody.DefaultTargetJobs
	DefaultDt         = 0.016
	DefaultSteps      = 600
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Bodies      int           `yaml:"bodies"`
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	Workers     int           `yaml:"workers"`
	TargetJobs  int           `yaml:"target_jobs"`
	Dt          float64       `yaml:"dt"`
	Steps       int           `yaml:"steps"`
	Seed        int64         `yaml:"seed"`
	CheckFinite bool          `yaml:"validate"`
	Physics     PhysicsConfig `yaml:"physics"`
}

type PhysicsConfig struct {
	G       float64 `yaml:"g"`
	Mass    float64 `yaml:"mass"`
	Epsilon float64 `yaml:"epsilon"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:     DefaultBodies,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Workers:    DefaultWorkers,
		TargetJobs: DefaultTargetJobs,
		Dt:         DefaultDt,
		Steps:      DefaultSteps,
		Physics: PhysicsConfig{
			G:       nbody.DefaultG,
			Mass:    nbody.DefaultMass,
			Epsilon: nbody.DefaultEpsilon,
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Bodies <= 0:
		return fmt.Errorf("%w: bodies must be positive, got %d", ErrInvalid, c.Bodies)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: bounds must be positive, got %gx%g", ErrInvalid, c.Width, c.Height)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	case c.TargetJobs <= 0:
		return fmt.Errorf("%w: target_jobs must be positive, got %d", ErrInvalid, c.TargetJobs)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalid, c.Steps)
	case c.Physics.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalid, c.Physics.Epsilon)
	}
	return nil
}

func (c *Config) Params() nbody.Params {
	return nbody.Params{
		G:       float32(c.Physics.G),
		Mass:    float32(c.Physics.Mass),
		Epsilon: float32(c.Physics.Epsilon),
	}
}

func (c *Config) Options() nbody.Options {
	return nbody.Options{
		Bodies:     c.Bodies,
		Width:      float32(c.Width),
		Height:     float32(c.Height),
		Workers:    c.Workers,
		TargetJobs: c.TargetJobs,
		Params:     c.Params(),
		Seed:       c.Seed,
	}
}
