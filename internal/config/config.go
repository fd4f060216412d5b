package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/integrators"
)

const (
	DefaultTrailCapacity  = 1000
	DefaultFPS            = 60
	DefaultTheme          = "cyberpunk"
	DefaultFollowDistance = 10.0
	DefaultFollowAngle    = 20.0
	DefaultAddr           = "127.0.0.1:8080"
	DefaultBroadcastFPS   = 30
)

type Config struct {
	Params        ParamsConfig    `yaml:"params"`
	TrailCapacity int             `yaml:"trail_capacity"`
	FPS           int             `yaml:"fps"`
	Theme         string          `yaml:"theme"`
	Integrators   []string        `yaml:"integrators,omitempty"`
	Follow        FollowConfig    `yaml:"follow"`
	ResetOnChange map[string]bool `yaml:"reset_on_change,omitempty"`
	Server        ServerConfig    `yaml:"server"`
}

type ParamsConfig struct {
	Mass      float64 `yaml:"mass"`
	Charge    float64 `yaml:"charge"`
	Field     float64 `yaml:"field"`
	VPerp     float64 `yaml:"vperp"`
	VPar      float64 `yaml:"vpar"`
	TimeScale float64 `yaml:"timescale"`
	Follow    bool    `yaml:"follow"`
}

type FollowConfig struct {
	Distance float64 `yaml:"distance"`
	AngleDeg float64 `yaml:"angle_deg"`
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	BroadcastFPS int    `yaml:"broadcast_fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:        FromParams(dynamo.DefaultParams()),
		TrailCapacity: DefaultTrailCapacity,
		FPS:           DefaultFPS,
		Theme:         DefaultTheme,
		Follow: FollowConfig{
			Distance: DefaultFollowDistance,
			AngleDeg: DefaultFollowAngle,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			BroadcastFPS: DefaultBroadcastFPS,
		},
	}
}

// Load reads a YAML file on top of the defaults, so a file only needs the
// keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func FromParams(p dynamo.Params) ParamsConfig {
	return ParamsConfig{
		Mass:      p.Mass,
		Charge:    p.Charge,
		Field:     p.Field,
		VPerp:     p.VPerp,
		VPar:      p.VPar,
		TimeScale: p.TimeScale,
		Follow:    p.Follow,
	}
}

func (p ParamsConfig) ToParams() dynamo.Params {
	return dynamo.Params{
		Mass:      p.Mass,
		Charge:    p.Charge,
		Field:     p.Field,
		VPerp:     p.VPerp,
		VPar:      p.VPar,
		TimeScale: p.TimeScale,
		Follow:    p.Follow,
	}
}

func invalid(field string, v any) error {
	return fmt.Errorf("%s=%v: %w", field, v, dynamo.ErrInvalidConfig)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks ranges. A zero mass is allowed and animates as a straight
// drift; negative mass is not.
func (c *Config) Validate() error {
	p := c.Params
	for name, v := range p.ToParams().Map() {
		if !finite(v) {
			return invalid("params."+name, v)
		}
	}
	if p.Mass < 0 {
		return invalid("params.mass", p.Mass)
	}
	if p.TimeScale < 0 {
		return invalid("params.timescale", p.TimeScale)
	}
	if c.TrailCapacity < 0 {
		return invalid("trail_capacity", c.TrailCapacity)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return invalid("fps", c.FPS)
	}
	if c.Follow.Distance <= 0 || !finite(c.Follow.Distance) {
		return invalid("follow.distance", c.Follow.Distance)
	}
	if c.Follow.AngleDeg <= -90 || c.Follow.AngleDeg >= 90 {
		return invalid("follow.angle_deg", c.Follow.AngleDeg)
	}
	for name := range c.ResetOnChange {
		if !knownChange(name) {
			return fmt.Errorf("reset_on_change.%s: %w", name, dynamo.ErrUnknownParam)
		}
	}
	for _, name := range c.Integrators {
		if _, err := integrators.Get(name); err != nil {
			return fmt.Errorf("integrators: %v: %w", err, dynamo.ErrInvalidConfig)
		}
	}
	if c.Server.Addr == "" {
		return invalid("server.addr", c.Server.Addr)
	}
	if c.Server.BroadcastFPS < 1 || c.Server.BroadcastFPS > 120 {
		return invalid("server.broadcast_fps", c.Server.BroadcastFPS)
	}
	return nil
}

func knownChange(name string) bool {
	if name == "follow" {
		return true
	}
	for _, n := range dynamo.ParamNames {
		if n == name {
			return true
		}
	}
	return false
}
