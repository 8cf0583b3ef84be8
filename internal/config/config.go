package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStep   = 10
	DefaultDepth  = 24
	DefaultX      = 10
	DefaultY      = 10
	DefaultWidth  = 100
	DefaultHeight = 100
	DefaultBorder = 1
)

// WindowConfig is the probe window's creation geometry.
type WindowConfig struct {
	X           int `yaml:"x"`
	Y           int `yaml:"y"`
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	BorderWidth int `yaml:"border_width"`
}

// VisualConfig selects the TrueColor visual the window is created with.
type VisualConfig struct {
	Depth int `yaml:"depth"`
}

// Config is the effective xmove configuration.
type Config struct {
	// Display overrides $DISPLAY when set (e.g. ":1").
	Display string `yaml:"display,omitempty"`
	// XAuthority overrides $XAUTHORITY when set.
	XAuthority string `yaml:"xauthority,omitempty"`
	// Step is how far one key press moves the window on each axis.
	Step   int          `yaml:"step"`
	Visual VisualConfig `yaml:"visual"`
	Window WindowConfig `yaml:"window"`
}

// DefaultConfig returns the placement the probe uses without a config file.
func DefaultConfig() *Config {
	return &Config{
		Step:   DefaultStep,
		Visual: VisualConfig{Depth: DefaultDepth},
		Window: WindowConfig{
			X:           DefaultX,
			Y:           DefaultY,
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			BorderWidth: DefaultBorder,
		},
	}
}

// validDepths are the depths a core X server can advertise for TrueColor.
var validDepths = map[int]bool{1: true, 4: true, 8: true, 15: true, 16: true, 24: true, 30: true, 32: true}

// Validate checks the configuration for values the server would reject.
func (c *Config) Validate() error {
	if c.Step <= 0 {
		return &ValidationError{Path: "step", Err: fmt.Errorf("step must be > 0")}
	}
	if !validDepths[c.Visual.Depth] {
		return &ValidationError{Path: "visual.depth", Err: fmt.Errorf("depth must be one of 1, 4, 8, 15, 16, 24, 30, 32")}
	}
	if c.Window.Width <= 0 || c.Window.Width > 0xffff {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("width must be between 1 and 65535")}
	}
	if c.Window.Height <= 0 || c.Window.Height > 0xffff {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("height must be between 1 and 65535")}
	}
	if c.Window.BorderWidth < 0 || c.Window.BorderWidth > 0xffff {
		return &ValidationError{Path: "window.border_width", Err: fmt.Errorf("border_width must be between 0 and 65535")}
	}
	if c.Window.X < -0x8000 || c.Window.X > 0x7fff {
		return &ValidationError{Path: "window.x", Err: fmt.Errorf("x must fit in 16 bits")}
	}
	if c.Window.Y < -0x8000 || c.Window.Y > 0x7fff {
		return &ValidationError{Path: "window.y", Err: fmt.Errorf("y must fit in 16 bits")}
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
