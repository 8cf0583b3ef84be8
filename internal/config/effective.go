package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw values over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = strings.TrimSpace(*raw.XAuthority)
	}
	cfg.Step = derefInt(raw.Step, cfg.Step)

	if raw.Visual != nil {
		cfg.Visual.Depth = derefInt(raw.Visual.Depth, cfg.Visual.Depth)
	}
	if w := raw.Window; w != nil {
		cfg.Window.X = derefInt(w.X, cfg.Window.X)
		cfg.Window.Y = derefInt(w.Y, cfg.Window.Y)
		cfg.Window.Width = derefInt(w.Width, cfg.Window.Width)
		cfg.Window.Height = derefInt(w.Height, cfg.Window.Height)
		cfg.Window.BorderWidth = derefInt(w.BorderWidth, cfg.Window.BorderWidth)
	}
	return cfg
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
