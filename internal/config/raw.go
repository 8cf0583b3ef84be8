package config

// RawConfig mirrors Config with pointer fields so that keys absent from a
// file can be told apart from zero values.
type RawConfig struct {
	Display    *string          `yaml:"display"`
	XAuthority *string          `yaml:"xauthority"`
	Step       *int             `yaml:"step"`
	Visual     *RawVisualConfig `yaml:"visual"`
	Window     *RawWindowConfig `yaml:"window"`
}

type RawVisualConfig struct {
	Depth *int `yaml:"depth"`
}

type RawWindowConfig struct {
	X           *int `yaml:"x"`
	Y           *int `yaml:"y"`
	Width       *int `yaml:"width"`
	Height      *int `yaml:"height"`
	BorderWidth *int `yaml:"border_width"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.Step != nil {
		out.Step = overlay.Step
	}
	if overlay.Visual != nil {
		base := RawVisualConfig{}
		if out.Visual != nil {
			base = *out.Visual
		}
		if overlay.Visual.Depth != nil {
			base.Depth = overlay.Visual.Depth
		}
		out.Visual = &base
	}
	if overlay.Window != nil {
		base := RawWindowConfig{}
		if out.Window != nil {
			base = *out.Window
		}
		merged := mergeRawWindow(base, *overlay.Window)
		out.Window = &merged
	}
	return out
}

func mergeRawWindow(base RawWindowConfig, overlay RawWindowConfig) RawWindowConfig {
	out := base
	if overlay.X != nil {
		out.X = overlay.X
	}
	if overlay.Y != nil {
		out.Y = overlay.Y
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	return out
}
