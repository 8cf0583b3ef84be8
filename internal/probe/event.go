package probe

// Event is one display-server event as seen by the probe. The concrete
// types below are the only implementations.
type Event interface {
	eventName() string
}

// VisibilityNotify reports a change in the window's visibility state.
type VisibilityNotify struct {
	State int
}

// Expose asks for a region of the window to be redrawn.
type Expose struct {
	X, Y          int
	Width, Height int
}

// ConfigureNotify reports a structural change to the window.
type ConfigureNotify struct {
	X, Y          int
	Width, Height int
}

// KeyPress carries the raw key event; decoding to text is done by the
// Display using its current keyboard mapping.
type KeyPress struct {
	Keycode uint8
	State   uint16
}

// MappingNotify reports a keyboard or modifier mapping change.
type MappingNotify struct {
	Request      int
	FirstKeycode uint8
	Count        int
}

// Unhandled is any event the probe does not act on.
type Unhandled struct {
	Name string
}

func (VisibilityNotify) eventName() string { return "VisibilityNotify" }
func (Expose) eventName() string           { return "Expose" }
func (ConfigureNotify) eventName() string  { return "ConfigureNotify" }
func (KeyPress) eventName() string         { return "KeyPress" }
func (MappingNotify) eventName() string    { return "MappingNotify" }
func (e Unhandled) eventName() string      { return e.Name }
