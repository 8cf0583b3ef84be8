package probe

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
)

var (
	// ErrNoDisplay is returned by Start when no display connection could be opened.
	ErrNoDisplay = errors.New("could not open display")
	// ErrNoVisual is returned by Start when the server offers no matching visual.
	ErrNoVisual = errors.New("no conforming visual exists")
	// ErrConnectionClosed is returned by Display.NextEvent once the
	// connection to the server is gone.
	ErrConnectionClosed = errors.New("display connection closed")
)

const escape = 0x1b

// Geometry is the creation geometry of the probe window.
type Geometry struct {
	X           int
	Y           int
	Width       int
	Height      int
	BorderWidth int
}

// Visual identifies a TrueColor visual and the screen it belongs to.
type Visual struct {
	ID     uint32
	Depth  int
	Screen int
}

// Position is the probe window's current offset relative to the root.
type Position struct {
	X int
	Y int
}

// Display is the display-server surface the probe drives.
type Display interface {
	// TrueColorVisual returns a TrueColor visual of the given depth, or
	// ErrNoVisual.
	TrueColorVisual(depth int) (Visual, error)
	// CreateWindow creates and maps the probe window.
	CreateWindow(v Visual, g Geometry) error
	// NextEvent blocks until an event arrives.
	NextEvent() (Event, error)
	// LookupString decodes a key press with the current keyboard mapping.
	LookupString(ev KeyPress) string
	// RefreshKeyboardMapping reloads the cached keyboard mapping.
	RefreshKeyboardMapping(ev MappingNotify) error
	// MoveWindow moves the probe window to an absolute position.
	MoveWindow(x, y int) error
	Close()
}

// Dialer opens a Display.
type Dialer func() (Display, error)

// Config holds the probe's startup parameters.
type Config struct {
	Geometry Geometry
	Depth    int
	Step     int
	// Output receives the one-line event log. Defaults to io.Discard.
	Output *log.Logger
	// Logger receives debug diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

// DefaultConfig returns the fixed placement and step used when nothing is
// configured.
func DefaultConfig() Config {
	return Config{
		Geometry: Geometry{X: 10, Y: 10, Width: 100, Height: 100, BorderWidth: 1},
		Depth:    24,
		Step:     10,
	}
}

// Probe owns the display connection and the window position.
type Probe struct {
	display Display
	visual  Visual
	pos     Position
	step    int
	out     *log.Logger
	logger  *slog.Logger
}

// Start connects, selects the visual, and creates the probe window.
// Nothing is created when either the connection or the visual lookup fails.
func Start(dial Dialer, cfg Config) (*Probe, error) {
	out := cfg.Output
	if out == nil {
		out = log.New(io.Discard, "", 0)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d, err := dial()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDisplay, err)
	}

	v, err := d.TrueColorVisual(cfg.Depth)
	if err != nil {
		d.Close()
		if errors.Is(err, ErrNoVisual) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNoVisual, err)
	}
	out.Printf("found a %d-bit visual (visual ID = 0x%x)", v.Depth, v.ID)

	if err := d.CreateWindow(v, cfg.Geometry); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	logger.Debug("window mapped",
		"x", cfg.Geometry.X, "y", cfg.Geometry.Y,
		"width", cfg.Geometry.Width, "height", cfg.Geometry.Height,
		"screen", v.Screen)

	return &Probe{
		display: d,
		visual:  v,
		pos:     Position{X: cfg.Geometry.X, Y: cfg.Geometry.Y},
		step:    cfg.Step,
		out:     out,
		logger:  logger,
	}, nil
}

// Position returns the window's current position.
func (p *Probe) Position() Position {
	return p.pos
}

// Visual returns the visual the window was created with.
func (p *Probe) Visual() Visual {
	return p.visual
}

// Close releases the display connection.
func (p *Probe) Close() {
	p.display.Close()
}

// Run services events until one of them asks for termination. It returns
// an error only when the connection is lost.
func (p *Probe) Run() (Outcome, error) {
	for {
		ev, err := p.display.NextEvent()
		if err != nil {
			if errors.Is(err, ErrConnectionClosed) {
				return Continue, err
			}
			// X protocol errors (e.g. a rejected move) don't end the loop.
			p.out.Printf("X error: %v", err)
			continue
		}
		if out := p.Handle(ev); out.Done() {
			return out, nil
		}
	}
}

// Handle applies a single event.
func (p *Probe) Handle(ev Event) Outcome {
	switch e := ev.(type) {
	case VisibilityNotify:
		p.out.Printf("Visibility event: visibility = %d", e.State)
	case Expose:
		p.out.Printf("Expose event: (%d, %d) %dx%d", e.X, e.Y, e.Width, e.Height)
	case ConfigureNotify:
		p.out.Print("ConfigureNotify event")
	case KeyPress:
		return p.handleKeyPress(e)
	case MappingNotify:
		if err := p.display.RefreshKeyboardMapping(e); err != nil {
			p.logger.Debug("keyboard mapping refresh failed", "error", err)
		}
	default:
		if ev != nil {
			p.logger.Debug("ignored event", "event", ev.eventName())
		}
	}
	return Continue
}

func (p *Probe) handleKeyPress(e KeyPress) Outcome {
	var line strings.Builder
	line.WriteString("KeyPress event: ")

	text := p.display.LookupString(e)
	if len(text) != 1 {
		p.out.Print(line.String())
		return Continue
	}

	c := text[0]
	fmt.Fprintf(&line, "key = 0x%x ('%c')", c, c)
	switch c {
	case '-':
		p.moveBy(-p.step, &line)
	case '+', '=':
		p.moveBy(p.step, &line)
	case escape:
		p.out.Print(line.String())
		return Terminate(0)
	}
	p.out.Print(line.String())
	return Continue
}

func (p *Probe) moveBy(delta int, line *strings.Builder) {
	p.pos.X += delta
	p.pos.Y += delta
	fmt.Fprintf(line, " move to: %d, %d", p.pos.X, p.pos.Y)
	if err := p.display.MoveWindow(p.pos.X, p.pos.Y); err != nil {
		p.logger.Debug("move request failed", "error", err)
	}
}
