package probe

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

type fakeDisplay struct {
	visuals   []Visual
	events    []Event
	errs      map[int]error
	keys      map[uint8]string
	read      int
	created   []Geometry
	moves     []Position
	refreshes int
	queries   int
	closed    bool
}

func (f *fakeDisplay) TrueColorVisual(depth int) (Visual, error) {
	f.queries++
	for _, v := range f.visuals {
		if v.Depth == depth {
			return v, nil
		}
	}
	return Visual{}, ErrNoVisual
}

func (f *fakeDisplay) CreateWindow(v Visual, g Geometry) error {
	f.created = append(f.created, g)
	return nil
}

func (f *fakeDisplay) NextEvent() (Event, error) {
	if err, ok := f.errs[f.read]; ok {
		delete(f.errs, f.read)
		return nil, err
	}
	if f.read >= len(f.events) {
		return nil, ErrConnectionClosed
	}
	ev := f.events[f.read]
	f.read++
	return ev, nil
}

func (f *fakeDisplay) LookupString(ev KeyPress) string {
	return f.keys[ev.Keycode]
}

func (f *fakeDisplay) RefreshKeyboardMapping(MappingNotify) error {
	f.refreshes++
	return nil
}

func (f *fakeDisplay) MoveWindow(x, y int) error {
	f.moves = append(f.moves, Position{X: x, Y: y})
	return nil
}

func (f *fakeDisplay) Close() {
	f.closed = true
}

const (
	keyMinus  = 20
	keyPlus   = 21
	keyEquals = 22
	keyEscape = 9
	keyA      = 38
	keyShift  = 50
	keyMulti  = 99
)

func newFakeDisplay(events ...Event) *fakeDisplay {
	return &fakeDisplay{
		visuals: []Visual{{ID: 0x21, Depth: 24}},
		events:  events,
		keys: map[uint8]string{
			keyMinus:  "-",
			keyPlus:   "+",
			keyEquals: "=",
			keyEscape: "\x1b",
			keyA:      "a",
			keyShift:  "",
			keyMulti:  "ab",
		},
	}
}

func startProbe(t *testing.T, d *fakeDisplay) (*Probe, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = log.New(&buf, "", 0)
	p, err := Start(func() (Display, error) { return d, nil }, cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return p, &buf
}

func TestStart_InitialPlacement(t *testing.T) {
	d := newFakeDisplay()
	p, buf := startProbe(t, d)

	if got := p.Position(); got != (Position{X: 10, Y: 10}) {
		t.Fatalf("expected initial position (10, 10), got %+v", got)
	}
	if len(d.created) != 1 {
		t.Fatalf("expected one window, got %d", len(d.created))
	}
	want := Geometry{X: 10, Y: 10, Width: 100, Height: 100, BorderWidth: 1}
	if d.created[0] != want {
		t.Fatalf("expected geometry %+v, got %+v", want, d.created[0])
	}
	if !strings.Contains(buf.String(), "found a 24-bit visual (visual ID = 0x21)") {
		t.Fatalf("missing visual line in %q", buf.String())
	}
	if v := p.Visual(); v.ID != 0x21 || v.Depth != 24 {
		t.Fatalf("unexpected visual %+v", v)
	}
}

func TestStart_NoDisplay(t *testing.T) {
	d := newFakeDisplay()
	dialErr := errors.New("connection refused")
	// The dialer hands back a display alongside the error; Start must not use it.
	_, err := Start(func() (Display, error) { return d, dialErr }, DefaultConfig())
	if !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
	if !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error to be wrapped, got %v", err)
	}
	if d.queries != 0 || len(d.created) != 0 {
		t.Fatalf("expected no visual query or window creation, got %d queries and %d windows", d.queries, len(d.created))
	}
}

func TestStart_NoVisual(t *testing.T) {
	d := newFakeDisplay()
	d.visuals = []Visual{{ID: 0x22, Depth: 32}}

	_, err := Start(func() (Display, error) { return d, nil }, DefaultConfig())
	if !errors.Is(err, ErrNoVisual) {
		t.Fatalf("expected ErrNoVisual, got %v", err)
	}
	if len(d.created) != 0 {
		t.Fatalf("expected no window creation, got %d", len(d.created))
	}
	if !d.closed {
		t.Fatalf("expected display to be closed")
	}
}

func TestHandle_NonKeyEventsKeepPosition(t *testing.T) {
	d := newFakeDisplay()
	p, buf := startProbe(t, d)

	events := []Event{
		VisibilityNotify{State: 0},
		Expose{X: 0, Y: 0, Width: 100, Height: 100},
		ConfigureNotify{X: 10, Y: 10, Width: 100, Height: 100},
		MappingNotify{Request: 1, FirstKeycode: 8, Count: 248},
		Unhandled{Name: "MapNotify"},
	}
	for _, ev := range events {
		before := p.Position()
		if out := p.Handle(ev); out.Done() {
			t.Fatalf("%T: unexpected termination", ev)
		}
		if after := p.Position(); after != before {
			t.Fatalf("%T: position changed from %+v to %+v", ev, before, after)
		}
	}
	if len(d.moves) != 0 {
		t.Fatalf("expected no moves, got %v", d.moves)
	}
	if d.refreshes != 1 {
		t.Fatalf("expected one mapping refresh, got %d", d.refreshes)
	}

	want := []string{
		"Visibility event: visibility = 0",
		"Expose event: (0, 0) 100x100",
		"ConfigureNotify event",
	}
	for _, line := range want {
		if !strings.Contains(buf.String(), line) {
			t.Fatalf("missing %q in %q", line, buf.String())
		}
	}
	if strings.Contains(buf.String(), "MapNotify") {
		t.Fatalf("unhandled events should not be logged: %q", buf.String())
	}
}

func TestHandle_MoveMonotonicity(t *testing.T) {
	tests := []struct {
		name  string
		keys  []uint8
		wantX int
	}{
		{"minus only", []uint8{keyMinus, keyMinus, keyMinus}, -20},
		{"plus only", []uint8{keyPlus, keyEquals}, 30},
		{"mixed", []uint8{keyMinus, keyMinus, keyPlus, keyEquals, keyEquals}, 20},
		{"none", nil, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDisplay()
			p, _ := startProbe(t, d)
			for _, k := range tt.keys {
				p.Handle(KeyPress{Keycode: k})
			}
			want := Position{X: tt.wantX, Y: tt.wantX}
			if got := p.Position(); got != want {
				t.Fatalf("expected %+v, got %+v", want, got)
			}
			if len(d.moves) != len(tt.keys) {
				t.Fatalf("expected %d moves, got %d", len(tt.keys), len(d.moves))
			}
			if len(tt.keys) > 0 && d.moves[len(d.moves)-1] != want {
				t.Fatalf("last move %+v, want %+v", d.moves[len(d.moves)-1], want)
			}
		})
	}
}

func TestHandle_KeyDecodeGating(t *testing.T) {
	d := newFakeDisplay()
	p, buf := startProbe(t, d)

	for _, k := range []uint8{keyShift, keyMulti, keyA} {
		if out := p.Handle(KeyPress{Keycode: k}); out.Done() {
			t.Fatalf("key %d: unexpected termination", k)
		}
	}
	if got := p.Position(); got != (Position{X: 10, Y: 10}) {
		t.Fatalf("expected unchanged position, got %+v", got)
	}
	if len(d.moves) != 0 {
		t.Fatalf("expected no moves, got %v", d.moves)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got := lines[len(lines)-1]; got != "KeyPress event: key = 0x61 ('a')" {
		t.Fatalf("unexpected key line %q", got)
	}
	if got := lines[len(lines)-2]; got != "KeyPress event: " {
		t.Fatalf("expected bare prefix for multi-byte decode, got %q", got)
	}
}

func TestHandle_MoveLogLine(t *testing.T) {
	d := newFakeDisplay()
	p, buf := startProbe(t, d)

	p.Handle(KeyPress{Keycode: keyMinus})
	if !strings.Contains(buf.String(), "KeyPress event: key = 0x2d ('-') move to: 0, 0") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRun_EscapeTerminates(t *testing.T) {
	d := newFakeDisplay(
		KeyPress{Keycode: keyPlus},
		KeyPress{Keycode: keyEscape},
		KeyPress{Keycode: keyPlus},
	)
	p, _ := startProbe(t, d)

	out, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !out.Done() || out.Code() != 0 {
		t.Fatalf("expected terminate(0), got %v code %d", out, out.Code())
	}
	if d.read != 2 {
		t.Fatalf("expected 2 events read, got %d", d.read)
	}
	if got := p.Position(); got != (Position{X: 20, Y: 20}) {
		t.Fatalf("expected (20, 20), got %+v", got)
	}
}

func TestRun_ProtocolErrorContinues(t *testing.T) {
	d := newFakeDisplay(KeyPress{Keycode: keyEscape})
	d.errs = map[int]error{0: errors.New("BadWindow")}
	p, buf := startProbe(t, d)

	out, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !out.Done() {
		t.Fatalf("expected termination")
	}
	if !strings.Contains(buf.String(), "X error: BadWindow") {
		t.Fatalf("expected X error line, got %q", buf.String())
	}
}

func TestRun_ConnectionClosed(t *testing.T) {
	d := newFakeDisplay(Expose{})
	p, _ := startProbe(t, d)

	out, err := p.Run()
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
	if out.Done() {
		t.Fatalf("expected non-terminating outcome on error")
	}
}

func TestStart_CustomStep(t *testing.T) {
	d := newFakeDisplay()
	cfg := DefaultConfig()
	cfg.Step = 25
	p, err := Start(func() (Display, error) { return d, nil }, cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	p.Handle(KeyPress{Keycode: keyEquals})
	if got := p.Position(); got != (Position{X: 35, Y: 35}) {
		t.Fatalf("expected (35, 35), got %+v", got)
	}
}
