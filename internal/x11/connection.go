package x11

import (
	"io"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/xmove/internal/probe"
)

// Connection manages the X11 connection and the probe window
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	window *xwindow.Window
	logger *slog.Logger
}

var _ probe.Display = (*Connection)(nil)

// NewConnection connects to the named display. An empty name uses $DISPLAY.
func NewConnection(display string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Load the keyboard and modifier mappings used by LookupString.
	keybind.Initialize(xu)

	logger.Debug("connected to display",
		"display", display,
		"screens", len(xproto.Setup(xu.Conn()).Roots))

	return &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		logger: logger,
	}, nil
}

// Dialer returns a probe.Dialer bound to the named display.
func Dialer(display string, logger *slog.Logger) probe.Dialer {
	return func() (probe.Display, error) {
		conn, err := NewConnection(display, logger)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// NextEvent blocks until the server sends an event or an error.
func (c *Connection) NextEvent() (probe.Event, error) {
	ev, xerr := c.XUtil.Conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, probe.ErrConnectionClosed
	}
	if xerr != nil {
		return nil, xerr
	}
	return translateEvent(ev), nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
