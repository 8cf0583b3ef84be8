package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/xmove/internal/probe"
)

const (
	windowName  = "xmove"
	windowClass = "XMove"
)

// probeEventMask is the set of events the probe window asks for.
const probeEventMask = xproto.EventMaskVisibilityChange |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskKeyPress

// windowAttributes returns the value mask and list for CreateWindow. Values
// must be ordered by mask bit.
func windowAttributes(cmap xproto.Colormap) (uint32, []uint32) {
	mask := uint32(xproto.CwBackPixel |
		xproto.CwBorderPixel |
		xproto.CwOverrideRedirect |
		xproto.CwEventMask |
		xproto.CwColormap)
	values := []uint32{
		0, // background pixel
		0, // border pixel
		1, // override redirect
		probeEventMask,
		uint32(cmap),
	}
	return mask, values
}

// CreateWindow creates an override-redirect window with its own colormap
// as a child of the root of the visual's screen, then maps it.
func (c *Connection) CreateWindow(v probe.Visual, g probe.Geometry) error {
	conn := c.XUtil.Conn()
	setup := xproto.Setup(conn)
	if v.Screen < 0 || v.Screen >= len(setup.Roots) {
		return fmt.Errorf("visual screen %d out of range", v.Screen)
	}
	root := setup.Roots[v.Screen].Root

	cmap, err := xproto.NewColormapId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate colormap id: %w", err)
	}
	err = xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone,
		cmap, root, xproto.Visualid(v.ID)).Check()
	if err != nil {
		return fmt.Errorf("failed to create colormap: %w", err)
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate window id: %w", err)
	}
	mask, values := windowAttributes(cmap)
	err = xproto.CreateWindowChecked(conn, byte(v.Depth), wid, root,
		int16(g.X), int16(g.Y), uint16(g.Width), uint16(g.Height),
		uint16(g.BorderWidth), xproto.WindowClassInputOutput,
		xproto.Visualid(v.ID), mask, values).Check()
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	c.window = xwindow.New(c.XUtil, wid)
	c.identify(wid)
	c.window.Map()

	c.logger.Debug("created window", "id", fmt.Sprintf("0x%x", wid), "colormap", fmt.Sprintf("0x%x", cmap))
	return nil
}

// identify names the window so it can be found with xprop or xwininfo.
func (c *Connection) identify(wid xproto.Window) {
	if err := icccm.WmNameSet(c.XUtil, wid, windowName); err != nil {
		c.logger.Debug("failed to set WM_NAME", "error", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, wid, windowName); err != nil {
		c.logger.Debug("failed to set _NET_WM_NAME", "error", err)
	}
	class := &icccm.WmClass{Instance: windowName, Class: windowClass}
	if err := icccm.WmClassSet(c.XUtil, wid, class); err != nil {
		c.logger.Debug("failed to set WM_CLASS", "error", err)
	}
	if err := ewmh.WmPidSet(c.XUtil, wid, uint(os.Getpid())); err != nil {
		c.logger.Debug("failed to set _NET_WM_PID", "error", err)
	}
}

// MoveWindow moves the probe window to an absolute root position. Errors
// from the server arrive later through NextEvent.
func (c *Connection) MoveWindow(x, y int) error {
	if c.window == nil {
		return fmt.Errorf("no window has been created")
	}
	c.window.Move(x, y)
	return nil
}
