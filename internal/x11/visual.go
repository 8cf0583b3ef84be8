package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xmove/internal/probe"
)

// TrueColorVisual returns the first TrueColor visual of the given depth,
// searching screens in order.
func (c *Connection) TrueColorVisual(depth int) (probe.Visual, error) {
	v, ok := findTrueColorVisual(xproto.Setup(c.XUtil.Conn()), depth)
	if !ok {
		return probe.Visual{}, fmt.Errorf("%w (TrueColor, depth %d)", probe.ErrNoVisual, depth)
	}
	return v, nil
}

func findTrueColorVisual(setup *xproto.SetupInfo, depth int) (probe.Visual, bool) {
	if setup == nil {
		return probe.Visual{}, false
	}
	for screen, root := range setup.Roots {
		for _, d := range root.AllowedDepths {
			if int(d.Depth) != depth {
				continue
			}
			for _, vt := range d.Visuals {
				if vt.Class == xproto.VisualClassTrueColor {
					return probe.Visual{
						ID:     uint32(vt.VisualId),
						Depth:  int(d.Depth),
						Screen: screen,
					}, true
				}
			}
		}
	}
	return probe.Visual{}, false
}
