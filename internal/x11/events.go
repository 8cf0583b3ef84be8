package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xmove/internal/probe"
)

// translateEvent converts a wire event into the probe's event variants.
func translateEvent(ev xgb.Event) probe.Event {
	switch e := ev.(type) {
	case xproto.VisibilityNotifyEvent:
		return probe.VisibilityNotify{State: int(e.State)}
	case xproto.ExposeEvent:
		return probe.Expose{
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
		}
	case xproto.ConfigureNotifyEvent:
		return probe.ConfigureNotify{
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
		}
	case xproto.KeyPressEvent:
		return probe.KeyPress{Keycode: uint8(e.Detail), State: e.State}
	case xproto.MappingNotifyEvent:
		return probe.MappingNotify{
			Request:      int(e.Request),
			FirstKeycode: uint8(e.FirstKeycode),
			Count:        int(e.Count),
		}
	default:
		return probe.Unhandled{Name: fmt.Sprintf("%T", ev)}
	}
}
