package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/xmove/internal/probe"
)

// Keysyms with a text encoding outside the Latin-1 range.
const (
	keysymBackSpace  = 0xff08
	keysymClear      = 0xff0b
	keysymReturn     = 0xff0d
	keysymEscape     = 0xff1b
	keysymDelete     = 0xffff
	keysymKPSpace    = 0xff80
	keysymKPTab      = 0xff89
	keysymKPEnter    = 0xff8d
	keysymKPMultiply = 0xffaa
	keysymKP9        = 0xffb9
	keysymKPEqual    = 0xffbd
	keysymKPFirst    = 0xff80
	keysymKPLast     = 0xffbd
)

// numLockMask is the modifier NumLock is bound to on nearly every server.
const numLockMask = xproto.ModMask2

// LookupString decodes a key press into text using the cached keyboard
// mapping, following the core protocol's keysym selection rules.
func (c *Connection) LookupString(ev probe.KeyPress) string {
	kc := xproto.Keycode(ev.Keycode)
	return lookupString(func(column byte) xproto.Keysym {
		return keybind.KeysymGet(c.XUtil, kc, column)
	}, ev.State)
}

// RefreshKeyboardMapping reloads the keyboard and modifier maps after a
// MappingNotify. Pointer mapping changes are ignored.
func (c *Connection) RefreshKeyboardMapping(ev probe.MappingNotify) error {
	if ev.Request == xproto.MappingPointer {
		return nil
	}
	keyMap, modMap := keybind.MapsGet(c.XUtil)
	keybind.KeyMapSet(c.XUtil, keyMap)
	keybind.ModMapSet(c.XUtil, modMap)
	c.logger.Debug("keyboard mapping refreshed",
		"first_keycode", ev.FirstKeycode, "count", ev.Count)
	return nil
}

func lookupString(keysymAt func(column byte) xproto.Keysym, state uint16) string {
	sym := selectKeysym(keysymAt(0), keysymAt(1), state)
	b, ok := keysymByte(sym)
	if !ok {
		return ""
	}
	if state&xproto.ModMaskControl != 0 {
		b = controlByte(b)
	}
	return string([]byte{b})
}

// selectKeysym picks between the first two keysyms of a keycode.
func selectKeysym(lower, upper xproto.Keysym, state uint16) xproto.Keysym {
	if upper == 0 {
		lower, upper = convertCase(lower)
	}

	shift := state&xproto.ModMaskShift != 0
	lock := state&xproto.ModMaskLock != 0

	if state&numLockMask != 0 && isKeypad(upper) {
		if shift {
			return lower
		}
		return upper
	}

	switch {
	case !shift && !lock:
		return lower
	case !shift && lock:
		_, up := convertCase(lower)
		return up
	case shift && lock:
		_, up := convertCase(upper)
		return up
	default:
		return upper
	}
}

// convertCase returns the lower and upper case forms of a Latin-1 keysym.
// Keysyms without case return themselves twice.
func convertCase(sym xproto.Keysym) (xproto.Keysym, xproto.Keysym) {
	switch {
	case sym >= 'A' && sym <= 'Z':
		return sym + ('a' - 'A'), sym
	case sym >= 'a' && sym <= 'z':
		return sym, sym - ('a' - 'A')
	case sym >= 0xc0 && sym <= 0xde && sym != 0xd7:
		return sym + 0x20, sym
	case sym >= 0xe0 && sym <= 0xfe && sym != 0xf7:
		return sym, sym - 0x20
	}
	return sym, sym
}

func isKeypad(sym xproto.Keysym) bool {
	return sym >= keysymKPFirst && sym <= keysymKPLast
}

// keysymByte maps a keysym to the single byte it types, if any.
func keysymByte(sym xproto.Keysym) (byte, bool) {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return byte(sym), true
	case sym == keysymKPSpace:
		return ' ', true
	case sym >= keysymBackSpace && sym <= keysymClear,
		sym == keysymReturn,
		sym == keysymEscape,
		sym == keysymKPTab,
		sym == keysymKPEnter,
		sym >= keysymKPMultiply && sym <= keysymKP9,
		sym == keysymKPEqual,
		sym == keysymDelete:
		return byte(sym & 0x7f), true
	}
	return 0, false
}

// controlByte applies the Control modifier the way terminals expect.
func controlByte(b byte) byte {
	switch {
	case (b >= '@' && b < 0x7f) || b == ' ':
		return b & 0x1f
	case b == '2':
		return 0
	case b >= '3' && b <= '7':
		return b - ('3' - 0x1b)
	case b == '8':
		return 0x7f
	case b == '/':
		return '_' & 0x1f
	}
	return b
}
