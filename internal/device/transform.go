package device

import "tabula/internal/events"

// TouchTransform applies one of the four affine transforms spec.md §4.3
// names (identity, swap+mirror-Y, mirror-X+mirror-Y, swap+mirror-X) to a
// touch event, as a pure function of the current screen rotation and
// screen size. This intentionally lives at the device-adapter boundary
// (see SPEC_FULL.md, Open Question resolution #2).
func TouchTransform(rot events.Rotation, screen events.Size, t events.TouchEvent) events.TouchEvent {
	switch rot {
	case events.RotationNormal:
		return t
	case events.RotationCW90:
		// swap + mirror Y
		x, y := t.Y, screen.H-1-t.X
		t.X, t.Y = x, y
		return t
	case events.RotationCW180:
		t.X, t.Y = screen.W-1-t.X, screen.H-1-t.Y
		return t
	case events.RotationCW270:
		// swap + mirror X
		x, y := screen.W-1-t.Y, t.X
		t.X, t.Y = x, y
		return t
	default:
		return t
	}
}
