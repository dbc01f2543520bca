package dragbind

import "math"

// BoundsMode selects how a drag is constrained.
type BoundsMode uint8

const (
	BoundsNone         BoundsMode = iota // unconstrained
	BoundsOffsetParent                   // inside the offset parent's client box
	BoundsWindow                         // inside the viewport
	BoundsManual                         // inside a caller-supplied rectangle
)

// String returns the mode name as used in configuration files.
func (m BoundsMode) String() string {
	switch m {
	case BoundsOffsetParent:
		return "offsetParent"
	case BoundsWindow:
		return "windowSize"
	case BoundsManual:
		return "manual"
	default:
		return "none"
	}
}

// Bounds is a bounding box policy. The zero value is unconstrained.
type Bounds struct {
	Mode BoundsMode
	// X and Y are only used in BoundsManual mode and are taken verbatim.
	X, Y Range
}

// OffsetParentBounds keeps the element inside its offset parent.
func OffsetParentBounds() Bounds { return Bounds{Mode: BoundsOffsetParent} }

// WindowBounds keeps the element inside the viewport.
func WindowBounds() Bounds { return Bounds{Mode: BoundsWindow} }

// ManualBounds keeps the element inside the given ranges.
func ManualBounds(x, y Range) Bounds { return Bounds{Mode: BoundsManual, X: x, Y: y} }

// limits are the resolved per-axis constraints for one drag cycle.
type limits struct {
	active bool
	x, y   Range
	extent Vec2
}

// clampAxis constrains raw to [min, max-extent]. When the range is inverted
// min wins, which keeps the function idempotent.
func clampAxis(raw, min, max, extent float64) float64 {
	return math.Max(min, math.Min(max-extent, raw))
}

// apply clamps a candidate position.
func (l limits) apply(p Vec2) Vec2 {
	if !l.active {
		return p
	}
	return Vec2{
		X: clampAxis(p.X, l.x.Min, l.x.Max, l.extent.X),
		Y: clampAxis(p.Y, l.y.Min, l.y.Max, l.extent.Y),
	}
}

// dragBaseline is the geometry captured when a drag starts.
type dragBaseline struct {
	style   Vec2 // left/top style values
	offset  Vec2 // offsetLeft/offsetTop
	doc     Vec2 // cumulative document offset
	pointer Vec2 // pointer position at the start event
}

// resolveLimits computes the constraints for el under b.
//
// Relatively positioned elements take their own original position as the
// origin, so the offset-parent and window modes shift their ranges by the
// element's start offset. Other modes originate at the offset parent's edge.
func resolveLimits(b Bounds, el Element, doc Document, base dragBaseline) limits {
	var x, y Range
	relative := el.ComputedStyle("position") == PositionRelative

	switch b.Mode {
	case BoundsOffsetParent:
		parent := el.OffsetParent()
		if parent == nil && doc != nil {
			parent = doc.Root()
		}
		if parent == nil {
			return limits{}
		}
		w, h := parent.ClientWidth(), parent.ClientHeight()
		if relative {
			x = Range{-base.offset.X, w - base.offset.X}
			y = Range{-base.offset.Y, h - base.offset.Y}
		} else {
			x = Range{0, w}
			y = Range{0, h}
		}
	case BoundsWindow:
		if doc == nil {
			return limits{}
		}
		vp := ViewportSize(doc)
		if relative {
			x = Range{-base.doc.X, vp.X - base.doc.X}
			y = Range{-base.doc.Y, vp.Y - base.doc.Y}
		} else {
			// The offset parent's document position is doc - offset.
			ox := base.doc.X - base.offset.X
			oy := base.doc.Y - base.offset.Y
			x = Range{-ox, vp.X - ox}
			y = Range{-oy, vp.Y - oy}
		}
	case BoundsManual:
		x, y = b.X, b.Y
	default:
		return limits{}
	}

	return limits{
		active: true,
		x:      x,
		y:      y,
		extent: Vec2{el.OffsetWidth(), el.OffsetHeight()},
	}
}
