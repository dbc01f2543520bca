package dragbind

// Element is a node the engine can move, use as an anchor, or measure as an
// offset parent. Implementations must be comparable (typically pointers):
// the registry indexes bindings by (element, anchor).
type Element interface {
	// ComputedStyle returns the resolved value of a style property such as
	// "position", "left", or "top".
	ComputedStyle(prop string) string
	// SetStyle writes an inline style property.
	SetStyle(prop, value string)

	// OffsetParent returns the nearest positioned ancestor, or nil.
	OffsetParent() Element
	OffsetLeft() float64
	OffsetTop() float64
	OffsetWidth() float64
	OffsetHeight() float64
	ClientWidth() float64
	ClientHeight() float64

	AddClass(name string)
	RemoveClass(name string)
}

// TextNode is implemented by event targets that are text rather than
// elements. Lifecycle events report the parent element instead.
type TextNode interface {
	ParentElement() Element
}

// SizeSource reports a viewport size, or ok=false when the platform does not
// provide that particular measurement.
type SizeSource func() (w, h float64, ok bool)

// Document is the top-level surface. It receives the move listener and is
// always the first release surface of every binding.
type Document interface {
	// Root returns the document element, which terminates offset chains.
	Root() Element
	// Scroll returns the document scroll offset.
	Scroll() Vec2
	// ViewportSources returns size sources in priority order.
	ViewportSources() []SizeSource
}

// ListenerBinder is the modern subscription primitive: handlers receive the
// event as an argument. The returned function removes the listener.
type ListenerBinder interface {
	AddListener(target any, event string, fn func(*InputEvent)) (remove func())
}

// LegacyBinder is the older subscription primitive: handlers receive no
// arguments and read the event being dispatched from CurrentEvent.
type LegacyBinder interface {
	Attach(target any, event string, fn func()) (detach func())
	CurrentEvent() *InputEvent
}

// TouchReporter is implemented by platforms that know whether touch input
// is available.
type TouchReporter interface {
	TouchCapable() bool
}

// Position modes reported by ComputedStyle("position").
const (
	PositionStatic   = "static"
	PositionRelative = "relative"
	PositionAbsolute = "absolute"
	PositionFixed    = "fixed"
)

// positioned reports whether el can be moved by writing left/top.
func positioned(el Element) bool {
	switch el.ComputedStyle("position") {
	case "", PositionStatic:
		return false
	}
	return true
}
