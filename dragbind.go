package dragbind

import "time"

// Vec2 is a 2D vector used for pointer coordinates, element positions, and
// sizes throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Range is a closed min/max interval on one axis.
type Range struct {
	Min, Max float64
}

// EventName identifies a lifecycle event a binding can fire.
type EventName string

const (
	EventBeforeDrag EventName = "beforedrag" // fires before a drag is marked active
	EventDragStart  EventName = "dragstart"  // fires once the drag is active and listeners are installed
	EventDrag       EventName = "drag"       // fires after every move has been applied
	EventDragEnd    EventName = "dragend"    // fires after the drag has been torn down
	EventUnbind     EventName = "unbind"     // fires when the binding is destroyed
)

// lifecycleEvents lists every event a binding owns a CallbackStack for.
var lifecycleEvents = [...]EventName{
	EventBeforeDrag, EventDragStart, EventDrag, EventDragEnd, EventUnbind,
}

// Valid reports whether n names a lifecycle event.
func (n EventName) Valid() bool {
	for _, e := range lifecycleEvents {
		if e == n {
			return true
		}
	}
	return false
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	MouseButtonRight                     // secondary (right) mouse button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Scheme is the triple of platform event names that start, continue, and
// end a drag.
type Scheme struct {
	Start, Move, End string
}

var (
	// MouseScheme is used on platforms without touch input.
	MouseScheme = Scheme{Start: "mousedown", Move: "mousemove", End: "mouseup"}
	// TouchScheme is used on touch-capable platforms.
	TouchScheme = Scheme{Start: "touchstart", Move: "touchmove", End: "touchend"}
)

// Platform event names suppressed for the duration of a drag.
const (
	eventSelectStart = "selectstart"
	eventNativeDrag  = "dragstart"
)

// defaultDragClass is the marker class applied while an element is dragged.
const defaultDragClass = "drag"

// Touch is a single touch point. Only the first touch of an event drives a
// drag.
type Touch struct {
	PageX, PageY float64
}

// InputEvent is a platform input event as seen by handlers bound through an
// EventAdapter. Platforms expose different subsets of the coordinate fields;
// nil Page or Client means the platform did not report them.
type InputEvent struct {
	Type      string
	Target    any
	Button    MouseButton
	Touches   []Touch
	Page      *Vec2
	Client    *Vec2
	Modifiers KeyModifiers
	Timestamp time.Time

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault cancels the platform's default action for the event.
func (e *InputEvent) PreventDefault() { e.defaultPrevented = true }

// StopPropagation stops the event from reaching further targets.
func (e *InputEvent) StopPropagation() { e.propagationStopped = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *InputEvent) DefaultPrevented() bool { return e.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (e *InputEvent) PropagationStopped() bool { return e.propagationStopped }

// Event is the payload passed to lifecycle callbacks.
type Event struct {
	Type          EventName
	OriginalEvent *InputEvent
	AltKey        bool
	CtrlKey       bool
	ShiftKey      bool
	Timestamp     time.Time
	Pos           Vec2
	// Target is the original event's target; text nodes are resolved to
	// their parent element.
	Target any
	// Binding refers back to the binding that fired the event. It does not
	// keep the binding alive.
	Binding Ref
	// ReleaseAnchor is the surface whose end event terminated the drag.
	// Only set on dragend.
	ReleaseAnchor any
}

// newEvent builds a lifecycle event from a platform event. A nil source
// yields an event stamped with the current time and no modifiers.
func newEvent(name EventName, source *InputEvent, ref Ref, pos Vec2) *Event {
	ev := &Event{
		Type:          name,
		OriginalEvent: source,
		Pos:           pos,
		Binding:       ref,
	}
	if source == nil {
		ev.Timestamp = time.Now()
		return ev
	}
	ev.AltKey = source.Modifiers&ModAlt != 0
	ev.CtrlKey = source.Modifiers&ModCtrl != 0
	ev.ShiftKey = source.Modifiers&ModShift != 0
	ev.Timestamp = source.Timestamp
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	ev.Target = resolveTarget(source.Target)
	return ev
}

// resolveTarget maps text nodes to their parent element.
func resolveTarget(t any) any {
	if tn, ok := t.(TextNode); ok {
		if p := tn.ParentElement(); p != nil {
			return p
		}
	}
	return t
}
