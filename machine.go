package dragbind

import "strconv"

// binding is one element/anchor pair and its drag state machine. A binding
// is Idle when dragging is false and Dragging otherwise; transient is empty
// whenever it is Idle.
type binding struct {
	id  int
	reg *Registry

	element Element
	anchor  Element
	release []any
	bounds  Bounds

	dragging     bool
	shouldUnbind bool

	startSub  Disposer
	transient []Disposer
	callbacks map[EventName]*CallbackStack

	// Valid only while dragging.
	base dragBaseline
	lim  limits
}

func (b *binding) ref() Ref {
	return Ref{id: b.id, reg: b.reg}
}

// stylePos returns the element's current left/top style position.
func (b *binding) stylePos() Vec2 {
	return Vec2{StylePosition(b.element, "left"), StylePosition(b.element, "top")}
}

// live reports whether the registry still owns b.
func (b *binding) live() bool {
	return b.reg.bindings[b.id] == b
}

// --- Idle -> Dragging ---

// handleStart runs on the anchor's start event.
func (b *binding) handleStart(e *InputEvent) bool {
	r := b.reg
	if b.dragging || !r.primaryActivation(e) {
		return true
	}

	r.fire(b, EventBeforeDrag, newEvent(EventBeforeDrag, e, b.ref(), b.stylePos()))
	// A beforedrag callback may have unbound us.
	if !b.live() {
		return true
	}

	b.dragging = true
	b.element.AddClass(r.dragClass)

	b.base = dragBaseline{
		style:   b.stylePos(),
		offset:  Vec2{b.element.OffsetLeft(), b.element.OffsetTop()},
		doc:     CumulativeOffset(b.element),
		pointer: PointerPosition(e, r.doc),
	}
	b.lim = resolveLimits(b.bounds, b.element, r.doc, b.base)

	b.transient = append(b.transient[:0], r.events.Bind(r.doc, r.scheme.Move, b.handleMove))
	for _, surface := range b.release {
		b.transient = append(b.transient, r.events.Bind(surface, r.scheme.End, b.releaseHandler(surface)))
	}
	b.transient = append(b.transient,
		r.events.Suppress(r.doc, eventSelectStart),
		r.events.Suppress(b.anchor, eventNativeDrag),
	)

	r.log.Debug("drag started", "binding", b.id,
		"x", b.base.style.X, "y", b.base.style.Y)
	r.fire(b, EventDragStart, newEvent(EventDragStart, e, b.ref(), b.base.style))
	return false
}

// --- Dragging ---

// handleMove applies one pointer move.
func (b *binding) handleMove(e *InputEvent) bool {
	if !b.dragging {
		return true
	}
	r := b.reg
	p := PointerPosition(e, r.doc)
	raw := b.base.style.Add(p.Sub(b.base.pointer))
	pos := b.lim.apply(raw)

	b.element.SetStyle("left", formatPx(pos.X))
	b.element.SetStyle("top", formatPx(pos.Y))

	r.fire(b, EventDrag, newEvent(EventDrag, e, b.ref(), pos))
	return false
}

// --- Dragging -> Idle ---

// releaseHandler returns the end-event handler for one release surface.
func (b *binding) releaseHandler(surface any) Handler {
	return func(e *InputEvent) bool {
		if !b.dragging {
			return true
		}
		b.endDrag(e, surface)
		return false
	}
}

// endDrag tears down the drag cycle. Transient listeners are gone before
// dragend fires; a deferred unbind is applied before dragend and announced
// after it.
func (b *binding) endDrag(e *InputEvent, surface any) {
	r := b.reg
	for _, d := range b.transient {
		Unbind(d)
	}
	clear(b.transient)
	b.transient = b.transient[:0]
	b.dragging = false
	b.element.RemoveClass(r.dragClass)

	deferred := b.shouldUnbind
	if deferred {
		b.shouldUnbind = false
		r.destroy(b)
	}

	pos := b.stylePos()
	r.log.Debug("drag ended", "binding", b.id, "x", pos.X, "y", pos.Y)
	ev := newEvent(EventDragEnd, e, b.ref(), pos)
	ev.ReleaseAnchor = surface
	r.fire(b, EventDragEnd, ev)

	if deferred {
		r.fire(b, EventUnbind, newEvent(EventUnbind, e, b.ref(), pos))
	}
}

// formatPx renders a pixel style value.
func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
