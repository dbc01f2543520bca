package dragbind

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Config configures a Registry. The zero value of every field except
// Document is usable.
type Config struct {
	// Document is the top-level surface that receives move and release
	// listeners. Required.
	Document Document

	// Platform supplies the event-binding capability (ListenerBinder or
	// LegacyBinder) and optionally TouchReporter. Defaults to Document.
	Platform any

	// Scheme overrides the start/move/end event names. The zero value picks
	// TouchScheme on touch-capable platforms and MouseScheme otherwise.
	Scheme Scheme

	// DragClass is the marker class applied while dragging (default "drag").
	DragClass string

	// Logger receives debug records for binding and drag transitions.
	// Defaults to a discard logger.
	Logger *slog.Logger

	// Observers see every lifecycle event fired by the registry.
	Observers []Observer
}

// Options configures a single binding.
type Options struct {
	// Anchor is the element whose start event begins a drag. Defaults to
	// the dragged element.
	Anchor Element
	// Bounds constrains the dragged position. The zero value is unconstrained.
	Bounds Bounds
	// ReleaseAnchors are extra surfaces whose end event terminates a drag.
	// The document is always the first release surface.
	ReleaseAnchors []any

	OnBeforeDrag []*Callback
	OnDragStart  []*Callback
	OnDrag       []*Callback
	OnDragEnd    []*Callback
	OnUnbind     []*Callback
}

// pairKey identifies a binding by its element and anchor.
type pairKey struct {
	element, anchor Element
}

// Registry owns every binding created through it and hands out opaque
// references to them. It is not safe for concurrent use; all calls must
// happen on the goroutine that dispatches platform events.
type Registry struct {
	doc       Document
	events    *EventAdapter
	scheme    Scheme
	touch     bool
	dragClass string
	log       *slog.Logger
	observers []Observer

	bindings map[int]*binding
	pairs    map[pairKey]int
	nextID   int
}

// NewRegistry creates an empty registry. The event-binding strategy is
// selected here, once, from the platform's capabilities.
func NewRegistry(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	platform := cfg.Platform
	if platform == nil {
		platform = cfg.Document
	}
	touch := false
	if tr, ok := platform.(TouchReporter); ok {
		touch = tr.TouchCapable()
	}
	scheme := cfg.Scheme
	if scheme == (Scheme{}) {
		scheme = MouseScheme
		if touch {
			scheme = TouchScheme
		}
	}
	dragClass := cfg.DragClass
	if dragClass == "" {
		dragClass = defaultDragClass
	}
	events := NewEventAdapter(platform, logger)
	logger.Debug("registry created", "binder", events.Tier().String(), "touch", touch)
	return &Registry{
		doc:       cfg.Document,
		events:    events,
		scheme:    scheme,
		touch:     touch,
		dragClass: dragClass,
		log:       logger,
		observers: cfg.Observers,
		bindings:  make(map[int]*binding),
		pairs:     make(map[pairKey]int),
	}
}

// Events returns the adapter the registry subscribes through.
func (r *Registry) Events() *EventAdapter {
	return r.events
}

// Scheme returns the event names the registry listens for.
func (r *Registry) Scheme() Scheme {
	return r.scheme
}

// Len returns the number of live bindings.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// Bind makes el draggable. If el and the resolved anchor are already bound,
// Bind does nothing and returns the zero Ref with a nil error.
func (r *Registry) Bind(el Element, opts Options) (Ref, error) {
	if isNil(el) {
		return Ref{}, fmt.Errorf("%w: element is nil", ErrInvalidArgument)
	}
	if !positioned(el) {
		return Ref{}, fmt.Errorf("%w: position %q", ErrUnsupportedPosition, el.ComputedStyle("position"))
	}
	anchor := opts.Anchor
	if isNil(anchor) {
		anchor = el
	}
	key := pairKey{element: el, anchor: anchor}
	if _, ok := r.pairs[key]; ok {
		return Ref{}, nil
	}

	r.nextID++
	b := &binding{
		id:        r.nextID,
		reg:       r,
		element:   el,
		anchor:    anchor,
		release:   releaseSurfaces(r.doc, opts.ReleaseAnchors),
		bounds:    opts.Bounds,
		callbacks: make(map[EventName]*CallbackStack, len(lifecycleEvents)),
	}
	b.callbacks[EventBeforeDrag] = NewCallbackStack(opts.OnBeforeDrag...)
	b.callbacks[EventDragStart] = NewCallbackStack(opts.OnDragStart...)
	b.callbacks[EventDrag] = NewCallbackStack(opts.OnDrag...)
	b.callbacks[EventDragEnd] = NewCallbackStack(opts.OnDragEnd...)
	b.callbacks[EventUnbind] = NewCallbackStack(opts.OnUnbind...)
	b.startSub = r.events.Bind(anchor, r.scheme.Start, b.handleStart)

	r.bindings[b.id] = b
	r.pairs[key] = b.id
	r.log.Debug("bound", "binding", b.id, "bounds", b.bounds.Mode.String(),
		"release_surfaces", len(b.release))
	return b.ref(), nil
}

// releaseSurfaces returns doc followed by the distinct non-nil extras.
func releaseSurfaces(doc Document, extra []any) []any {
	out := make([]any, 0, len(extra)+1)
	out = append(out, doc)
outer:
	for _, s := range extra {
		if s == nil {
			continue
		}
		for _, seen := range out {
			if seen == s {
				continue outer
			}
		}
		out = append(out, s)
	}
	return out
}

// Lookup returns the live reference for an element and anchor. A nil
// anchor means the element itself.
func (r *Registry) Lookup(el, anchor Element) (Ref, bool) {
	if isNil(el) {
		return Ref{}, false
	}
	if isNil(anchor) {
		anchor = el
	}
	id, ok := r.pairs[pairKey{element: el, anchor: anchor}]
	if !ok {
		return Ref{}, false
	}
	return Ref{id: id, reg: r}, true
}

// Unbind destroys the binding behind ref. During a drag the destruction is
// deferred until the drag ends. Invalid or stale references are ignored.
func (r *Registry) Unbind(ref Ref) {
	b := r.resolve(ref)
	if b == nil {
		return
	}
	if b.dragging {
		b.shouldUnbind = true
		r.log.Debug("unbind deferred", "binding", b.id)
		return
	}
	r.destroy(b)
	r.fire(b, EventUnbind, newEvent(EventUnbind, nil, b.ref(), b.stylePos()))
}

// destroy releases the start subscription and the registry slot.
func (r *Registry) destroy(b *binding) {
	Unbind(b.startSub)
	b.startSub = nil
	delete(r.bindings, b.id)
	delete(r.pairs, pairKey{element: b.element, anchor: b.anchor})
	r.log.Debug("unbound", "binding", b.id)
}

// BindEvent appends cb to the named lifecycle event of the binding.
// Unknown references or event names are ignored.
func (r *Registry) BindEvent(ref Ref, name EventName, cb *Callback) {
	if s := r.stack(ref, name); s != nil {
		s.Push(cb)
	}
}

// UnbindEvent removes every occurrence of cb from the named lifecycle event.
func (r *Registry) UnbindEvent(ref Ref, name EventName, cb *Callback) {
	if s := r.stack(ref, name); s != nil {
		s.Remove(cb)
	}
}

// InvokeEvent fires the named lifecycle event as if source had been
// delivered by the platform. Drag state and element position are untouched;
// the event reports the element's current position.
func (r *Registry) InvokeEvent(ref Ref, name EventName, source *InputEvent) {
	b := r.resolve(ref)
	if b == nil || b.callbacks[name] == nil {
		return
	}
	r.fire(b, name, newEvent(name, source, b.ref(), b.stylePos()))
}

func (r *Registry) stack(ref Ref, name EventName) *CallbackStack {
	b := r.resolve(ref)
	if b == nil {
		return nil
	}
	return b.callbacks[name]
}

func (r *Registry) resolve(ref Ref) *binding {
	if ref.reg != r || ref.id == 0 {
		return nil
	}
	return r.bindings[ref.id]
}

// fire notifies observers, then the binding's callbacks.
func (r *Registry) fire(b *binding, name EventName, ev *Event) any {
	for _, o := range r.observers {
		o.Observe(ev)
	}
	return b.callbacks[name].InvokeAll(ev)
}

// primaryActivation reports whether e may start a drag: any touch on touch
// platforms, otherwise the primary mouse button.
func (r *Registry) primaryActivation(e *InputEvent) bool {
	if r.touch || len(e.Touches) > 0 {
		return true
	}
	return e.Button == MouseButtonLeft
}

// isNil reports whether el is nil or a typed nil.
func isNil(el Element) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// --- References ---

// Ref is an opaque handle to a binding. The zero Ref refers to nothing.
// Refs stay valid as values after the binding is destroyed; every method
// then does nothing.
type Ref struct {
	id  int
	reg *Registry
}

// ID returns the binding's registry id, or 0 for the zero Ref.
func (r Ref) ID() int { return r.id }

// IsZero reports whether r refers to nothing.
func (r Ref) IsZero() bool { return r.reg == nil }

// Alive reports whether the binding still exists.
func (r Ref) Alive() bool { return r.reg != nil && r.reg.resolve(r) != nil }

// Dragging reports whether the binding is between a start and end event.
func (r Ref) Dragging() bool {
	if r.reg == nil {
		return false
	}
	b := r.reg.resolve(r)
	return b != nil && b.dragging
}

// Unbind is Registry.Unbind(r).
func (r Ref) Unbind() {
	if r.reg != nil {
		r.reg.Unbind(r)
	}
}

// BindEvent is Registry.BindEvent(r, name, cb).
func (r Ref) BindEvent(name EventName, cb *Callback) {
	if r.reg != nil {
		r.reg.BindEvent(r, name, cb)
	}
}

// UnbindEvent is Registry.UnbindEvent(r, name, cb).
func (r Ref) UnbindEvent(name EventName, cb *Callback) {
	if r.reg != nil {
		r.reg.UnbindEvent(r, name, cb)
	}
}

// InvokeEvent is Registry.InvokeEvent(r, name, source).
func (r Ref) InvokeEvent(name EventName, source *InputEvent) {
	if r.reg != nil {
		r.reg.InvokeEvent(r, name, source)
	}
}
