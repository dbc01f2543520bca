package dragbind

// --- In-memory platform used by the engine tests ---

type fakeElement struct {
	name    string
	style   map[string]string
	classes map[string]int
	parent  *fakeElement
	offset  Vec2
	size    Vec2
	client  Vec2
}

func newFakeElement(name, position string, w, h float64) *fakeElement {
	return &fakeElement{
		name:    name,
		style:   map[string]string{"position": position},
		classes: map[string]int{},
		size:    Vec2{w, h},
		client:  Vec2{w, h},
	}
}

func (e *fakeElement) ComputedStyle(prop string) string { return e.style[prop] }
func (e *fakeElement) SetStyle(prop, value string)      { e.style[prop] = value }
func (e *fakeElement) OffsetLeft() float64              { return e.offset.X }
func (e *fakeElement) OffsetTop() float64               { return e.offset.Y }
func (e *fakeElement) OffsetWidth() float64             { return e.size.X }
func (e *fakeElement) OffsetHeight() float64            { return e.size.Y }
func (e *fakeElement) ClientWidth() float64             { return e.client.X }
func (e *fakeElement) ClientHeight() float64            { return e.client.Y }
func (e *fakeElement) AddClass(name string)             { e.classes[name]++ }
func (e *fakeElement) RemoveClass(name string)          { delete(e.classes, name) }
func (e *fakeElement) hasClass(name string) bool        { return e.classes[name] > 0 }

func (e *fakeElement) OffsetParent() Element {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

type fakeText struct {
	parent *fakeElement
}

func (t *fakeText) ParentElement() Element { return t.parent }

type fakeListener struct {
	fn      func(*InputEvent)
	removed bool
}

// fakeDoc is a Document and ListenerBinder. Events bubble from the target to
// the document unless propagation is stopped.
type fakeDoc struct {
	root      *fakeElement
	scroll    Vec2
	sources   []SizeSource
	listeners map[any]map[string][]*fakeListener
}

func newFakeDoc() *fakeDoc {
	root := newFakeElement("html", PositionStatic, 1000, 800)
	return &fakeDoc{
		root:      root,
		listeners: map[any]map[string][]*fakeListener{},
	}
}

func (d *fakeDoc) Root() Element                 { return d.root }
func (d *fakeDoc) Scroll() Vec2                  { return d.scroll }
func (d *fakeDoc) ViewportSources() []SizeSource { return d.sources }

func (d *fakeDoc) AddListener(target any, event string, fn func(*InputEvent)) func() {
	byEvent := d.listeners[target]
	if byEvent == nil {
		byEvent = map[string][]*fakeListener{}
		d.listeners[target] = byEvent
	}
	l := &fakeListener{fn: fn}
	byEvent[event] = append(byEvent[event], l)
	return func() {
		l.removed = true
		list := byEvent[event]
		for i, x := range list {
			if x == l {
				byEvent[event] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// count returns the number of live listeners for event on target.
func (d *fakeDoc) count(target any, event string) int {
	return len(d.listeners[target][event])
}

// total returns the number of live listeners across all targets.
func (d *fakeDoc) total() int {
	n := 0
	for _, byEvent := range d.listeners {
		for _, list := range byEvent {
			n += len(list)
		}
	}
	return n
}

func (d *fakeDoc) deliver(target any, e *InputEvent) {
	list := append([]*fakeListener(nil), d.listeners[target][e.Type]...)
	for _, l := range list {
		if !l.removed {
			l.fn(e)
		}
	}
}

// dispatch delivers e to target and then bubbles it to the document.
func (d *fakeDoc) dispatch(target any, e *InputEvent) *InputEvent {
	if e.Target == nil {
		e.Target = target
	}
	d.deliver(target, e)
	if target != any(d) && !e.PropagationStopped() {
		d.deliver(d, e)
	}
	return e
}

func mouse(typ string, x, y float64) *InputEvent {
	return &InputEvent{Type: typ, Page: &Vec2{x, y}}
}

// touchDoc is a fakeDoc that reports touch capability.
type touchDoc struct{ *fakeDoc }

func (touchDoc) TouchCapable() bool { return true }

// legacyPlatform exposes only the argument-less binding primitive.
type legacyPlatform struct {
	doc     *fakeDoc
	current *InputEvent
}

func (p *legacyPlatform) Attach(target any, event string, fn func()) func() {
	return p.doc.AddListener(target, event, func(e *InputEvent) {
		prev := p.current
		p.current = e
		fn()
		p.current = prev
	})
}

func (p *legacyPlatform) CurrentEvent() *InputEvent { return p.current }

// recorder collects lifecycle event names in firing order.
type recorder struct {
	names  []EventName
	events []*Event
}

func (r *recorder) callback() *Callback {
	return Func(func(ev *Event) {
		r.names = append(r.names, ev.Type)
		r.events = append(r.events, ev)
	})
}

func (r *recorder) options() Options {
	cb := r.callback()
	return Options{
		OnBeforeDrag: []*Callback{cb},
		OnDragStart:  []*Callback{cb},
		OnDrag:       []*Callback{cb},
		OnDragEnd:    []*Callback{cb},
		OnUnbind:     []*Callback{cb},
	}
}

func (r *recorder) last() *Event {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}
