package dragbind

import "log/slog"

// Handler reacts to a platform event. Returning false prevents the event's
// default action and stops its propagation.
type Handler func(e *InputEvent) bool

// Disposer removes the subscription it was returned for. Calling it more
// than once is a no-op.
type Disposer func()

// Unbind calls d. It exists for callers that pass disposers around as
// values; a nil disposer is ignored.
func Unbind(d Disposer) {
	if d != nil {
		d()
	}
}

// BinderTier identifies the subscription primitive an EventAdapter selected.
type BinderTier uint8

const (
	TierNone     BinderTier = iota // no primitive; subscriptions are no-ops
	TierListener                   // ListenerBinder: events passed as arguments
	TierLegacy                     // LegacyBinder: events read from CurrentEvent
)

// String returns the tier name.
func (t BinderTier) String() string {
	switch t {
	case TierListener:
		return "listener"
	case TierLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// subscribeFunc is the normalized primitive chosen at construction.
type subscribeFunc func(target any, event string, fn func(*InputEvent)) func()

// EventAdapter subscribes handlers to platform events. The primitive is
// chosen once, from the capabilities the platform value implements.
type EventAdapter struct {
	tier      BinderTier
	subscribe subscribeFunc
}

// NewEventAdapter inspects platform and selects ListenerBinder, then
// LegacyBinder. When neither is implemented every Bind returns a no-op
// disposer and a warning is logged.
func NewEventAdapter(platform any, logger *slog.Logger) *EventAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch p := platform.(type) {
	case ListenerBinder:
		return &EventAdapter{tier: TierListener, subscribe: p.AddListener}
	case LegacyBinder:
		return &EventAdapter{tier: TierLegacy, subscribe: legacySubscribe(p)}
	}
	logger.Warn("no event binder found, subscriptions disabled",
		"err", ErrUnsupportedPlatform)
	return &EventAdapter{
		tier: TierNone,
		subscribe: func(any, string, func(*InputEvent)) func() {
			return func() {}
		},
	}
}

// legacySubscribe adapts a LegacyBinder so handlers still receive an event.
func legacySubscribe(lb LegacyBinder) subscribeFunc {
	return func(target any, event string, fn func(*InputEvent)) func() {
		return lb.Attach(target, event, func() {
			e := lb.CurrentEvent()
			if e == nil {
				e = &InputEvent{Type: event, Target: target}
			}
			fn(e)
		})
	}
}

// Tier reports the selected primitive.
func (a *EventAdapter) Tier() BinderTier {
	return a.tier
}

// Bind subscribes h to event on target. A nil h installs a handler that
// always prevents the default action and stops propagation.
func (a *EventAdapter) Bind(target any, event string, h Handler) Disposer {
	if h == nil {
		h = func(*InputEvent) bool { return false }
	}
	remove := a.subscribe(target, event, func(e *InputEvent) {
		if !h(e) {
			stopEvent(e)
		}
	})
	var done bool
	return func() {
		if done {
			return
		}
		done = true
		if remove != nil {
			remove()
		}
	}
}

// Suppress is Bind with a nil handler.
func (a *EventAdapter) Suppress(target any, event string) Disposer {
	return a.Bind(target, event, nil)
}

// stopEvent prevents the default action and stops propagation.
func stopEvent(e *InputEvent) {
	e.PreventDefault()
	e.StopPropagation()
}
