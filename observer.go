package dragbind

// Observer receives every lifecycle event a registry fires, for every
// binding, before the binding's own callbacks run. Observers must not call
// back into the registry.
type Observer interface {
	Observe(ev *Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev *Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev *Event) { f(ev) }
