package dragbind

// Callback is a lifecycle subscriber. Callbacks are matched by pointer
// identity, so keep the value returned by NewCallback to remove it later.
type Callback struct {
	fn func(*Event) any
}

// NewCallback wraps fn as a Callback.
func NewCallback(fn func(*Event) any) *Callback {
	return &Callback{fn: fn}
}

// Func adapts a callback with no result.
func Func(fn func(*Event)) *Callback {
	return &Callback{fn: func(ev *Event) any {
		fn(ev)
		return nil
	}}
}

// Call invokes the callback. A nil callback or one with no function
// returns nil.
func (c *Callback) Call(ev *Event) any {
	if c == nil || c.fn == nil {
		return nil
	}
	return c.fn(ev)
}

// CallbackStack is an ordered list of subscribers for one lifecycle event.
// The same callback may appear more than once and then runs once per entry.
type CallbackStack struct {
	stack []*Callback
}

// NewCallbackStack creates a stack pre-seeded with the non-nil callbacks in
// initial.
func NewCallbackStack(initial ...*Callback) *CallbackStack {
	s := &CallbackStack{}
	s.Push(initial...)
	return s
}

// Push appends callbacks in order. Nil entries are skipped.
func (s *CallbackStack) Push(cbs ...*Callback) {
	for _, c := range cbs {
		if c != nil {
			s.stack = append(s.stack, c)
		}
	}
}

// Remove deletes every occurrence of each given callback, preserving the
// order of what remains.
func (s *CallbackStack) Remove(cbs ...*Callback) {
	kept := s.stack[:0]
outer:
	for _, c := range s.stack {
		for _, r := range cbs {
			if c == r {
				continue outer
			}
		}
		kept = append(kept, c)
	}
	// Clear the tail so removed callbacks are not retained.
	for i := len(kept); i < len(s.stack); i++ {
		s.stack[i] = nil
	}
	s.stack = kept
}

// Len returns the number of entries.
func (s *CallbackStack) Len() int {
	return len(s.stack)
}

// InvokeAll calls every entry with ev in order and returns the last entry's
// result, or nil when the stack is empty. The stack is snapshotted first, so
// callbacks may push or remove entries without affecting this invocation.
func (s *CallbackStack) InvokeAll(ev *Event) any {
	if len(s.stack) == 0 {
		return nil
	}
	snapshot := make([]*Callback, len(s.stack))
	copy(snapshot, s.stack)
	var ret any
	for _, c := range snapshot {
		ret = c.Call(ev)
	}
	return ret
}
