package dragbind

import "testing"

func TestCallbackStackInvokeOrderAndResult(t *testing.T) {
	var order []string
	f := NewCallback(func(*Event) any { order = append(order, "f"); return "f" })
	g := NewCallback(func(*Event) any { order = append(order, "g"); return "g" })

	s := NewCallbackStack(f, g)
	if got := s.InvokeAll(&Event{}); got != "g" {
		t.Errorf("InvokeAll = %v, want g", got)
	}
	if len(order) != 2 || order[0] != "f" || order[1] != "g" {
		t.Errorf("order = %v, want [f g]", order)
	}

	order = nil
	s.Remove(f)
	if got := s.InvokeAll(&Event{}); got != "g" {
		t.Errorf("InvokeAll after Remove = %v, want g", got)
	}
	if len(order) != 1 || order[0] != "g" {
		t.Errorf("order after Remove = %v, want [g]", order)
	}
}

func TestCallbackStackEmpty(t *testing.T) {
	s := NewCallbackStack()
	if got := s.InvokeAll(&Event{}); got != nil {
		t.Errorf("InvokeAll on empty stack = %v, want nil", got)
	}
	s = NewCallbackStack(nil)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want nil initial callback skipped", s.Len())
	}
}

func TestCallbackStackDuplicates(t *testing.T) {
	var calls int
	f := Func(func(*Event) { calls++ })
	g := Func(func(*Event) {})

	s := NewCallbackStack(f)
	s.Push(g, f)
	s.InvokeAll(nil)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}

	s.Remove(f)
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (all occurrences removed)", s.Len())
	}
	calls = 0
	s.InvokeAll(nil)
	if calls != 0 {
		t.Errorf("removed callback still ran %d times", calls)
	}
}

func TestCallbackStackRemovePreservesOrder(t *testing.T) {
	var order []int
	cbs := make([]*Callback, 5)
	for i := range cbs {
		i := i
		cbs[i] = Func(func(*Event) { order = append(order, i) })
	}
	s := NewCallbackStack(cbs...)
	s.Remove(cbs[1], cbs[3])
	s.InvokeAll(nil)

	want := []int{0, 2, 4}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestCallbackStackMutationDuringInvoke(t *testing.T) {
	s := NewCallbackStack()
	var calls int
	late := Func(func(*Event) { calls++ })
	first := Func(func(*Event) { s.Push(late) })
	s.Push(first)

	s.InvokeAll(nil)
	if calls != 0 {
		t.Error("callback pushed during invocation ran in the same invocation")
	}
	s.InvokeAll(nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNilCallbackCall(t *testing.T) {
	var c *Callback
	if c.Call(nil) != nil {
		t.Error("nil callback should return nil")
	}
}
