// Package dragbind makes arbitrary on-screen elements draggable by mouse or
// touch input, independent of any particular UI toolkit.
//
// The host supplies the platform through small capability interfaces:
// [Element] for style and geometry queries, [Document] for the top-level
// surface, and either [ListenerBinder] or [LegacyBinder] for subscribing to
// input events. The [stage] sub-package provides a complete platform built
// on Ebitengine.
//
// # Quick start
//
//	reg := dragbind.NewRegistry(dragbind.Config{Document: doc})
//	ref, err := reg.Bind(box, dragbind.Options{
//		Bounds: dragbind.OffsetParentBounds(),
//		OnDragEnd: []*dragbind.Callback{dragbind.Func(func(ev *dragbind.Event) {
//			fmt.Println("dropped at", ev.Pos)
//		})},
//	})
//
// # Bindings
//
// A binding ties an element to an anchor (the element whose start event
// begins a drag; by default the element itself). At most one binding exists
// per element/anchor pair; binding the same pair twice is a no-op.
//
// While a drag is active the element carries the marker class "drag", and
// listeners for move and release events are attached to the document and to
// any extra release anchors. They are removed before dragend fires.
//
// Unbinding during a drag is deferred until the drag ends.
//
// # Bounding boxes
//
// [Bounds] constrains the element to its offset parent, the viewport, or a
// manual rectangle. The element's own width and height are subtracted from
// the maximum so its far edge stays inside.
//
// # Lifecycle events
//
// Each binding fires beforedrag, dragstart, drag, dragend and unbind to the
// [Callback]s registered for them, in registration order.
//
// Registries are single-threaded: call them only from the goroutine that
// dispatches platform events.
//
// [stage]: https://pkg.go.dev/github.com/phanxgames/dragbind/stage
package dragbind
