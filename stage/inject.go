package stage

import "github.com/phanxgames/dragbind"

// syntheticPointerEvent is a single injected pointer event in viewport
// coordinates, fed through the same state machine as real input.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
	button  dragbind.MouseButton
}

// InjectPress queues a left-button press at (x, y). The event is consumed by
// the next Step or Update.
func (s *Stage) InjectPress(x, y float64) {
	s.InjectPressButton(x, y, dragbind.MouseButtonLeft)
}

// InjectPressButton queues a press of the given button at (x, y).
func (s *Stage) InjectPressButton(x, y float64, button dragbind.MouseButton) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: true,
		button:  button,
	})
}

// InjectMove queues a move to (x, y) with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (s *Stage) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		pressed: true,
		button:  s.heldButton(),
	})
}

// InjectHover queues a move to (x, y) with no button held.
func (s *Stage) InjectHover(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectRelease queues a release at (x, y).
func (s *Stage) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		x: x, y: y,
		button: s.heldButton(),
	})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (s *Stage) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// frames-2 linearly interpolated moves ending at (toX, toY), and a release
// there. The total sequence consumes frames frames. Minimum frames is 2
// (press + release, no movement).
func (s *Stage) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		s.InjectMove(x, y)
	}
	s.InjectRelease(toX, toY)
}

// Pending returns the number of queued synthetic events.
func (s *Stage) Pending() int {
	return len(s.injectQueue)
}

// Step pops one event from the inject queue and feeds it through the pointer
// state machine as pointer 0. It reports whether an event was consumed. Step
// never polls real input, so it is safe to call without a running game loop.
func (s *Stage) Step() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.frame++
	s.processPointer(0, dragbind.Vec2{X: evt.x, Y: evt.y}, evt.pressed, evt.button, 0, s.cfg.Touch)
	return true
}

// Drain steps until the inject queue is empty and returns the number of
// events processed.
func (s *Stage) Drain() int {
	n := 0
	for s.Step() {
		n++
	}
	return n
}

// heldButton returns the button of the most recently queued press, or the
// button held by pointer 0, so queued moves and releases keep it.
func (s *Stage) heldButton() dragbind.MouseButton {
	for i := len(s.injectQueue) - 1; i >= 0; i-- {
		if s.injectQueue[i].pressed {
			return s.injectQueue[i].button
		}
	}
	return s.pointers[0].button
}
