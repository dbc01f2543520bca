package stage

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/dragbind"
)

// --- Constants ---

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	down   bool
	last   dragbind.Vec2
	button dragbind.MouseButton // button captured at press time
	moved  bool                 // last position is meaningful
}

// --- Hit testing ---

// collectVisible walks the tree in painter order (DFS, children after their
// parent), appending visible interactable boxes to buf.
func collectVisible(b *Box, buf []*Box) []*Box {
	if !b.Visible {
		return buf
	}
	if b.Interactable {
		buf = append(buf, b)
	}
	for _, c := range b.children {
		buf = collectVisible(c, buf)
	}
	return buf
}

// HitTest returns the topmost label or box under the document point p, or
// nil when only the root is hit.
func (s *Stage) HitTest(p dragbind.Vec2) any {
	boxes := collectVisible(s.root, nil)
	// Iterate backward (reverse painter order): topmost visual box first.
	for i := len(boxes) - 1; i >= 0; i-- {
		b := boxes[i]
		if b == s.root {
			continue
		}
		for j := len(b.labels) - 1; j >= 0; j-- {
			if b.labels[j].Contains(p) {
				return b.labels[j]
			}
		}
		if b.Contains(p) {
			return b
		}
	}
	return nil
}

// --- Input processing ---

// readModifiers reads the current keyboard modifier state.
func readModifiers() dragbind.KeyModifiers {
	var mods dragbind.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= dragbind.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= dragbind.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= dragbind.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= dragbind.ModMeta
	}
	return mods
}

// Update processes one frame of input. A queued synthetic event takes the
// place of real mouse and touch input for the frame.
func (s *Stage) Update() {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	before := s.dispatched

	if !s.Step() {
		s.frame++
		mods := readModifiers()
		s.processMousePointer(mods)
		s.processTouchPointers(mods)
	}

	if s.debug {
		s.debugFrame(time.Since(t0), s.dispatched-before)
	}
}

// processMousePointer handles mouse input (pointer 0).
func (s *Stage) processMousePointer(mods dragbind.KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	// Detect which button is pressed. If pointer is already down, the stored
	// button is used to avoid changing mid-interaction.
	var pressed bool
	var button dragbind.MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		if left {
			button = dragbind.MouseButtonLeft
		} else if right {
			button = dragbind.MouseButtonRight
		} else {
			button = dragbind.MouseButtonMiddle
		}
	}

	s.processPointer(0, dragbind.Vec2{X: float64(mx), Y: float64(my)}, pressed, button, mods, s.cfg.Touch)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Stage) processTouchPointers(mods dragbind.KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, dragbind.Vec2{X: float64(tx), Y: float64(ty)}, true, dragbind.MouseButtonLeft, mods, true)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.last, false, dragbind.MouseButtonLeft, mods, true)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Stage) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the pointer state machine for a single pointer and
// dispatches the matching DOM-style event. client is in viewport
// coordinates; events carry both client and page coordinates.
func (s *Stage) processPointer(pointerID int, client dragbind.Vec2, pressed bool, button dragbind.MouseButton, mods dragbind.KeyModifiers, touch bool) {
	ps := &s.pointers[pointerID]
	page := client.Add(s.scroll)
	target := s.HitTest(page)

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.last = client
		ps.moved = true
		s.Dispatch(target, s.pointerEvent(startEvent(touch), client, page, ps.button, mods, touch, true))
	case !pressed && ps.down:
		ps.down = false
		ps.last = client
		s.Dispatch(target, s.pointerEvent(endEvent(touch), client, page, ps.button, mods, touch, false))
	case pressed && ps.down:
		if client != ps.last {
			ps.last = client
			s.Dispatch(target, s.pointerEvent(moveEvent(touch), client, page, ps.button, mods, touch, true))
		}
	default:
		// Hover move. Touch pointers do not hover.
		if !touch && (!ps.moved || client != ps.last) {
			ps.last = client
			ps.moved = true
			s.Dispatch(target, s.pointerEvent(moveEvent(false), client, page, button, mods, false, false))
		}
	}
}

func (s *Stage) pointerEvent(typ string, client, page dragbind.Vec2, button dragbind.MouseButton, mods dragbind.KeyModifiers, touch, active bool) *dragbind.InputEvent {
	c, p := client, page
	e := &dragbind.InputEvent{
		Type:      typ,
		Button:    button,
		Client:    &c,
		Page:      &p,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
	// Like the DOM touch list, an ended touch is no longer reported.
	if touch && active {
		e.Touches = []dragbind.Touch{{PageX: page.X, PageY: page.Y}}
	}
	return e
}

func startEvent(touch bool) string {
	if touch {
		return dragbind.TouchScheme.Start
	}
	return dragbind.MouseScheme.Start
}

func moveEvent(touch bool) string {
	if touch {
		return dragbind.TouchScheme.Move
	}
	return dragbind.MouseScheme.Move
}

func endEvent(touch bool) string {
	if touch {
		return dragbind.TouchScheme.End
	}
	return dragbind.MouseScheme.End
}
