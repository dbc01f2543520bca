package stage

import (
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/dragbind"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// Config configures a Stage. The zero value is an 800x600 mouse stage.
type Config struct {
	Width, Height int

	// Touch makes the stage report touch capability and deliver pointer
	// input as touch events.
	Touch bool

	// HighlightClass is outlined when a box carries it. Defaults to "drag".
	HighlightClass string

	Background color.RGBA
	Logger     *slog.Logger

	// Debug logs per-frame timing and dispatch counts at debug level.
	Debug bool
}

// Stage owns the box tree, the listener table and the input state. It
// implements dragbind.Document, dragbind.ListenerBinder and
// dragbind.TouchReporter, so it can be passed directly as the document of a
// dragbind.Registry.
type Stage struct {
	cfg   Config
	root  *Box
	log   *slog.Logger
	debug bool

	scroll dragbind.Vec2

	// Listener table
	listeners  map[any]map[string][]*listener
	dispatched int

	// Input state
	pointers     [maxPointers]pointerState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	injectQueue  []syntheticPointerEvent

	frame uint64
}

// New creates a stage with a pre-created root box covering the viewport.
func New(cfg Config) *Stage {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.HighlightClass == "" {
		cfg.HighlightClass = "drag"
	}
	if cfg.Background == (color.RGBA{}) {
		cfg.Background = color.RGBA{0x1e, 0x1e, 0x24, 0xff}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root := NewBox("root", dragbind.PositionStatic, float64(cfg.Width), float64(cfg.Height))
	root.Color = cfg.Background
	return &Stage{
		cfg:       cfg,
		root:      root,
		log:       logger.With("component", "stage"),
		debug:     cfg.Debug,
		listeners: map[any]map[string][]*listener{},
	}
}

// Box returns the root box.
func (s *Stage) Box() *Box {
	return s.root
}

// Find returns the first box named name.
func (s *Stage) Find(name string) *Box {
	return s.root.Find(name)
}

// Size returns the configured viewport size.
func (s *Stage) Size() (w, h int) {
	return s.cfg.Width, s.cfg.Height
}

// Frame returns the number of input frames processed.
func (s *Stage) Frame() uint64 {
	return s.frame
}

// SetDebugMode enables or disables per-frame debug logging.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetScroll sets the document scroll offset. Page coordinates of pointer
// events are client coordinates plus the scroll offset.
func (s *Stage) SetScroll(v dragbind.Vec2) {
	s.scroll = v
}

// --- dragbind.Document ---

// Root returns the root box as an Element.
func (s *Stage) Root() dragbind.Element {
	return s.root
}

// Scroll returns the document scroll offset.
func (s *Stage) Scroll() dragbind.Vec2 {
	return s.scroll
}

// ViewportSources reports the configured stage size. Pointer coordinates
// and box positions are in these logical units whatever the window's
// outside size is.
func (s *Stage) ViewportSources() []dragbind.SizeSource {
	return []dragbind.SizeSource{
		func() (float64, float64, bool) {
			return float64(s.cfg.Width), float64(s.cfg.Height), true
		},
	}
}

// --- dragbind.TouchReporter ---

// TouchCapable reports whether the stage was configured for touch.
func (s *Stage) TouchCapable() bool {
	return s.cfg.Touch
}

// --- Listener table ---

type listener struct {
	fn      func(*dragbind.InputEvent)
	removed bool
}

// AddListener subscribes fn to event on target. Targets are boxes, labels
// or the stage itself (the document surface). The returned function removes
// the subscription.
func (s *Stage) AddListener(target any, event string, fn func(*dragbind.InputEvent)) func() {
	byEvent := s.listeners[target]
	if byEvent == nil {
		byEvent = map[string][]*listener{}
		s.listeners[target] = byEvent
	}
	l := &listener{fn: fn}
	byEvent[event] = append(byEvent[event], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := byEvent[event]
		for i, x := range list {
			if x == l {
				copy(list[i:], list[i+1:])
				list[len(list)-1] = nil
				byEvent[event] = list[:len(list)-1]
				break
			}
		}
		if len(byEvent[event]) == 0 {
			delete(byEvent, event)
		}
		if len(byEvent) == 0 {
			delete(s.listeners, target)
		}
	}
}

// ListenerCount returns the number of live listeners across all targets.
func (s *Stage) ListenerCount() int {
	n := 0
	for _, byEvent := range s.listeners {
		for _, list := range byEvent {
			n += len(list)
		}
	}
	return n
}

// Dispatch delivers e to target and bubbles it through the target's
// ancestors to the stage, stopping when propagation is stopped. A nil
// target delivers to the stage only.
func (s *Stage) Dispatch(target any, e *dragbind.InputEvent) {
	if target == nil {
		target = s
	}
	e.Target = target
	for _, t := range s.propagationPath(target) {
		s.deliver(t, e)
		if e.PropagationStopped() {
			return
		}
	}
}

func (s *Stage) propagationPath(target any) []any {
	var path []any
	var box *Box
	switch t := target.(type) {
	case *Label:
		path = append(path, t)
		box = t.parent
	case *Box:
		box = t
	}
	for b := box; b != nil; b = b.Parent {
		path = append(path, b)
	}
	return append(path, s)
}

func (s *Stage) deliver(target any, e *dragbind.InputEvent) {
	list := s.listeners[target][e.Type]
	if len(list) == 0 {
		return
	}
	snapshot := append([]*listener(nil), list...)
	for _, l := range snapshot {
		if !l.removed {
			s.dispatched++
			l.fn(e)
		}
	}
}
