package scenario

import (
	"fmt"
	"image/color"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/phanxgames/dragbind"
	"github.com/phanxgames/dragbind/stage"
)

// Options configure Build.
type Options struct {
	Logger    *slog.Logger
	Observers []dragbind.Observer
	// Debug enables the stage's per-frame debug logging.
	Debug bool
}

// Scenario is a built stage with its drag bindings.
type Scenario struct {
	File     *File
	Stage    *stage.Stage
	Registry *dragbind.Registry

	refs map[string][]dragbind.Ref
}

// Build creates the stage, boxes and bindings described by f.
func Build(f *File, opts Options) (*Scenario, error) {
	st := stage.New(stage.Config{
		Width:          f.Viewport.Width,
		Height:         f.Viewport.Height,
		Touch:          f.Touch,
		HighlightClass: f.DragClass,
		Logger:         opts.Logger,
		Debug:          opts.Debug,
	})
	for _, spec := range f.Boxes {
		if err := addBox(st.Box(), spec); err != nil {
			return nil, err
		}
	}

	reg := dragbind.NewRegistry(dragbind.Config{
		Document:  st,
		DragClass: f.DragClass,
		Logger:    opts.Logger,
		Observers: opts.Observers,
	})
	sc := &Scenario{File: f, Stage: st, Registry: reg, refs: map[string][]dragbind.Ref{}}

	for i, bs := range f.Bindings {
		o := dragbind.Options{Bounds: bs.Bounds.Bounds}
		if bs.Anchor != "" {
			o.Anchor = st.Find(bs.Anchor)
		}
		for _, name := range bs.Release {
			if name == "document" {
				o.ReleaseAnchors = append(o.ReleaseAnchors, st)
				continue
			}
			o.ReleaseAnchors = append(o.ReleaseAnchors, st.Find(name))
		}
		ref, err := reg.Bind(st.Find(bs.Element), o)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, bs.Element, err)
		}
		if !ref.IsZero() {
			sc.refs[bs.Element] = append(sc.refs[bs.Element], ref)
		}
	}
	return sc, nil
}

func addBox(parent *stage.Box, spec BoxSpec) error {
	b := stage.NewBox(spec.Name, spec.Position, spec.Width, spec.Height)
	b.FlowX, b.FlowY = spec.FlowX, spec.FlowY
	if spec.Left != nil {
		b.SetStyle("left", strconv.FormatFloat(*spec.Left, 'f', -1, 64)+"px")
	}
	if spec.Top != nil {
		b.SetStyle("top", strconv.FormatFloat(*spec.Top, 'f', -1, 64)+"px")
	}
	if spec.Color != "" {
		c, err := parseColor(spec.Color)
		if err != nil {
			return fmt.Errorf("box %q: %w", spec.Name, err)
		}
		b.Color = c
	}
	if spec.Label != "" {
		b.AddLabel(spec.Label, 4, 4)
	}
	parent.AddChild(b)
	for _, c := range spec.Children {
		if err := addBox(b, c); err != nil {
			return err
		}
	}
	return nil
}

// parseColor accepts "#rgb", "#rrggbb" or "#rrggbbaa". Empty is valid.
func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{}, nil
	}
	h, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("color %q: missing #", s)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Refs returns the live bindings of the named element.
func (sc *Scenario) Refs(name string) []dragbind.Ref {
	var out []dragbind.Ref
	for _, r := range sc.refs[name] {
		if r.Alive() {
			out = append(out, r)
		}
	}
	return out
}

// Unbind removes every binding of the named element.
func (sc *Scenario) Unbind(name string) {
	for _, r := range sc.refs[name] {
		r.Unbind()
	}
}

// Dragging reports whether any binding of the named element is dragging.
func (sc *Scenario) Dragging(name string) bool {
	for _, r := range sc.refs[name] {
		if r.Dragging() {
			return true
		}
	}
	return false
}

// Position is a box's style position at a point in time.
type Position struct {
	Name      string
	Left, Top float64
}

// Positions returns the left/top styles of every bound element, sorted by
// name.
func (sc *Scenario) Positions() []Position {
	out := make([]Position, 0, len(sc.refs))
	for name := range sc.refs {
		b := sc.Stage.Find(name)
		if b == nil {
			continue
		}
		out = append(out, Position{Name: name, Left: b.Left(), Top: b.Top()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
