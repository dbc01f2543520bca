// Package scenario loads YAML descriptions of a stage (boxes, drag bindings
// and scripted pointer input) and plays them back frame by frame.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/dragbind"
)

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("scenario: invalid")

// Step actions.
const (
	ActionPress   = "press"
	ActionMove    = "move"
	ActionRelease = "release"
	ActionClick   = "click"
	ActionDrag    = "drag"
	ActionWait    = "wait"
	ActionUnbind  = "unbind"
	ActionExpect  = "expect"
)

// File is the top-level YAML document.
type File struct {
	Name      string        `yaml:"name"`
	Viewport  Viewport      `yaml:"viewport"`
	Touch     bool          `yaml:"touch"`
	DragClass string        `yaml:"dragClass"`
	Boxes     []BoxSpec     `yaml:"boxes"`
	Bindings  []BindingSpec `yaml:"bindings"`
	Steps     []Step        `yaml:"steps"`
}

// Viewport is the stage size. Zero values take the stage defaults.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BoxSpec describes one box and its children.
type BoxSpec struct {
	Name     string    `yaml:"name"`
	Position string    `yaml:"position"`
	Left     *float64  `yaml:"left"`
	Top      *float64  `yaml:"top"`
	FlowX    float64   `yaml:"flowX"`
	FlowY    float64   `yaml:"flowY"`
	Width    float64   `yaml:"width"`
	Height   float64   `yaml:"height"`
	Color    string    `yaml:"color"`
	Label    string    `yaml:"label"`
	Children []BoxSpec `yaml:"children"`
}

// BindingSpec makes a box draggable.
type BindingSpec struct {
	Element string     `yaml:"element"`
	Anchor  string     `yaml:"anchor"`
	Bounds  BoundsSpec `yaml:"bounds"`
	// Release lists extra release surfaces by box name; "document" is
	// always included.
	Release []string `yaml:"release"`
}

// BoundsSpec is either a mode name ("none", "offsetParent", "windowSize")
// or a mapping with x and y ranges for manual bounds.
type BoundsSpec struct {
	dragbind.Bounds
}

type rangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *BoundsSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		switch value.Value {
		case "", "none":
			b.Bounds = dragbind.Bounds{}
		case "offsetParent":
			b.Bounds = dragbind.OffsetParentBounds()
		case "windowSize":
			b.Bounds = dragbind.WindowBounds()
		default:
			return fmt.Errorf("%w: line %d: unknown bounds mode %q", ErrInvalid, value.Line, value.Value)
		}
		return nil
	case yaml.MappingNode:
		var m struct {
			X rangeSpec `yaml:"x"`
			Y rangeSpec `yaml:"y"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		b.Bounds = dragbind.ManualBounds(
			dragbind.Range{Min: m.X.Min, Max: m.X.Max},
			dragbind.Range{Min: m.Y.Min, Max: m.Y.Max},
		)
		return nil
	}
	return fmt.Errorf("%w: line %d: bounds must be a mode name or an x/y mapping", ErrInvalid, value.Line)
}

// MarshalYAML implements yaml.Marshaler.
func (b BoundsSpec) MarshalYAML() (any, error) {
	if b.Mode != dragbind.BoundsManual {
		return b.Mode.String(), nil
	}
	return map[string]rangeSpec{
		"x": {Min: b.X.Min, Max: b.X.Max},
		"y": {Min: b.Y.Min, Max: b.Y.Max},
	}, nil
}

// Step is one scripted action.
type Step struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	FromX  float64 `yaml:"fromX,omitempty"`
	FromY  float64 `yaml:"fromY,omitempty"`
	ToX    float64 `yaml:"toX,omitempty"`
	ToY    float64 `yaml:"toY,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	Button string  `yaml:"button,omitempty"`

	// Box names the subject of unbind and expect steps.
	Box      string   `yaml:"box,omitempty"`
	Left     *float64 `yaml:"left,omitempty"`
	Top      *float64 `yaml:"top,omitempty"`
	Dragging *bool    `yaml:"dragging,omitempty"`
}

// Load parses and validates a scenario document. Unknown fields are errors.
func Load(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks names, positions, bindings and steps.
func (f *File) Validate() error {
	names := map[string]*BoxSpec{}
	var walk func(specs []BoxSpec) error
	walk = func(specs []BoxSpec) error {
		for i := range specs {
			b := &specs[i]
			if b.Name == "" {
				return fmt.Errorf("%w: box without a name", ErrInvalid)
			}
			if b.Name == "document" {
				return fmt.Errorf("%w: box name %q is reserved", ErrInvalid, b.Name)
			}
			if _, dup := names[b.Name]; dup {
				return fmt.Errorf("%w: duplicate box %q", ErrInvalid, b.Name)
			}
			switch b.Position {
			case "", dragbind.PositionStatic, dragbind.PositionRelative,
				dragbind.PositionAbsolute, dragbind.PositionFixed:
			default:
				return fmt.Errorf("%w: box %q: unknown position %q", ErrInvalid, b.Name, b.Position)
			}
			if b.Width < 0 || b.Height < 0 {
				return fmt.Errorf("%w: box %q: negative size", ErrInvalid, b.Name)
			}
			if _, err := parseColor(b.Color); err != nil {
				return fmt.Errorf("%w: box %q: %v", ErrInvalid, b.Name, err)
			}
			names[b.Name] = b
			if err := walk(b.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(f.Boxes); err != nil {
		return err
	}

	for i, bs := range f.Bindings {
		if _, ok := names[bs.Element]; !ok {
			return fmt.Errorf("%w: binding %d: unknown element %q", ErrInvalid, i, bs.Element)
		}
		if bs.Anchor != "" {
			if _, ok := names[bs.Anchor]; !ok {
				return fmt.Errorf("%w: binding %d: unknown anchor %q", ErrInvalid, i, bs.Anchor)
			}
		}
		for _, r := range bs.Release {
			if _, ok := names[r]; !ok && r != "document" {
				return fmt.Errorf("%w: binding %d: unknown release surface %q", ErrInvalid, i, r)
			}
		}
	}

	for i, st := range f.Steps {
		if err := st.validate(names); err != nil {
			return fmt.Errorf("%w: step %d (%s): %v", ErrInvalid, i, st.Action, err)
		}
	}
	return nil
}

func (st Step) validate(names map[string]*BoxSpec) error {
	switch st.Action {
	case ActionPress, ActionMove, ActionRelease, ActionClick, ActionDrag:
		if _, err := parseButton(st.Button); err != nil {
			return err
		}
	case ActionWait:
		if st.Frames < 1 {
			return errors.New("frames must be at least 1")
		}
	case ActionUnbind:
		if _, ok := names[st.Box]; !ok {
			return fmt.Errorf("unknown box %q", st.Box)
		}
	case ActionExpect:
		if _, ok := names[st.Box]; !ok {
			return fmt.Errorf("unknown box %q", st.Box)
		}
		if st.Left == nil && st.Top == nil && st.Dragging == nil {
			return errors.New("expect needs left, top or dragging")
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

func parseButton(s string) (dragbind.MouseButton, error) {
	switch s {
	case "", "left":
		return dragbind.MouseButtonLeft, nil
	case "middle":
		return dragbind.MouseButtonMiddle, nil
	case "right":
		return dragbind.MouseButtonRight, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}
