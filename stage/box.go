package stage

import (
	"image/color"
	"sort"
	"strconv"

	"github.com/phanxgames/dragbind"
)

// --- ID counter ---

// boxIDCounter is a plain counter (no atomic, the stage is single-threaded).
var boxIDCounter uint32

func nextBoxID() uint32 {
	boxIDCounter++
	return boxIDCounter
}

// --- Box ---

// Box is a positioned rectangle in the stage tree. It implements
// dragbind.Element: layout follows a small subset of CSS positioning.
//
//   - static boxes sit at FlowX/FlowY inside their parent
//   - relative boxes sit at their static place shifted by left/top
//   - absolute boxes sit at left/top inside their offset parent
//   - fixed boxes sit at left/top inside the viewport
type Box struct {
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Box
	children []*Box
	labels   []*Label

	// Static flow position inside the parent.
	FlowX, FlowY float64

	// Size (border box; there is no padding or border model).
	Width, Height float64

	Color        color.RGBA
	Visible      bool
	Interactable bool

	// Metadata
	UserData any

	style    map[string]string
	classes  map[string]bool
	disposed bool
}

// NewBox creates a visible, interactable box with the given position scheme
// ("static", "relative", "absolute" or "fixed") and size.
func NewBox(name, position string, w, h float64) *Box {
	b := &Box{
		ID:           nextBoxID(),
		Name:         name,
		Width:        w,
		Height:       h,
		Color:        color.RGBA{0x5a, 0x7d, 0xb5, 0xff},
		Visible:      true,
		Interactable: true,
		style:        map[string]string{},
		classes:      map[string]bool{},
	}
	if position != "" {
		b.style["position"] = position
	}
	return b
}

// SetPosition writes left/top as pixel styles.
func (b *Box) SetPosition(left, top float64) {
	b.style["left"] = px(left)
	b.style["top"] = px(top)
}

// Left returns the numeric left style.
func (b *Box) Left() float64 { return dragbind.StylePosition(b, "left") }

// Top returns the numeric top style.
func (b *Box) Top() float64 { return dragbind.StylePosition(b, "top") }

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// --- dragbind.Element ---

// ComputedStyle returns the style value for prop. An unset position reads as
// "static"; unset left/top read as "auto".
func (b *Box) ComputedStyle(prop string) string {
	if v, ok := b.style[prop]; ok {
		return v
	}
	switch prop {
	case "position":
		return dragbind.PositionStatic
	case "left", "top":
		return "auto"
	}
	return ""
}

// SetStyle writes an inline style value.
func (b *Box) SetStyle(prop, value string) {
	b.style[prop] = value
}

// OffsetParent returns the nearest positioned ancestor, or the tree root.
// Roots and fixed boxes have no offset parent.
func (b *Box) OffsetParent() dragbind.Element {
	if p := b.offsetParent(); p != nil {
		return p
	}
	return nil
}

func (b *Box) offsetParent() *Box {
	if b.Parent == nil || b.position() == dragbind.PositionFixed {
		return nil
	}
	p := b.Parent
	for ; p.Parent != nil; p = p.Parent {
		if p.positioned() {
			return p
		}
	}
	return p
}

// OffsetLeft is the distance from the offset parent's left edge.
func (b *Box) OffsetLeft() float64 {
	return b.DocPos().X - b.offsetOrigin().X
}

// OffsetTop is the distance from the offset parent's top edge.
func (b *Box) OffsetTop() float64 {
	return b.DocPos().Y - b.offsetOrigin().Y
}

func (b *Box) offsetOrigin() dragbind.Vec2 {
	if p := b.offsetParent(); p != nil {
		return p.DocPos()
	}
	return dragbind.Vec2{}
}

// OffsetWidth returns the box width. Boxes have no border.
func (b *Box) OffsetWidth() float64 { return b.Width }

// OffsetHeight returns the box height.
func (b *Box) OffsetHeight() float64 { return b.Height }

// ClientWidth returns the box width. Boxes have no padding or scrollbars,
// so it equals OffsetWidth.
func (b *Box) ClientWidth() float64 { return b.Width }

// ClientHeight returns the box height.
func (b *Box) ClientHeight() float64 { return b.Height }

// AddClass adds a class name. Adding a present class is a no-op.
func (b *Box) AddClass(name string) { b.classes[name] = true }

// RemoveClass removes a class name.
func (b *Box) RemoveClass(name string) { delete(b.classes, name) }

// HasClass reports whether the box carries the class.
func (b *Box) HasClass(name string) bool { return b.classes[name] }

// Classes returns the class names in sorted order.
func (b *Box) Classes() []string {
	out := make([]string, 0, len(b.classes))
	for c := range b.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// --- Layout ---

func (b *Box) position() string {
	return b.ComputedStyle("position")
}

func (b *Box) positioned() bool {
	p := b.position()
	return p != "" && p != dragbind.PositionStatic
}

// DocPos returns the top-left corner of the box in document coordinates.
func (b *Box) DocPos() dragbind.Vec2 {
	if b.Parent == nil {
		return dragbind.Vec2{}
	}
	switch b.position() {
	case dragbind.PositionAbsolute:
		return b.offsetParent().DocPos().Add(dragbind.Vec2{X: b.Left(), Y: b.Top()})
	case dragbind.PositionFixed:
		return dragbind.Vec2{X: b.Left(), Y: b.Top()}
	case dragbind.PositionRelative:
		return b.flowPos().Add(dragbind.Vec2{X: b.Left(), Y: b.Top()})
	default:
		return b.flowPos()
	}
}

func (b *Box) flowPos() dragbind.Vec2 {
	return b.Parent.DocPos().Add(dragbind.Vec2{X: b.FlowX, Y: b.FlowY})
}

// Contains reports whether the document point p lies inside the box.
// Points on the edge are considered inside.
func (b *Box) Contains(p dragbind.Vec2) bool {
	o := b.DocPos()
	return p.X >= o.X && p.X <= o.X+b.Width &&
		p.Y >= o.Y && p.Y <= o.Y+b.Height
}

// --- Tree manipulation ---

// AddChild appends child to this box's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this box (cycle).
func (b *Box) AddChild(child *Box) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if isAncestor(child, b) {
		panic("stage: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = b
	b.children = append(b.children, child)
}

// RemoveChild detaches child from this box.
// Panics if child.Parent != b.
func (b *Box) RemoveChild(child *Box) {
	if child.Parent != b {
		panic("stage: child's parent is not this box")
	}
	b.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this box from its parent.
// No-op if this box has no parent.
func (b *Box) RemoveFromParent() {
	if b.Parent == nil {
		return
	}
	b.Parent.RemoveChild(b)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (b *Box) Children() []*Box {
	return b.children
}

// Find returns the first box named name in this subtree, depth first.
func (b *Box) Find(name string) *Box {
	if b.Name == name {
		return b
	}
	for _, c := range b.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// Labels returns the text labels attached to this box.
func (b *Box) Labels() []*Label {
	return b.labels
}

// AddLabel attaches a text label at (x, y) inside the box.
func (b *Box) AddLabel(text string, x, y float64) *Label {
	l := &Label{Text: text, X: x, Y: y, parent: b}
	b.labels = append(b.labels, l)
	return l
}

// Dispose removes this box from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (b *Box) Dispose() {
	if b.disposed {
		return
	}
	b.RemoveFromParent()
	b.dispose()
}

func (b *Box) dispose() {
	b.disposed = true
	b.ID = 0
	for _, child := range b.children {
		child.Parent = nil
		child.dispose()
	}
	b.children = nil
	b.labels = nil
	b.UserData = nil
}

// IsDisposed returns true if this box has been disposed.
func (b *Box) IsDisposed() bool {
	return b.disposed
}

// isAncestor reports whether candidate is an ancestor of box (or box itself).
func isAncestor(candidate, box *Box) bool {
	for p := box; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from b.children without clearing child.Parent.
func (b *Box) removeChildByPtr(child *Box) {
	for i, c := range b.children {
		if c == child {
			copy(b.children[i:], b.children[i+1:])
			b.children[len(b.children)-1] = nil
			b.children = b.children[:len(b.children)-1]
			return
		}
	}
}

// --- Label ---

// debug font cell size used by ebitenutil.DebugPrintAt.
const (
	glyphW = 6
	glyphH = 16
)

// Label is a text node drawn inside a box. It implements dragbind.TextNode,
// so pressing on a label starts a drag of the box that owns it.
type Label struct {
	Text string
	X, Y float64

	parent *Box
}

// ParentElement returns the owning box.
func (l *Label) ParentElement() dragbind.Element {
	if l.parent == nil {
		return nil
	}
	return l.parent
}

// Contains reports whether the document point p lies over the label text.
func (l *Label) Contains(p dragbind.Vec2) bool {
	if l.parent == nil {
		return false
	}
	o := l.parent.DocPos().Add(dragbind.Vec2{X: l.X, Y: l.Y})
	w := float64(len(l.Text) * glyphW)
	return p.X >= o.X && p.X <= o.X+w &&
		p.Y >= o.Y && p.Y <= o.Y+glyphH
}
