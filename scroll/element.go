package scroll

import "strconv"

// Rect is an element's position in document space, in pixels.
type Rect struct {
	Top    float64
	Height float64
}

func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Element is something the scheduler can measure and animate.
// Rect reports ok=false once the element has been removed from the page.
type Element interface {
	Rect() (Rect, bool)
	Prop(name string) float64
	SetProp(name string, v float64)
}

type TextElement interface {
	Element
	SetText(s string)
}

// Property names understood by the host page.
const (
	PropOpacity   = "opacity"
	PropScale     = "scale"
	PropX         = "x"
	PropY         = "y"
	PropZ         = "z"
	PropYPercent  = "yPercent"
	PropRotationX = "rotationX"
	PropRotationY = "rotationY"
	PropRotation  = "rotation"
	PropBlur      = "blur"
)

// Defaults for properties never written to an element.
func defaultProp(name string) float64 {
	switch name {
	case PropOpacity, PropScale, "scaleX", "scaleY":
		return 1
	}
	return 0
}

// Node is an in-memory Element. The host mirrors it into the page.
type Node struct {
	Name string

	rect     Rect
	detached bool
	props    map[string]float64
	text     string
	writes   int
}

func NewNode(name string, top, height float64) *Node {
	return &Node{Name: name, rect: Rect{Top: top, Height: height}, props: map[string]float64{}}
}

func (n *Node) Rect() (Rect, bool) {
	if n.detached {
		return Rect{}, false
	}
	return n.rect, true
}

func (n *Node) Move(top, height float64) { n.rect = Rect{Top: top, Height: height} }

// Detach marks the node as removed from the page.
func (n *Node) Detach() { n.detached = true }

func (n *Node) Prop(name string) float64 {
	if v, ok := n.props[name]; ok {
		return v
	}
	return defaultProp(name)
}

func (n *Node) SetProp(name string, v float64) {
	if n.props == nil {
		n.props = map[string]float64{}
	}
	n.props[name] = v
	n.writes++
}

func (n *Node) SetText(s string) {
	n.text = s
	n.writes++
}

func (n *Node) Text() string { return n.text }

// Props returns a copy of every property written so far.
func (n *Node) Props() map[string]float64 {
	out := make(map[string]float64, len(n.props))
	for k, v := range n.props {
		out[k] = v
	}
	return out
}

// Writes counts SetProp and SetText calls.
func (n *Node) Writes() int { return n.writes }

func (n *Node) String() string {
	return n.Name + "@" + strconv.FormatFloat(n.rect.Top, 'f', 0, 64)
}
