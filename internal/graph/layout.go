package graph

import (
	"math"
	"strconv"
)

// BoundingBox records an element's extent plus the left/right/centerline
// anchors later elements use to connect to it.
type BoundingBox struct {
	X, Y          float64
	Width, Height float64

	AnchorLeft  float64
	AnchorRight float64
	AnchorY     float64
}

func NewBoundingBox(x, y, width, height float64) BoundingBox {
	return BoundingBox{
		X: x, Y: y, Width: width, Height: height,
		AnchorLeft: x, AnchorRight: x + width, AnchorY: y + height/2,
	}
}

func (b BoundingBox) X2() float64 { return b.X + b.Width }
func (b BoundingBox) Y2() float64 { return b.Y + b.Height }

func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{
		X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height,
		AnchorLeft: b.AnchorLeft + dx, AnchorRight: b.AnchorRight + dx, AnchorY: b.AnchorY + dy,
	}
}

// RenderedNode pairs a laid-out SVG element with its bounding box.
type RenderedNode struct {
	Element SVGElement
	BBox    BoundingBox
}

// SpaceHorizontally lays items left to right, aligning every anchor Y on
// the tallest item's centerline.
func SpaceHorizontally(items []RenderedNode, padding float64) ([]RenderedNode, BoundingBox) {
	if len(items) == 0 {
		return items, BoundingBox{}
	}
	maxAnchorY := 0.0
	for _, item := range items {
		if item.BBox.AnchorY > maxAnchorY {
			maxAnchorY = item.BBox.AnchorY
		}
	}

	result := make([]RenderedNode, len(items))
	x := 0.0
	minY, maxY := math.MaxFloat64, 0.0
	for i, item := range items {
		dy := maxAnchorY - item.BBox.AnchorY
		newBBox := item.BBox.Translate(x-item.BBox.X, dy)
		result[i] = RenderedNode{Element: wrapWithTransform(item.Element, x-item.BBox.X, dy), BBox: newBBox}
		if newBBox.Y < minY {
			minY = newBBox.Y
		}
		if newBBox.Y2() > maxY {
			maxY = newBBox.Y2()
		}
		x = newBBox.X2() + padding
	}

	totalBBox := BoundingBox{
		X: 0, Y: minY, Width: result[len(result)-1].BBox.X2(), Height: maxY - minY,
		AnchorLeft: result[0].BBox.AnchorLeft, AnchorRight: result[len(result)-1].BBox.AnchorRight, AnchorY: maxAnchorY,
	}
	return result, totalBBox
}

func wrapWithTransform(elem SVGElement, dx, dy float64) SVGElement {
	if dx == 0 && dy == 0 {
		return elem
	}
	return &Group{Transform: "translate(" + fmtFloat(dx) + "," + fmtFloat(dy) + ")", Children: []SVGElement{elem}}
}

// SpaceVertically stacks items top to bottom, centering each horizontally
// within the widest item (used to lay out alternation branches).
func SpaceVertically(items []RenderedNode, padding float64) ([]RenderedNode, BoundingBox) {
	if len(items) == 0 {
		return items, BoundingBox{}
	}
	maxWidth := 0.0
	for _, item := range items {
		if item.BBox.Width > maxWidth {
			maxWidth = item.BBox.Width
		}
	}
	result := make([]RenderedNode, len(items))
	y := 0.0
	for i, item := range items {
		dx := (maxWidth - item.BBox.Width) / 2
		newBBox := item.BBox.Translate(dx-item.BBox.X, y-item.BBox.Y)
		result[i] = RenderedNode{Element: wrapWithTransform(item.Element, dx-item.BBox.X, y-item.BBox.Y), BBox: newBBox}
		y = newBBox.Y2() + padding
	}
	totalBBox := BoundingBox{
		X: 0, Y: 0, Width: maxWidth, Height: result[len(result)-1].BBox.Y2(),
		AnchorLeft: 0, AnchorRight: maxWidth, AnchorY: result[len(result)-1].BBox.Y2() / 2,
	}
	return result, totalBBox
}

// PathBuilder assembles SVG path "d" data incrementally.
type PathBuilder struct{ commands []string }

func NewPathBuilder() *PathBuilder { return &PathBuilder{} }

func (pb *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	pb.commands = append(pb.commands, "M "+fmtFloat(x)+" "+fmtFloat(y))
	return pb
}
func (pb *PathBuilder) LineTo(x, y float64) *PathBuilder {
	pb.commands = append(pb.commands, "L "+fmtFloat(x)+" "+fmtFloat(y))
	return pb
}
func (pb *PathBuilder) HorizontalTo(x float64) *PathBuilder {
	pb.commands = append(pb.commands, "H "+fmtFloat(x))
	return pb
}
func (pb *PathBuilder) VerticalTo(y float64) *PathBuilder {
	pb.commands = append(pb.commands, "V "+fmtFloat(y))
	return pb
}
func (pb *PathBuilder) QuadraticTo(cx, cy, x, y float64) *PathBuilder {
	pb.commands = append(pb.commands, "Q "+fmtFloat(cx)+" "+fmtFloat(cy)+" "+fmtFloat(x)+" "+fmtFloat(y))
	return pb
}
func (pb *PathBuilder) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) *PathBuilder {
	la, sw := 0, 0
	if largeArc {
		la = 1
	}
	if sweep {
		sw = 1
	}
	pb.commands = append(pb.commands, "A "+fmtFloat(rx)+" "+fmtFloat(ry)+" "+fmtFloat(rotation)+" "+strconv.Itoa(la)+" "+strconv.Itoa(sw)+" "+fmtFloat(x)+" "+fmtFloat(y))
	return pb
}
func (pb *PathBuilder) String() string {
	out := ""
	for i, c := range pb.commands {
		if i > 0 {
			out += " "
		}
		out += c
	}
	return out
}
