// Package graph renders a parsed pattern's AST as a railroad diagram (SVG)
// or a Mermaid flowchart, for documentation and the CLI's svg and mermaid
// output formats. It
// is explicitly out-of-core per the analysis pipeline (lexer/parser/
// validator/optimizer/redos): a rendering failure never blocks analysis,
// and this package only ever reads the AST.
package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/recompiler"
)

// Renderer draws an AST as an SVG railroad diagram.
type Renderer struct {
	Config *Config
	depth  int
}

func New(cfg *Config) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Renderer{Config: cfg}
}

// measureText estimates a label's on-screen width using grapheme clusters
// rather than bytes or runes, so combining marks and multi-codepoint
// emoji in a pattern's literal text don't inflate box sizes.
func measureText(text string, cfg *Config) float64 {
	return float64(uniseg.GraphemeClusterCount(text)) * (cfg.FontSize * 0.6)
}

// RenderSVG renders re as a complete standalone SVG document.
func (r *Renderer) RenderSVG(re *ast.Regex) string {
	rendered := r.renderNode(re.Body)
	padding := r.Config.Padding
	width := rendered.BBox.Width + 2*padding
	height := rendered.BBox.Height + 2*padding

	startLine := &Line{X1: 0, Y1: padding + rendered.BBox.AnchorY, X2: padding, Y2: padding + rendered.BBox.AnchorY, Stroke: r.Config.LineColor, StrokeWidth: r.Config.LineWidth}
	endLine := &Line{X1: width - padding, Y1: padding + rendered.BBox.AnchorY, X2: width, Y2: padding + rendered.BBox.AnchorY, Stroke: r.Config.LineColor, StrokeWidth: r.Config.LineWidth}

	body := &Group{Transform: "translate(" + fmtFloat(padding) + "," + fmtFloat(padding) + ")", Children: []SVGElement{rendered.Element}}

	return (&SVG{Width: width, Height: height, Children: []SVGElement{startLine, endLine, body}}).Render()
}

func (r *Renderer) renderNode(n ast.Node) RenderedNode {
	switch node := n.(type) {
	case *ast.Sequence:
		return r.renderSequence(node)
	case *ast.Alternation:
		return r.renderAlternation(node)
	case *ast.Quantifier:
		return r.renderQuantifier(node)
	case *ast.Group:
		return r.renderGroup(node)
	default:
		return r.box(labelFor(n), colorFor(n, r.Config))
	}
}

func labelFor(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Literal:
		return node.Text
	case *ast.CharClass:
		return recompiler.Render(node)
	case *ast.Dot:
		return "any char"
	case *ast.Anchor:
		return recompiler.Render(node)
	case *ast.Assertion:
		return recompiler.Render(node)
	case *ast.CharType:
		return recompiler.Render(node)
	case *ast.Backref:
		return "↩ " + backrefLabel(node)
	case *ast.Subroutine:
		return "↻ " + recompiler.Render(node)
	case *ast.Verb:
		return recompiler.Render(node)
	case *ast.Callout:
		return recompiler.Render(node)
	case *ast.Conditional:
		return "if " + recompiler.Render(node.Condition)
	default:
		return recompiler.Render(n)
	}
}

func backrefLabel(b *ast.Backref) string {
	if b.Name != "" {
		return b.Name
	}
	return strconv.Itoa(b.Number)
}

func colorFor(n ast.Node, cfg *Config) string {
	switch n.(type) {
	case *ast.Literal, *ast.CharLiteral:
		return cfg.LiteralFill
	case *ast.CharClass, *ast.PosixClass, *ast.UnicodeProp:
		return cfg.CharsetFill
	case *ast.CharType:
		return cfg.EscapeFill
	case *ast.Anchor, *ast.Assertion, *ast.Keep:
		return cfg.AnchorFill
	case *ast.Dot:
		return cfg.AnyCharFill
	case *ast.Subroutine:
		return cfg.RecursiveRefFill
	case *ast.Verb:
		return cfg.BacktrackFill
	case *ast.Conditional:
		return cfg.ConditionalFill
	default:
		return "#eee"
	}
}

func (r *Renderer) box(label, fill string) RenderedNode {
	cfg := r.Config
	w := measureText(label, cfg) + cfg.Padding*2
	h := cfg.FontSize + cfg.Padding
	rect := &Rect{Width: w, Height: h, Rx: cfg.CornerRadius, Fill: fill, Stroke: cfg.LineColor, StrokeWidth: 1}
	text := &Text{X: w / 2, Y: h/2 + cfg.FontSize/3, Content: label, FontFamily: cfg.FontFamily, FontSize: cfg.FontSize, Fill: cfg.TextColor, Anchor: "middle"}
	g := &Group{Children: []SVGElement{rect, text}}
	return RenderedNode{Element: g, BBox: NewBoundingBox(0, 0, w, h)}
}

func (r *Renderer) renderSequence(seq *ast.Sequence) RenderedNode {
	if len(seq.Children) == 0 {
		return r.box("ε", "none")
	}
	items := make([]RenderedNode, len(seq.Children))
	for i, c := range seq.Children {
		items[i] = r.renderNode(c)
	}
	laidOut, bbox := SpaceHorizontally(items, r.Config.HorizontalGap)
	var children []SVGElement
	for i, item := range laidOut {
		children = append(children, item.Element)
		if i < len(laidOut)-1 {
			y := item.BBox.AnchorY
			children = append(children, &Line{X1: item.BBox.X2(), Y1: y, X2: item.BBox.X2() + r.Config.HorizontalGap, Y2: y, Stroke: r.Config.LineColor, StrokeWidth: r.Config.LineWidth})
		}
	}
	return RenderedNode{Element: &Group{Children: children}, BBox: bbox}
}

func (r *Renderer) renderAlternation(alt *ast.Alternation) RenderedNode {
	items := make([]RenderedNode, len(alt.Branches))
	for i, b := range alt.Branches {
		items[i] = r.renderNode(b)
	}
	laidOut, bbox := SpaceVertically(items, r.Config.Padding)
	width := bbox.Width
	var children []SVGElement
	for _, item := range laidOut {
		children = append(children, item.Element)
		children = append(children,
			&Line{X1: 0, Y1: item.BBox.AnchorY, X2: item.BBox.X, Y2: item.BBox.AnchorY, Stroke: r.Config.LineColor, StrokeWidth: r.Config.LineWidth},
			&Line{X1: item.BBox.X2(), Y1: item.BBox.AnchorY, X2: width, Y2: item.BBox.AnchorY, Stroke: r.Config.LineColor, StrokeWidth: r.Config.LineWidth},
		)
	}
	bbox.AnchorY = bbox.Height / 2
	return RenderedNode{Element: &Group{Children: children}, BBox: bbox}
}

func (r *Renderer) renderQuantifier(q *ast.Quantifier) RenderedNode {
	target := r.renderNode(q.Target)
	label := q.Text
	switch q.Style {
	case ast.Lazy:
		label += "?"
	case ast.Possessive:
		label += "+"
	}
	loop := &Text{X: target.BBox.X + target.BBox.Width/2, Y: target.BBox.Y - r.Config.Padding/2, Content: label, FontFamily: r.Config.FontFamily, FontSize: r.Config.FontSize * 0.8, Fill: r.Config.LineColor, Anchor: "middle"}
	loopLine := &Path{D: NewPathBuilder().
		MoveTo(target.BBox.AnchorRight, target.BBox.AnchorY).
		LineTo(target.BBox.AnchorRight, target.BBox.Y-4).
		LineTo(target.BBox.AnchorLeft, target.BBox.Y-4).
		LineTo(target.BBox.AnchorLeft, target.BBox.AnchorY).
		String(), Stroke: r.Config.LineColor, StrokeWidth: 1}
	g := &Group{Children: []SVGElement{target.Element, loopLine, loop}}
	bbox := target.BBox
	bbox.Y -= r.Config.FontSize
	bbox.Height += r.Config.FontSize
	return RenderedNode{Element: g, BBox: bbox}
}

func (r *Renderer) renderGroup(g *ast.Group) RenderedNode {
	r.depth++
	child := r.renderNode(g.Child)
	r.depth--
	if g.Kind == ast.GroupNonCapturing || g.Kind == ast.GroupAtomic || g.Kind == ast.GroupInlineFlags {
		return child
	}
	label := ""
	switch g.Kind {
	case ast.GroupCapturing:
		label = "group " + strconv.Itoa(g.Number)
	case ast.GroupNamed:
		label = "group '" + g.Name + "'"
	case ast.GroupLookaheadPositive:
		label = "lookahead"
	case ast.GroupLookaheadNegative:
		label = "negative lookahead"
	case ast.GroupLookbehindPositive:
		label = "lookbehind"
	case ast.GroupLookbehindNegative:
		label = "negative lookbehind"
	case ast.GroupBranchReset:
		label = "branch reset"
	case ast.GroupScriptRun:
		label = "script run"
	case ast.GroupAtomicScriptRun:
		label = "atomic script run"
	default:
		label = "group"
	}
	pad := r.Config.Padding
	frame := &Rect{X: -pad, Y: child.BBox.Y - pad, Width: child.BBox.Width + 2*pad, Height: child.BBox.Height + 2*pad, Rx: r.Config.CornerRadius, Fill: r.Config.colorForDepth(r.depth), Stroke: r.Config.SubexpStroke, StrokeWidth: 1}
	caption := &Text{X: -pad, Y: child.BBox.Y - pad - 4, Content: label, FontFamily: r.Config.FontFamily, FontSize: r.Config.FontSize * 0.75, Fill: r.Config.SubexpStroke, Anchor: "start"}
	gElem := &Group{Children: []SVGElement{frame, caption, child.Element}}
	bbox := child.BBox
	bbox.X -= pad
	bbox.Y -= pad + r.Config.FontSize
	bbox.Width += 2 * pad
	bbox.Height += 2*pad + r.Config.FontSize
	bbox.AnchorLeft, bbox.AnchorRight = bbox.X, bbox.X2()
	return RenderedNode{Element: gElem, BBox: bbox}
}

// RenderMermaid renders re.Body as a Mermaid flowchart definition (spec's
// out-of-core graph mode's lighter-weight text output, suited to embedding
// in markdown documentation).
func RenderMermaid(re *ast.Regex) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	id := 0
	next := func() string {
		id++
		return fmt.Sprintf("n%d", id)
	}
	start := next()
	b.WriteString(fmt.Sprintf("  %s((start))\n", start))
	last := mermaidWalk(&b, re.Body, start, next)
	end := next()
	b.WriteString(fmt.Sprintf("  %s((end))\n", end))
	b.WriteString(fmt.Sprintf("  %s --> %s\n", last, end))
	return b.String()
}

func mermaidWalk(b *strings.Builder, n ast.Node, from string, next func() string) string {
	switch node := n.(type) {
	case *ast.Sequence:
		cur := from
		for _, c := range node.Children {
			cur = mermaidWalk(b, c, cur, next)
		}
		return cur
	case *ast.Alternation:
		id := next()
		merge := next()
		fmt.Fprintf(b, "  %s{alt}\n", id)
		fmt.Fprintf(b, "  %s --> %s\n", from, id)
		for _, branch := range node.Branches {
			branchEnd := mermaidWalk(b, branch, id, next)
			fmt.Fprintf(b, "  %s --> %s\n", branchEnd, merge)
		}
		return merge
	case *ast.Quantifier:
		id := mermaidWalk(b, node.Target, from, next)
		label := node.Text
		fmt.Fprintf(b, "  %s -.%s.-> %s\n", id, mermaidEscape(label), id)
		return id
	case *ast.Group:
		return mermaidWalk(b, node.Child, from, next)
	default:
		id := next()
		fmt.Fprintf(b, "  %s[%s]\n", id, mermaidEscape(labelFor(n)))
		fmt.Fprintf(b, "  %s --> %s\n", from, id)
		return id
	}
}

func mermaidEscape(s string) string {
	s = strings.ReplaceAll(s, `"`, `#quot;`)
	s = strings.ReplaceAll(s, "[", "(")
	s = strings.ReplaceAll(s, "]", ")")
	return `"` + s + `"`
}
