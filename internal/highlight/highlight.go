// Package highlight tags a pattern's source text by category (literal,
// charclass, quantifier, group, escape, anchor...) for CLI and HTML
// presentation, and renders the parse-error caret indicator used by the
// command-line front end.
package highlight

import (
	"fmt"
	"io"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

// Span is a half-open [Start,End) byte range of the original pattern text
// tagged with a semantic category.
type Span struct {
	Start, End int
	Category   string
}

// Spans walks re.Body and returns one Span per leaf-ish node, in source
// order, using each node's recorded byte offsets.
func Spans(re *ast.Regex) []Span {
	var out []Span
	walk(re.Body, &out)
	return out
}

func walk(n ast.Node, out *[]Span) {
	if n == nil {
		return
	}
	switch node := n.(type) {
	case *ast.Sequence:
		for _, c := range node.Children {
			walk(c, out)
		}
		return
	case *ast.Alternation:
		for _, b := range node.Branches {
			walk(b, out)
		}
		return
	case *ast.Quantifier:
		walk(node.Target, out)
		sp := node.Span()
		targetEnd := node.Target.Span().End
		if sp.End > targetEnd {
			*out = append(*out, Span{Start: targetEnd, End: sp.End, Category: "quantifier"})
		}
		return
	case *ast.Group:
		emitGroupMarkers(node, out)
		walk(node.Child, out)
		return
	case *ast.CharClass:
		sp := node.Span()
		*out = append(*out, Span{Start: sp.Start, End: sp.End, Category: "charclass"})
		return
	case *ast.Conditional:
		walk(node.Condition, out)
		walk(node.Then, out)
		walk(node.Else, out)
		return
	}

	sp := n.Span()
	*out = append(*out, Span{Start: sp.Start, End: sp.End, Category: categoryFor(n)})
}

func emitGroupMarkers(g *ast.Group, out *[]Span) {
	sp := g.Span()
	childStart := sp.End
	if g.Child != nil {
		childStart = g.Child.Span().Start
	}
	if childStart > sp.Start {
		*out = append(*out, Span{Start: sp.Start, End: childStart, Category: "group-marker"})
	}
	childEnd := sp.End
	if g.Child != nil {
		childEnd = g.Child.Span().End
	}
	if sp.End > childEnd {
		*out = append(*out, Span{Start: childEnd, End: sp.End, Category: "group-marker"})
	}
}

func categoryFor(n ast.Node) string {
	switch n.(type) {
	case *ast.Literal:
		return "literal"
	case *ast.CharLiteral, *ast.CharType, *ast.UnicodeProp, *ast.PosixClass:
		return "escape"
	case *ast.Dot:
		return "anychar"
	case *ast.Anchor, *ast.Assertion, *ast.Keep:
		return "anchor"
	case *ast.Backref, *ast.Subroutine:
		return "backref"
	case *ast.Callout, *ast.Verb, *ast.Comment:
		return "meta"
	default:
		return "literal"
	}
}

// Theme maps a category name to a termenv color (hex or ANSI name).
type Theme map[string]string

// DefaultTheme shares the literal, escape and anchor colors of the SVG
// renderer's palette; the other categories use colors of their own.
func DefaultTheme() Theme {
	return Theme{
		"literal":      "#ff6b6b",
		"escape":       "#bada55",
		"anychar":      "#cbcbba",
		"anchor":       "#6b6659",
		"charclass":    "#5f9ea0",
		"quantifier":   "#d2a8ff",
		"group-marker": "#888888",
		"backref":      "#ffa657",
		"meta":         "#666666",
	}
}

// ANSI renders pattern with each span wrapped in a termenv foreground color
// per the theme, using profile to pick the best color representation for
// the current terminal (truecolor, 256, or no color at all).
func ANSI(pattern string, spans []Span, theme Theme, profile termenv.Profile) string {
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			b.WriteString(pattern[pos:sp.Start])
		}
		if sp.Start >= sp.End || sp.End > len(pattern) {
			pos = sp.Start
			continue
		}
		text := pattern[sp.Start:sp.End]
		hex, ok := theme[sp.Category]
		if !ok {
			b.WriteString(text)
		} else {
			styled := termenv.String(text).Foreground(profile.Color(hex))
			b.WriteString(styled.String())
		}
		pos = sp.End
	}
	if pos < len(pattern) {
		b.WriteString(pattern[pos:])
	}
	return b.String()
}

// HTML renders pattern with each span wrapped in a <span class="hl-...">.
func HTML(pattern string, spans []Span) string {
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			writeEscapedHTML(&b, pattern[pos:sp.Start])
		}
		if sp.Start >= sp.End || sp.End > len(pattern) {
			pos = sp.Start
			continue
		}
		fmt.Fprintf(&b, `<span class="hl-%s">`, sp.Category)
		writeEscapedHTML(&b, pattern[sp.Start:sp.End])
		b.WriteString("</span>")
		pos = sp.End
	}
	if pos < len(pattern) {
		writeEscapedHTML(&b, pattern[pos:])
	}
	return b.String()
}

func writeEscapedHTML(b *strings.Builder, s string) {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	b.WriteString(r.Replace(s))
}

// PositionIndicator renders a two-line error display: the pattern, then a
// caret under byte offset pos, matching the CLI's parse-error display.
func PositionIndicator(pattern string, pos int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s\n", pattern)
	if pos >= 0 && pos <= len(pattern) {
		fmt.Fprintf(&b, "  %s^\n", strings.Repeat(" ", pos))
	}
	return b.String()
}

// IsTerminal reports whether w is an interactive terminal, used to decide
// whether ANSI escapes should be emitted at all.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// CopyToClipboardSequence wraps s in an OSC52 escape sequence that, when
// written to a supporting terminal, copies s to the system clipboard
// without shelling out to a platform-specific clipboard tool.
func CopyToClipboardSequence(s string) string {
	return osc52.New(s).String()
}
