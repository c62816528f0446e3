// Package dump renders an AST as an indented, human-readable tree, mainly
// for test fixtures and CLI debug output.
package dump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

// Tree renders re as an indented tree, one node per line.
func Tree(re *ast.Regex) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regex delimiter=%q flags=%q\n", re.Delimiter, re.Flags)
	writeNode(&b, re.Body, 1)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func writeNode(b *strings.Builder, n ast.Node, depth int) {
	if n == nil {
		indent(b, depth)
		b.WriteString("<nil>\n")
		return
	}
	sp := n.Span()
	switch node := n.(type) {
	case *ast.Sequence:
		indent(b, depth)
		fmt.Fprintf(b, "Sequence[%d:%d] children=%d\n", sp.Start, sp.End, len(node.Children))
		for _, c := range node.Children {
			writeNode(b, c, depth+1)
		}
	case *ast.Alternation:
		indent(b, depth)
		fmt.Fprintf(b, "Alternation[%d:%d] branches=%d\n", sp.Start, sp.End, len(node.Branches))
		for _, br := range node.Branches {
			writeNode(b, br, depth+1)
		}
	case *ast.Literal:
		indent(b, depth)
		fmt.Fprintf(b, "Literal[%d:%d] %q\n", sp.Start, sp.End, node.Text)
	case *ast.CharLiteral:
		indent(b, depth)
		fmt.Fprintf(b, "CharLiteral[%d:%d] raw=%q cp=U+%04X\n", sp.Start, sp.End, node.Raw, node.Codepoint)
	case *ast.Dot:
		indent(b, depth)
		fmt.Fprintf(b, "Dot[%d:%d]\n", sp.Start, sp.End)
	case *ast.Anchor:
		indent(b, depth)
		fmt.Fprintf(b, "Anchor[%d:%d] kind=%d\n", sp.Start, sp.End, node.Kind)
	case *ast.Assertion:
		indent(b, depth)
		fmt.Fprintf(b, "Assertion[%d:%d] kind=%d\n", sp.Start, sp.End, node.Kind)
	case *ast.Keep:
		indent(b, depth)
		fmt.Fprintf(b, "Keep[%d:%d]\n", sp.Start, sp.End)
	case *ast.CharType:
		indent(b, depth)
		fmt.Fprintf(b, "CharType[%d:%d] kind=%d\n", sp.Start, sp.End, node.Kind)
	case *ast.UnicodeProp:
		indent(b, depth)
		fmt.Fprintf(b, "UnicodeProp[%d:%d] name=%q negated=%v short=%v\n", sp.Start, sp.End, node.Name, node.Negated, node.ShortForm)
	case *ast.CharClass:
		indent(b, depth)
		fmt.Fprintf(b, "CharClass[%d:%d] negated=%v\n", sp.Start, sp.End, node.Negated)
		writeNode(b, node.Inner, depth+1)
	case *ast.Range:
		indent(b, depth)
		fmt.Fprintf(b, "Range[%d:%d]\n", sp.Start, sp.End)
		writeNode(b, node.Start, depth+1)
		writeNode(b, node.End, depth+1)
	case *ast.PosixClass:
		indent(b, depth)
		fmt.Fprintf(b, "PosixClass[%d:%d] name=%q negated=%v\n", sp.Start, sp.End, node.Name, node.Negated)
	case *ast.Quantifier:
		indent(b, depth)
		fmt.Fprintf(b, "Quantifier[%d:%d] min=%d max=%s style=%d text=%q\n", sp.Start, sp.End, node.Min, maxStr(node.Max), node.Style, node.Text)
		writeNode(b, node.Target, depth+1)
	case *ast.Group:
		indent(b, depth)
		fmt.Fprintf(b, "Group[%d:%d] kind=%d number=%d name=%q scoped=%v\n", sp.Start, sp.End, node.Kind, node.Number, node.Name, node.Scoped)
		writeNode(b, node.Child, depth+1)
	case *ast.Backref:
		indent(b, depth)
		fmt.Fprintf(b, "Backref[%d:%d] form=%d number=%d name=%q\n", sp.Start, sp.End, node.Form, node.Number, node.Name)
	case *ast.Subroutine:
		indent(b, depth)
		fmt.Fprintf(b, "Subroutine[%d:%d] marker=%d targetNumber=%d targetName=%q wholePattern=%v\n", sp.Start, sp.End, node.Marker, node.TargetNumber, node.TargetName, node.WholePattern)
	case *ast.Conditional:
		indent(b, depth)
		fmt.Fprintf(b, "Conditional[%d:%d]\n", sp.Start, sp.End)
		writeNode(b, node.Condition, depth+1)
		writeNode(b, node.Then, depth+1)
		writeNode(b, node.Else, depth+1)
	case *ast.Callout:
		indent(b, depth)
		fmt.Fprintf(b, "Callout[%d:%d] kind=%d number=%d text=%q\n", sp.Start, sp.End, node.Kind, node.Number, node.Text)
	case *ast.Verb:
		indent(b, depth)
		fmt.Fprintf(b, "Verb[%d:%d] kind=%d name=%q arg=%q\n", sp.Start, sp.End, node.VerbKind, node.Name, node.Arg)
	case *ast.Comment:
		indent(b, depth)
		fmt.Fprintf(b, "Comment[%d:%d] text=%q\n", sp.Start, sp.End, node.Text)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T[%d:%d]\n", n, sp.Start, sp.End)
	}
}

func maxStr(max int) string {
	if max == -1 {
		return "unbounded"
	}
	return strconv.Itoa(max)
}
