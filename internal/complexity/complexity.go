// Package complexity scores a parsed pattern with a deterministic integer
// weighted by node kind, quantifier nesting depth, alternation branch
// count, and character-class size, modeled as a single numeric AST walk.
package complexity

import "github.com/0x4d5352/pcrestatic/internal/ast"

// weight table: base cost of each node kind, independent of nesting.
const (
	weightLiteral     = 1
	weightCharClass   = 2
	weightAlternation = 3
	weightGroup       = 2
	weightQuantifier  = 3
	weightBackref     = 4
	weightSubroutine  = 5
	weightConditional = 4
	weightLookaround  = 3
)

// nestingMultiplier is added per level of quantifier-inside-quantifier
// nesting, since that's the shape that also drives ReDoS risk.
const nestingMultiplier = 4

// Report is the scored outcome: Score is the aggregate number, Breakdown
// attributes it to the contributing categories for a human-readable
// explanation of why a pattern scored the way it did.
type Report struct {
	Score     int
	Breakdown map[string]int
}

// Score walks re.Body and returns its complexity report.
func Score(re *ast.Regex) Report {
	c := &counter{breakdown: map[string]int{}}
	c.walk(re.Body, 0)
	return Report{Score: c.total, Breakdown: c.breakdown}
}

type counter struct {
	total     int
	breakdown map[string]int
}

func (c *counter) add(category string, n int) {
	c.total += n
	c.breakdown[category] += n
}

func (c *counter) walk(n ast.Node, quantDepth int) {
	switch node := n.(type) {
	case *ast.Sequence:
		for _, child := range node.Children {
			c.walk(child, quantDepth)
		}
	case *ast.Alternation:
		c.add("alternation", weightAlternation+len(node.Branches))
		for _, b := range node.Branches {
			c.walk(b, quantDepth)
		}
	case *ast.Quantifier:
		depth := quantDepth + 1
		cost := weightQuantifier
		if node.Max == -1 {
			cost++
		}
		cost += (depth - 1) * nestingMultiplier
		c.add("quantifier", cost)
		c.walk(node.Target, depth)
	case *ast.Group:
		switch node.Kind {
		case ast.GroupLookaheadPositive, ast.GroupLookaheadNegative, ast.GroupLookbehindPositive, ast.GroupLookbehindNegative:
			c.add("lookaround", weightLookaround)
		default:
			c.add("group", weightGroup)
		}
		c.walk(node.Child, quantDepth)
	case *ast.CharClass:
		size := charClassSize(node.Inner)
		c.add("charclass", weightCharClass+size)
	case *ast.Literal:
		c.add("literal", weightLiteral)
	case *ast.Backref:
		c.add("backref", weightBackref)
	case *ast.Subroutine:
		c.add("subroutine", weightSubroutine)
	case *ast.Conditional:
		c.add("conditional", weightConditional)
		c.walk(node.Condition, quantDepth)
		c.walk(node.Then, quantDepth)
		c.walk(node.Else, quantDepth)
	}
}

func charClassSize(inner ast.Node) int {
	seq, ok := inner.(*ast.Sequence)
	if !ok {
		return 1
	}
	return len(seq.Children)
}
