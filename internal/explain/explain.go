// Package explain turns a parsed pattern into a plain-English description,
// one clause per AST node, in source order.
package explain

import (
	"fmt"
	"strings"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/recompiler"
)

// Prose describes re.Body as a sequence of comma-joined clauses.
func Prose(re *ast.Regex) string {
	e := &explainer{}
	clauses := e.describeSequenceLike(re.Body)
	text := strings.Join(clauses, ", then ")
	if text == "" {
		text = "matches an empty string"
	}
	return text + "."
}

// HTML renders the same description wrapped as an unordered list, one <li>
// per clause, for embedding in a report page.
func HTML(re *ast.Regex) string {
	e := &explainer{}
	clauses := e.describeSequenceLike(re.Body)
	var b strings.Builder
	b.WriteString("<ul class=\"pcre-explain\">\n")
	for _, c := range clauses {
		fmt.Fprintf(&b, "  <li>%s</li>\n", htmlEscape(c))
	}
	b.WriteString("</ul>\n")
	return b.String()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

type explainer struct{}

// describeSequenceLike flattens a Sequence into one clause per child; a
// non-Sequence node yields a single clause.
func (e *explainer) describeSequenceLike(n ast.Node) []string {
	if seq, ok := n.(*ast.Sequence); ok {
		var out []string
		for _, c := range seq.Children {
			out = append(out, e.describe(c))
		}
		return out
	}
	return []string{e.describe(n)}
}

func (e *explainer) describe(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Literal:
		return fmt.Sprintf("the literal text %q", node.Text)
	case *ast.CharLiteral:
		return fmt.Sprintf("the character %q", string(node.Codepoint))
	case *ast.Dot:
		return "any character"
	case *ast.Anchor:
		return describeAnchor(node.Kind)
	case *ast.Assertion:
		if node.Kind == ast.AssertionWordBoundary {
			return "a word boundary"
		}
		return "a position that is not a word boundary"
	case *ast.Keep:
		return "a match-start reset point"
	case *ast.CharType:
		return describeCharType(node.Kind)
	case *ast.UnicodeProp:
		verb := "has"
		if node.Negated {
			verb = "does not have"
		}
		return fmt.Sprintf("a character that %s the Unicode property %s", verb, node.Name)
	case *ast.CharClass:
		return e.describeCharClass(node)
	case *ast.PosixClass:
		if node.Negated {
			return fmt.Sprintf("a character outside the POSIX class [:%s:]", node.Name)
		}
		return fmt.Sprintf("a character in the POSIX class [:%s:]", node.Name)
	case *ast.Quantifier:
		return e.describeQuantifier(node)
	case *ast.Group:
		return e.describeGroup(node)
	case *ast.Backref:
		return describeBackref(node)
	case *ast.Subroutine:
		return describeSubroutine(node)
	case *ast.Alternation:
		return e.describeAlternation(node)
	case *ast.Conditional:
		return e.describeConditional(node)
	case *ast.Callout:
		return fmt.Sprintf("a callout (%s)", recompiler.Render(node))
	case *ast.Verb:
		return fmt.Sprintf("the control verb %s", recompiler.Render(node))
	case *ast.Comment:
		return "a comment (no effect on matching)"
	case *ast.Sequence:
		return strings.Join(e.describeSequenceLike(node), ", then ")
	default:
		return recompiler.Render(n)
	}
}

func describeAnchor(k ast.AnchorKind) string {
	switch k {
	case ast.AnchorCaret:
		return "the start of the line"
	case ast.AnchorDollar:
		return "the end of the line"
	case ast.AnchorA:
		return "the start of the subject"
	case ast.Anchorz:
		return "the absolute end of the subject"
	case ast.AnchorZ:
		return "the end of the subject, before a trailing newline"
	case ast.AnchorG:
		return "the point where the previous match ended"
	default:
		return "an anchor"
	}
}

func describeCharType(k ast.CharTypeKind) string {
	names := map[ast.CharTypeKind]string{
		ast.CharTypeDigit:      "a digit",
		ast.CharTypeNonDigit:   "a non-digit",
		ast.CharTypeWord:       "a word character",
		ast.CharTypeNonWord:    "a non-word character",
		ast.CharTypeSpace:      "a whitespace character",
		ast.CharTypeNonSpace:   "a non-whitespace character",
		ast.CharTypeHSpace:     "a horizontal whitespace character",
		ast.CharTypeNonHSpace:  "a non-horizontal-whitespace character",
		ast.CharTypeVSpace:     "a vertical whitespace character",
		ast.CharTypeNonVSpace:  "a non-vertical-whitespace character",
		ast.CharTypeNewlineSeq: "a generic newline sequence",
		ast.CharTypeGrapheme:   "an extended grapheme cluster",
		ast.CharTypeAnyByte:    "any single byte",
		ast.CharTypeNonNewline: "any character except newline",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "a special character class"
}

func (e *explainer) describeCharClass(cc *ast.CharClass) string {
	inner := e.describeClassMembers(cc.Inner)
	if cc.Negated {
		return fmt.Sprintf("any character except %s", inner)
	}
	return fmt.Sprintf("one of %s", inner)
}

func (e *explainer) describeClassMembers(n ast.Node) string {
	seq, ok := n.(*ast.Sequence)
	if !ok {
		return e.describe(n)
	}
	parts := make([]string, 0, len(seq.Children))
	for _, c := range seq.Children {
		if r, ok := c.(*ast.Range); ok {
			parts = append(parts, fmt.Sprintf("%s through %s", recompiler.Render(r.Start), recompiler.Render(r.End)))
			continue
		}
		parts = append(parts, recompiler.Render(c))
	}
	return strings.Join(parts, ", ")
}

func (e *explainer) describeQuantifier(q *ast.Quantifier) string {
	target := e.describe(q.Target)
	count := quantifierCount(q)
	style := ""
	switch q.Style {
	case ast.Lazy:
		style = ", as few times as possible"
	case ast.Possessive:
		style = ", possessively (no backtracking)"
	}
	return fmt.Sprintf("%s, %s%s", target, count, style)
}

func quantifierCount(q *ast.Quantifier) string {
	switch {
	case q.Min == 0 && q.Max == -1:
		return "zero or more times"
	case q.Min == 1 && q.Max == -1:
		return "one or more times"
	case q.Min == 0 && q.Max == 1:
		return "optionally"
	case q.Max == -1:
		return fmt.Sprintf("%d or more times", q.Min)
	case q.Min == q.Max:
		return fmt.Sprintf("exactly %d times", q.Min)
	default:
		return fmt.Sprintf("between %d and %d times", q.Min, q.Max)
	}
}

func (e *explainer) describeGroup(g *ast.Group) string {
	switch g.Kind {
	case ast.GroupLookaheadPositive:
		return fmt.Sprintf("followed by %s", strings.Join(e.describeSequenceLike(g.Child), ", then "))
	case ast.GroupLookaheadNegative:
		return fmt.Sprintf("not followed by %s", strings.Join(e.describeSequenceLike(g.Child), ", then "))
	case ast.GroupLookbehindPositive:
		return fmt.Sprintf("preceded by %s", strings.Join(e.describeSequenceLike(g.Child), ", then "))
	case ast.GroupLookbehindNegative:
		return fmt.Sprintf("not preceded by %s", strings.Join(e.describeSequenceLike(g.Child), ", then "))
	case ast.GroupInlineFlags:
		if g.Scoped {
			return fmt.Sprintf("(with modified flags) %s", strings.Join(e.describeSequenceLike(g.Child), ", then "))
		}
		return "modified flags apply to the rest of the pattern"
	}

	inner := strings.Join(e.describeSequenceLike(g.Child), ", then ")
	switch g.Kind {
	case ast.GroupNamed:
		return fmt.Sprintf("capture group %q: %s", g.Name, inner)
	case ast.GroupNonCapturing:
		return inner
	case ast.GroupAtomic:
		return fmt.Sprintf("atomically: %s", inner)
	case ast.GroupBranchReset:
		return fmt.Sprintf("(branch-reset) %s", inner)
	case ast.GroupScriptRun:
		return fmt.Sprintf("a single-script run of: %s", inner)
	case ast.GroupAtomicScriptRun:
		return fmt.Sprintf("atomically, a single-script run of: %s", inner)
	default:
		if g.Number > 0 {
			return fmt.Sprintf("capture group %d: %s", g.Number, inner)
		}
		return inner
	}
}

func describeBackref(b *ast.Backref) string {
	if b.Name != "" {
		return fmt.Sprintf("whatever group %q matched", b.Name)
	}
	return fmt.Sprintf("whatever group %d matched", b.Number)
}

func describeSubroutine(s *ast.Subroutine) string {
	if s.WholePattern {
		return "a recursive application of the whole pattern"
	}
	if s.TargetName != "" {
		return fmt.Sprintf("the pattern defined by group %q, applied again", s.TargetName)
	}
	return fmt.Sprintf("the pattern defined by group %d, applied again", s.TargetNumber)
}

func (e *explainer) describeAlternation(a *ast.Alternation) string {
	parts := make([]string, 0, len(a.Branches))
	for _, br := range a.Branches {
		parts = append(parts, strings.Join(e.describeSequenceLike(br), ", then "))
	}
	return fmt.Sprintf("either %s", strings.Join(parts, ", or "))
}

func (e *explainer) describeConditional(c *ast.Conditional) string {
	cond := recompiler.Render(c.Condition)
	then := strings.Join(e.describeSequenceLike(c.Then), ", then ")
	elseText := strings.Join(e.describeSequenceLike(c.Else), ", then ")
	if elseText == "" {
		return fmt.Sprintf("if %s holds, %s", cond, then)
	}
	return fmt.Sprintf("if %s holds, %s; otherwise %s", cond, then, elseText)
}
