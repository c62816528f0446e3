// Package recompiler turns a parsed AST back into PCRE source text. It is
// the inverse of lexer+parser: Compile(Parse(Tokenize(s))) reproduces s up
// to the canonicalizations the parser already applies while tokenizing
// (whitespace inside quantifier braces is stripped, for instance), and
// every other node reproduces its original spelling exactly via the Raw/
// Text fields the parser stored for this purpose.
package recompiler

import (
	"strconv"
	"strings"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

// Compile renders re back to PCRE source, including its delimiters and
// trailing flag letters.
func Compile(re *ast.Regex) string {
	var b strings.Builder
	b.WriteByte(re.Delimiter)
	b.WriteString(Render(re.Body))
	b.WriteByte(closingDelimiter(re.Delimiter))
	b.WriteString(re.Flags)
	return b.String()
}

func closingDelimiter(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	case '<':
		return '>'
	default:
		return open
	}
}

// Render renders a single AST node (and its children) back to source,
// without delimiters or flags.
func Render(n ast.Node) string {
	v := &renderer{}
	return n.Accept(v).(string)
}

type renderer struct{}

func (r *renderer) render(n ast.Node) string {
	if n == nil {
		return ""
	}
	return n.Accept(r).(string)
}

func (r *renderer) VisitRegex(n *ast.Regex) any { return r.render(n.Body) }

func (r *renderer) VisitSequence(n *ast.Sequence) any {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(r.render(c))
	}
	return b.String()
}

func (r *renderer) VisitAlternation(n *ast.Alternation) any {
	parts := make([]string, len(n.Branches))
	for i, br := range n.Branches {
		parts[i] = r.render(br)
	}
	return strings.Join(parts, "|")
}

func (r *renderer) VisitLiteral(n *ast.Literal) any {
	var b strings.Builder
	for _, c := range n.Text {
		if n.Escaped || strings.ContainsRune(`\.^$|()[]{}*+?`, c) {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *renderer) VisitCharLiteral(n *ast.CharLiteral) any { return n.Raw }

func (r *renderer) VisitDot(n *ast.Dot) any { return "." }

func (r *renderer) VisitAnchor(n *ast.Anchor) any {
	switch n.Kind {
	case ast.AnchorCaret:
		return "^"
	case ast.AnchorDollar:
		return "$"
	case ast.AnchorA:
		return `\A`
	case ast.Anchorz:
		return `\z`
	case ast.AnchorZ:
		return `\Z`
	case ast.AnchorG:
		return `\G`
	}
	return ""
}

func (r *renderer) VisitAssertion(n *ast.Assertion) any {
	if n.Kind == ast.AssertionNonWordBoundary {
		return `\B`
	}
	return `\b`
}

func (r *renderer) VisitKeep(n *ast.Keep) any { return `\K` }

var charTypeText = map[ast.CharTypeKind]string{
	ast.CharTypeDigit: `\d`, ast.CharTypeNonDigit: `\D`,
	ast.CharTypeWord: `\w`, ast.CharTypeNonWord: `\W`,
	ast.CharTypeSpace: `\s`, ast.CharTypeNonSpace: `\S`,
	ast.CharTypeHSpace: `\h`, ast.CharTypeNonHSpace: `\H`,
	ast.CharTypeVSpace: `\v`, ast.CharTypeNonVSpace: `\V`,
	ast.CharTypeNewlineSeq: `\R`, ast.CharTypeGrapheme: `\X`,
	ast.CharTypeAnyByte: `\C`, ast.CharTypeNonNewline: `\N`,
}

func (r *renderer) VisitCharType(n *ast.CharType) any { return charTypeText[n.Kind] }

func (r *renderer) VisitUnicodeProp(n *ast.UnicodeProp) any {
	letter := "p"
	if n.Negated {
		letter = "P"
	}
	if n.ShortForm {
		return `\` + letter + n.Name
	}
	return `\` + letter + "{" + n.Name + "}"
}

func (r *renderer) VisitCharClass(n *ast.CharClass) any {
	var b strings.Builder
	b.WriteByte('[')
	if n.Negated {
		b.WriteByte('^')
	}
	b.WriteString(r.render(n.Inner))
	b.WriteByte(']')
	return b.String()
}

func (r *renderer) VisitRange(n *ast.Range) any {
	return r.render(n.Start) + "-" + r.render(n.End)
}

func (r *renderer) VisitPosixClass(n *ast.PosixClass) any {
	neg := ""
	if n.Negated {
		neg = "^"
	}
	return "[:" + neg + n.Name + ":]"
}

func (r *renderer) VisitQuantifier(n *ast.Quantifier) any {
	var b strings.Builder
	b.WriteString(r.render(n.Target))
	b.WriteString(n.Text)
	switch n.Style {
	case ast.Lazy:
		b.WriteByte('?')
	case ast.Possessive:
		b.WriteByte('+')
	}
	return b.String()
}

func (r *renderer) VisitGroup(n *ast.Group) any {
	var b strings.Builder
	b.WriteByte('(')
	switch n.Kind {
	case ast.GroupCapturing:
		// no marker
	case ast.GroupNonCapturing:
		b.WriteString("?:")
	case ast.GroupAtomic:
		b.WriteString("?>")
	case ast.GroupLookaheadPositive:
		b.WriteString("?=")
	case ast.GroupLookaheadNegative:
		b.WriteString("?!")
	case ast.GroupLookbehindPositive:
		b.WriteString("?<=")
	case ast.GroupLookbehindNegative:
		b.WriteString("?<!")
	case ast.GroupScriptRun:
		b.WriteString("*script_run:")
	case ast.GroupAtomicScriptRun:
		b.WriteString("*atomic_script_run:")
	case ast.GroupBranchReset:
		b.WriteString("?|")
	case ast.GroupNamed:
		b.WriteString(renderNamedOpen(n.Name, n.NameVariant))
	case ast.GroupInlineFlags:
		b.WriteByte('?')
		b.WriteString(renderFlagDelta(n.Flags))
		if n.Scoped {
			b.WriteByte(':')
		}
	}
	b.WriteString(r.render(n.Child))
	if n.Kind == ast.GroupInlineFlags && !n.Scoped {
		return b.String()
	}
	b.WriteByte(')')
	return b.String()
}

func renderNamedOpen(name string, v ast.NameVariant) string {
	switch v {
	case ast.NameQuote:
		return "?'" + name + "'"
	case ast.NamePython:
		return "?P<" + name + ">"
	default:
		return "?<" + name + ">"
	}
}

func renderFlagDelta(fd *ast.FlagDelta) string {
	if fd == nil {
		return ""
	}
	s := fd.Set
	if fd.Clear != "" {
		s += "-" + fd.Clear
	}
	return s
}

func (r *renderer) VisitBackref(n *ast.Backref) any {
	switch n.Form {
	case ast.BackrefNumber:
		return `\` + strconv.Itoa(n.Number)
	case ast.BackrefGNumber:
		return `\g{` + strconv.Itoa(n.Number) + `}`
	case ast.BackrefKAngle:
		return `\k<` + n.Name + `>`
	case ast.BackrefKBrace:
		return `\k{` + n.Name + `}`
	case ast.BackrefKQuote:
		return `\k'` + n.Name + `'`
	}
	return ""
}

func (r *renderer) VisitSubroutine(n *ast.Subroutine) any {
	switch n.Marker {
	case ast.SubroutineAmp:
		return "(?&" + n.TargetName + ")"
	case ast.SubroutinePGT:
		return "(?P>" + n.TargetName + ")"
	case ast.SubroutineG:
		if n.TargetName != "" {
			return `\g<` + n.TargetName + `>`
		}
		return `\g<` + strconv.Itoa(n.TargetNumber) + `>`
	case ast.SubroutinePlain:
		if n.WholePattern {
			if n.TargetName == "DEFINE" {
				return "(?R)"
			}
			return "(?R)"
		}
		sign := ""
		if n.Relative && n.TargetNumber > 0 {
			sign = "+"
		}
		return "(?" + sign + strconv.Itoa(n.TargetNumber) + ")"
	}
	return ""
}

func (r *renderer) VisitConditional(n *ast.Conditional) any {
	var b strings.Builder
	b.WriteString("(?(")
	b.WriteString(renderCondition(r, n.Condition))
	b.WriteString(")")
	b.WriteString(r.render(n.Then))
	if els, ok := n.Else.(*ast.Sequence); !ok || len(els.Children) > 0 {
		b.WriteString("|")
		b.WriteString(r.render(n.Else))
	}
	b.WriteString(")")
	return b.String()
}

func renderCondition(r *renderer, cond ast.Node) string {
	switch c := cond.(type) {
	case *ast.Backref:
		if c.Form == ast.BackrefKAngle || c.Form == ast.BackrefKBrace || c.Form == ast.BackrefKQuote {
			return c.Name
		}
		return strconv.Itoa(c.Number)
	case *ast.Subroutine:
		if c.TargetName == "DEFINE" {
			return "DEFINE"
		}
		if c.WholePattern {
			return "R"
		}
		if c.TargetName != "" {
			return "R&" + c.TargetName
		}
		return "R" + strconv.Itoa(c.TargetNumber)
	case *ast.Group:
		// A lookaround assertion used as the condition: the marker plus
		// body, without the Group's own enclosing parens (the conditional
		// supplies those).
		marker := ""
		switch c.Kind {
		case ast.GroupLookaheadPositive:
			marker = "?="
		case ast.GroupLookaheadNegative:
			marker = "?!"
		case ast.GroupLookbehindPositive:
			marker = "?<="
		case ast.GroupLookbehindNegative:
			marker = "?<!"
		}
		return marker + r.render(c.Child)
	}
	return r.render(cond)
}

func (r *renderer) VisitCallout(n *ast.Callout) any {
	switch n.Kind {
	case ast.CalloutNumeric:
		if n.Number == 0 {
			return "(?C)"
		}
		return "(?C" + strconv.Itoa(n.Number) + ")"
	case ast.CalloutString:
		return "(?C'" + n.Text + "')"
	case ast.CalloutBareName:
		return "(?C{" + n.Text + "})"
	}
	return ""
}

func (r *renderer) VisitVerb(n *ast.Verb) any {
	if n.Arg == "" {
		return "(*" + n.Name + ")"
	}
	if n.VerbKind == ast.VerbResource {
		return "(*" + n.Name + "=" + n.Arg + ")"
	}
	return "(*" + n.Name + ":" + n.Arg + ")"
}

func (r *renderer) VisitComment(n *ast.Comment) any {
	return "(?#" + n.Text + ")"
}
