package parser

import (
	"strconv"
	"strings"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/token"
)

// parseGroup parses everything opened by a '(' or '(?' token: plain
// capturing groups, the extended (?...) forms, and conditionals.
func (p *parser) parseGroup() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	open := p.s.Next() // GroupOpen or GroupModifierOpen
	start := open.Offset

	if open.Kind == token.GroupOpen {
		p.groupSeq++
		num := p.groupSeq
		body, err := p.parseAlternation()
		if err != nil {
			return nil, err
		}
		close, err := p.expectGroupClose()
		if err != nil {
			return nil, err
		}
		g := ast.NewGroup(start, close.Offset+1, ast.GroupCapturing, body)
		g.Number = num
		return g, nil
	}

	switch open.Value {
	case "(*script_run:":
		return p.finishScopedGroup(start, ast.GroupScriptRun, nil)
	case "(*atomic_script_run:":
		return p.finishScopedGroup(start, ast.GroupAtomicScriptRun, nil)
	}

	peek := p.s.Peek()

	if peek.Kind == token.GroupOpen || peek.Kind == token.GroupModifierOpen {
		return p.parseConditional(start)
	}
	if peek.Kind == token.Alternation {
		p.s.Next()
		return p.finishBranchReset(start)
	}
	if peek.Kind != token.Literal {
		return nil, &Error{Message: "Unexpected token after `(?`", Position: peek.Offset}
	}

	marker := p.s.Next()
	val := marker.Value

	switch val {
	case ":":
		return p.finishScopedGroup(start, ast.GroupNonCapturing, nil)
	case ">":
		return p.finishScopedGroup(start, ast.GroupAtomic, nil)
	case "=":
		return p.finishScopedGroup(start, ast.GroupLookaheadPositive, nil)
	case "!":
		return p.finishScopedGroup(start, ast.GroupLookaheadNegative, nil)
	case "<=":
		return p.finishScopedGroup(start, ast.GroupLookbehindPositive, nil)
	case "<!":
		return p.finishScopedGroup(start, ast.GroupLookbehindNegative, nil)
	case "R":
		close, err := p.expectGroupClose()
		if err != nil {
			return nil, err
		}
		sub := ast.NewSubroutine(start, close.Offset+1, ast.SubroutinePlain)
		sub.WholePattern = true
		return sub, nil
	}

	switch {
	case strings.HasPrefix(val, "<") && strings.HasSuffix(val, ">"):
		name := val[1 : len(val)-1]
		if name == "" {
			return nil, &Error{Message: "Expected group name", Position: marker.Offset}
		}
		return p.finishScopedGroup(start, ast.GroupNamed, &namedInfo{name: name, variant: ast.NameAngle})
	case strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") && len(val) >= 2:
		name := val[1 : len(val)-1]
		if name == "" {
			return nil, &Error{Message: "Expected group name", Position: marker.Offset}
		}
		return p.finishScopedGroup(start, ast.GroupNamed, &namedInfo{name: name, variant: ast.NameQuote})
	case strings.HasPrefix(val, "P<") && strings.HasSuffix(val, ">"):
		name := val[2 : len(val)-1]
		if name == "" {
			return nil, &Error{Message: "Expected group name", Position: marker.Offset}
		}
		return p.finishScopedGroup(start, ast.GroupNamed, &namedInfo{name: name, variant: ast.NamePython})
	case strings.HasPrefix(val, "P="):
		return nil, &Error{Message: "not supported yet", Position: marker.Offset}
	case strings.HasPrefix(val, "P>"):
		name := val[2:]
		if name == "" {
			return nil, &Error{Message: "Expected subroutine name", Position: marker.Offset}
		}
		close, err := p.expectGroupClose()
		if err != nil {
			return nil, err
		}
		sub := ast.NewSubroutine(start, close.Offset+1, ast.SubroutinePGT)
		sub.TargetName = name
		return sub, nil
	case strings.HasPrefix(val, "&"):
		name := val[1:]
		if name == "" {
			return nil, &Error{Message: "Expected subroutine name", Position: marker.Offset}
		}
		close, err := p.expectGroupClose()
		if err != nil {
			return nil, err
		}
		sub := ast.NewSubroutine(start, close.Offset+1, ast.SubroutineAmp)
		sub.TargetName = name
		return sub, nil
	case isNumberLexeme(val):
		close, err := p.expectGroupClose()
		if err != nil {
			return nil, err
		}
		sub := ast.NewSubroutine(start, close.Offset+1, ast.SubroutinePlain)
		n, _ := strconv.Atoi(val)
		if n == 0 {
			sub.WholePattern = true
		}
		sub.TargetNumber = n
		sub.Relative = strings.HasPrefix(val, "+") || strings.HasPrefix(val, "-")
		return sub, nil
	}

	// Inline flags: a run of imsxJUnA/- characters, optionally followed by a
	// ":" marker token emitted separately by the lexer.
	if isFlagLexeme(val) {
		set, clear := splitFlagDelta(val)
		scoped := false
		if p.s.Peek().Kind == token.Literal && p.s.Peek().Value == ":" {
			p.s.Next()
			scoped = true
		}
		if scoped {
			body, err := p.parseAlternation()
			if err != nil {
				return nil, err
			}
			close, err := p.expectGroupClose()
			if err != nil {
				return nil, err
			}
			g := ast.NewGroup(start, close.Offset+1, ast.GroupInlineFlags, body)
			g.Flags = &ast.FlagDelta{Set: set, Clear: clear}
			g.Scoped = true
			return g, nil
		}
		close, err := p.expectGroupClose()
		if err != nil {
			return nil, err
		}
		g := ast.NewGroup(start, close.Offset+1, ast.GroupInlineFlags, ast.NewSequence(close.Offset, close.Offset, nil))
		g.Flags = &ast.FlagDelta{Set: set, Clear: clear}
		g.Scoped = false
		return g, nil
	}

	return nil, &Error{Message: "Invalid group modifier syntax", Position: marker.Offset}
}

type namedInfo struct {
	name    string
	variant ast.NameVariant
}

// finishScopedGroup parses the group body and closing paren for the forms
// that always enclose a sub-pattern ((?:...), (?=...), (?<name>...), etc.),
// assigning a capture number when the kind captures.
func (p *parser) finishScopedGroup(start int, kind ast.GroupKind, named *namedInfo) (ast.Node, error) {
	num := 0
	if kind == ast.GroupNamed {
		p.groupSeq++
		num = p.groupSeq
	}
	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	close, err := p.expectGroupClose()
	if err != nil {
		return nil, err
	}
	g := ast.NewGroup(start, close.Offset+1, kind, body)
	g.Number = num
	if named != nil {
		g.Name = named.name
		g.NameVariant = named.variant
	}
	return g, nil
}

// finishBranchReset parses (?|alt1|alt2|...), where every top-level branch
// restarts capture numbering from the group's first number.
func (p *parser) finishBranchReset(start int) (ast.Node, error) {
	resetAt := p.groupSeq
	firstBranchStart := resetAt
	_ = firstBranchStart
	var branches []ast.Node
	for {
		p.groupSeq = resetAt
		branch, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
		if p.s.Peek().Kind != token.Alternation {
			break
		}
		p.s.Next()
	}
	close, err := p.expectGroupClose()
	if err != nil {
		return nil, err
	}
	var body ast.Node
	if len(branches) == 1 {
		body = branches[0]
	} else {
		body = ast.NewAlternation(branches[0].Span().Start, branches[len(branches)-1].Span().End, branches)
	}
	g := ast.NewGroup(start, close.Offset+1, ast.GroupBranchReset, body)
	return g, nil
}

func (p *parser) expectGroupClose() (token.Token, error) {
	if p.s.Peek().Kind != token.GroupClose {
		return token.Token{}, &Error{Message: "Expected `)` at end of input", Position: p.s.Peek().Offset}
	}
	return p.s.Next(), nil
}

func isNumberLexeme(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i = 1
	}
	if i >= len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isFlagLexeme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte("imsxJUnA-", s[i]) < 0 {
			return false
		}
	}
	return true
}

func splitFlagDelta(s string) (set, clear string) {
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

// parseConditional parses (?(cond)then|else).
func (p *parser) parseConditional(start int) (ast.Node, error) {
	var cond ast.Node
	var err error
	if p.s.Peek().Kind == token.GroupModifierOpen {
		// A lookaround condition, e.g. (?(?=foo)...): the assertion group
		// consumes its own parentheses.
		if cond, err = p.parseGroup(); err != nil {
			return nil, err
		}
	} else {
		p.s.Next() // consume the GroupOpen starting the condition "("
		if cond, err = p.parseConditionalCondition(); err != nil {
			return nil, err
		}
		if p.s.Peek().Kind != token.GroupClose {
			return nil, &Error{Message: "Invalid conditional condition", Position: p.s.Peek().Offset}
		}
		p.s.Next()
	}

	then, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.s.Peek().Kind == token.Alternation {
		p.s.Next()
		els, err = p.parseSequence()
		if err != nil {
			return nil, err
		}
	} else {
		els = ast.NewSequence(then.Span().End, then.Span().End, nil)
	}
	close, err := p.expectGroupClose()
	if err != nil {
		return nil, err
	}
	return ast.NewConditional(start, close.Offset+1, cond, then, els), nil
}

// parseConditionalCondition parses the condition between the conditional's
// inner parens: a group number/name reference, (R), (R<name>), (R&name),
// (Rn), (DEFINE), or a lookaround assertion.
func (p *parser) parseConditionalCondition() (ast.Node, error) {
	peek := p.s.Peek()
	if peek.Kind == token.GroupModifierOpen {
		// A lookaround assertion used as the condition, e.g. (?(?=foo)...).
		return p.parseGroup()
	}
	if peek.Kind != token.Literal {
		return nil, &Error{Message: "Invalid conditional condition", Position: peek.Offset}
	}
	tok := p.s.Next()
	val := tok.Value

	switch {
	case val == "DEFINE":
		sub := ast.NewSubroutine(tok.Offset, tok.Offset+len(val), ast.SubroutinePlain)
		sub.TargetName = "DEFINE"
		return sub, nil
	case strings.HasPrefix(val, "<") && strings.HasSuffix(val, ">"):
		return ast.NewBackref(tok.Offset, tok.Offset+len(val), ast.BackrefKAngle, 0, val[1:len(val)-1], val), nil
	case strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'"):
		return ast.NewBackref(tok.Offset, tok.Offset+len(val), ast.BackrefKQuote, 0, val[1:len(val)-1], val), nil
	case val == "R":
		sub := ast.NewSubroutine(tok.Offset, tok.Offset+len(val), ast.SubroutinePlain)
		sub.WholePattern = true
		return sub, nil
	case strings.HasPrefix(val, "R<") && strings.HasSuffix(val, ">"):
		sub := ast.NewSubroutine(tok.Offset, tok.Offset+len(val), ast.SubroutinePlain)
		sub.TargetName = val[2 : len(val)-1]
		return sub, nil
	case strings.HasPrefix(val, "R&"):
		sub := ast.NewSubroutine(tok.Offset, tok.Offset+len(val), ast.SubroutinePlain)
		sub.TargetName = val[2:]
		return sub, nil
	case strings.HasPrefix(val, "R") && isNumberLexeme(val[1:]):
		sub := ast.NewSubroutine(tok.Offset, tok.Offset+len(val), ast.SubroutinePlain)
		n, _ := strconv.Atoi(val[1:])
		sub.TargetNumber = n
		return sub, nil
	case isNumberLexeme(val):
		n, _ := strconv.Atoi(val)
		return ast.NewBackref(tok.Offset, tok.Offset+len(val), ast.BackrefNumber, n, "", val), nil
	case isPlainIdentifier(val):
		return ast.NewBackref(tok.Offset, tok.Offset+len(val), ast.BackrefKAngle, 0, val, val), nil
	}
	return nil, &Error{Message: "Invalid conditional condition", Position: tok.Offset}
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
