// Package parser implements a recursive-descent parser over the token
// stream produced by internal/lexer, building the AST defined in
// internal/ast. Parsing proceeds with one-token lookahead: each production
// below consumes exactly the tokens its grammar rule names and returns
// control to its caller without backtracking.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/token"
)

// Limits bounds parser resource consumption. Zero fields disable the
// corresponding check.
type Limits struct {
	MaxPatternLength int
	MaxNodes         int
	MaxRecursionDepth int
}

// DefaultLimits returns generous defaults suitable for interactive use.
func DefaultLimits() Limits {
	return Limits{MaxPatternLength: 10_000, MaxNodes: 100_000, MaxRecursionDepth: 1_000}
}

// Error reports a parser failure with a byte position in the pattern body.
type Error struct {
	Message  string
	Position int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at position %d", e.Message, e.Position)
}

type parser struct {
	s          *token.Stream
	limits     Limits
	nodeCount  int
	depth      int
	groupSeq   int
}

// Parse runs the recursive-descent parser over tokens and wraps the result
// in the Regex root node using the delimiter/flags the splitter extracted.
func Parse(tokens []token.Token, delimiter byte, flags string, limits Limits) (*ast.Regex, error) {
	p := &parser{s: token.NewStream(tokens), limits: limits}
	body, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.s.Peek().Kind != token.EOF {
		return nil, &Error{Message: "Unexpected token", Position: p.s.Peek().Offset}
	}
	end := 0
	if body != nil {
		end = body.Span().End
	}
	return ast.NewRegex(0, end, delimiter, flags, body), nil
}

func (p *parser) newNode() error {
	p.nodeCount++
	if p.limits.MaxNodes > 0 && p.nodeCount > p.limits.MaxNodes {
		return &Error{Message: "Pattern exceeds maximum node count", Position: p.s.Peek().Offset}
	}
	return nil
}

func (p *parser) enter() error {
	p.depth++
	if p.limits.MaxRecursionDepth > 0 && p.depth > p.limits.MaxRecursionDepth {
		return &Error{Message: "Pattern exceeds maximum recursion depth", Position: p.s.Peek().Offset}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// Alternation := Sequence ('|' Sequence)*
func (p *parser) parseAlternation() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	start := p.s.Peek().Offset
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.s.Peek().Kind != token.Alternation {
		return first, nil
	}

	branches := []ast.Node{first}
	for p.s.Peek().Kind == token.Alternation {
		p.s.Next()
		branch, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	if err := p.newNode(); err != nil {
		return nil, err
	}
	end := branches[len(branches)-1].Span().End
	return ast.NewAlternation(start, end, branches), nil
}

// Sequence := QuantifiedAtom*
func (p *parser) parseSequence() (ast.Node, error) {
	start := p.s.Peek().Offset
	var children []ast.Node
	for {
		switch p.s.Peek().Kind {
		case token.Alternation, token.GroupClose, token.EOF:
			if err := p.newNode(); err != nil {
				return nil, err
			}
			end := start
			if len(children) > 0 {
				end = children[len(children)-1].Span().End
			}
			return ast.NewSequence(start, end, children), nil
		}
		child, err := p.parseQuantifiedAtom()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

var forbiddenQuantifierTarget = map[string]bool{}

// QuantifiedAtom := Atom Quantifier?
func (p *parser) parseQuantifiedAtom() (ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.s.Peek().Kind != token.Quantifier {
		return atom, nil
	}
	qtok := p.s.Next()

	kind, label := describeForQuantifier(atom)
	if kind == targetEmpty {
		return nil, &Error{Message: "Quantifier without target", Position: qtok.Offset}
	}
	if kind == targetForbidden {
		return nil, &Error{Message: fmt.Sprintf("Quantifier `%s` cannot be applied to assertion or verb `%s`", qtok.Value, label), Position: qtok.Offset}
	}

	min, max, text, style, err := parseQuantifierBody(qtok.Value)
	if err != nil {
		return nil, &Error{Message: err.Error(), Position: qtok.Offset}
	}
	if err := p.newNode(); err != nil {
		return nil, err
	}
	return ast.NewQuantifier(atom.Span().Start, qtok.Offset+len(qtok.Value), atom, min, max, text, style), nil
}

type targetKind int

const (
	targetOK targetKind = iota
	targetForbidden
	targetEmpty
)

func describeForQuantifier(n ast.Node) (targetKind, string) {
	switch v := n.(type) {
	case *ast.Anchor:
		return targetForbidden, "anchor"
	case *ast.Assertion:
		return targetForbidden, "assertion"
	case *ast.Verb:
		return targetForbidden, "verb"
	case *ast.Comment:
		return targetForbidden, "comment"
	case *ast.Callout:
		return targetForbidden, "callout"
	case *ast.Keep:
		return targetForbidden, "keep"
	case *ast.Sequence:
		if len(v.Children) == 0 {
			return targetEmpty, ""
		}
	case *ast.Group:
		if seq, ok := v.Child.(*ast.Sequence); ok && v.Kind == ast.GroupNonCapturing && len(seq.Children) == 0 {
			return targetEmpty, ""
		}
	}
	return targetOK, ""
}

// parseQuantifierBody decodes a lexer-produced quantifier lexeme into its
// bound, canonical text, and style. The text leaves out the lazy `?` or
// possessive `+` suffix, which style records.
func parseQuantifierBody(raw string) (min, max int, text string, style ast.QuantifierStyle, err error) {
	body := raw
	style = ast.Greedy
	if strings.HasSuffix(body, "?") && body != "?" {
		style = ast.Lazy
		body = body[:len(body)-1]
	} else if strings.HasSuffix(body, "+") && body != "+" {
		style = ast.Possessive
		body = body[:len(body)-1]
	}

	switch body {
	case "*":
		return 0, -1, body, style, nil
	case "+":
		return 1, -1, body, style, nil
	case "?":
		return 0, 1, body, style, nil
	}

	if !strings.HasPrefix(body, "{") || !strings.HasSuffix(body, "}") {
		return 0, 0, "", style, fmt.Errorf("Invalid quantifier `%s`", raw)
	}
	inner := strings.TrimSpace(body[1 : len(body)-1])
	parts := strings.SplitN(inner, ",", 2)
	trim := func(s string) string { return strings.TrimSpace(s) }

	var canonical string
	if len(parts) == 1 {
		n, perr := strconv.Atoi(trim(parts[0]))
		if perr != nil {
			return 0, 0, "", style, fmt.Errorf("Invalid quantifier `%s`", raw)
		}
		min, max = n, n
		canonical = fmt.Sprintf("{%d}", n)
	} else {
		lo, hi := trim(parts[0]), trim(parts[1])
		if lo == "" && hi == "" {
			return 0, 0, "", style, fmt.Errorf("Invalid quantifier `%s`", raw)
		}
		if lo == "" {
			n, perr := strconv.Atoi(hi)
			if perr != nil {
				return 0, 0, "", style, fmt.Errorf("Invalid quantifier `%s`", raw)
			}
			min, max = 0, n
			canonical = fmt.Sprintf("{,%d}", n)
		} else if hi == "" {
			n, perr := strconv.Atoi(lo)
			if perr != nil {
				return 0, 0, "", style, fmt.Errorf("Invalid quantifier `%s`", raw)
			}
			min, max = n, -1
			canonical = fmt.Sprintf("{%d,}", n)
		} else {
			n, perr1 := strconv.Atoi(lo)
			m, perr2 := strconv.Atoi(hi)
			if perr1 != nil || perr2 != nil {
				return 0, 0, "", style, fmt.Errorf("Invalid quantifier `%s`", raw)
			}
			min, max = n, m
			canonical = fmt.Sprintf("{%d,%d}", n, m)
		}
	}

	return min, max, canonical, style, nil
}

// Atom dispatches on the current token's kind.
func (p *parser) parseAtom() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if err := p.newNode(); err != nil {
		return nil, err
	}

	tok := p.s.Peek()
	switch tok.Kind {
	case token.Literal:
		p.s.Next()
		return ast.NewLiteral(tok.Offset, tok.Offset+len(tok.Value), tok.Value), nil
	case token.EscapedLiteral:
		p.s.Next()
		return newEscapedLiteral(tok.Offset, tok.Offset+len(tok.Value), tok.Value), nil
	case token.CharType:
		p.s.Next()
		kind, ok := charTypeKindOf(tok.Value)
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("Unrecognized char type `%s`", tok.Value), Position: tok.Offset}
		}
		return ast.NewCharType(tok.Offset, tok.Offset+len(tok.Value), kind), nil
	case token.Dot:
		p.s.Next()
		return ast.NewDot(tok.Offset, tok.Offset+1), nil
	case token.Anchor:
		p.s.Next()
		return ast.NewAnchor(tok.Offset, tok.Offset+len(tok.Value), anchorKindOf(tok.Value)), nil
	case token.Assertion:
		p.s.Next()
		kind := ast.AssertionWordBoundary
		if tok.Value == `\B` {
			kind = ast.AssertionNonWordBoundary
		}
		return ast.NewAssertion(tok.Offset, tok.Offset+len(tok.Value), kind), nil
	case token.Keep:
		p.s.Next()
		return ast.NewKeep(tok.Offset, tok.Offset+len(tok.Value)), nil
	case token.Unicode:
		p.s.Next()
		return decodeUnicodeToken(tok)
	case token.Octal:
		p.s.Next()
		return decodeOctalToken(tok)
	case token.LegacyOctal:
		p.s.Next()
		return decodeLegacyOctalToken(tok)
	case token.UnicodeProperty:
		p.s.Next()
		return decodeUnicodeProp(tok), nil
	case token.Backref:
		p.s.Next()
		return decodeBackrefToken(tok)
	case token.GRef:
		p.s.Next()
		return decodeGRefToken(tok)
	case token.CharClassOpen:
		return p.parseCharClass()
	case token.GroupOpen:
		return p.parseGroup()
	case token.GroupModifierOpen:
		return p.parseGroup()
	case token.CommentOpen:
		return p.parseComment()
	case token.Verb:
		p.s.Next()
		return decodeVerbToken(tok), nil
	case token.Callout:
		p.s.Next()
		return decodeCalloutToken(tok), nil
	case token.QuoteStart:
		return p.parseQuote()
	default:
		return nil, &Error{Message: fmt.Sprintf("Unexpected token `%s`", tok.Kind), Position: tok.Offset}
	}
}

func (p *parser) parseQuote() (ast.Node, error) {
	start := p.s.Next() // QuoteStart
	var text string
	var end int
	if p.s.Peek().Kind == token.QuoteBody {
		bodyTok := p.s.Next()
		text = bodyTok.Value
		end = bodyTok.Offset + len(bodyTok.Value)
	} else {
		end = start.Offset + len(start.Value)
	}
	if p.s.Peek().Kind == token.QuoteEnd {
		endTok := p.s.Next()
		end = endTok.Offset + len(endTok.Value)
	}
	return ast.NewLiteral(start.Offset, end, text), nil
}

func (p *parser) parseComment() (ast.Node, error) {
	open := p.s.Next() // CommentOpen
	var text string
	if p.s.Peek().Kind == token.CommentBody {
		text = p.s.Next().Value
	}
	if p.s.Peek().Kind != token.GroupClose {
		return nil, &Error{Message: "Expected `)` at end of input", Position: p.s.Peek().Offset}
	}
	close := p.s.Next()
	return ast.NewComment(open.Offset, close.Offset+1, text), nil
}

// parseCharClass parses the token run between CharClassOpen and
// CharClassClose (the lexer guarantees a matching close exists).
func (p *parser) parseCharClass() (ast.Node, error) {
	open := p.s.Next() // CharClassOpen
	negated := false
	if p.s.Peek().Kind == token.Negation {
		p.s.Next()
		negated = true
	}

	var children []ast.Node
	for p.s.Peek().Kind != token.CharClassClose {
		if p.s.Peek().Kind == token.EOF {
			return nil, &Error{Message: "Expected `]` at end of input", Position: p.s.Peek().Offset}
		}
		child, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	close := p.s.Next() // CharClassClose
	inner := ast.NewSequence(open.Offset, close.Offset, children)
	return ast.NewCharClass(open.Offset, close.Offset+1, negated, inner), nil
}

func (p *parser) parseClassAtom() (ast.Node, error) {
	if err := p.newNode(); err != nil {
		return nil, err
	}
	tok := p.s.Next()
	switch tok.Kind {
	case token.Range:
		lo, hi, err := splitRangeText(tok.Value)
		if err != nil {
			return nil, &Error{Message: err.Error(), Position: tok.Offset}
		}
		loNode, err := decodeClassAtomText(lo, tok.Offset)
		if err != nil {
			return nil, err
		}
		hiOffset := tok.Offset + len(lo) + 1
		hiNode, err := decodeClassAtomText(hi, hiOffset)
		if err != nil {
			return nil, err
		}
		return ast.NewRange(tok.Offset, tok.Offset+len(tok.Value), loNode, hiNode), nil
	case token.Literal:
		return ast.NewLiteral(tok.Offset, tok.Offset+len(tok.Value), tok.Value), nil
	case token.EscapedLiteral:
		return newEscapedLiteral(tok.Offset, tok.Offset+len(tok.Value), tok.Value), nil
	case token.CharType:
		kind, ok := charTypeKindOf(tok.Value)
		if !ok {
			return nil, &Error{Message: fmt.Sprintf("Unrecognized char type `%s`", tok.Value), Position: tok.Offset}
		}
		return ast.NewCharType(tok.Offset, tok.Offset+len(tok.Value), kind), nil
	case token.UnicodeProperty:
		return decodeUnicodeProp(tok), nil
	case token.Unicode:
		return decodeUnicodeToken(tok)
	case token.Octal:
		return decodeOctalToken(tok)
	case token.LegacyOctal:
		return decodeLegacyOctalToken(tok)
	case token.PosixClass:
		name := tok.Value
		negated := false
		if strings.HasPrefix(name, "^") {
			negated = true
			name = name[1:]
		}
		return ast.NewPosixClass(tok.Offset, tok.Offset+len(tok.Value), name, negated), nil
	default:
		return nil, &Error{Message: fmt.Sprintf("Unexpected token `%s` in character class", tok.Kind), Position: tok.Offset}
	}
}

// splitRangeText splits a lexer Range token's "lo-hi" text at the separating
// hyphen, accounting for the fact that lo may itself be a multi-byte escape.
func splitRangeText(raw string) (lo, hi string, err error) {
	n := classAtomTextLen(raw)
	if n <= 0 || n >= len(raw) || raw[n] != '-' {
		return "", "", fmt.Errorf("malformed range `%s`", raw)
	}
	return raw[:n], raw[n+1:], nil
}

func classAtomTextLen(s string) int {
	if len(s) == 0 {
		return 0
	}
	if s[0] != '\\' {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	if len(s) < 2 {
		return 1
	}
	switch c := s[1]; {
	case c == 'x' && len(s) > 2 && s[2] == '{':
		idx := strings.IndexByte(s[3:], '}')
		if idx < 0 {
			return len(s)
		}
		return 3 + idx + 1
	case c == 'x':
		end := 2
		for end < len(s) && end < 4 && isHexByte(s[end]) {
			end++
		}
		return end
	case c >= '0' && c <= '7':
		end := 1
		for end < len(s) && end < 4 && s[end] >= '0' && s[end] <= '7' {
			end++
		}
		return end
	default:
		_, size := utf8.DecodeRuneInString(s[1:])
		return 1 + size
	}
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decodeClassAtomText decodes one Range endpoint into a Literal or
// CharLiteral node (per the AST's invariant that Range endpoints are one of
// those two kinds).
func decodeClassAtomText(text string, offset int) (ast.Node, error) {
	if text[0] != '\\' {
		_, size := utf8.DecodeRuneInString(text)
		r, _ := utf8.DecodeRuneInString(text)
		_ = size
		return ast.NewLiteral(offset, offset+len(text), string(r)), nil
	}
	fakeTok := token.Token{Value: text, Offset: offset}
	switch {
	case len(text) >= 2 && (text[1] == 'x'):
		fakeTok.Kind = token.Unicode
		return decodeUnicodeToken(fakeTok)
	case len(text) >= 2 && text[1] >= '0' && text[1] <= '7':
		fakeTok.Kind = token.LegacyOctal
		return decodeLegacyOctalToken(fakeTok)
	default:
		return newEscapedLiteral(offset, offset+len(text), text), nil
	}
}

// decodeEscapedLiteral converts a two-(or more)-byte "\X" lexeme into the
// literal text it denotes, reporting whether X was one of the recognized
// control-character escapes (t n r f v e) or an arbitrary escaped
// character that must keep its backslash on recompile to round-trip.
func decodeEscapedLiteral(raw string) (text string, escaped bool) {
	if len(raw) < 2 {
		return raw, false
	}
	c := raw[1]
	if lit, ok := simpleLiteralEscapeOf(c); ok {
		return string(lit), false
	}
	return raw[1:], true
}

// newEscapedLiteral builds the Literal node for a decoded "\X" escape,
// carrying the Escaped flag so a plain Recompile reproduces the source
// backslash verbatim.
func newEscapedLiteral(start, end int, raw string) *ast.Literal {
	text, escaped := decodeEscapedLiteral(raw)
	lit := ast.NewLiteral(start, end, text)
	lit.Escaped = escaped
	return lit
}

func simpleLiteralEscapeOf(c byte) (byte, bool) {
	switch c {
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	case 'e':
		return 0x1b, true
	}
	return 0, false
}

var charTypeKinds = map[string]ast.CharTypeKind{
	`\d`: ast.CharTypeDigit, `\D`: ast.CharTypeNonDigit,
	`\w`: ast.CharTypeWord, `\W`: ast.CharTypeNonWord,
	`\s`: ast.CharTypeSpace, `\S`: ast.CharTypeNonSpace,
	`\h`: ast.CharTypeHSpace, `\H`: ast.CharTypeNonHSpace,
	`\v`: ast.CharTypeVSpace, `\V`: ast.CharTypeNonVSpace,
	`\R`: ast.CharTypeNewlineSeq, `\X`: ast.CharTypeGrapheme,
	`\C`: ast.CharTypeAnyByte, `\N`: ast.CharTypeNonNewline,
}

func charTypeKindOf(raw string) (ast.CharTypeKind, bool) {
	k, ok := charTypeKinds[raw]
	return k, ok
}

func anchorKindOf(raw string) ast.AnchorKind {
	switch raw {
	case "^":
		return ast.AnchorCaret
	case "$":
		return ast.AnchorDollar
	case `\A`:
		return ast.AnchorA
	case `\z`:
		return ast.Anchorz
	case `\Z`:
		return ast.AnchorZ
	case `\G`:
		return ast.AnchorG
	}
	return ast.AnchorCaret
}

// decodeUnicodeToken handles \xHH, \x{...}, \u{...}, \N{...}.
func decodeUnicodeToken(tok token.Token) (ast.Node, error) {
	raw := tok.Value
	switch {
	case strings.HasPrefix(raw, `\x{`):
		cp, err := parseHexInBraces(raw)
		if err != nil {
			return nil, &Error{Message: err.Error(), Position: tok.Offset}
		}
		return ast.NewCharLiteral(tok.Offset, tok.Offset+len(raw), raw, cp, ast.VariantHexBrace), nil
	case strings.HasPrefix(raw, `\x`):
		n, err := strconv.ParseInt(raw[2:], 16, 32)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("Invalid hex escape `%s`", raw), Position: tok.Offset}
		}
		return ast.NewCharLiteral(tok.Offset, tok.Offset+len(raw), raw, rune(n), ast.VariantHex), nil
	case strings.HasPrefix(raw, `\u{`):
		cp, err := parseHexInBraces(raw)
		if err != nil {
			return nil, &Error{Message: err.Error(), Position: tok.Offset}
		}
		return ast.NewCharLiteral(tok.Offset, tok.Offset+len(raw), raw, cp, ast.VariantUnicodeBrace), nil
	case strings.HasPrefix(raw, `\N{`):
		return ast.NewCharLiteral(tok.Offset, tok.Offset+len(raw), raw, 0, ast.VariantNamed), nil
	}
	return nil, &Error{Message: fmt.Sprintf("Unrecognized unicode escape `%s`", raw), Position: tok.Offset}
}

func parseHexInBraces(raw string) (rune, error) {
	idx := strings.IndexByte(raw, '{')
	end := strings.IndexByte(raw, '}')
	if idx < 0 || end < 0 || end < idx {
		return 0, fmt.Errorf("Invalid unicode escape `%s`", raw)
	}
	n, err := strconv.ParseInt(raw[idx+1:end], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("Invalid unicode escape `%s`", raw)
	}
	return rune(n), nil
}

func decodeOctalToken(tok token.Token) (ast.Node, error) {
	raw := tok.Value
	idx := strings.IndexByte(raw, '{')
	end := strings.IndexByte(raw, '}')
	if idx < 0 || end < 0 {
		return nil, &Error{Message: fmt.Sprintf("Invalid octal escape `%s`", raw), Position: tok.Offset}
	}
	n, err := strconv.ParseInt(raw[idx+1:end], 8, 32)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("Invalid octal escape `%s`", raw), Position: tok.Offset}
	}
	return ast.NewCharLiteral(tok.Offset, tok.Offset+len(raw), raw, rune(n), ast.VariantOctalBrace), nil
}

func decodeLegacyOctalToken(tok token.Token) (ast.Node, error) {
	raw := tok.Value
	n, err := strconv.ParseInt(raw[1:], 8, 32)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("Invalid octal escape `%s`", raw), Position: tok.Offset}
	}
	return ast.NewCharLiteral(tok.Offset, tok.Offset+len(raw), raw, rune(n), ast.VariantLegacyOctal), nil
}

// decodeUnicodeProp builds a UnicodeProp; ShortForm mirrors the recompiler's
// own rule (single-letter payload => short form was/should-be used).
func decodeUnicodeProp(tok token.Token) ast.Node {
	name := tok.Value
	negated := false
	if strings.HasPrefix(name, "^") {
		negated = true
		name = name[1:]
	}
	short := utf8.RuneCountInString(name) == 1
	return ast.NewUnicodeProp(tok.Offset, tok.Offset+len(tok.Value), name, negated, short)
}

// decodeBackrefToken handles \1..\99 and \k<name>/\k{name}/\k'name'.
func decodeBackrefToken(tok token.Token) (ast.Node, error) {
	raw := tok.Value
	if raw[1] == 'k' {
		open := raw[2]
		var close byte
		switch open {
		case '<':
			close = '>'
		case '{':
			close = '}'
		case '\'':
			close = '\''
		}
		name := raw[3 : len(raw)-1]
		_ = close
		form := ast.BackrefKAngle
		switch open {
		case '{':
			form = ast.BackrefKBrace
		case '\'':
			form = ast.BackrefKQuote
		}
		return ast.NewBackref(tok.Offset, tok.Offset+len(raw), form, 0, name, raw), nil
	}
	n, err := strconv.Atoi(raw[1:])
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("Invalid backreference `%s`", raw), Position: tok.Offset}
	}
	return ast.NewBackref(tok.Offset, tok.Offset+len(raw), ast.BackrefNumber, n, "", raw), nil
}

// decodeGRefToken handles \g{n}, \g{-n} (backreferences) and \g<n>, \g'n',
// \g<name>, \g'name' (subroutine calls).
func decodeGRefToken(tok token.Token) (ast.Node, error) {
	raw := tok.Value
	open := raw[2]
	inner := raw[3 : len(raw)-1]

	if open == '{' {
		n, err := strconv.Atoi(inner)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("Invalid \\g reference `%s`", raw), Position: tok.Offset}
		}
		return ast.NewBackref(tok.Offset, tok.Offset+len(raw), ast.BackrefGNumber, n, "", raw), nil
	}

	sub := ast.NewSubroutine(tok.Offset, tok.Offset+len(raw), ast.SubroutineG)
	if n, err := strconv.Atoi(inner); err == nil {
		sub.TargetNumber = n
		sub.Relative = strings.HasPrefix(inner, "+") || strings.HasPrefix(inner, "-")
	} else {
		sub.TargetName = inner
	}
	return sub, nil
}

func decodeVerbToken(tok token.Token) ast.Node {
	raw := tok.Value
	inner := raw[2 : len(raw)-1]
	name, arg := inner, ""
	sep := byte(0)
	if idx := strings.IndexByte(inner, ':'); idx >= 0 {
		name, arg, sep = inner[:idx], inner[idx+1:], ':'
	} else if idx := strings.IndexByte(inner, '='); idx >= 0 {
		name, arg, sep = inner[:idx], inner[idx+1:], '='
	}
	_ = sep
	return ast.NewVerb(tok.Offset, tok.Offset+len(raw), verbKindOf(name), name, arg)
}

func verbKindOf(name string) ast.VerbKind {
	switch name {
	case "FAIL", "F", "ACCEPT", "COMMIT", "PRUNE", "SKIP", "THEN", "MARK":
		return ast.VerbBacktrack
	case "CR", "LF", "CRLF", "ANYCRLF", "ANY":
		return ast.VerbNewline
	case "BSR_ANYCRLF", "BSR_UNICODE":
		return ast.VerbBSR
	case "UTF8", "UTF", "UCP", "NO_START_OPT":
		return ast.VerbEncoding
	case "LIMIT_MATCH", "LIMIT_DEPTH", "LIMIT_RECURSION":
		return ast.VerbResource
	case "NOTEMPTY", "NOTEMPTY_ATSTART":
		return ast.VerbMatchControl
	}
	return ast.VerbBacktrack
}

func decodeCalloutToken(tok token.Token) ast.Node {
	raw := tok.Value
	inner := raw[3 : len(raw)-1] // strip "(?C" and ")"
	c := ast.NewCallout(tok.Offset, tok.Offset+len(raw), ast.CalloutNumeric)
	if inner == "" {
		c.Kind = ast.CalloutNumeric
		c.Number = 0
		return c
	}
	if n, err := strconv.Atoi(inner); err == nil {
		c.Kind = ast.CalloutNumeric
		c.Number = n
		return c
	}
	if len(inner) >= 2 {
		quote := inner[0]
		if (quote == '\'' || quote == '"' || quote == '`') && inner[len(inner)-1] == quote {
			c.Kind = ast.CalloutString
			c.Text = inner[1 : len(inner)-1]
			return c
		}
		if quote == '{' && inner[len(inner)-1] == '}' {
			c.Kind = ast.CalloutBareName
			c.Text = inner[1 : len(inner)-1]
			return c
		}
	}
	c.Kind = ast.CalloutBareName
	c.Text = inner
	return c
}
