// Package sample generates strings that match a parsed pattern, for use as
// test fixtures or documentation examples. Generation is a best-effort AST
// walk: lookaround assertions are treated as always satisfied and
// conditionals always take the "then" branch, since neither can be
// evaluated without a candidate subject string.
package sample

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

const unboundedRepeatCap = 3

// Generate produces one string matching re.Body, using seed for all random
// choices so the same seed always yields the same sample.
func Generate(re *ast.Regex, seed int64) (string, error) {
	g := &generator{
		rng:      rand.New(rand.NewSource(seed)),
		byNumber: map[int]*ast.Group{},
		byName:   map[string]*ast.Group{},
		captured: map[int]string{},
		capByName: map[string]string{},
	}
	g.collectGroups(re.Body)
	var b strings.Builder
	if err := g.write(&b, re.Body, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

type generator struct {
	rng       *rand.Rand
	byNumber  map[int]*ast.Group
	byName    map[string]*ast.Group
	captured  map[int]string
	capByName map[string]string
}

func (g *generator) collectGroups(n ast.Node) {
	switch node := n.(type) {
	case *ast.Sequence:
		for _, c := range node.Children {
			g.collectGroups(c)
		}
	case *ast.Alternation:
		for _, b := range node.Branches {
			g.collectGroups(b)
		}
	case *ast.Quantifier:
		g.collectGroups(node.Target)
	case *ast.Conditional:
		g.collectGroups(node.Then)
		g.collectGroups(node.Else)
	case *ast.Group:
		if node.Kind == ast.GroupCapturing || node.Kind == ast.GroupNamed {
			g.byNumber[node.Number] = node
			if node.Name != "" {
				g.byName[node.Name] = node
			}
		}
		g.collectGroups(node.Child)
	}
}

// write appends a sample for n to b. recursionDepth guards against infinite
// subroutine/recursion expansion by capping how deep a self-reference may
// be followed.
func (g *generator) write(b *strings.Builder, n ast.Node, recursionDepth int) error {
	if recursionDepth > 8 {
		return nil
	}
	switch node := n.(type) {
	case nil:
		return nil
	case *ast.Sequence:
		for _, c := range node.Children {
			if err := g.write(b, c, recursionDepth); err != nil {
				return err
			}
		}
	case *ast.Alternation:
		branch := node.Branches[g.rng.Intn(len(node.Branches))]
		return g.write(b, branch, recursionDepth)
	case *ast.Literal:
		b.WriteString(node.Text)
	case *ast.CharLiteral:
		b.WriteRune(node.Codepoint)
	case *ast.Dot:
		b.WriteByte(g.randomPrintable())
	case *ast.Anchor, *ast.Assertion, *ast.Keep, *ast.Comment, *ast.Verb, *ast.Callout:
		// zero-width: contributes nothing to the sample text
	case *ast.CharType:
		b.WriteByte(representativeForCharType(node.Kind))
	case *ast.UnicodeProp:
		if node.Negated {
			b.WriteByte('!')
		} else {
			b.WriteByte('a')
		}
	case *ast.CharClass:
		ch, err := g.pickFromClass(node)
		if err != nil {
			return err
		}
		b.WriteRune(ch)
	case *ast.PosixClass:
		b.WriteByte(representativeForPosix(node.Name, node.Negated))
	case *ast.Quantifier:
		n := quantifierRepeatCount(node, g.rng)
		for i := 0; i < n; i++ {
			if err := g.write(b, node.Target, recursionDepth); err != nil {
				return err
			}
		}
	case *ast.Group:
		return g.writeGroup(b, node, recursionDepth)
	case *ast.Backref:
		if node.Name != "" {
			b.WriteString(g.capByName[node.Name])
		} else {
			b.WriteString(g.captured[node.Number])
		}
	case *ast.Subroutine:
		return g.writeSubroutine(b, node, recursionDepth)
	case *ast.Conditional:
		return g.write(b, node.Then, recursionDepth)
	default:
		return fmt.Errorf("sample: unsupported node %T", n)
	}
	return nil
}

func (g *generator) writeGroup(b *strings.Builder, node *ast.Group, recursionDepth int) error {
	switch node.Kind {
	case ast.GroupLookaheadPositive, ast.GroupLookaheadNegative,
		ast.GroupLookbehindPositive, ast.GroupLookbehindNegative:
		// zero-width: treated as always satisfied, contributes nothing
		return nil
	case ast.GroupInlineFlags:
		if !node.Scoped {
			return nil
		}
	}
	var inner strings.Builder
	if err := g.write(&inner, node.Child, recursionDepth); err != nil {
		return err
	}
	text := inner.String()
	b.WriteString(text)
	if node.Kind == ast.GroupCapturing || node.Kind == ast.GroupNamed {
		g.captured[node.Number] = text
		if node.Name != "" {
			g.capByName[node.Name] = text
		}
	}
	return nil
}

func (g *generator) writeSubroutine(b *strings.Builder, node *ast.Subroutine, recursionDepth int) error {
	if node.TargetName == "DEFINE" {
		return nil
	}
	var target *ast.Group
	switch {
	case node.TargetName != "":
		target = g.byName[node.TargetName]
	case node.TargetNumber != 0:
		target = g.byNumber[node.TargetNumber]
	}
	if target == nil {
		return nil
	}
	return g.write(b, target.Child, recursionDepth+1)
}

func (g *generator) pickFromClass(cc *ast.CharClass) (rune, error) {
	candidates := g.classCandidates(cc.Inner)
	if len(candidates) == 0 {
		return 'a', nil
	}
	if !cc.Negated {
		return candidates[g.rng.Intn(len(candidates))], nil
	}
	excluded := map[rune]bool{}
	for _, r := range candidates {
		excluded[r] = true
	}
	for c := rune('!'); c <= '~'; c++ {
		if !excluded[c] {
			return c, nil
		}
	}
	return 0, fmt.Errorf("sample: negated class excludes all printable ASCII")
}

func (g *generator) classCandidates(n ast.Node) []rune {
	switch node := n.(type) {
	case *ast.Sequence:
		var out []rune
		for _, c := range node.Children {
			out = append(out, g.classCandidates(c)...)
		}
		return out
	case *ast.Literal:
		return []rune(node.Text)
	case *ast.CharLiteral:
		return []rune{node.Codepoint}
	case *ast.Range:
		lo, hi := runeOf(node.Start), runeOf(node.End)
		if lo > hi || hi-lo > 255 {
			return nil
		}
		out := make([]rune, 0, hi-lo+1)
		for r := lo; r <= hi; r++ {
			out = append(out, r)
		}
		return out
	case *ast.CharType:
		return []rune{rune(representativeForCharType(node.Kind))}
	case *ast.PosixClass:
		return []rune{rune(representativeForPosix(node.Name, false))}
	case *ast.UnicodeProp:
		return []rune{'a'}
	}
	return nil
}

func runeOf(n ast.Node) rune {
	switch node := n.(type) {
	case *ast.Literal:
		r := []rune(node.Text)
		if len(r) > 0 {
			return r[0]
		}
	case *ast.CharLiteral:
		return node.Codepoint
	}
	return 0
}

func quantifierRepeatCount(q *ast.Quantifier, rng *rand.Rand) int {
	max := q.Max
	if max == -1 {
		max = q.Min + unboundedRepeatCap
	}
	if max <= q.Min {
		return q.Min
	}
	return q.Min + rng.Intn(max-q.Min+1)
}

func (g *generator) randomPrintable() byte {
	return byte('a' + g.rng.Intn(26))
}

func representativeForCharType(k ast.CharTypeKind) byte {
	switch k {
	case ast.CharTypeDigit:
		return '5'
	case ast.CharTypeNonDigit:
		return 'x'
	case ast.CharTypeWord:
		return 'a'
	case ast.CharTypeNonWord:
		return ' '
	case ast.CharTypeSpace, ast.CharTypeHSpace, ast.CharTypeVSpace, ast.CharTypeNewlineSeq:
		return ' '
	case ast.CharTypeNonSpace, ast.CharTypeNonHSpace, ast.CharTypeNonVSpace:
		return 'x'
	case ast.CharTypeGrapheme, ast.CharTypeAnyByte, ast.CharTypeNonNewline:
		return 'a'
	default:
		return 'a'
	}
}

func representativeForPosix(name string, negated bool) byte {
	reps := map[string]byte{
		"alpha": 'a', "digit": '5', "alnum": 'a', "upper": 'A', "lower": 'a',
		"space": ' ', "punct": '.', "cntrl": 1, "graph": 'a', "print": 'a',
		"xdigit": 'f', "blank": ' ', "ascii": 'a', "word": 'a',
	}
	r, ok := reps[name]
	if !ok {
		r = 'a'
	}
	if negated {
		if r == 'z' {
			return 'a'
		}
		return 'z'
	}
	return r
}
