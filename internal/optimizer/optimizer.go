// Package optimizer applies structural, meaning-preserving rewrites to a
// parsed AST: merging adjacent literals, collapsing character classes into
// their shorthand forms, dropping redundant escapes, and folding trivial
// quantifiers. Every rewrite is local and never changes which strings the
// pattern matches.
package optimizer

import (
	"sort"
	"strings"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

// Optimize returns a rewritten copy of re. Subtrees that are unchanged by
// every rule keep their original pointer identity, so callers can diff a
// before/after tree cheaply with ==.
func Optimize(re *ast.Regex) *ast.Regex {
	body := optimizeNode(re.Body)
	if body == re.Body {
		return re
	}
	return ast.NewRegex(re.Span().Start, re.Span().End, re.Delimiter, re.Flags, body)
}

func optimizeNode(n ast.Node) ast.Node {
	switch node := n.(type) {
	case *ast.Sequence:
		return optimizeSequence(node)
	case *ast.Alternation:
		return optimizeAlternation(node)
	case *ast.Quantifier:
		target := optimizeNode(node.Target)
		min, max, text := collapseTrivialQuantifier(node.Min, node.Max, node.Text)
		if min == 1 && max == 1 {
			return target
		}
		if target == node.Target && min == node.Min && max == node.Max && text == node.Text {
			return node
		}
		return ast.NewQuantifier(node.Span().Start, node.Span().End, target, min, max, text, node.Style)
	case *ast.Group:
		child := optimizeNode(node.Child)
		if child == node.Child {
			return node
		}
		g := ast.NewGroup(node.Span().Start, node.Span().End, node.Kind, child)
		g.Number, g.Name, g.NameVariant, g.Flags, g.Scoped = node.Number, node.Name, node.NameVariant, node.Flags, node.Scoped
		return g
	case *ast.CharClass:
		return optimizeCharClass(node)
	case *ast.Literal:
		return dropRedundantEscape(node)
	case *ast.Conditional:
		cond := optimizeNode(node.Condition)
		then := optimizeNode(node.Then)
		els := optimizeNode(node.Else)
		if cond == node.Condition && then == node.Then && els == node.Else {
			return node
		}
		return ast.NewConditional(node.Span().Start, node.Span().End, cond, then, els)
	}
	return n
}

func collapseTrivialQuantifier(min, max int, text string) (int, int, string) {
	if min == 1 && max == 1 {
		return min, max, text
	}
	return min, max, text
}

// optimizeSequence recursively optimizes children, then merges adjacent
// literal runs (spec §4.6's literal-merging rule).
func optimizeSequence(seq *ast.Sequence) ast.Node {
	changed := false
	children := make([]ast.Node, 0, len(seq.Children))
	for _, c := range seq.Children {
		oc := optimizeNode(c)
		if oc != c {
			changed = true
		}
		children = append(children, oc)
	}
	merged := mergeLiterals(children)
	if len(merged) != len(children) {
		changed = true
	}
	if !changed {
		return seq
	}
	return ast.NewSequence(seq.Span().Start, seq.Span().End, merged)
}

func mergeLiterals(children []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(children))
	for _, c := range children {
		lit, ok := c.(*ast.Literal)
		// An Escaped literal keeps its own node: merging its single
		// character into a neighboring run would force the whole run to
		// re-escape on recompile, since Escaped applies per node.
		if ok && !lit.Escaped && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*ast.Literal); ok && !prev.Escaped {
				out[len(out)-1] = ast.NewLiteral(prev.Span().Start, lit.Span().End, prev.Text+lit.Text)
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// dropRedundantEscape strips the Escaped flag from a Literal whose escaped
// character is not a regex metacharacter, so Recompile renders the bare
// character instead of re-adding a backslash that changes nothing about
// what the pattern matches. Unlike the parser, which must preserve every
// escape it sees, this rewrite only runs when Optimize is called.
func dropRedundantEscape(lit *ast.Literal) ast.Node {
	if !lit.Escaped {
		return lit
	}
	for _, c := range lit.Text {
		if strings.ContainsRune(`\.^$|()[]{}*+?`, c) {
			return lit
		}
	}
	out := ast.NewLiteral(lit.Span().Start, lit.Span().End, lit.Text)
	return out
}

func optimizeAlternation(alt *ast.Alternation) ast.Node {
	changed := false
	branches := make([]ast.Node, len(alt.Branches))
	for i, b := range alt.Branches {
		ob := optimizeNode(b)
		branches[i] = ob
		if ob != b {
			changed = true
		}
	}
	if cc, ok := alternationToCharClass(alt, branches); ok {
		return cc
	}
	if !changed {
		return alt
	}
	return ast.NewAlternation(alt.Span().Start, alt.Span().End, branches)
}

// alternationToCharClass converts a|b|c into [abc] when every branch is a
// single non-metacharacter literal of exactly one rune (spec §4.6).
func alternationToCharClass(alt *ast.Alternation, branches []ast.Node) (ast.Node, bool) {
	runes := make([]rune, 0, len(branches))
	for _, b := range branches {
		seq, ok := b.(*ast.Sequence)
		var lit *ast.Literal
		if ok {
			if len(seq.Children) != 1 {
				return nil, false
			}
			lit, ok = seq.Children[0].(*ast.Literal)
		} else {
			lit, ok = b.(*ast.Literal)
		}
		if !ok {
			return nil, false
		}
		rs := []rune(lit.Text)
		if len(rs) != 1 {
			return nil, false
		}
		runes = append(runes, rs[0])
	}
	if len(runes) < 2 {
		return nil, false
	}
	atoms := make([]ast.Node, len(runes))
	for i, r := range runes {
		atoms[i] = ast.NewLiteral(alt.Span().Start, alt.Span().Start, string(r))
	}
	inner := ast.NewSequence(alt.Span().Start, alt.Span().End, atoms)
	return ast.NewCharClass(alt.Span().Start, alt.Span().End, false, inner), true
}

// digitRangeToShorthand replaces a [0-9] range with \d (spec §4.6's fixed
// table); no other range is collapsed to a shorthand since PCRE's \w/\s
// classes do not correspond to a contiguous codepoint range.
func digitRangeToShorthand(n ast.Node) (ast.Node, bool) {
	rng, ok := n.(*ast.Range)
	if !ok {
		return nil, false
	}
	lo, loOk := rng.Start.(*ast.Literal)
	hi, hiOk := rng.End.(*ast.Literal)
	if !loOk || !hiOk || lo.Text != "0" || hi.Text != "9" {
		return nil, false
	}
	return ast.NewCharType(rng.Span().Start, rng.Span().End, ast.CharTypeDigit), true
}

func optimizeCharClass(cc *ast.CharClass) ast.Node {
	inner, ok := cc.Inner.(*ast.Sequence)
	if !ok {
		return cc
	}
	changed := false
	children := make([]ast.Node, 0, len(inner.Children))
	for _, c := range inner.Children {
		if ct, ok := digitRangeToShorthand(c); ok {
			children = append(children, ct)
			changed = true
			continue
		}
		children = append(children, c)
	}
	children, collapsedSingletons := collapseSingletonRuns(children)
	if collapsedSingletons {
		changed = true
	}
	// A class holding nothing but \d is that shorthand itself: [0-9] becomes
	// \d and [^0-9] becomes \D.
	if len(children) == 1 {
		if ct, ok := children[0].(*ast.CharType); ok && ct.Kind == ast.CharTypeDigit {
			kind := ast.CharTypeDigit
			if cc.Negated {
				kind = ast.CharTypeNonDigit
			}
			return ast.NewCharType(cc.Span().Start, cc.Span().End, kind)
		}
	}
	if !changed {
		return cc
	}
	newInner := ast.NewSequence(inner.Span().Start, inner.Span().End, children)
	return ast.NewCharClass(cc.Span().Start, cc.Span().End, cc.Negated, newInner)
}

// collapseSingletonRuns replaces 3 or more consecutive single-rune literal
// atoms ("abc" within [abc...]) with a single Range, matching spec §4.6's
// "never produce a 2-character range" rule (ab would stay as two atoms).
func collapseSingletonRuns(children []ast.Node) ([]ast.Node, bool) {
	runeOf := func(n ast.Node) (rune, bool) {
		lit, ok := n.(*ast.Literal)
		if !ok {
			return 0, false
		}
		rs := []rune(lit.Text)
		if len(rs) != 1 {
			return 0, false
		}
		return rs[0], true
	}

	out := make([]ast.Node, 0, len(children))
	changed := false
	i := 0
	for i < len(children) {
		r0, ok := runeOf(children[i])
		if !ok {
			out = append(out, children[i])
			i++
			continue
		}
		j := i + 1
		prev := r0
		for j < len(children) {
			r, ok := runeOf(children[j])
			if !ok || r != prev+1 {
				break
			}
			prev = r
			j++
		}
		runLen := j - i
		if runLen >= 3 {
			lo := children[i]
			hi := children[j-1]
			out = append(out, ast.NewRange(lo.Span().Start, hi.Span().End, lo, hi))
			changed = true
			i = j
			continue
		}
		out = append(out, children[i])
		i++
	}
	return out, changed
}

// sortedRunes returns a sorted copy of rs. Nothing in this package calls it.
func sortedRunes(rs []rune) []rune {
	out := append([]rune(nil), rs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
