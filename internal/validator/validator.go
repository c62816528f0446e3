// Package validator walks a parsed AST enforcing the cross-cutting semantic
// rules a recursive-descent parser cannot check locally: backreference and
// subroutine existence, named-group uniqueness, range ordering, callout
// argument ranges, and the lookbehind fixed-length rule.
package validator

import (
	"fmt"
	"sync"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

// Error reports a semantic failure with a byte position in the pattern body.
type Error struct {
	Message  string
	Position int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at position %d", e.Message, e.Position)
}

// Result is the structured outcome of Validate (spec §7's {isValid, error,
// position} contract).
type Result struct {
	IsValid  bool
	Message  string
	Position int
}

// knownUnicodeProperties is the recognized set of Unicode general-category
// and script property names; validated names are memoized process-wide
// since the same property name recurs across many patterns (spec §4.4,
// §9).
var (
	knownUnicodeProperties = map[string]bool{
		"L": true, "Lu": true, "Ll": true, "Lt": true, "Lm": true, "Lo": true,
		"M": true, "Mn": true, "Mc": true, "Me": true,
		"N": true, "Nd": true, "Nl": true, "No": true,
		"P": true, "Pc": true, "Pd": true, "Ps": true, "Pe": true, "Pi": true, "Pf": true, "Po": true,
		"S": true, "Sm": true, "Sc": true, "Sk": true, "So": true,
		"Z": true, "Zs": true, "Zl": true, "Zp": true,
		"C": true, "Cc": true, "Cf": true, "Co": true, "Cs": true, "Cn": true,
		"Latin": true, "Greek": true, "Cyrillic": true, "Han": true, "Hiragana": true, "Katakana": true,
		"Arabic": true, "Hebrew": true, "Common": true,
	}
	propCache   = map[string]bool{}
	propCacheMu sync.RWMutex
)

func isKnownProperty(name string) bool {
	propCacheMu.RLock()
	if v, ok := propCache[name]; ok {
		propCacheMu.RUnlock()
		return v
	}
	propCacheMu.RUnlock()

	v := knownUnicodeProperties[name]
	propCacheMu.Lock()
	propCache[name] = v
	propCacheMu.Unlock()
	return v
}

// Validate runs the single semantic pass over re and returns a structured
// result; it never returns a Go error (unlike the package-level entry
// points used by the parser/lexer, which propagate).
func Validate(re *ast.Regex) Result {
	v := newValidator(re.Flags)
	defer func() {
		if r := recover(); r != nil {
			// defensive: a malformed AST should never reach here in
			// practice, since only this package's own parser produces ASTs.
		}
	}()
	if err := v.collectGroups(re.Body); err != nil {
		return Result{IsValid: false, Message: err.Error(), Position: errPosition(err)}
	}
	if err := v.check(re.Body); err != nil {
		return Result{IsValid: false, Message: err.Error(), Position: errPosition(err)}
	}
	return Result{IsValid: true}
}

func errPosition(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Position
	}
	return -1
}

type groupDecl struct {
	number int
	flagsJ bool
}

type validator struct {
	topFlagJ     bool
	names        map[string][]groupDecl
	maxNumber    int
	byNumber     map[int]bool
	flagStack    []flagState
}

type flagState struct {
	dupNames bool
}

func newValidator(flags string) *validator {
	hasJ := false
	for i := 0; i < len(flags); i++ {
		if flags[i] == 'J' {
			hasJ = true
		}
	}
	return &validator{
		topFlagJ:  hasJ,
		names:     map[string][]groupDecl{},
		byNumber:  map[int]bool{},
		flagStack: []flagState{{dupNames: hasJ}},
	}
}

func (v *validator) currentJ() bool {
	return v.flagStack[len(v.flagStack)-1].dupNames
}

// collectGroups walks the tree once, recording every capturing group's
// number and name so backreference/subroutine existence checks (which may
// refer to a group declared later in the pattern) have full information.
func (v *validator) collectGroups(n ast.Node) error {
	if n == nil {
		return nil
	}
	switch node := n.(type) {
	case *ast.Group:
		if node.Kind == ast.GroupInlineFlags {
			v.pushFlags(node.Flags)
			err := v.collectGroups(node.Child)
			v.popFlags()
			return err
		}
		if node.Number > 0 {
			v.byNumber[node.Number] = true
			if node.Number > v.maxNumber {
				v.maxNumber = node.Number
			}
		}
		if node.Kind == ast.GroupNamed {
			decl := groupDecl{number: node.Number, flagsJ: v.currentJ()}
			if existing, ok := v.names[node.Name]; ok && !decl.flagsJ {
				_ = existing
				return &Error{Message: fmt.Sprintf("Duplicate group name `%s`", node.Name), Position: node.Span().Start}
			}
			v.names[node.Name] = append(v.names[node.Name], decl)
		}
		return v.collectGroups(node.Child)
	case *ast.Sequence:
		for _, c := range node.Children {
			if err := v.collectGroups(c); err != nil {
				return err
			}
		}
		return nil
	case *ast.Alternation:
		for _, b := range node.Branches {
			if err := v.collectGroups(b); err != nil {
				return err
			}
		}
		return nil
	case *ast.Quantifier:
		return v.collectGroups(node.Target)
	case *ast.CharClass:
		return nil
	case *ast.Conditional:
		if err := v.collectGroups(node.Condition); err != nil {
			return err
		}
		if err := v.collectGroups(node.Then); err != nil {
			return err
		}
		return v.collectGroups(node.Else)
	}
	return nil
}

func (v *validator) pushFlags(delta *ast.FlagDelta) {
	cur := v.currentJ()
	if delta != nil {
		for _, c := range delta.Set {
			if c == 'J' {
				cur = true
			}
		}
		for _, c := range delta.Clear {
			if c == 'J' {
				cur = false
			}
		}
	}
	v.flagStack = append(v.flagStack, flagState{dupNames: cur})
}

func (v *validator) popFlags() {
	v.flagStack = v.flagStack[:len(v.flagStack)-1]
}

// check performs the rule checks that need only forward information
// (backreference/subroutine existence against the group counts already
// collected, plus purely-local rules like range ordering and callout
// bounds).
func (v *validator) check(n ast.Node) error {
	if n == nil {
		return nil
	}
	switch node := n.(type) {
	case *ast.Sequence:
		for _, c := range node.Children {
			if err := v.check(c); err != nil {
				return err
			}
		}
	case *ast.Alternation:
		for _, b := range node.Branches {
			if err := v.check(b); err != nil {
				return err
			}
		}
	case *ast.Quantifier:
		return v.check(node.Target)
	case *ast.Group:
		if node.Kind == ast.GroupLookbehindPositive || node.Kind == ast.GroupLookbehindNegative {
			if _, variable, text := lengthOf(node.Child); variable {
				msg := "Variable-length quantifiers are not allowed in lookbehinds"
				if text != "" {
					msg = fmt.Sprintf("Variable-length quantifiers (%s) are not allowed in lookbehinds", text)
				}
				return &Error{Message: msg, Position: node.Span().Start}
			}
		}
		return v.check(node.Child)
	case *ast.Conditional:
		if err := v.check(node.Condition); err != nil {
			return err
		}
		if err := v.check(node.Then); err != nil {
			return err
		}
		return v.check(node.Else)
	case *ast.CharClass:
		return v.checkCharClass(node)
	case *ast.Backref:
		return v.checkBackref(node)
	case *ast.Subroutine:
		return v.checkSubroutine(node)
	case *ast.Callout:
		return v.checkCallout(node)
	case *ast.UnicodeProp:
		if !isKnownProperty(node.Name) {
			return &Error{Message: fmt.Sprintf("Unknown Unicode property `%s`", node.Name), Position: node.Span().Start}
		}
	}
	return nil
}

func (v *validator) checkCharClass(cc *ast.CharClass) error {
	inner, ok := cc.Inner.(*ast.Sequence)
	if !ok {
		return nil
	}
	for _, child := range inner.Children {
		switch node := child.(type) {
		case *ast.Range:
			lo := codepointOf(node.Start)
			hi := codepointOf(node.End)
			if lo > hi {
				return &Error{Message: fmt.Sprintf("Invalid range \"%s-%s\"", textOf(node.Start), textOf(node.End)), Position: node.Span().Start}
			}
		case *ast.CharType:
			if node.Kind == ast.CharTypeNewlineSeq {
				return &Error{Message: "`\\R` is not allowed inside a character class", Position: node.Span().Start}
			}
		}
	}
	return nil
}

func codepointOf(n ast.Node) rune {
	switch v := n.(type) {
	case *ast.Literal:
		for _, r := range v.Text {
			return r
		}
	case *ast.CharLiteral:
		return v.Codepoint
	}
	return 0
}

func textOf(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Literal:
		return v.Text
	case *ast.CharLiteral:
		return v.Raw
	}
	return ""
}

func (v *validator) checkBackref(b *ast.Backref) error {
	switch b.Form {
	case ast.BackrefNumber, ast.BackrefGNumber:
		n := b.Number
		if n < 0 {
			n = v.maxNumber + n + 1
		}
		if n < 1 || n > v.maxNumber || !v.byNumber[n] {
			return &Error{Message: fmt.Sprintf("Backreference to non-existent group: %s", b.Text), Position: b.Span().Start}
		}
	case ast.BackrefKAngle, ast.BackrefKBrace, ast.BackrefKQuote:
		if _, ok := v.names[b.Name]; !ok {
			return &Error{Message: fmt.Sprintf("Backreference to non-existent group: %s", b.Name), Position: b.Span().Start}
		}
	}
	return nil
}

func (v *validator) checkSubroutine(s *ast.Subroutine) error {
	if s.WholePattern {
		return nil
	}
	switch s.Marker {
	case ast.SubroutineAmp, ast.SubroutinePGT:
		if _, ok := v.names[s.TargetName]; !ok {
			return &Error{Message: fmt.Sprintf("Subroutine call to non-existent group: %s", s.TargetName), Position: s.Span().Start}
		}
	case ast.SubroutineG:
		if s.TargetName != "" {
			if _, ok := v.names[s.TargetName]; !ok {
				return &Error{Message: fmt.Sprintf("Subroutine call to non-existent group: %s", s.TargetName), Position: s.Span().Start}
			}
			return nil
		}
		if !v.byNumber[s.TargetNumber] {
			return &Error{Message: fmt.Sprintf("Subroutine call to non-existent group: %d", s.TargetNumber), Position: s.Span().Start}
		}
	case ast.SubroutinePlain:
		if s.TargetName == "DEFINE" {
			return nil
		}
		if !v.byNumber[s.TargetNumber] {
			return &Error{Message: fmt.Sprintf("Subroutine call to non-existent group: %d", s.TargetNumber), Position: s.Span().Start}
		}
	}
	return nil
}

func (v *validator) checkCallout(c *ast.Callout) error {
	switch c.Kind {
	case ast.CalloutNumeric:
		if c.Number < 0 || c.Number > 255 {
			return &Error{Message: "Callout identifier out of range", Position: c.Span().Start}
		}
	case ast.CalloutString, ast.CalloutBareName:
		if c.Text == "" {
			return &Error{Message: "Empty callout string", Position: c.Span().Start}
		}
	}
	return nil
}

// lengthOf computes whether n's matched length is fixed, returning the
// fixed length (meaningless when variable is true).
// lengthOf computes the fixed match length of n, or reports that it is
// variable. When variability is caused by a quantifier with Min != Max,
// text carries that quantifier's literal source text (e.g. "+", "{2,4}")
// so a caller can name the offending construct in an error message; it is
// empty when variability comes from something else (a backref/subroutine,
// or mismatched alternation branch lengths).
func lengthOf(n ast.Node) (length int, variable bool, text string) {
	switch v := n.(type) {
	case *ast.Literal:
		return len([]rune(v.Text)), false, ""
	case *ast.CharLiteral, *ast.Dot, *ast.CharType, *ast.UnicodeProp, *ast.PosixClass, *ast.CharClass:
		return 1, false, ""
	case *ast.Anchor, *ast.Assertion, *ast.Keep, *ast.Comment, *ast.Verb, *ast.Callout:
		return 0, false, ""
	case *ast.Sequence:
		total := 0
		for _, c := range v.Children {
			l, varying, t := lengthOf(c)
			if varying {
				return 0, true, t
			}
			total += l
		}
		return total, false, ""
	case *ast.Alternation:
		var first int
		for i, b := range v.Branches {
			l, varying, t := lengthOf(b)
			if varying {
				return 0, true, t
			}
			if i == 0 {
				first = l
			} else if l != first {
				return 0, true, ""
			}
		}
		return first, false, ""
	case *ast.Group:
		return lengthOf(v.Child)
	case *ast.Quantifier:
		if v.Min != v.Max {
			return 0, true, v.Text
		}
		l, varying, t := lengthOf(v.Target)
		if varying {
			return 0, true, t
		}
		return l * v.Min, false, ""
	case *ast.Backref, *ast.Subroutine:
		return 0, true, ""
	}
	return 0, true, ""
}
