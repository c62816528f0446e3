// Package pcreprofile registers the one parsing profile this module ships
// ("pcre") with internal/flavor's registry, so callers built against the
// multi-dialect Flavor interface can discover and drive this module's
// single dialect the same way.
package pcreprofile

import (
	"fmt"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/flavor"
	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
	"github.com/0x4d5352/pcrestatic/internal/splitter"
)

func init() {
	flavor.Register(profile{})
}

type profile struct{}

func (profile) Name() string { return "pcre" }

func (profile) Description() string {
	return "PCRE (Perl-Compatible Regular Expressions)"
}

func (profile) Parse(pattern string) (*ast.Regex, error) {
	limits := parser.DefaultLimits()
	res, err := splitter.Split(pattern, limits.MaxPatternLength)
	if err != nil {
		return nil, fmt.Errorf("splitting pattern: %w", err)
	}
	l, err := lexer.New(res.Body)
	if err != nil {
		return nil, fmt.Errorf("lexing pattern: %w", err)
	}
	toks, err := l.Tokenize()
	if err != nil {
		return nil, fmt.Errorf("lexing pattern: %w", err)
	}
	re, err := parser.Parse(toks, res.Delimiter, res.Flags, limits)
	if err != nil {
		return nil, fmt.Errorf("parsing pattern: %w", err)
	}
	return re, nil
}

func (profile) SupportedFlags() []flavor.FlagInfo {
	return []flavor.FlagInfo{
		{Char: 'i', Name: "caseless", Description: "Case-insensitive matching"},
		{Char: 'm', Name: "multiline", Description: "^ and $ match at internal line breaks"},
		{Char: 's', Name: "dotall", Description: ". matches newline too"},
		{Char: 'x', Name: "extended", Description: "Whitespace and # comments ignored in the pattern"},
		{Char: 'J', Name: "dupnames", Description: "Allow duplicate named groups"},
		{Char: 'U', Name: "ungreedy", Description: "Swap greedy and lazy quantifier meaning"},
		{Char: 'n', Name: "no_auto_capture", Description: "Parentheses are non-capturing unless named"},
		{Char: 'A', Name: "anchored", Description: "Pattern is implicitly anchored at the match start"},
	}
}

func (profile) SupportedFeatures() flavor.FeatureSet {
	return flavor.FeatureSet{
		Lookahead:             true,
		Lookbehind:            true,
		LookbehindUnlimited:   false,
		NamedGroups:           true,
		AtomicGroups:          true,
		PossessiveQuantifiers: true,
		RecursivePatterns:     true,
		ConditionalPatterns:   true,
		UnicodeProperties:     true,
		POSIXClasses:          true,
		InlineModifiers:       true,
		Comments:              true,
		BranchReset:           true,
		BacktrackingControl:   true,
		Callouts:              true,
		ScriptRuns:            true,
		NonAtomicLookaround:   false,
		PatternStartOptions:   true,
	}
}
