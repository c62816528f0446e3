// Package pcre is the public entry point for static analysis of PCRE
// patterns. It composes the internal pipeline (splitter, lexer, parser,
// validator) and the secondary visitors (recompiler, optimizer, redos,
// complexity) behind a handful of plain functions. Like
// internal/flavor.Flavor it offers Parse and SupportedFlags; it has no
// SupportedFeatures and no interface type.
package pcre

import (
	"fmt"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/complexity"
	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/optimizer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
	"github.com/0x4d5352/pcrestatic/internal/recompiler"
	"github.com/0x4d5352/pcrestatic/internal/redos"
	"github.com/0x4d5352/pcrestatic/internal/splitter"
	"github.com/0x4d5352/pcrestatic/internal/token"
	"github.com/0x4d5352/pcrestatic/internal/validator"
)

// SupportedFlags lists the single-letter pattern modifiers this dialect
// recognizes.
func SupportedFlags() string { return "imsxJUnA" }

// Description names the dialect this package analyzes.
func Description() string { return "PCRE (Perl-Compatible Regular Expressions)" }

// Tokenize splits raw into delimiter/body/flags and lexes the body into a
// token stream, without parsing it into an AST.
func Tokenize(raw string, limits parser.Limits) ([]token.Token, splitter.Result, error) {
	res, err := splitter.Split(raw, limits.MaxPatternLength)
	if err != nil {
		return nil, splitter.Result{}, fmt.Errorf("splitting pattern: %w", err)
	}
	l, err := lexer.New(res.Body)
	if err != nil {
		return nil, res, fmt.Errorf("lexing pattern: %w", err)
	}
	toks, err := l.Tokenize()
	if err != nil {
		return nil, res, fmt.Errorf("lexing pattern: %w", err)
	}
	return toks, res, nil
}

// Parse splits, lexes, and parses raw into an AST. limits bounds resource
// consumption; use parser.DefaultLimits() for interactive use.
func Parse(raw string, limits parser.Limits) (*ast.Regex, error) {
	toks, res, err := Tokenize(raw, limits)
	if err != nil {
		return nil, err
	}
	re, err := parser.Parse(toks, res.Delimiter, res.Flags, limits)
	if err != nil {
		return nil, fmt.Errorf("parsing pattern: %w", err)
	}
	return re, nil
}

// Validate runs semantic checks (backreference/subroutine existence,
// lookbehind fixed-length, duplicate names, range ordering, callout
// arguments, Unicode property names) over a parsed pattern.
func Validate(re *ast.Regex) validator.Result {
	return validator.Validate(re)
}

// Recompile renders re back to delimiter-wrapped source text.
func Recompile(re *ast.Regex) string {
	return recompiler.Compile(re)
}

// Optimize returns a structurally simplified copy of re (or re itself, by
// pointer identity, when nothing was rewritten).
func Optimize(re *ast.Regex) *ast.Regex {
	return optimizer.Optimize(re)
}

// AnalyzeReDoS runs the heuristic backtracking-risk analyzer over re.
func AnalyzeReDoS(re *ast.Regex, opts redos.Options) redos.Report {
	rendered := recompiler.Compile(re)
	return redos.Analyze(re, rendered, opts)
}

// Complexity scores re with the weighted AST-walk complexity scorer.
func Complexity(re *ast.Regex) complexity.Report {
	return complexity.Score(re)
}

// ParseAndValidate is a convenience wrapper combining Parse and Validate,
// returning a semantic error as the go error value (in addition to the
// richer validator.Result) so callers that only care about pass/fail can
// use the two-value idiom.
func ParseAndValidate(raw string, limits parser.Limits) (*ast.Regex, validator.Result, error) {
	re, err := Parse(raw, limits)
	if err != nil {
		return nil, validator.Result{}, err
	}
	result := Validate(re)
	if !result.IsValid {
		return re, result, fmt.Errorf("validating pattern: %s at position %d", result.Message, result.Position)
	}
	return re, result, nil
}
