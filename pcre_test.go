package pcre

import (
	"strings"
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/parser"
	"github.com/0x4d5352/pcrestatic/internal/redos"
)

func TestParseRoundTripsThroughRecompile(t *testing.T) {
	re, err := Parse("/a[b-d]+c/i", parser.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	got := Recompile(re)
	want := "/a[b-d]+c/i"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValidateCatchesDanglingBackreference(t *testing.T) {
	re, err := Parse(`/\1/`, parser.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	result := Validate(re)
	if result.IsValid {
		t.Error("expected invalid result for dangling backreference")
	}
}

func TestParseAndValidateWrapsSemanticError(t *testing.T) {
	_, result, err := ParseAndValidate(`/\1/`, parser.DefaultLimits())
	if err == nil {
		t.Fatal("expected an error")
	}
	if result.IsValid {
		t.Error("expected invalid result")
	}
	if !strings.Contains(err.Error(), "validating pattern") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestOptimizeSimplifiesPattern(t *testing.T) {
	re, err := Parse("/a{1,1}/", parser.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	optimized := Optimize(re)
	if Recompile(optimized) != "/a/" {
		t.Errorf("got %q", Recompile(optimized))
	}
}

func TestAnalyzeReDoSFlagsNestedQuantifiers(t *testing.T) {
	re, err := Parse("/(a+)+b/", parser.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	report := AnalyzeReDoS(re, redos.Options{})
	if report.Severity < redos.High {
		t.Errorf("expected high or critical severity, got %v", report.Severity)
	}
}

func TestComplexityScoresNonzero(t *testing.T) {
	re, err := Parse("/abc/", parser.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	r := Complexity(re)
	if r.Score == 0 {
		t.Error("expected a nonzero complexity score")
	}
}

func TestTokenizeReturnsDelimiterAndFlags(t *testing.T) {
	toks, res, err := Tokenize("/ab/i", parser.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}
	if res.Delimiter != '/' || res.Flags != "i" {
		t.Errorf("got delimiter=%q flags=%q", res.Delimiter, res.Flags)
	}
	if len(toks) == 0 {
		t.Error("expected at least one token")
	}
}
