package redos

import (
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
	"github.com/0x4d5352/pcrestatic/internal/recompiler"
)

func analyze(t *testing.T, body string) Report {
	t.Helper()
	l, err := lexer.New(body)
	if err != nil {
		t.Fatalf("lexer.New(%q): %v", body, err)
	}
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", body, err)
	}
	re, err := parser.Parse(toks, '/', "", parser.DefaultLimits())
	if err != nil {
		t.Fatalf("Parse(%q): %v", body, err)
	}
	return Analyze(re, recompiler.Compile(re), Options{})
}

func TestNestedUnboundedIsCritical(t *testing.T) {
	r := analyze(t, "(a+)+b")
	if r.Severity < High {
		t.Fatalf("severity = %v, want >= high", r.Severity)
	}
}

func TestSingleUnboundedIsNotHigh(t *testing.T) {
	r := analyze(t, "a+b")
	if r.Severity >= High {
		t.Fatalf("severity = %v, want < high", r.Severity)
	}
}

func TestControlVerbDowngradesToSafe(t *testing.T) {
	r := analyze(t, "(a+(*COMMIT))+")
	if r.Severity != Safe {
		t.Fatalf("severity = %v, want safe", r.Severity)
	}
}

func TestIgnoreListOverride(t *testing.T) {
	l, err := lexer.New("(a+)+b")
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	re, err := parser.Parse(toks, '/', "", parser.DefaultLimits())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rendered := recompiler.Compile(re)
	r := Analyze(re, rendered, Options{IgnorePatterns: map[string]bool{rendered: true}})
	if r.Severity != Safe {
		t.Fatalf("severity = %v, want safe (ignore list)", r.Severity)
	}
}

func TestOverlappingAlternationUnderQuantifier(t *testing.T) {
	r := analyze(t, "(a|a)+")
	if r.Severity < High {
		t.Fatalf("severity = %v, want >= high", r.Severity)
	}
}

func TestFindingIDStable(t *testing.T) {
	r1 := analyze(t, "(a+)+b")
	r2 := analyze(t, "(a+)+b")
	if len(r1.Findings) == 0 || len(r2.Findings) == 0 {
		t.Fatal("expected findings")
	}
	if r1.Findings[0].ID != r2.Findings[0].ID {
		t.Errorf("finding IDs not stable across re-analyses: %q vs %q", r1.Findings[0].ID, r2.Findings[0].ID)
	}
}
