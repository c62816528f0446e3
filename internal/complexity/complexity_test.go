package complexity

import (
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
)

func score(t *testing.T, body string) Report {
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
	return Score(re)
}

func TestNestedQuantifiersScoreHigherThanFlat(t *testing.T) {
	flat := score(t, "a+b+")
	nested := score(t, "(a+)+")
	if nested.Score <= flat.Score {
		t.Errorf("nested score %d should exceed flat score %d", nested.Score, flat.Score)
	}
}

func TestLiteralIsCheap(t *testing.T) {
	r := score(t, "abc")
	// "abc" parses to a single Literal node.
	if r.Score != weightLiteral {
		t.Errorf("got %d, want %d", r.Score, weightLiteral)
	}
}

func TestBreakdownAttributesCategories(t *testing.T) {
	r := score(t, `(a)\1`)
	if r.Breakdown["backref"] == 0 {
		t.Error("expected backref category in breakdown")
	}
	if r.Breakdown["group"] == 0 {
		t.Error("expected group category in breakdown")
	}
}
