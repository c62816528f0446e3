package explain

import (
	"strings"
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/ast"
	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
)

func parseBody(t *testing.T, body string) *ast.Regex {
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
	return re
}

func TestProseDescribesLiteralAndQuantifier(t *testing.T) {
	re := parseBody(t, "ab+")
	got := Prose(re)
	if !strings.Contains(got, `"a"`) {
		t.Errorf("expected literal a, got %q", got)
	}
	if !strings.Contains(got, "one or more times") {
		t.Errorf("expected quantifier phrase, got %q", got)
	}
}

func TestProseDescribesAlternation(t *testing.T) {
	re := parseBody(t, "cat|dog")
	got := Prose(re)
	if !strings.Contains(got, "either") || !strings.Contains(got, "or") {
		t.Errorf("expected alternation phrasing, got %q", got)
	}
}

func TestProseDescribesNamedGroup(t *testing.T) {
	re := parseBody(t, "(?<word>\\w+)")
	got := Prose(re)
	if !strings.Contains(got, `capture group "word"`) {
		t.Errorf("expected named capture group phrasing, got %q", got)
	}
}

func TestProseEmptyPattern(t *testing.T) {
	re := parseBody(t, "")
	got := Prose(re)
	if got != "matches an empty string." {
		t.Errorf("got %q", got)
	}
}

func TestHTMLWrapsClausesInListItems(t *testing.T) {
	re := parseBody(t, "a<b")
	out := HTML(re)
	if !strings.Contains(out, "<ul") || !strings.Contains(out, "<li>") {
		t.Errorf("expected a <ul>/<li> structure, got %q", out)
	}
	if !strings.Contains(out, "&lt;") {
		t.Errorf("expected the literal < to be escaped, got %q", out)
	}
}
