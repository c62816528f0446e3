package sample

import (
	"regexp"
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

func TestGenerateMatchesLiteral(t *testing.T) {
	re := parseBody(t, "hello")
	got, err := Generate(re, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestGenerateMatchesCharClassAndQuantifier(t *testing.T) {
	re := parseBody(t, `[a-c]+`)
	got, err := Generate(re, 42)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := regexp.MatchString(`^[a-c]+$`, got); !ok {
		t.Errorf("sample %q does not match [a-c]+", got)
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	re := parseBody(t, `\w{3,6}`)
	a, err := Generate(re, 7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(re, 7)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same seed produced different samples: %q vs %q", a, b)
	}
}

func TestGenerateBackreferenceReusesCapture(t *testing.T) {
	re := parseBody(t, `(ab)\1`)
	got, err := Generate(re, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "abab" {
		t.Errorf("got %q, want %q", got, "abab")
	}
}
