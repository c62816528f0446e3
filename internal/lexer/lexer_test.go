package lexer

import (
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeScenario1(t *testing.T) {
	l, err := New("test[a-z]+")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 6 {
		t.Fatalf("got %d tokens (%v), want 6 (5 + EOF)", len(toks), toks)
	}
	want := []token.Kind{token.Literal, token.CharClassOpen, token.Range, token.CharClassClose, token.Quantifier, token.EOF}
	got := kinds(toks)
	for i, k := range want {
		if got[i] != k {
			t.Errorf("token %d: got %s, want %s", i, got[i], k)
		}
	}
	if toks[0].Value != "test" {
		t.Errorf("literal = %q, want %q", toks[0].Value, "test")
	}
	if toks[2].Value != "a-z" {
		t.Errorf("range = %q, want %q", toks[2].Value, "a-z")
	}
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		kinds []token.Kind
	}{
		{"alternation", "a|b", []token.Kind{token.Literal, token.Alternation, token.Literal, token.EOF}},
		{"anchors", "^abc$", []token.Kind{token.Anchor, token.Literal, token.Anchor, token.EOF}},
		{"group", "(abc)", []token.Kind{token.GroupOpen, token.Literal, token.GroupClose, token.EOF}},
		{"non-capturing", "(?:abc)", []token.Kind{token.GroupModifierOpen, token.Literal, token.Literal, token.GroupClose, token.EOF}},
		{"lookahead", "(?=abc)", []token.Kind{token.GroupModifierOpen, token.Literal, token.Literal, token.GroupClose, token.EOF}},
		{"lookbehind", "(?<=abc)", []token.Kind{token.GroupModifierOpen, token.Literal, token.Literal, token.GroupClose, token.EOF}},
		{"named group angle", "(?<name>a)", []token.Kind{token.GroupModifierOpen, token.Literal, token.Literal, token.GroupClose, token.EOF}},
		{"recursion", "(?R)", []token.Kind{token.GroupModifierOpen, token.Literal, token.GroupClose, token.EOF}},
		{"subroutine by name", "(?&name)", []token.Kind{token.GroupModifierOpen, token.Literal, token.GroupClose, token.EOF}},
		{"inline flags scoped", "(?i:a)", []token.Kind{token.GroupModifierOpen, token.Literal, token.Literal, token.Literal, token.GroupClose, token.EOF}},
		{"branch reset", "(?|a|b)", []token.Kind{token.GroupModifierOpen, token.Alternation, token.Literal, token.Alternation, token.Literal, token.GroupClose, token.EOF}},
		{"backref", `(a)\1`, []token.Kind{token.GroupOpen, token.Literal, token.GroupClose, token.Backref, token.EOF}},
		{"quote mode", `\Qa.b\E`, []token.Kind{token.QuoteStart, token.QuoteBody, token.QuoteEnd, token.EOF}},
		{"comment", "(?#hi)", []token.Kind{token.CommentOpen, token.CommentBody, token.GroupClose, token.EOF}},
		{"verb", "(*FAIL)", []token.Kind{token.Verb, token.EOF}},
		{"dot quantifier", ".*", []token.Kind{token.Dot, token.Quantifier, token.EOF}},
		{"brace quantifier", "a{2,3}", []token.Kind{token.Literal, token.Quantifier, token.EOF}},
		{"lazy quantifier", "a*?", []token.Kind{token.Literal, token.Quantifier, token.EOF}},
		{"char type", `\d+`, []token.Kind{token.CharType, token.Quantifier, token.EOF}},
		{"keep", `a\Kb`, []token.Kind{token.Literal, token.Keep, token.Literal, token.EOF}},
		{"assertion", `\bword\b`, []token.Kind{token.Assertion, token.Literal, token.Assertion, token.EOF}},
		{"posix class", "[[:alpha:]]", []token.Kind{token.CharClassOpen, token.PosixClass, token.CharClassClose, token.EOF}},
		{"negated class", "[^a]", []token.Kind{token.CharClassOpen, token.Negation, token.Literal, token.CharClassClose, token.EOF}},
		{"unicode property", `\p{L}`, []token.Kind{token.UnicodeProperty, token.EOF}},
		{"hex escape", `\x41`, []token.Kind{token.Unicode, token.EOF}},
		{"brace hex escape", `\x{1F600}`, []token.Kind{token.Unicode, token.EOF}},
		{"named backref angle", `\k<name>`, []token.Kind{token.Backref, token.EOF}},
		{"gref", `\g{1}`, []token.Kind{token.GRef, token.EOF}},
		{"callout", "(?C1)", []token.Kind{token.Callout, token.EOF}},
		{"escaped meta", `\@`, []token.Kind{token.EscapedLiteral, token.EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.body)
			if err != nil {
				t.Fatalf("New(%q): %v", tt.body, err)
			}
			toks, err := l.Tokenize()
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.body, err)
			}
			got := kinds(toks)
			if len(got) != len(tt.kinds) {
				t.Fatalf("Tokenize(%q) = %v, want kinds %v", tt.body, toks, tt.kinds)
			}
			for i, k := range tt.kinds {
				if got[i] != k {
					t.Errorf("Tokenize(%q) token %d = %s, want %s (full: %v)", tt.body, i, got[i], k, toks)
				}
			}
		})
	}
}

func TestInvalidUTF8(t *testing.T) {
	_, err := New("\xff\xfe")
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if err.Error() != "Input string is not valid UTF-8" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestTrailingBackslash(t *testing.T) {
	l, err := New(`abc\`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = l.Tokenize()
	if err == nil {
		t.Fatal("expected lexical error for trailing backslash")
	}
	if got := err.Error(); got != "Unable to tokenize at position 3" {
		t.Errorf("got %q", got)
	}
}

func TestUnclosedCharClass(t *testing.T) {
	l, err := New(`[abc`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = l.Tokenize()
	if err == nil {
		t.Fatal("expected lexical error for unclosed class")
	}
}

func TestUnclosedComment(t *testing.T) {
	l, err := New(`(?#hello`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = l.Tokenize()
	if err == nil {
		t.Fatal("expected lexical error for unclosed comment")
	}
	if got := err.Error(); got != "Unclosed comment ')' at end of input at position 8" {
		t.Errorf("got %q", got)
	}
}

func TestReset(t *testing.T) {
	l, err := New("abc")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := l.Tokenize(); err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if err := l.Reset("def|ghi"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	toks, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize after reset: %v", err)
	}
	want := []token.Kind{token.Literal, token.Alternation, token.Literal, token.EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want kinds %v", toks, want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Errorf("token %d = %s, want %s", i, got[i], k)
		}
	}
}
