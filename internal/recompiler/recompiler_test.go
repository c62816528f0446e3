package recompiler

import (
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
)

func roundTrip(t *testing.T, body string) string {
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
	return Render(re.Body)
}

func TestRoundTripIdentity(t *testing.T) {
	tests := []string{
		"test[a-z]+",
		"a|b",
		"^abc$",
		"(abc)",
		"(?:abc)",
		"(?=abc)",
		"(?<=abc)",
		"(?<name>a)",
		`(a)\1`,
		"(*FAIL)",
		`\d+`,
		`\p{L}`,
		"[[:alpha:]]",
		"(?i:a)",
		`\@name\:`,
		"(*script_run:a)",
		"(*atomic_script_run:(a|b))",
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			got := roundTrip(t, tt)
			if got != tt {
				t.Errorf("round trip = %q, want %q", got, tt)
			}
		})
	}
}

func TestQuantifierBraceCanonicalization(t *testing.T) {
	got := roundTrip(t, "a{ 2 , 3 }")
	if got != "a{2,3}" {
		t.Errorf("got %q, want canonicalized a{2,3}", got)
	}
}

func TestConditionalWithoutElse(t *testing.T) {
	got := roundTrip(t, "(a)(?(1)b)")
	want := "(a)(?(1)b)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
