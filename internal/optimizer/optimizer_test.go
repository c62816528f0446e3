package optimizer

import (
	"testing"

	"github.com/dlclark/regexp2"

	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
	"github.com/0x4d5352/pcrestatic/internal/recompiler"
)

func optimize(t *testing.T, body string) string {
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
	return recompiler.Render(Optimize(re).Body)
}

func TestMergeAdjacentLiterals(t *testing.T) {
	got := optimize(t, `a\-b`)
	if got != "a-b" {
		t.Errorf("got %q, want merged literal a-b", got)
	}
}

func TestDigitRangeToShorthand(t *testing.T) {
	got := optimize(t, "[0-9]")
	if got != `\d` {
		t.Errorf("got %q, want \\d", got)
	}
}

func TestTrivialQuantifierCollapse(t *testing.T) {
	got := optimize(t, "a{1,1}")
	if got != "a" {
		t.Errorf("got %q, want bare a", got)
	}
}

func TestSingletonRunCollapsesToRange(t *testing.T) {
	got := optimize(t, "[abc]")
	if got != "[a-c]" {
		t.Errorf("got %q, want [a-c]", got)
	}
}

func TestTwoCharRunStaysAtoms(t *testing.T) {
	got := optimize(t, "[ab]")
	if got != "[ab]" {
		t.Errorf("got %q, want [ab] unchanged (no 2-char range)", got)
	}
}

func TestAlternationToCharClass(t *testing.T) {
	got := optimize(t, "a|b|c")
	if got != "[abc]" {
		t.Errorf("got %q, want [abc]", got)
	}
}

func TestIdentityWhenNothingToOptimize(t *testing.T) {
	got := optimize(t, `\d+`)
	if got != `\d+` {
		t.Errorf("got %q, want unchanged", got)
	}
}

// probeStrings is a fixed corpus used to cross-check that optimizing a
// pattern never changes which strings it matches.
var probeStrings = []string{"", "a", "b", "c", "ab", "abc", "0", "9", "5", "aaa", "ac", "a-b", "xyz"}

// TestOptimizerPreservesMatchSemantics compiles the pre- and post-optimize
// forms of each body with regexp2 and confirms they agree on every probe
// string. This only exercises patterns regexp2 itself accepts; the library
// core never depends on a regex engine (it does not execute matches).
func TestOptimizerPreservesMatchSemantics(t *testing.T) {
	bodies := []string{`a\-b`, "[0-9]", "a{1,1}", "[abc]", "[ab]", "a|b|c", `\d+`}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			before := body
			after := optimize(t, body)

			beforeRe, err := regexp2.Compile(before, regexp2.None)
			if err != nil {
				t.Skipf("regexp2 cannot compile %q: %v", before, err)
			}
			afterRe, err := regexp2.Compile(after, regexp2.None)
			if err != nil {
				t.Fatalf("regexp2 cannot compile optimized form %q: %v", after, err)
			}

			for _, probe := range probeStrings {
				b, err := beforeRe.MatchString(probe)
				if err != nil {
					t.Fatalf("matching %q against %q: %v", probe, before, err)
				}
				a, err := afterRe.MatchString(probe)
				if err != nil {
					t.Fatalf("matching %q against %q: %v", probe, after, err)
				}
				if a != b {
					t.Errorf("probe %q: %q matched=%v but optimized %q matched=%v", probe, before, b, after, a)
				}
			}
		})
	}
}
