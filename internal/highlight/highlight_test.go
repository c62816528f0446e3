package highlight

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

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

func TestSpansCoverLiteralAndCharClass(t *testing.T) {
	re := parseBody(t, `ab[cd]`)
	spans := Spans(re)
	var sawLiteral, sawClass bool
	for _, s := range spans {
		if s.Category == "literal" {
			sawLiteral = true
		}
		if s.Category == "charclass" {
			sawClass = true
		}
	}
	if !sawLiteral || !sawClass {
		t.Errorf("expected literal and charclass spans, got %+v", spans)
	}
}

func TestHTMLEscapesAndWraps(t *testing.T) {
	re := parseBody(t, `a<b`)
	spans := Spans(re)
	out := HTML("a<b", spans)
	if !strings.Contains(out, `<span class="hl-literal">`) {
		t.Errorf("expected literal span wrapper, got %q", out)
	}
	if !strings.Contains(out, "&lt;") {
		t.Errorf("expected escaped <, got %q", out)
	}
}

func TestANSIWithAsciiProfileProducesPlainText(t *testing.T) {
	re := parseBody(t, `abc`)
	spans := Spans(re)
	out := ANSI("abc", spans, DefaultTheme(), termenv.Ascii)
	if !strings.Contains(out, "abc") {
		t.Errorf("expected source text preserved, got %q", out)
	}
}

func TestPositionIndicatorPlacesCaret(t *testing.T) {
	out := PositionIndicator("abc", 1)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasSuffix(lines[1], "^") {
		t.Errorf("expected caret on second line, got %q", lines[1])
	}
}

func TestCopyToClipboardSequenceWrapsOSC52(t *testing.T) {
	seq := CopyToClipboardSequence("hello")
	if !strings.Contains(seq, "\x1b]52") {
		t.Errorf("expected OSC52 escape prefix, got %q", seq)
	}
}
