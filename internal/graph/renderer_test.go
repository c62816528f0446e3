package graph

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

func TestRenderSVGProducesDocument(t *testing.T) {
	re := parseBody(t, "a(bc)+|d[xyz]")
	svg := New(nil).RenderSVG(re)
	if !strings.HasPrefix(svg, "<svg ") {
		t.Fatalf("output does not look like an SVG document: %q", svg[:50])
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("missing closing </svg>")
	}
}

func TestRenderMermaidProducesFlowchart(t *testing.T) {
	re := parseBody(t, "a|b")
	out := RenderMermaid(re)
	if !strings.HasPrefix(out, "flowchart LR") {
		t.Fatalf("output does not start with flowchart directive: %q", out)
	}
	if !strings.Contains(out, "{alt}") {
		t.Error("expected an alternation node in the flowchart")
	}
}
