package validator

import (
	"strings"
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/lexer"
	"github.com/0x4d5352/pcrestatic/internal/parser"
)

func validateBody(t *testing.T, body string) Result {
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
	return Validate(re)
}

func TestValidBackreference(t *testing.T) {
	r := validateBody(t, `(a)\1`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestDanglingBackreference(t *testing.T) {
	r := validateBody(t, `(a)\2`)
	if r.IsValid {
		t.Fatal("want invalid for backreference to non-existent group")
	}
}

func TestNamedBackreferenceExists(t *testing.T) {
	r := validateBody(t, `(?<foo>a)\k<foo>`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestNamedBackreferenceMissing(t *testing.T) {
	r := validateBody(t, `\k<foo>(?<bar>a)`)
	if r.IsValid {
		t.Fatal("want invalid for unknown group name")
	}
}

func TestLookbehindFixedLength(t *testing.T) {
	r := validateBody(t, `(?<=abc)x`)
	if !r.IsValid {
		t.Fatalf("want valid fixed-length lookbehind, got %+v", r)
	}
}

func TestLookbehindVariableLength(t *testing.T) {
	r := validateBody(t, `(?<=a+)x`)
	if r.IsValid {
		t.Fatal("want invalid for variable-length lookbehind")
	}
	const want = "Variable-length quantifiers (+) are not allowed in lookbehinds"
	if !strings.Contains(r.Message, want) {
		t.Errorf("got message %q, want it to contain %q", r.Message, want)
	}
}

func TestLookbehindBoundedQuantifierIsFixed(t *testing.T) {
	r := validateBody(t, `(?<=a{3})x`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestRangeOrdering(t *testing.T) {
	r := validateBody(t, `[a-z]`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestInvalidRangeOrder(t *testing.T) {
	r := validateBody(t, `[z-a]`)
	if r.IsValid {
		t.Fatal("want invalid for descending range")
	}
}

func TestDuplicateGroupNameRejected(t *testing.T) {
	r := validateBody(t, `(?<foo>a)(?<foo>b)`)
	if r.IsValid {
		t.Fatal("want invalid for duplicate group name without J flag")
	}
}

func TestCalloutNumberRange(t *testing.T) {
	r := validateBody(t, `(?C255)a`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestCharTypeOutsideClassIsValid(t *testing.T) {
	r := validateBody(t, `\d`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestSubroutineToExistingGroup(t *testing.T) {
	r := validateBody(t, `(?<foo>a)(?&foo)`)
	if !r.IsValid {
		t.Fatalf("want valid, got %+v", r)
	}
}

func TestSubroutineToMissingGroup(t *testing.T) {
	r := validateBody(t, `(?&foo)`)
	if r.IsValid {
		t.Fatal("want invalid for subroutine call to undefined name")
	}
}
