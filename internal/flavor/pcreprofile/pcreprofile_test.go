package pcreprofile

import (
	"testing"

	"github.com/0x4d5352/pcrestatic/internal/flavor"
)

func TestRegistersAsPCRE(t *testing.T) {
	f, ok := flavor.Get("pcre")
	if !ok {
		t.Fatal("expected \"pcre\" to be registered")
	}
	if f.Description() == "" {
		t.Error("expected a non-empty description")
	}
}

func TestParseDelegatesToPipeline(t *testing.T) {
	f, ok := flavor.Get("pcre")
	if !ok {
		t.Fatal("expected \"pcre\" to be registered")
	}
	re, err := f.Parse("/a(b|c)+/i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if re.Flags != "i" {
		t.Errorf("got flags %q, want %q", re.Flags, "i")
	}
}

func TestParseRejectsUnclosedPattern(t *testing.T) {
	f, _ := flavor.Get("pcre")
	_, err := f.Parse("/a(b")
	if err == nil {
		t.Fatal("expected an error for an unclosed delimiter")
	}
}

func TestSupportedFlagsIncludeCaseless(t *testing.T) {
	f, _ := flavor.Get("pcre")
	var found bool
	for _, fi := range f.SupportedFlags() {
		if fi.Char == 'i' {
			found = true
		}
	}
	if !found {
		t.Error("expected 'i' among supported flags")
	}
}

func TestSupportedFeaturesReportLookaround(t *testing.T) {
	f, _ := flavor.Get("pcre")
	feat := f.SupportedFeatures()
	if !feat.Lookahead || !feat.Lookbehind {
		t.Error("expected lookahead and lookbehind support")
	}
}
