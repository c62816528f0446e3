package splitter

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantBody  string
		wantFlags string
		wantErr   string
	}{
		{"simple", "/abc/", "abc", "", ""},
		{"with flags", "/abc/gi", "abc", "gi", "Unknown regex flag(s) found: \"g\""},
		{"recognized flags", "/abc/imsxJUnA", "abc", "imsxJUnA", ""},
		{"paren delimiter", "(abc)", "abc", "", ""},
		{"bracket delimiter", "[abc]", "abc", "", ""},
		{"too short", "/", "", "", "Regex is too short"},
		{"empty", "", "", "", "Regex is too short"},
		{"unclosed", "/abc", "", "", "No closing delimiter `/` found"},
		{"escaped closing delimiter", `/a\/b/`, `a\/b`, "", ""},
		{"unknown flag", "/abc/k", "abc", "", "Unknown regex flag(s) found: \"k\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.raw, 0)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Split(%q) error = %v, want %q", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split(%q) unexpected error: %v", tt.raw, err)
			}
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Flags != tt.wantFlags {
				t.Errorf("Flags = %q, want %q", got.Flags, tt.wantFlags)
			}
		})
	}
}

func TestSplitMaxLength(t *testing.T) {
	_, err := Split("/aaaaaaaaaa/", 5)
	if err == nil || err.Error() != "Regex pattern exceeds maximum length" {
		t.Fatalf("got %v, want max-length error", err)
	}
}
