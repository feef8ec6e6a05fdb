package security

import (
	"strings"
	"testing"
	"unicode"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain filename unchanged", in: "report.pdf", want: "report.pdf"},
		{name: "underscores and dashes kept", in: "my_file-v2.txt", want: "my_file-v2.txt"},
		{name: "path traversal flattened", in: "../../etc/passwd", want: "_.._etc_passwd"},
		{name: "backslash traversal flattened", in: "..\\..\\secret", want: "_.._secret"},
		{name: "absolute path flattened", in: "/etc/shadow", want: "_etc_shadow"},
		{name: "leading dot stripped", in: ".hidden", want: "hidden"},
		{name: "multiple leading dots stripped", in: "...config", want: "config"},
		{name: "dot-dot alone becomes empty", in: "..", want: ""},
		{name: "only dots becomes empty", in: ".....", want: ""},
		{name: "empty input", in: "", want: ""},
		{name: "spaces replaced", in: "my file (1).txt", want: "my_file__1_.txt"},
		{name: "null byte replaced", in: "file\x00.txt", want: "file_.txt"},
		{name: "shell metacharacters replaced", in: "a;b|c&d$e", want: "a_b_c_d_e"},
		{name: "unicode letters kept", in: "データ.txt", want: "データ.txt"},
		{name: "unicode digits kept", in: "٣٢١.csv", want: "٣٢١.csv"},
		{name: "emoji replaced", in: "🙂.txt", want: "_.txt"},
		{name: "windows drive flattened", in: "C:\\temp\\x", want: "C__temp_x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{"report.pdf", "../../etc/passwd", ".hidden", "データ.txt", "a b c"}
	for _, in := range inputs {
		once := SanitizeName(in)
		twice := SanitizeName(once)
		if once != twice {
			t.Errorf("SanitizeName not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

// FuzzSanitizeName checks the sanitizer invariants against arbitrary input.
// Run with: go test -fuzz=FuzzSanitizeName -fuzztime=30s ./internal/security/
func FuzzSanitizeName(f *testing.F) {
	// Seed corpus with known attack vectors
	seedCorpus := []string{
		"../../../etc/passwd",
		"..\\..\\..\\etc\\passwd",
		"....//....//etc/passwd",
		"/tmp/safe.txt\x00/etc/passwd",
		"..%2f..%2f..%2fetc%2fpasswd",
		"..／..／etc/passwd", // fullwidth solidus
		".hidden",
		"...",
		"",
		"~root",
		"CON",
		"file\r\n.txt",
		"データ.txt",
		"🙂🙂🙂",
	}
	for _, seed := range seedCorpus {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		got := SanitizeName(input)

		if strings.HasPrefix(got, ".") {
			t.Errorf("SanitizeName(%q) = %q starts with a dot", input, got)
		}
		if strings.ContainsAny(got, "/\\") {
			t.Errorf("SanitizeName(%q) = %q contains a path separator", input, got)
		}
		for _, r := range got {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
				t.Errorf("SanitizeName(%q) = %q contains disallowed rune %q", input, got, r)
			}
		}
		if again := SanitizeName(got); again != got {
			t.Errorf("SanitizeName(%q) not idempotent: %q -> %q", input, got, again)
		}
	})
}
