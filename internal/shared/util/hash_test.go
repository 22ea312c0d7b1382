package util

import "testing"

func TestHashSessionKeyStable(t *testing.T) {
	a := HashSessionKey("session-1")
	b := HashSessionKey("session-1")
	if a != b {
		t.Fatalf("expected stable hash, got %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashSessionKey("session-2") {
		t.Fatal("expected different sessions to hash differently")
	}
}

func TestSanitizeFileNameBasic(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"cv.pdf", "cv.pdf", false},
		{" cv.docx ", "cv.docx", false},
		{"a/b.txt", "a_b.txt", false},
		{`a\b.txt`, "a_b.txt", false},
		{"../etc/passwd", "", true},
		{"   ", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
