package util

import (
	"errors"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"cv.pdf", "cv.pdf", false},
		{"  cv.pdf  ", "cv.pdf", false},
		{"dir/cv.pdf", "dir_cv.pdf", false},
		{`dir\cv.pdf`, "dir_cv.pdf", false},
		{"../../etc/passwd", "", true},
		{"..", "", true},
		{"   ", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.name)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsafeFileName) {
				t.Errorf("SanitizeFileName(%q): expected ErrUnsafeFileName, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizeFileName(%q): unexpected error %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
