package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies how an uploaded document's bytes are structured.
type Format string

const (
	FormatText Format = "text"
	FormatWord Format = "word-document"
	FormatPDF  Format = "pdf"
)

// ParseFormat validates a declared format tag.
func ParseFormat(tag string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(tag))) {
	case FormatText:
		return FormatText, nil
	case FormatWord:
		return FormatWord, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
	}
}

// FormatForFile maps a file name to a format by extension. Dispatch is by
// declared name only; the content is never sniffed, so a mislabeled file
// fails later inside the format's parser.
func FormatForFile(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return FormatText, nil
	case ".docx":
		return FormatWord, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: file %q", ErrUnsupportedFormat, name)
	}
}
