package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTextEmptyInput(t *testing.T) {
	for _, format := range []Format{FormatText, FormatWord, FormatPDF} {
		got, err := Text(context.Background(), nil, format)
		if err != nil {
			t.Fatalf("Text(%s) empty input: unexpected error %v", format, err)
		}
		if got != "" {
			t.Fatalf("Text(%s) empty input: got %q, want empty", format, got)
		}
	}
}

func TestTextUnsupportedFormat(t *testing.T) {
	_, err := Text(context.Background(), []byte("hello"), Format("spreadsheet"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestTextPlain(t *testing.T) {
	got, err := Text(context.Background(), []byte("John Doe\nSoftware Engineer"), FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "John Doe\nSoftware Engineer" {
		t.Fatalf("got %q", got)
	}
}

func TestTextStripsUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("résumé")...)
	got, err := Text(context.Background(), data, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "résumé" {
		t.Fatalf("got %q, want %q", got, "résumé")
	}
}

func TestTextDecodesUTF16(t *testing.T) {
	// "Hi" in UTF-16LE with BOM.
	data := []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00}
	got, err := Text(context.Background(), data, FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hi" {
		t.Fatalf("got %q, want %q", got, "Hi")
	}
}

func TestTextDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>John Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior Developer</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, doc)

	got, err := Text(context.Background(), data, FormatWord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "John Doe") || !strings.Contains(got, "Senior Developer") {
		t.Fatalf("missing paragraph text, got %q", got)
	}
	if !strings.Contains(got, "John Doe") || strings.Index(got, "John Doe") > strings.Index(got, "Senior Developer") {
		t.Fatalf("paragraphs out of order: %q", got)
	}
}

func TestTextDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<styles/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), FormatWord)
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractErr.Format != FormatWord {
		t.Fatalf("expected word-document format in error, got %s", extractErr.Format)
	}
}

func TestTextDOCXCorrupt(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a zip archive"), FormatWord)
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
}

func TestTextPDF(t *testing.T) {
	// Three pages: text, no text layer, text. The middle page must
	// contribute nothing and must not break the page loop.
	data := buildPDF(t, []string{"John Doe", "", "Backend Engineer"})

	got, err := Text(context.Background(), data, FormatPDF)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	iName := strings.Index(got, "John Doe")
	iRole := strings.Index(got, "Backend Engineer")
	if iName < 0 || iRole < 0 {
		t.Fatalf("missing page text, got %q", got)
	}
	if iName > iRole {
		t.Fatalf("pages out of order: %q", got)
	}
	leftover := strings.NewReplacer("John Doe", "", "Backend Engineer", "").Replace(got)
	if strings.TrimSpace(leftover) != "" {
		t.Fatalf("page without text contributed content: %q", got)
	}
}

func TestTextPDFCorrupt(t *testing.T) {
	_, err := Text(context.Background(), []byte("%PDF-1.4 truncated garbage"), FormatPDF)
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractErr.Format != FormatPDF {
		t.Fatalf("expected pdf format in error, got %s", extractErr.Format)
	}
}

func TestTextCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Text(ctx, []byte("x"), FormatText); err == nil {
		t.Fatal("expected context error")
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		tag     string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"TEXT", FormatText, false},
		{"word-document", FormatWord, false},
		{"pdf", FormatPDF, false},
		{"PDF", FormatPDF, false},
		{"spreadsheet", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.tag)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ParseFormat(%q): expected ErrUnsupportedFormat, got %v", tc.tag, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error %v", tc.tag, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tc.tag, got, tc.want)
		}
	}
}

func TestFormatForFile(t *testing.T) {
	cases := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"cv.txt", FormatText, false},
		{"cv.TXT", FormatText, false},
		{"resume.docx", FormatWord, false},
		{"resume.pdf", FormatPDF, false},
		{"resume.doc", "", true},
		{"noextension", "", true},
	}
	for _, tc := range cases {
		got, err := FormatForFile(tc.name)
		if tc.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("FormatForFile(%q): expected ErrUnsupportedFormat, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FormatForFile(%q): unexpected error %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FormatForFile(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

// buildPDF assembles a minimal PDF with one page per entry in pageTexts.
// An empty entry produces a page whose content stream has no text
// operators. Object offsets in the xref table are computed as objects
// are written.
func buildPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	n := len(pageTexts)
	fontNum := 3 + 2*n

	kids := make([]string, n)
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
	}
	for i, text := range pageTexts {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontNum, 4+2*i))
		content := "q Q"
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)
	return buf.Bytes()
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
