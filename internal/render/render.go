package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"cv-standardizer/internal/shared/telemetry"
)

// PDFEngine converts a finished HTML document into PDF bytes.
type PDFEngine interface {
	HTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Renderer turns canonical CV markdown into a styled PDF. The markdown may
// carry inline HTML (the template emits justify divs), so the goldmark
// renderer runs with raw HTML enabled.
type Renderer struct {
	Engine PDFEngine
	HTTP   *http.Client
}

// NewRenderer wires a renderer over the given engine.
func NewRenderer(engine PDFEngine) *Renderer {
	return &Renderer{
		Engine: engine,
		HTTP:   &http.Client{Timeout: 15 * time.Second},
	}
}

const logoMaxBytes = 2 << 20

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body {
    font-family: Arial, sans-serif;
}
.logo {
    text-align: right;
}
.logo img {
    width: 30%;
}
@page {
    @bottom-right {
        content: "Date: {{.Date}}";
    }
}
.footer-date {
    position: fixed;
    bottom: 0;
    right: 0;
    font-size: 10px;
}
</style>
</head>
<body>
{{if .LogoSrc}}<div class="logo"><img src="{{.LogoSrc}}" alt="Logo"></div>
{{end}}{{.Body}}
<div class="footer-date">Date: {{.Date}}</div>
</body>
</html>
`))

type pageData struct {
	LogoSrc template.URL
	Body    template.HTML
	Date    string
}

// Render converts markdown to a PDF. A logoRef, when set, is fetched and
// inlined as a data URI; a fetch failure drops the logo but does not fail
// the render. The date stamp appears in the bottom-right page footer.
func (r *Renderer) Render(ctx context.Context, markdown, logoRef string, dateStamp time.Time) ([]byte, error) {
	html, err := r.ComposeHTML(ctx, markdown, logoRef, dateStamp)
	if err != nil {
		return nil, err
	}
	pdf, err := r.Engine.HTMLToPDF(ctx, html)
	if err != nil {
		return nil, &RenderError{Step: StepPDF, Err: err}
	}
	return pdf, nil
}

// ComposeHTML builds the full page document without invoking the PDF engine.
func (r *Renderer) ComposeHTML(ctx context.Context, markdown, logoRef string, dateStamp time.Time) (string, error) {
	md := goldmark.New(
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", &RenderError{Step: StepMarkdown, Err: err}
	}

	data := pageData{
		Body: template.HTML(body.String()),
		Date: dateStamp.Format("January 02, 2006"),
	}
	if logoRef != "" {
		if src, err := r.fetchLogo(ctx, logoRef); err != nil {
			telemetry.Warn("render.logo.skipped", map[string]any{
				"logo_url": logoRef,
				"error":    err.Error(),
			})
		} else {
			data.LogoSrc = template.URL(src)
		}
	}

	var page bytes.Buffer
	if err := pageTemplate.Execute(&page, data); err != nil {
		return "", &RenderError{Step: StepMarkdown, Err: err}
	}
	return page.String(), nil
}

// fetchLogo downloads the logo and returns it as a data URI so the PDF
// engine never needs network access.
func (r *Renderer) fetchLogo(ctx context.Context, logoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("logo fetch status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, logoMaxBytes+1))
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("logo fetch empty body")
	}
	if len(raw) > logoMaxBytes {
		return "", fmt.Errorf("logo exceeds %d bytes", logoMaxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
