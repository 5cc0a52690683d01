package rod

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/prospector"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Renderer implements prospector.Renderer at compile time.
var _ prospector.Renderer = (*Renderer)(nil)

// Renderer produces PDF reports by printing report HTML in headless Chrome.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	browser *rod.Browser
	outDir  string
}

// NewRenderer creates a Renderer writing PDFs into outDir, launching a
// headless Chrome browser. Close must be called when the Renderer is no
// longer needed.
func NewRenderer(outDir string) (*Renderer, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &Renderer{browser: browser, outDir: outDir}, nil
}

// Render writes the report as a PDF file and returns its path.
func (r *Renderer) Render(ctx context.Context, report *prospector.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := report.Company.Validate(); err != nil {
		return "", err
	}

	html, err := BuildReportHTML(report)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return "", err
	}

	// Chrome needs a real file to navigate to.
	htmlPath := filepath.Join(r.outDir, reportFileName(report)+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return "", err
	}
	defer os.Remove(htmlPath)

	page, err := r.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate("file://" + htmlPath); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	printBackground := true
	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: printBackground})
	if err != nil {
		return "", err
	}

	pdfPath := filepath.Join(r.outDir, reportFileName(report)+".pdf")
	out, err := os.Create(pdfPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, stream); err != nil {
		os.Remove(pdfPath)
		return "", err
	}

	return pdfPath, nil
}

// Close releases browser resources.
func (r *Renderer) Close() error {
	return r.browser.Close()
}

// reportFileName derives a filesystem-safe name from the company name.
func reportFileName(report *prospector.Report) string {
	name := make([]rune, 0, len(report.Company.Name))
	for _, r := range report.Company.Name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			name = append(name, r)
		case r >= 'A' && r <= 'Z':
			name = append(name, r+'a'-'A')
		case r == ' ' || r == '-' || r == '_':
			name = append(name, '-')
		}
	}
	if len(name) == 0 {
		return "report"
	}
	return string(name) + "-report"
}
