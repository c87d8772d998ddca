// Package report renders composed summaries into PDF documents.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"
)

// defaultFontPaths are probed in order until one loads. They cover the
// DejaVu locations of the common base images.
var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	fontName   = "DejaVu"
	titleSize  = 18
	headerSize = 11
	bodySize   = 10
	bodyWidth  = 500
	lineHeight = 12
	// maxBodyY forces a page break before a line would run off an A4 page.
	maxBodyY = 800
)

// Document is the renderer input: a rendered summary plus the provenance
// fields shown in the header.
type Document struct {
	Title     string
	Hospital  string
	Doctor    string
	Generated time.Time
	Body      string
}

// Renderer lays Documents out on A4 pages. The zero value probes only the
// default font locations; use NewRenderer to put a configured path first.
type Renderer struct {
	fontPaths []string
}

// NewRenderer builds a Renderer. A non-empty fontPath is probed before the
// default locations.
func NewRenderer(fontPath string) *Renderer {
	paths := defaultFontPaths
	if fontPath != "" {
		paths = append([]string{fontPath}, defaultFontPaths...)
	}
	return &Renderer{fontPaths: paths}
}

// Render produces the PDF bytes for doc.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := r.loadFont(&pdf); err != nil {
		return nil, err
	}

	if err := pdf.SetFont(fontName, "", titleSize); err != nil {
		return nil, fmt.Errorf("report: set font: %w", err)
	}
	pdf.Cell(nil, doc.Title)
	pdf.Br(26)

	if err := pdf.SetFont(fontName, "", headerSize); err != nil {
		return nil, fmt.Errorf("report: set font: %w", err)
	}
	pdf.Cell(nil, "Generated: "+doc.Generated.Format("2006-01-02 15:04"))
	pdf.Br(14)
	if doc.Hospital != "" {
		pdf.Cell(nil, "Hospital: "+doc.Hospital)
		pdf.Br(14)
	}
	if doc.Doctor != "" {
		pdf.Cell(nil, "Doctor: "+doc.Doctor)
		pdf.Br(14)
	}
	pdf.Br(8)

	if err := pdf.SetFont(fontName, "", bodySize); err != nil {
		return nil, fmt.Errorf("report: set font: %w", err)
	}
	for _, line := range strings.Split(doc.Body, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Br(lineHeight)
			continue
		}
		wrapped, err := pdf.SplitText(line, bodyWidth)
		if err != nil {
			return nil, fmt.Errorf("report: wrap text: %w", err)
		}
		for _, l := range wrapped {
			if pdf.GetY() > maxBodyY {
				pdf.AddPage()
			}
			pdf.Cell(nil, l)
			pdf.Br(lineHeight)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("report: write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// loadFont probes the configured paths and registers the first TTF that
// loads.
func (r *Renderer) loadFont(pdf *gopdf.GoPdf) error {
	paths := r.fontPaths
	if len(paths) == 0 {
		paths = defaultFontPaths
	}
	var lastErr error
	for _, path := range paths {
		if err := pdf.AddTTFFont(fontName, path); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}
	return fmt.Errorf("report: no usable TTF font: %w", lastErr)
}
