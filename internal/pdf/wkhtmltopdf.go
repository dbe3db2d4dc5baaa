package pdf

import (
	"context"
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WKConverter shells out to the wkhtmltopdf binary.
type WKConverter struct{}

// NewWKConverter sets the binary path (optional, falls back to PATH lookup).
func NewWKConverter(binPath string) *WKConverter {
	if binPath != "" {
		wkhtmltopdf.SetPath(binPath)
	}
	return &WKConverter{}
}

func (c *WKConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("pdf: init wkhtmltopdf: %w", err)
	}
	gen.AddPage(wkhtmltopdf.NewPageReader(strings.NewReader(html)))
	if err := gen.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("pdf: convert: %w", err)
	}
	return gen.Bytes(), nil
}
