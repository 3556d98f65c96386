// ABOUTME: Local Tesseract OCR engine via gosseract
// ABOUTME: Registers itself as the fallback when no Vision key is configured
package tesseract

import (
	"context"

	"github.com/otiai10/gosseract/v2"

	"github.com/harperreed/meishi/ocr"
)

func init() {
	ocr.SetDefaultEngine(New())
}

// Engine runs OCR through a local Tesseract install. Cards in this tool are
// mostly Traditional Chinese with Latin contact details, so both language
// packs are requested.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// New constructs a Tesseract-backed engine.
func New() *Engine {
	return &Engine{
		clientFactory: gosseract.NewClient,
		languages:     []string{"chi_tra", "eng"},
	}
}

func (e *Engine) Name() string { return "tesseract" }

// ExtractText OCRs one image. Tesseract failures surface as errors; the
// caller degrades them to empty text before the parser sees anything.
func (e *Engine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer func() { _ = c.Close() }()

	if err := c.SetLanguage(e.languages...); err != nil {
		return "", err
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", err
	}
	return c.Text()
}
