// ABOUTME: OCR engine interface and Google Vision implementation
// ABOUTME: Extracts raw text from card images, with a pluggable local fallback
package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"
)

// Engine extracts raw text from an image file. Implementations are
// best-effort: an empty string with a nil error is a valid result for an
// unreadable card.
type Engine interface {
	Name() string
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

var defaultEngine Engine

// SetDefaultEngine registers the fallback engine used when no Vision API key
// is configured. Called from provider init functions.
func SetDefaultEngine(e Engine) {
	defaultEngine = e
}

// FromEnv picks an engine from the environment: Vision when VISION_API_KEY
// is set, otherwise the registered local fallback, otherwise a no-op engine
// that yields empty text.
func FromEnv(ctx context.Context) Engine {
	if key := os.Getenv("VISION_API_KEY"); key != "" {
		if eng, err := NewVision(ctx, key); err == nil {
			return eng
		}
	}
	if defaultEngine != nil {
		return defaultEngine
	}
	return nullEngine{}
}

// Vision performs TEXT_DETECTION through the Google Cloud Vision API.
type Vision struct {
	service *vision.Service
}

// NewVision creates a Vision engine authenticated by API key.
func NewVision(ctx context.Context, apiKey string) (*Vision, error) {
	service, err := vision.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision service: %w", err)
	}
	return &Vision{service: service}, nil
}

func (v *Vision) Name() string { return "vision" }

// ExtractText runs TEXT_DETECTION on one image and returns the full text
// annotation. A card with no detectable text yields "".
func (v *Vision) ExtractText(ctx context.Context, imagePath string) (string, error) {
	content, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(content)},
			Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}

	resp, err := v.service.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("vision annotate failed: %w", err)
	}
	if len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}
	if ann := resp.Responses[0].FullTextAnnotation; ann != nil {
		return ann.Text, nil
	}
	return "", nil
}

type nullEngine struct{}

func (nullEngine) Name() string { return "none" }

func (nullEngine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	return "", nil
}
