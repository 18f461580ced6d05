// Package ocr adapts the Tesseract engine to the recognition result shape
// the extraction pipeline works with.
package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"docextract/internal/config"
	"docextract/internal/model"
)

// Engine recognizes text in a single raster image.
type Engine interface {
	// Recognize runs OCR over the image at imagePath. A failure of the
	// underlying engine (e.g. an unreadable image) is returned as an
	// error; callers degrade it to an OcrResult carrying the error.
	Recognize(ctx context.Context, imagePath string) (model.OcrResult, error)
}

// TesseractEngine is the process-wide OCR handle. The gosseract client is
// not safe for concurrent use, so a fresh client is created per call while
// the engine object itself holds the fixed configuration.
type TesseractEngine struct {
	clientFactory     func() *gosseract.Client
	language          string
	orientationDetect bool
	log               *logrus.Logger
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
func NewTesseractEngine(cfg config.OCRConfig, log *logrus.Logger) *TesseractEngine {
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &TesseractEngine{
		clientFactory:     gosseract.NewClient,
		language:          lang,
		orientationDetect: cfg.OrientationDetect,
		log:               log,
	}
}

func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string) (model.OcrResult, error) {
	select {
	case <-ctx.Done():
		return model.OcrResult{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImage(imagePath); err != nil {
		return model.OcrResult{}, fmt.Errorf("set image: %w", err)
	}
	if err := c.SetLanguage(e.language); err != nil {
		return model.OcrResult{}, fmt.Errorf("set language: %w", err)
	}
	psm := gosseract.PSM_AUTO
	if e.orientationDetect {
		psm = gosseract.PSM_AUTO_OSD
	}
	if err := c.SetPageSegMode(psm); err != nil {
		return model.OcrResult{}, fmt.Errorf("set page segmentation mode: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return model.OcrResult{}, fmt.Errorf("recognize text lines: %w", err)
	}

	lines := make([]model.TextLine, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		line := buildLine(text, b.Box, b.Confidence)
		if line.BoundingBox == model.ZeroQuad {
			e.log.WithFields(logrus.Fields{
				"image": imagePath,
				"text":  text,
			}).Warn("unexpected OCR line geometry, substituting degenerate box")
		}
		lines = append(lines, line)
	}

	return assemble(lines), nil
}

// buildLine converts one engine bounding box into a TextLine. confPercent is
// the engine's 0-100 confidence. A line whose geometry or confidence comes
// back in an unexpected shape gets zero confidence and an all-zero box.
func buildLine(text string, box image.Rectangle, confPercent float64) model.TextLine {
	if box.Empty() || confPercent < 0 || confPercent > 100 {
		return model.TextLine{Text: text, Confidence: 0, BoundingBox: model.ZeroQuad}
	}
	return model.TextLine{
		Text:        text,
		Confidence:  confPercent / 100.0,
		BoundingBox: quadFromRect(box),
	}
}

// quadFromRect expands an axis-aligned rectangle into the four-corner
// quadrilateral form, clockwise from the top-left.
func quadFromRect(r image.Rectangle) model.Quad {
	x1, y1 := float64(r.Min.X), float64(r.Min.Y)
	x2, y2 := float64(r.Max.X), float64(r.Max.Y)
	return model.Quad{
		{x1, y1},
		{x2, y1},
		{x2, y2},
		{x1, y2},
	}
}

// assemble builds the page-level result: newline-joined full text, the box
// list and the arithmetic mean confidence (0.0 for zero lines).
func assemble(lines []model.TextLine) model.OcrResult {
	res := model.OcrResult{Lines: lines}

	texts := make([]string, 0, len(lines))
	var total float64
	for _, l := range lines {
		texts = append(texts, l.Text)
		res.BoundingBoxes = append(res.BoundingBoxes, l.BoundingBox)
		total += l.Confidence
	}
	res.FullText = strings.Join(texts, "\n")
	if len(lines) > 0 {
		res.ConfidenceScore = total / float64(len(lines))
	}
	return res
}
