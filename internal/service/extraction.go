package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"docextract/internal/ai"
	"docextract/internal/model"
	"docextract/internal/ocr"
	"docextract/internal/pdf"
	"docextract/internal/regions"
	"docextract/internal/scratch"
)

var (
	ErrReaderNil       = errors.New("reader is nil")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrPDFConversion   = errors.New("failed to convert PDF")
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"pdf":  {},
}

// ExtractionService runs the full per-request pipeline: persist the upload,
// rasterize PDFs, then per page OCR, region detection and LLM structuring.
type ExtractionService interface {
	// Extract processes one uploaded file and returns one PageResult per
	// derived page image. Scratch files are removed on every exit path:
	// derived page images first, the original upload last.
	Extract(ctx context.Context, r io.Reader, filename string) ([]model.PageResult, error)
}

type extractionService struct {
	store      scratch.Store
	rasterizer pdf.Rasterizer
	engine     ocr.Engine
	detector   regions.Detector
	structurer ai.Structurer
	log        *logrus.Logger
}

// NewExtractionService constructs the orchestrator with all collaborators
// injected.
func NewExtractionService(
	store scratch.Store,
	rasterizer pdf.Rasterizer,
	engine ocr.Engine,
	detector regions.Detector,
	structurer ai.Structurer,
	log *logrus.Logger,
) ExtractionService {
	return &extractionService{
		store:      store,
		rasterizer: rasterizer,
		engine:     engine,
		detector:   detector,
		structurer: structurer,
		log:        log,
	}
}

// SanitizeFilename strips path separators from a client-declared filename.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "")
	return strings.ReplaceAll(name, "\\", "")
}

func (s *extractionService) Extract(ctx context.Context, r io.Reader, filename string) ([]model.PageResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	name := SanitizeFilename(filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, ErrUnsupportedType
	}

	savePath, err := s.store.Save(name, r)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}

	// Derived page images are removed eagerly once their page is done;
	// this deferred pass catches whatever is left on error paths. The
	// original upload must outlive every derived image.
	var derived []string
	defer func() {
		for _, p := range derived {
			if p != "" {
				s.removeQuietly(p)
			}
		}
		s.removeQuietly(savePath)
	}()

	pages := []string{savePath}
	if ext == "pdf" {
		imgs, rerr := s.rasterizer.Rasterize(ctx, savePath, s.store.Dir())
		if rerr != nil {
			s.log.WithError(rerr).Error("PDF rasterization failed")
			return nil, fmt.Errorf("%w: %v", ErrPDFConversion, rerr)
		}
		if len(imgs) == 0 {
			return nil, ErrPDFConversion
		}
		pages = imgs
		derived = append(derived, imgs...)
	}

	results := make([]model.PageResult, 0, len(pages))
	for i, page := range pages {
		results = append(results, s.processPage(ctx, page, i+1, ext))
		if page != savePath {
			s.removeQuietly(page)
			derived[i] = ""
		}
	}
	return results, nil
}

// processPage runs OCR, region detection and structuring for one page image.
// Every collaborator failure is degraded locally; this method cannot fail.
func (s *extractionService) processPage(ctx context.Context, imagePath string, pageNumber int, ext string) model.PageResult {
	ocrRes, err := s.engine.Recognize(ctx, imagePath)
	if err != nil {
		s.log.WithError(err).WithField("image", imagePath).Warn("OCR failed, returning empty result")
		ocrRes = model.OcrResult{Error: err.Error()}
	}

	regs, err := s.detector.Detect(ctx, imagePath)
	if err != nil {
		s.log.WithError(err).WithField("image", imagePath).Warn("region detection failed")
		regs = nil
	}
	ocrRes.TextRegions = regs

	fields, err := s.structurer.Structure(ctx, ocrRes.FullText)
	if err != nil {
		s.log.WithError(err).Error("language-model structuring failed")
		fields = model.ProcessingFailedFallback()
	}

	return model.PageResult{
		DocumentType:  strings.ToUpper(ext),
		PageNumber:    pageNumber,
		OcrResults:    ocrRes,
		FormattedText: fields,
	}
}

func (s *extractionService) removeQuietly(path string) {
	if err := s.store.Remove(path); err != nil {
		s.log.WithError(err).WithField("path", path).Warn("scratch cleanup failed")
	}
}
