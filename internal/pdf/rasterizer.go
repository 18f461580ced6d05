// Package pdf renders PDF pages to raster images using Ghostscript.
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"docextract/internal/config"
)

// Rasterizer converts a PDF into one raster image per page.
type Rasterizer interface {
	// Rasterize renders every page of the PDF at pdfPath into outDir and
	// returns the image paths in document order. The returned names are
	// deterministic: "<stem>_page_N.png" with N 1-based. Any rendering
	// failure returns an error and no partial results.
	Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error)
}

type ghostscriptRasterizer struct {
	gsPath string
	dpi    int
}

// NewGhostscriptRasterizer creates a Rasterizer that shells out to
// Ghostscript with the configured binary path and rendering DPI.
func NewGhostscriptRasterizer(cfg config.PDFConfig) Rasterizer {
	gs := cfg.GhostscriptPath
	if gs == "" {
		gs = "gs"
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = 300
	}
	return &ghostscriptRasterizer{gsPath: gs, dpi: dpi}
}

func (r *ghostscriptRasterizer) Rasterize(ctx context.Context, pdfPath, outDir string) ([]string, error) {
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	// A literal % in the stem would be treated as a verb by both
	// Ghostscript's output pattern and the Sprintf lookup in collectPages.
	stem = strings.ReplaceAll(stem, "%", "%%")
	pattern := filepath.Join(outDir, stem+"_page_%d.png")

	cmd := exec.CommandContext(ctx, r.gsPath,
		"-sDEVICE=png16m",
		"-dNOPAUSE",
		"-dBATCH",
		"-dSAFER",
		fmt.Sprintf("-r%d", r.dpi),
		fmt.Sprintf("-sOutputFile=%s", pattern),
		pdfPath)

	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ghostscript: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return collectPages(pattern), nil
}

// collectPages gathers the rendered page files in page order. Ghostscript
// numbers output files from 1 with no gaps, so the first missing index ends
// the sequence.
func collectPages(pattern string) []string {
	var paths []string
	for n := 1; ; n++ {
		p := fmt.Sprintf(pattern, n)
		if _, err := os.Stat(p); err != nil {
			break
		}
		paths = append(paths, p)
	}
	return paths
}
