// Package regions produces coarse text-region candidates by classical
// raster analysis: adaptive Gaussian thresholding followed by
// connected-component extraction. The output is a supplementary signal and
// is not reconciled with the OCR engine's own line boxes.
package regions

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"docextract/internal/model"
)

const (
	// blockSize is the adaptive threshold neighborhood (blockSize x blockSize).
	blockSize = 11
	// thresholdOffset is subtracted from the neighborhood mean.
	thresholdOffset = 2
	// minRegionArea filters components; anything at or below is noise.
	minRegionArea = 100
)

// Detector extracts axis-aligned text-region candidates from an image.
type Detector interface {
	Detect(ctx context.Context, imagePath string) ([]model.TextRegion, error)
}

type adaptiveDetector struct{}

// NewAdaptiveDetector creates the default threshold-and-contour detector.
func NewAdaptiveDetector() Detector {
	return adaptiveDetector{}
}

func (adaptiveDetector) Detect(ctx context.Context, imagePath string) ([]model.TextRegion, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(img)
	binary := adaptiveThreshold(gray)
	regions := extractRegions(binary)
	return regions, nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}
	return gray
}

// adaptiveThreshold binarizes with an inverse threshold against the
// Gaussian-weighted neighborhood mean: a pixel is foreground (true) when it
// is darker than its local mean by more than thresholdOffset.
func adaptiveThreshold(gray *image.Gray) [][]bool {
	w := gray.Rect.Dx()
	h := gray.Rect.Dy()

	blurred := gaussianBlur(gray, w, h)

	binary := make([][]bool, h)
	for y := 0; y < h; y++ {
		binary[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			src := float64(gray.GrayAt(x, y).Y)
			binary[y][x] = src < blurred[y][x]-thresholdOffset
		}
	}
	return binary
}

// gaussianBlur applies a separable blockSize-tap Gaussian filter with edge
// clamping, returning the smoothed intensity surface.
func gaussianBlur(gray *image.Gray, w, h int) [][]float64 {
	kernel := gaussianKernel(blockSize)
	half := blockSize / 2

	horiz := make([][]float64, h)
	for y := 0; y < h; y++ {
		horiz[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sx := clamp(x+k, 0, w-1)
				sum += kernel[k+half] * float64(gray.GrayAt(sx, y).Y)
			}
			horiz[y][x] = sum
		}
	}

	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sy := clamp(y+k, 0, h-1)
				sum += kernel[k+half] * horiz[sy][x]
			}
			out[y][x] = sum
		}
	}
	return out
}

func gaussianKernel(size int) []float64 {
	// Sigma derivation for a given kernel size matches the usual
	// 0.3*((size-1)*0.5 - 1) + 0.8 convention.
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2

	kernel := make([]float64, size)
	var sum float64
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// extractRegions labels 8-connected foreground components and keeps those
// with pixel area above minRegionArea.
func extractRegions(binary [][]bool) []model.TextRegion {
	h := len(binary)
	if h == 0 {
		return nil
	}
	w := len(binary[0])

	visited := make([][]bool, h)
	for y := range visited {
		visited[y] = make([]bool, w)
	}

	var regions []model.TextRegion
	var stack []image.Point

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !binary[y][x] || visited[y][x] {
				continue
			}

			area := 0
			minX, minY, maxX, maxY := x, y, x, y
			stack = stack[:0]
			stack = append(stack, image.Pt(x, y))
			visited[y][x] = true

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				area++
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						if binary[ny][nx] && !visited[ny][nx] {
							visited[ny][nx] = true
							stack = append(stack, image.Pt(nx, ny))
						}
					}
				}
			}

			if area > minRegionArea {
				regions = append(regions, model.TextRegion{
					X:      minX,
					Y:      minY,
					Width:  maxX - minX + 1,
					Height: maxY - minY + 1,
					Area:   float64(area),
				})
			}
		}
	}
	return regions
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
