// Package raster detects rectangular UI-element candidates from pixels
// alone: the image is downscaled, divided into a luminance grid, and runs of
// uniform cells are grown into maximal axis-aligned rectangles.
package raster

import (
	"context"
	"image"

	"github.com/Pradhumn115/ruma-vision/pkg/recognizer"
	"github.com/Pradhumn115/ruma-vision/pkg/vision"

	"golang.org/x/image/draw"
)

var _ recognizer.RectangleDetector = (*Detector)(nil)

const (
	gridSize = 64

	// Luminance buckets; cells in the same bucket are considered uniform.
	bucketSize = 32
)

type Detector struct {
	minCells int
}

type Option func(*Detector)

// WithMinCells sets the minimum rectangle size in grid cells per axis.
func WithMinCells(cells int) Option {
	return func(d *Detector) {
		d.minCells = cells
	}
}

func New(options ...Option) (*Detector, error) {
	d := &Detector{
		minCells: 2,
	}

	for _, option := range options {
		option(d)
	}

	return d, nil
}

func (d *Detector) DetectRectangles(ctx context.Context, img image.Image) ([]recognizer.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()

	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, nil
	}

	grid := luminanceGrid(img)

	cellWidth := float64(bounds.Dx()) / gridSize
	cellHeight := float64(bounds.Dy()) / gridSize

	height := float64(bounds.Dy())

	var result []recognizer.Rectangle

	visited := make([]bool, gridSize*gridSize)

	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			if visited[row*gridSize+col] {
				continue
			}

			bucket := grid[row*gridSize+col] / bucketSize

			cols, rows := grow(grid, visited, col, row, bucket)

			if cols < d.minCells || rows < d.minCells {
				continue
			}

			// The whole frame is not a UI element.
			if cols >= gridSize && rows >= gridSize {
				continue
			}

			box := vision.Rect{
				X: float64(col) * cellWidth,
				Y: height - float64(row+rows)*cellHeight,

				Width:  float64(cols) * cellWidth,
				Height: float64(rows) * cellHeight,
			}

			coverage := float64(cols*rows) / (gridSize * gridSize)

			result = append(result, recognizer.Rectangle{
				Box: box,

				Confidence: confidence(coverage),
			})
		}
	}

	return result, nil
}

// luminanceGrid downscales the image onto a fixed grid and returns one
// luminance value per cell.
func luminanceGrid(img image.Image) []uint8 {
	scaled := image.NewRGBA(image.Rect(0, 0, gridSize, gridSize))

	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	grid := make([]uint8, gridSize*gridSize)

	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			offset := scaled.PixOffset(col, row)

			r := int(scaled.Pix[offset])
			g := int(scaled.Pix[offset+1])
			b := int(scaled.Pix[offset+2])

			grid[row*gridSize+col] = uint8((299*r + 587*g + 114*b) / 1000)
		}
	}

	return grid
}

// grow extends a rectangle of same-bucket cells right and then down from the
// given origin, marking everything it covers as visited.
func grow(grid []uint8, visited []bool, col, row int, bucket uint8) (cols, rows int) {
	cols = 0

	for col+cols < gridSize {
		cell := col + cols

		if visited[row*gridSize+cell] || grid[row*gridSize+cell]/bucketSize != bucket {
			break
		}

		cols++
	}

	rows = 1

	for row+rows < gridSize {
		matches := true

		for c := col; c < col+cols; c++ {
			if visited[(row+rows)*gridSize+c] || grid[(row+rows)*gridSize+c]/bucketSize != bucket {
				matches = false
				break
			}
		}

		if !matches {
			break
		}

		rows++
	}

	for r := row; r < row+rows; r++ {
		for c := col; c < col+cols; c++ {
			visited[r*gridSize+c] = true
		}
	}

	return cols, rows
}

// confidence favors mid-sized regions: tiny runs are noise, near-full-frame
// regions are background.
func confidence(coverage float64) float64 {
	switch {
	case coverage < 0.01:
		return 0.5

	case coverage > 0.5:
		return 0.6

	default:
		return 0.8
	}
}
