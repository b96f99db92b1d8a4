package lekka

import "fmt"

// pageEpsilon absorbs float error so an image exactly N pages tall yields N pages.
const pageEpsilon = 1e-6

// Layout places one tall captured image across consecutive pages.
// Every page draws the full image; page i draws it at Offsets[i], so later
// pages show the image shifted up by one page height each.
type Layout struct {
	X       float64   // left edge, equal to the margin
	Width   float64   // page width minus both side margins
	Height  float64   // image height scaled to Width
	Offsets []float64 // y position of the image on each page
}

// Pages returns the number of pages in the layout.
func (l Layout) Pages() int {
	return len(l.Offsets)
}

// Paginate computes the layout of an imgW x imgH pixel image on page.
// The image is scaled to the page width minus 2*margin.
func Paginate(imgW, imgH int, page PageSize, margin float64) (Layout, error) {
	if imgW <= 0 || imgH <= 0 {
		return Layout{}, fmt.Errorf("%w: empty image %dx%d", ErrCapture, imgW, imgH)
	}
	width := page.Width - 2*margin
	if width <= 0 || page.Height <= 0 {
		return Layout{}, fmt.Errorf("%w: margin %.2f leaves no room on %.2fx%.2f", ErrInvalidMargin, margin, page.Width, page.Height)
	}

	height := float64(imgH) * width / float64(imgW)
	return Layout{
		X:       margin,
		Width:   width,
		Height:  height,
		Offsets: PageOffsets(height, page.Height, margin),
	}, nil
}

// PageOffsets returns the y position of an image of the given height on each page.
// Page 1 draws at y = margin and shows pageHeight-margin of the image; every
// following page moves the image up by exactly pageHeight. With margin 0 the
// number of pages is ceil(imageHeight / pageHeight).
func PageOffsets(imageHeight, pageHeight, margin float64) []float64 {
	pos := margin
	offsets := []float64{pos}

	remaining := imageHeight - (pageHeight - margin)
	for remaining > pageEpsilon {
		pos -= pageHeight
		offsets = append(offsets, pos)
		remaining -= pageHeight
	}
	return offsets
}
