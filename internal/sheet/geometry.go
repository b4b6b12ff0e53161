package sheet

import "image"

// ScaledWidth is the width a srcW x srcH frame gets at targetHeight,
// truncated toward zero.
func ScaledWidth(srcW, srcH, targetHeight int) int {
	if srcW <= 0 || srcH <= 0 || targetHeight <= 0 {
		return 0
	}
	return targetHeight * srcW / srcH
}

// Layout places frames of the given widths left to right, top-aligned, and
// returns their rectangles along with the total sheet width.
func Layout(widths []int, height int) ([]image.Rectangle, int) {
	rects := make([]image.Rectangle, len(widths))
	offset := 0
	for i, w := range widths {
		rects[i] = image.Rect(offset, 0, offset+w, height)
		offset += w
	}
	return rects, offset
}
