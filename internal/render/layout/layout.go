package layout

import "image"

// Inset shrinks rect by paddingPx on all sides. An axis thinner than twice
// the padding collapses to zero width at its centre.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	rect = Normalize(rect)
	if paddingPx <= 0 {
		return rect
	}
	out := image.Rectangle{
		Min: image.Pt(rect.Min.X+paddingPx, rect.Min.Y+paddingPx),
		Max: image.Pt(rect.Max.X-paddingPx, rect.Max.Y-paddingPx),
	}
	if out.Min.X > out.Max.X {
		mid := rect.Min.X + rect.Dx()/2
		out.Min.X, out.Max.X = mid, mid
	}
	if out.Min.Y > out.Max.Y {
		mid := rect.Min.Y + rect.Dy()/2
		out.Min.Y, out.Max.Y = mid, mid
	}
	return out
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

func clampSize(rect image.Rectangle, widthPx, heightPx int) (int, int) {
	widthPx = max(0, min(widthPx, rect.Dx()))
	heightPx = max(0, min(heightPx, rect.Dy()))
	return widthPx, heightPx
}

// AnchorBottomRight places a (widthPx, heightPx) box in the bottom-right
// corner of rect, shrinking it to fit.
func AnchorBottomRight(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx, heightPx = clampSize(rect, widthPx, heightPx)
	return image.Rect(rect.Max.X-widthPx, rect.Max.Y-heightPx, rect.Max.X, rect.Max.Y)
}

// AnchorBottomCenter places a box horizontally centred on the bottom edge.
func AnchorBottomCenter(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	widthPx, heightPx = clampSize(rect, widthPx, heightPx)
	left := rect.Min.X + (rect.Dx()-widthPx)/2
	return image.Rect(left, rect.Max.Y-heightPx, left+widthPx, rect.Max.Y)
}
