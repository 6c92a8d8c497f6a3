package placement

// Bounds is an absolute axis-aligned rectangle on the canvas, in millimeters.
type Bounds struct {
	XMm      float64 `json:"xMm"`
	YMm      float64 `json:"yMm"`
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`
}

// Rounded returns the bounds rounded to export precision.
func (b Bounds) Rounded() Bounds {
	return Bounds{
		XMm:      round3(b.XMm),
		YMm:      round3(b.YMm),
		WidthMm:  round3(b.WidthMm),
		HeightMm: round3(b.HeightMm),
	}
}

// Intersects reports strict half-open rectangle overlap: rectangles that only
// share a boundary edge do not intersect.
func (b Bounds) Intersects(other Bounds) bool {
	return b.XMm < other.XMm+other.WidthMm &&
		b.XMm+b.WidthMm > other.XMm &&
		b.YMm < other.YMm+other.HeightMm &&
		b.YMm+b.HeightMm > other.YMm
}

// ResolveBounds computes the object's absolute rectangle. Image objects store
// absolute coordinates; every other kind stores an offset interpreted through
// its anchor. A missing or unresolvable required field makes the whole
// rectangle unresolvable, which excludes the object from export and flags it
// during preflight.
func ResolveBounds(obj Object) (Bounds, bool) {
	if obj.Kind == KindImage {
		x, okX := obj.XMm.Float()
		y, okY := obj.YMm.Float()
		w, okW := obj.WidthMm.Float()
		h, okH := obj.HeightMm.Float()
		if !okX || !okY || !okW || !okH {
			return Bounds{}, false
		}
		return Bounds{XMm: x, YMm: y, WidthMm: w, HeightMm: h}, true
	}

	offsetX, okX := obj.OffsetXMm.Float()
	offsetY, okY := obj.OffsetYMm.Float()
	w, okW := obj.BoxWidthMm.Float()
	h, okH := obj.BoxHeightMm.Float()
	if !okX || !okY || !okW || !okH {
		return Bounds{}, false
	}

	x, y := offsetX, offsetY
	switch obj.Anchor {
	case AnchorCenter:
		x, y = offsetX-w/2, offsetY-h/2
	case AnchorTopRight:
		x = offsetX - w
	case AnchorBottomLeft:
		y = offsetY - h
	case AnchorBottomRight:
		x, y = offsetX-w, offsetY-h
	default:
		// top-left and unknown anchors use the offset as-is
	}

	return Bounds{XMm: x, YMm: y, WidthMm: w, HeightMm: h}, true
}
