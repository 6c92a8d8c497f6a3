package placement

import (
	"fmt"
	"strconv"
	"strings"
)

// renderMode selects between the two SVG artifact flavors. Both share one
// object-to-fragment renderer so the artifacts cannot drift apart: the print
// variant positions elements with raw x/y attributes, the wrap variant uses
// translate/rotate transforms and supports seam duplication via translateX.
type renderMode int

const (
	renderPrint renderMode = iota
	renderWrap
)

// escapeXML escapes attribute and text content. The ampersand must be
// substituted first or already-escaped entities would be double-escaped.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

func fmtMm(v float64) string {
	return strconv.FormatFloat(round3(v), 'f', -1, 64)
}

func fontFamilyOf(obj Object) string {
	if obj.FontFamily == "" {
		return "Arial"
	}
	return obj.FontFamily
}

func renderObjectFragment(obj Object, bounds Bounds, mode renderMode, translateX float64) string {
	objID := escapeXML(obj.ID)

	if mode == renderPrint {
		switch obj.Kind {
		case KindImage:
			href := escapeXML("/api/assets/" + obj.AssetID)
			return fmt.Sprintf(
				`<image id="%s" x="%s" y="%s" width="%s" height="%s" href="%s" opacity="%s" preserveAspectRatio="none" />`,
				objID, fmtMm(bounds.XMm), fmtMm(bounds.YMm), fmtMm(bounds.WidthMm), fmtMm(bounds.HeightMm),
				href, fmtMm(obj.Opacity.NonZeroOr(1)))
		case KindVector:
			return fmt.Sprintf(
				`<path id="%s" d="%s" fill="none" stroke="black" stroke-width="0.1" />`,
				objID, escapeXML(obj.PathData))
		default:
			fontSize := obj.FontSizeMm.NonZeroOr(1)
			return fmt.Sprintf(
				`<text id="%s" x="%s" y="%s" font-family="%s" font-size="%s">%s</text>`,
				objID, fmtMm(bounds.XMm), fmtMm(bounds.YMm+fontSize),
				escapeXML(fontFamilyOf(obj)), fmtMm(fontSize), escapeXML(obj.Content))
		}
	}

	// Wrap mode positions everything through a transform so seam duplicates
	// are plain translations of the same fragment.
	baseX := obj.OffsetXMm.NonZeroOr(bounds.XMm) + translateX
	baseY := obj.OffsetYMm.NonZeroOr(bounds.YMm)
	rotation := obj.RotationDeg.ValueOr(0)

	switch obj.Kind {
	case KindVector:
		transform := fmt.Sprintf("translate(%s %s) rotate(%s)", fmtMm(baseX), fmtMm(baseY), fmtMm(rotation))
		return fmt.Sprintf(
			`<path id="%s" d="%s" transform="%s" fill="none" stroke="black" stroke-width="0.1" />`,
			objID, escapeXML(obj.PathData), transform)
	case KindImage:
		// Wrap exports are engraver-bound outlines; the bitmap itself is not
		// embedded, only its footprint.
		return fmt.Sprintf(
			`<rect id="%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="black" stroke-width="0.1" />`,
			objID, fmtMm(bounds.XMm+translateX), fmtMm(bounds.YMm), fmtMm(bounds.WidthMm), fmtMm(bounds.HeightMm))
	default:
		transform := fmt.Sprintf("translate(%s %s) rotate(%s)", fmtMm(baseX), fmtMm(baseY), fmtMm(rotation))

		textAnchor := "start"
		switch obj.HorizontalAlign {
		case "center":
			textAnchor = "middle"
		case "right":
			textAnchor = "end"
		}

		fill, stroke := "black", "none"
		if obj.FillMode == "stroke" {
			fill, stroke = "none", "black"
		}

		return fmt.Sprintf(
			`<text id="%s" transform="%s" font-family="%s" font-size="%smm" text-anchor="%s" fill="%s" stroke="%s" stroke-width="%s">%s</text>`,
			objID, transform, escapeXML(fontFamilyOf(obj)), fmtMm(obj.FontSizeMm.NonZeroOr(1)),
			textAnchor, fill, stroke, fmtMm(obj.StrokeWidthMm.ValueOr(0)), escapeXML(obj.Content))
	}
}

// BuildPrintSVG renders the flat print artifact: one element per visible,
// resolvable object in canonical order, positioned with raw coordinates.
// One SVG unit equals one millimeter, so the viewBox matches the mm size.
func BuildPrintSVG(doc *Document, productProfileID string) string {
	canvasWidth := doc.Canvas.WidthMm.ValueOr(0)
	canvasHeight := doc.Canvas.HeightMm.ValueOr(0)

	fragments := []string{}
	for _, obj := range doc.VisibleSorted() {
		bounds, ok := ResolveBounds(obj)
		if !ok {
			continue
		}
		fragments = append(fragments, renderObjectFragment(obj, bounds, renderPrint, 0))
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%smm\" height=\"%smm\" viewBox=\"0 0 %s %s\" data-product-profile=\"%s\">\n",
		fmtMm(canvasWidth), fmtMm(canvasHeight), fmtMm(canvasWidth), fmtMm(canvasHeight),
		escapeXML(productProfileID))
	b.WriteString(strings.Join(fragments, "\n"))
	b.WriteString("\n</svg>")
	return b.String()
}

// BuildWrapSVG renders the seam-aware wrap artifact. When wrap is enabled
// with a positive micro-overlap, artwork touching either seam edge is
// duplicated one wrap-width away so the printed cylinder shows continuous
// content across the seam. Guide lines marking the seam are optional.
func BuildWrapSVG(doc *Document, includeGuides bool) string {
	canvasWidth := doc.Canvas.WidthMm.ValueOr(0)
	canvasHeight := doc.Canvas.HeightMm.ValueOr(0)

	wrapEnabled := doc.Wrap.Enabled
	wrapWidth := doc.Wrap.WrapWidthMm.NonZeroOr(canvasWidth)
	seamX := doc.Wrap.SeamXMm.ValueOr(0)
	overlap := doc.Wrap.MicroOverlapMm.ValueOr(0)

	fragments := []string{}
	for _, obj := range doc.VisibleSorted() {
		bounds, ok := ResolveBounds(obj)
		if !ok {
			continue
		}
		fragments = append(fragments, renderObjectFragment(obj, bounds, renderWrap, 0))

		if wrapEnabled && overlap > 0 && wrapWidth > 0 {
			if bounds.XMm+bounds.WidthMm >= wrapWidth-overlap {
				fragments = append(fragments, renderObjectFragment(obj, bounds, renderWrap, -wrapWidth))
			}
			if bounds.XMm <= overlap {
				fragments = append(fragments, renderObjectFragment(obj, bounds, renderWrap, wrapWidth))
			}
		}
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%smm\" height=\"%smm\" viewBox=\"0 0 %s %s\">\n",
		fmtMm(canvasWidth), fmtMm(canvasHeight), fmtMm(canvasWidth), fmtMm(canvasHeight))
	b.WriteString("  <g id=\"artwork\">\n")
	for _, fragment := range fragments {
		b.WriteString("    ")
		b.WriteString(fragment)
		b.WriteString("\n")
	}
	b.WriteString("  </g>\n")
	if includeGuides && wrapEnabled {
		b.WriteString("  <g id=\"guides\">\n")
		fmt.Fprintf(&b,
			"    <line x1=\"%s\" y1=\"0\" x2=\"%s\" y2=\"%s\" stroke=\"#ef4444\" stroke-width=\"0.1\" />\n",
			fmtMm(seamX), fmtMm(seamX), fmtMm(canvasHeight))
		fmt.Fprintf(&b,
			"    <line x1=\"%s\" y1=\"0\" x2=\"%s\" y2=\"%s\" stroke=\"#ef4444\" stroke-width=\"0.1\" />\n",
			fmtMm(seamX+wrapWidth), fmtMm(seamX+wrapWidth), fmtMm(canvasHeight))
		b.WriteString("  </g>\n")
	}
	b.WriteString("</svg>")
	return b.String()
}
