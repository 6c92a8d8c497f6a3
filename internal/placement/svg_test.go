package placement

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, canvasW, canvasH float64, objects string) *Document {
	t.Helper()
	doc, err := Parse(docWithObjects(canvasW, canvasH, objects))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return doc
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`&<>"'`)
	want := "&amp;&lt;&gt;&quot;&apos;"
	if got != want {
		t.Errorf("escapeXML = %q, want %q", got, want)
	}
	// A pre-escaped entity is escaped again, not left alone: the ampersand
	// pass runs first.
	if got := escapeXML("&amp;"); got != "&amp;amp;" {
		t.Errorf("escapeXML(&amp;) = %q, want &amp;amp;", got)
	}
}

func TestBuildPrintSVGHeader(t *testing.T) {
	doc := mustParse(t, 60, 40, "")
	svg := BuildPrintSVG(doc, `mug-11oz "special"`)

	if !strings.HasPrefix(svg, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n") {
		t.Errorf("missing xml declaration: %q", svg)
	}
	if !strings.Contains(svg, `width="60mm" height="40mm" viewBox="0 0 60 40"`) {
		t.Errorf("header dimensions wrong: %q", svg)
	}
	if !strings.Contains(svg, `data-product-profile="mug-11oz &quot;special&quot;"`) {
		t.Errorf("product profile attribute not escaped: %q", svg)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("missing closing tag: %q", svg)
	}
}

func TestBuildPrintSVGText(t *testing.T) {
	doc := mustParse(t, 50, 50,
		`{"id":"t1","kind":"text_line","offsetXMm":10,"offsetYMm":10,"boxWidthMm":20,"boxHeightMm":6,"fontSizeMm":5,"fontFamily":"Courier","content":"A<B"}`)
	svg := BuildPrintSVG(doc, "p")

	// Baseline sits one font-size below the bounds top.
	want := `<text id="t1" x="10" y="15" font-family="Courier" font-size="5">A&lt;B</text>`
	if !strings.Contains(svg, want) {
		t.Errorf("svg missing %q:\n%s", want, svg)
	}
}

func TestBuildPrintSVGTextDefaults(t *testing.T) {
	doc := mustParse(t, 50, 50,
		`{"id":"t1","kind":"text_block","offsetXMm":10,"offsetYMm":10,"boxWidthMm":20,"boxHeightMm":6,"content":"hi"}`)
	svg := BuildPrintSVG(doc, "p")

	if !strings.Contains(svg, `font-family="Arial" font-size="1"`) {
		t.Errorf("font defaults not applied:\n%s", svg)
	}
}

func TestBuildPrintSVGImage(t *testing.T) {
	doc := mustParse(t, 50, 50,
		`{"id":"i1","kind":"image","xMm":5,"yMm":6,"widthMm":10,"heightMm":8,"assetId":"asset-9","opacity":0.5}`)
	svg := BuildPrintSVG(doc, "p")

	want := `<image id="i1" x="5" y="6" width="10" height="8" href="/api/assets/asset-9" opacity="0.5" preserveAspectRatio="none" />`
	if !strings.Contains(svg, want) {
		t.Errorf("svg missing %q:\n%s", want, svg)
	}
}

func TestBuildPrintSVGVector(t *testing.T) {
	doc := mustParse(t, 50, 50,
		`{"id":"v1","kind":"vector","offsetXMm":1,"offsetYMm":1,"boxWidthMm":5,"boxHeightMm":5,"pathData":"M 0 0 L 5 5"}`)
	svg := BuildPrintSVG(doc, "p")

	want := `<path id="v1" d="M 0 0 L 5 5" fill="none" stroke="black" stroke-width="0.1" />`
	if !strings.Contains(svg, want) {
		t.Errorf("svg missing %q:\n%s", want, svg)
	}
}

func wrapDoc(t *testing.T, objects string) *Document {
	t.Helper()
	raw := `{"version":2,"canvas":{"widthMm":100,"heightMm":40},"machine":{},` +
		`"wrap":{"enabled":true,"wrapWidthMm":100,"seamXmm":0,"microOverlapMm":2},"objects":[` + objects + `]}`
	doc, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return doc
}

func TestBuildWrapSVGSeamDuplication(t *testing.T) {
	// Object touching the right seam band (x+w = 99 >= 100-2): duplicated one
	// wrap-width to the left.
	doc := wrapDoc(t,
		`{"id":"r","kind":"text_line","offsetXMm":95,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`)
	svg := BuildWrapSVG(doc, false)

	if !strings.Contains(svg, `translate(95 10)`) {
		t.Errorf("primary fragment missing:\n%s", svg)
	}
	if !strings.Contains(svg, `translate(-5 10)`) {
		t.Errorf("left duplicate missing:\n%s", svg)
	}
	if count := strings.Count(svg, `id="r"`); count != 2 {
		t.Errorf("fragment count = %d, want 2", count)
	}
}

func TestBuildWrapSVGLeftEdgeDuplication(t *testing.T) {
	// Object at the left edge (x = 1 <= overlap 2): duplicated one wrap-width
	// to the right.
	doc := wrapDoc(t,
		`{"id":"l","kind":"text_line","offsetXMm":1,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`)
	svg := BuildWrapSVG(doc, false)

	if !strings.Contains(svg, `translate(1 10)`) {
		t.Errorf("primary fragment missing:\n%s", svg)
	}
	if !strings.Contains(svg, `translate(101 10)`) {
		t.Errorf("right duplicate missing:\n%s", svg)
	}
}

func TestBuildWrapSVGNoDuplicationMidCanvas(t *testing.T) {
	doc := wrapDoc(t,
		`{"id":"m","kind":"text_line","offsetXMm":50,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`)
	svg := BuildWrapSVG(doc, false)
	if count := strings.Count(svg, `id="m"`); count != 1 {
		t.Errorf("fragment count = %d, want 1", count)
	}
}

func TestBuildWrapSVGGuides(t *testing.T) {
	doc := wrapDoc(t, "")

	withGuides := BuildWrapSVG(doc, true)
	if !strings.Contains(withGuides, `<g id="guides">`) {
		t.Errorf("guides group missing:\n%s", withGuides)
	}
	if strings.Count(withGuides, "<line ") != 2 {
		t.Errorf("guide line count = %d, want 2", strings.Count(withGuides, "<line "))
	}
	if !strings.Contains(withGuides, `x1="100"`) {
		t.Errorf("second guide should sit at seamX + wrapWidth:\n%s", withGuides)
	}

	withoutGuides := BuildWrapSVG(doc, false)
	if strings.Contains(withoutGuides, `<g id="guides">`) {
		t.Errorf("guides rendered without the flag:\n%s", withoutGuides)
	}
}

func TestBuildWrapSVGGuidesRequireWrapEnabled(t *testing.T) {
	doc := mustParse(t, 100, 40, "")
	svg := BuildWrapSVG(doc, true)
	if strings.Contains(svg, `<g id="guides">`) {
		t.Errorf("guides rendered for a non-wrap document:\n%s", svg)
	}
}

func TestBuildWrapSVGTextAttributes(t *testing.T) {
	doc := wrapDoc(t,
		`{"id":"t","kind":"text_line","offsetXMm":20,"offsetYMm":10,"boxWidthMm":10,"boxHeightMm":4,"fontSizeMm":4,"horizontalAlign":"center","fillMode":"stroke","strokeWidthMm":0.2,"rotationDeg":45,"content":"hey"}`)
	svg := BuildWrapSVG(doc, false)

	want := `<text id="t" transform="translate(20 10) rotate(45)" font-family="Arial" font-size="4mm" text-anchor="middle" fill="none" stroke="black" stroke-width="0.2">hey</text>`
	if !strings.Contains(svg, want) {
		t.Errorf("svg missing %q:\n%s", want, svg)
	}
}

func TestBuildWrapSVGImageFootprint(t *testing.T) {
	doc := wrapDoc(t,
		`{"id":"i","kind":"image","xMm":30,"yMm":5,"widthMm":10,"heightMm":8,"assetId":"a1"}`)
	svg := BuildWrapSVG(doc, false)

	want := `<rect id="i" x="30" y="5" width="10" height="8" fill="none" stroke="black" stroke-width="0.1" />`
	if !strings.Contains(svg, want) {
		t.Errorf("svg missing %q:\n%s", want, svg)
	}
	if strings.Contains(svg, "<image") {
		t.Errorf("wrap export embedded a bitmap:\n%s", svg)
	}
}
