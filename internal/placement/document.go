// Package placement holds the design-job core: the canvas/objects document
// model, geometric bounds resolution, the preflight rule engine, and the
// manifest/SVG export builders. Everything in this package is pure; the
// database and HTTP layers live elsewhere.
package placement

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
)

// ErrInvalidDocument rejects a placement payload that matches neither the
// current (version 2) shape nor the recognized legacy single-object shape.
var ErrInvalidDocument = errors.New("Invalid placement payload")

const (
	KindTextLine  = "text_line"
	KindTextBlock = "text_block"
	KindTextArc   = "text_arc"
	KindImage     = "image"
	KindVector    = "vector"
)

const (
	AnchorTopLeft     = "top-left"
	AnchorTopRight    = "top-right"
	AnchorBottomLeft  = "bottom-left"
	AnchorBottomRight = "bottom-right"
	AnchorCenter      = "center"
)

const defaultStrokeWidthWarningThresholdMm = 0.1

type Canvas struct {
	WidthMm  Number
	HeightMm Number
}

type MachineSettings struct {
	StrokeWidthWarningThresholdMm Number
}

type WrapSettings struct {
	Enabled        bool
	WrapWidthMm    Number
	SeamXMm        Number
	MicroOverlapMm Number
}

// Object is one placement object, decoded tolerantly: a wrong-typed field
// counts as absent rather than failing the document. Image objects carry
// absolute coordinates; every other kind is anchor-relative.
type Object struct {
	Kind    string
	ID      string
	IDSet   bool
	ZIndex  Number
	Visible bool

	// absolute coordinates (image kind)
	XMm      Number
	YMm      Number
	WidthMm  Number
	HeightMm Number

	// anchor-relative coordinates (all other kinds)
	OffsetXMm   Number
	OffsetYMm   Number
	BoxWidthMm  Number
	BoxHeightMm Number
	Anchor      string

	RotationDeg Number
	MirrorX     bool
	MirrorY     bool

	AssetID string

	FillMode      string
	StrokeWidthMm Number

	FontFamily      string
	FontSizeMm      Number
	Content         string
	HorizontalAlign string

	PathData string
	Opacity  Number

	valid bool // decoded from a JSON object
}

func (o *Object) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		// Non-object entries in the objects array are skipped, not fatal.
		return nil
	}
	o.valid = true
	o.Visible = true

	o.Kind = stringField(fields["kind"], "")
	if raw, ok := fields["id"]; ok {
		o.ID = stringField(raw, "")
		o.IDSet = true
	}
	numberField(fields, "zIndex", &o.ZIndex)
	if raw, ok := fields["visible"]; ok && string(raw) == "false" {
		o.Visible = false
	}

	numberField(fields, "xMm", &o.XMm)
	numberField(fields, "yMm", &o.YMm)
	numberField(fields, "widthMm", &o.WidthMm)
	numberField(fields, "heightMm", &o.HeightMm)

	numberField(fields, "offsetXMm", &o.OffsetXMm)
	numberField(fields, "offsetYMm", &o.OffsetYMm)
	numberField(fields, "boxWidthMm", &o.BoxWidthMm)
	numberField(fields, "boxHeightMm", &o.BoxHeightMm)
	o.Anchor = stringField(fields["anchor"], AnchorTopLeft)

	numberField(fields, "rotationDeg", &o.RotationDeg)
	o.MirrorX = truthy(fields["mirrorX"])
	o.MirrorY = truthy(fields["mirrorY"])

	o.AssetID = stringField(fields["assetId"], "")

	o.FillMode = stringField(fields["fillMode"], "")
	numberField(fields, "strokeWidthMm", &o.StrokeWidthMm)

	o.FontFamily = stringField(fields["fontFamily"], "")
	numberField(fields, "fontSizeMm", &o.FontSizeMm)
	o.Content = stringField(fields["content"], "")
	o.HorizontalAlign = stringField(fields["horizontalAlign"], "")

	o.PathData = stringField(fields["pathData"], "")
	numberField(fields, "opacity", &o.Opacity)

	return nil
}

// IsText reports whether the object is one of the text variants.
func (o Object) IsText() bool {
	switch o.Kind {
	case KindTextLine, KindTextBlock, KindTextArc:
		return true
	}
	return false
}

// Document is a parsed placement document. The original payload bytes are
// retained verbatim: valid current-shape documents pass through unchanged so
// storage and API echoes stay byte-identical with what the editor sent.
type Document struct {
	Version int
	Canvas  Canvas
	Machine MachineSettings
	Wrap    WrapSettings
	Objects []Object

	raw json.RawMessage
}

// Raw returns the canonical JSON for this document.
func (d *Document) Raw() json.RawMessage {
	return d.raw
}

// StrokeThreshold resolves the machine stroke-width warning threshold with
// its 0.1mm default.
func (d *Document) StrokeThreshold() float64 {
	return d.Machine.StrokeWidthWarningThresholdMm.ValueOr(defaultStrokeWidthWarningThresholdMm)
}

// VisibleSorted returns the renderable objects in canonical order: visible
// objects stable-sorted by (zIndex ascending, id ascending as string). Every
// downstream consumer (preflight issue order, manifest order, SVG element
// order) iterates this exact sequence.
func (d *Document) VisibleSorted() []Object {
	out := make([]Object, 0, len(d.Objects))
	for _, obj := range d.Objects {
		if obj.valid && obj.Visible {
			out = append(out, obj)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		zi, zj := out[i].ZIndex.ValueOr(0), out[j].ZIndex.ValueOr(0)
		if zi != zj {
			return zi < zj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type defaultDocWire struct {
	Version int               `json:"version"`
	Canvas  map[string]any    `json:"canvas"`
	Machine map[string]any    `json:"machine"`
	Objects []json.RawMessage `json:"objects"`
}

func synthesizeDocumentRaw(widthMm, heightMm float64) json.RawMessage {
	raw, _ := json.Marshal(defaultDocWire{
		Version: 2,
		Canvas:  map[string]any{"widthMm": widthMm, "heightMm": heightMm},
		Machine: map[string]any{"strokeWidthWarningThresholdMm": defaultStrokeWidthWarningThresholdMm},
		Objects: []json.RawMessage{},
	})
	return raw
}

// CreateDefault returns the empty version-2 document every new job starts
// from: a 50×50mm canvas with the default stroke warning threshold.
func CreateDefault() *Document {
	doc, _ := Parse(synthesizeDocumentRaw(50, 50))
	return doc
}

var legacyKeys = []string{"widthMm", "heightMm", "offsetXMm", "offsetYMm", "rotationDeg", "anchor"}

// Parse validates raw as a placement document. Current-shape documents are
// passed through; recognized legacy single-object documents are upgraded to
// an empty version-2 document (the legacy offset/rotation/anchor fields are
// dropped per the migration contract). Anything else is ErrInvalidDocument.
func Parse(raw json.RawMessage) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, ErrInvalidDocument
	}

	if isCurrentShape(top) {
		doc, err := decodeCurrent(top)
		if err != nil {
			return nil, err
		}
		doc.raw = raw
		return doc, nil
	}

	if hasAllKeys(top, legacyKeys) {
		var width, height Number
		numberField(top, "widthMm", &width)
		numberField(top, "heightMm", &height)
		if !width.IsStrictNumber() || !height.IsStrictNumber() {
			return nil, ErrInvalidDocument
		}
		w, _ := width.Float()
		h, _ := height.Float()
		return Parse(synthesizeDocumentRaw(w, h))
	}

	return nil, ErrInvalidDocument
}

func isCurrentShape(top map[string]json.RawMessage) bool {
	var version float64
	if top["version"] == nil || json.Unmarshal(top["version"], &version) != nil || version != 2 {
		return false
	}
	return isJSONObject(top["canvas"]) && isJSONObject(top["machine"]) && isJSONArray(top["objects"])
}

func decodeCurrent(top map[string]json.RawMessage) (*Document, error) {
	var canvasFields map[string]json.RawMessage
	if err := json.Unmarshal(top["canvas"], &canvasFields); err != nil {
		return nil, ErrInvalidDocument
	}

	doc := &Document{Version: 2}
	numberField(canvasFields, "widthMm", &doc.Canvas.WidthMm)
	numberField(canvasFields, "heightMm", &doc.Canvas.HeightMm)
	if !doc.Canvas.WidthMm.IsStrictNumber() || !doc.Canvas.HeightMm.IsStrictNumber() {
		return nil, ErrInvalidDocument
	}

	var machineFields map[string]json.RawMessage
	if err := json.Unmarshal(top["machine"], &machineFields); err == nil {
		numberField(machineFields, "strokeWidthWarningThresholdMm", &doc.Machine.StrokeWidthWarningThresholdMm)
	}

	var wrapFields map[string]json.RawMessage
	if raw, ok := top["wrap"]; ok {
		if err := json.Unmarshal(raw, &wrapFields); err == nil && wrapFields != nil {
			doc.Wrap.Enabled = truthy(wrapFields["enabled"])
			numberField(wrapFields, "wrapWidthMm", &doc.Wrap.WrapWidthMm)
			numberField(wrapFields, "seamXmm", &doc.Wrap.SeamXMm)
			numberField(wrapFields, "microOverlapMm", &doc.Wrap.MicroOverlapMm)
		}
	}

	// Object decoding is tolerant element-by-element, so this cannot fail
	// once the objects field is known to be an array.
	_ = json.Unmarshal(top["objects"], &doc.Objects)

	return doc, nil
}

func hasAllKeys(top map[string]json.RawMessage, keys []string) bool {
	for _, key := range keys {
		if _, ok := top[key]; !ok {
			return false
		}
	}
	return true
}

func isJSONObject(raw json.RawMessage) bool {
	var m map[string]json.RawMessage
	return raw != nil && json.Unmarshal(raw, &m) == nil && m != nil
}

func isJSONArray(raw json.RawMessage) bool {
	var a []json.RawMessage
	return raw != nil && json.Unmarshal(raw, &a) == nil && string(raw) != "null"
}

func numberField(fields map[string]json.RawMessage, key string, dst *Number) {
	if raw, ok := fields[key]; ok {
		_ = dst.UnmarshalJSON(raw)
	}
}

// stringField coerces scalar values to strings the way the editor payloads
// expect: strings pass through, numbers and booleans are formatted, anything
// else falls back to def.
func stringField(raw json.RawMessage, def string) string {
	if raw == nil {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return def
}

// truthy implements loose boolean coercion: true, non-zero numbers and
// non-empty strings all enable a flag.
func truthy(raw json.RawMessage) bool {
	if raw == nil {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	return false
}
