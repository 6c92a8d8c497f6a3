package placement

import (
	"encoding/json"
	"fmt"
)

// SeamMarginMm is the distance from the canvas edges inside which artwork is
// flagged as seam-risky for wrap-around prints.
const SeamMarginMm = 1.0

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

const (
	IssueInvalidPlacement       = "INVALID_PLACEMENT"
	IssueCanvasExceedsZone      = "CANVAS_EXCEEDS_ENGRAVE_ZONE"
	IssueInvalidObjectData      = "INVALID_OBJECT_DATA"
	IssueObjectOutOfCanvas      = "OBJECT_OUT_OF_CANVAS"
	IssueObjectOutOfEngraveZone = "OBJECT_OUT_OF_ENGRAVE_ZONE"
	IssueStrokeTooThin          = "STROKE_TOO_THIN"
	IssueMissingAssetReference  = "MISSING_ASSET_REFERENCE"
	IssueSeamRisk               = "SEAM_RISK"
	IssueObjectOverlapRisk      = "OBJECT_OVERLAP_RISK"
)

// Issue is one preflight finding. Issues are data, not errors: a job with
// failing issues still gets a well-formed preflight result.
type Issue struct {
	Code         string  `json:"code"`
	Severity     string  `json:"severity"`
	Message      string  `json:"message"`
	ObjectID     *string `json:"objectId,omitempty"`
	SuggestedFix string  `json:"suggestedFix"`
}

// PreflightResult is the verdict plus itemized issues, in emission order.
type PreflightResult struct {
	Status string  `json:"status"`
	Issues []Issue `json:"issues"`
}

// EngraveZone is the product's printable area. Nil dimensions mean the zone
// is unknown and zone checks are skipped.
type EngraveZone struct {
	WidthMm  *float64
	HeightMm *float64
}

// AssetRef identifies one uploaded asset an image object may reference, by
// id, by stored file path, or by its API URL.
type AssetRef struct {
	ID       string
	FilePath string
}

func invalidPlacementResult() PreflightResult {
	return PreflightResult{
		Status: StatusFail,
		Issues: []Issue{{
			Code:         IssueInvalidPlacement,
			Severity:     SeverityError,
			Message:      "Placement payload is invalid and cannot be parsed.",
			SuggestedFix: "Open the job editor and save placement again.",
		}},
	}
}

// RunPreflight validates a placement document against the product's engrave
// zone and the job's uploaded assets. It always returns a result: a payload
// that cannot even be parsed degenerates to a single-issue fail verdict.
func RunPreflight(raw json.RawMessage, zone EngraveZone, assets []AssetRef) PreflightResult {
	doc, err := Parse(raw)
	if err != nil {
		return invalidPlacementResult()
	}

	canvasWidth, okW := doc.Canvas.WidthMm.Float()
	canvasHeight, okH := doc.Canvas.HeightMm.Float()
	if !okW || !okH {
		return invalidPlacementResult()
	}

	issues := []Issue{}

	zoneKnown := zone.WidthMm != nil && zone.HeightMm != nil
	if zoneKnown && (canvasWidth > *zone.WidthMm || canvasHeight > *zone.HeightMm) {
		issues = append(issues, Issue{
			Code:         IssueCanvasExceedsZone,
			Severity:     SeverityError,
			Message:      "Canvas dimensions exceed product engrave zone.",
			SuggestedFix: "Resize canvas to fit within product profile engrave zone.",
		})
	}

	knownAssets := make(map[string]struct{}, len(assets)*3)
	for _, asset := range assets {
		knownAssets[asset.ID] = struct{}{}
		knownAssets[asset.FilePath] = struct{}{}
		knownAssets["/api/assets/"+asset.ID] = struct{}{}
	}

	strokeThreshold := doc.StrokeThreshold()

	type placed struct {
		obj    Object
		bounds Bounds
	}
	resolved := []placed{}

	for _, obj := range doc.VisibleSorted() {
		objectID := issueObjectID(obj)

		bounds, ok := ResolveBounds(obj)
		if !ok {
			issues = append(issues, Issue{
				Code:         IssueInvalidObjectData,
				Severity:     SeverityError,
				Message:      "Object has invalid geometry values.",
				ObjectID:     objectID,
				SuggestedFix: "Recreate this object in the editor.",
			})
			continue
		}
		resolved = append(resolved, placed{obj: obj, bounds: bounds})

		if bounds.XMm < 0 || bounds.YMm < 0 ||
			bounds.XMm+bounds.WidthMm > canvasWidth ||
			bounds.YMm+bounds.HeightMm > canvasHeight {
			issues = append(issues, Issue{
				Code:         IssueObjectOutOfCanvas,
				Severity:     SeverityError,
				Message:      "Object exceeds canvas bounds.",
				ObjectID:     objectID,
				SuggestedFix: "Move or resize object within canvas bounds.",
			})
		}

		if zoneKnown {
			if bounds.XMm < 0 || bounds.YMm < 0 ||
				bounds.XMm+bounds.WidthMm > *zone.WidthMm ||
				bounds.YMm+bounds.HeightMm > *zone.HeightMm {
				issues = append(issues, Issue{
					Code:         IssueObjectOutOfEngraveZone,
					Severity:     SeverityError,
					Message:      "Object exceeds product engrave zone.",
					ObjectID:     objectID,
					SuggestedFix: "Clamp object to engrave zone before export.",
				})
			}
		}

		if obj.IsText() && obj.FillMode == "stroke" {
			if strokeWidth, ok := obj.StrokeWidthMm.Float(); ok && strokeWidth < strokeThreshold {
				issues = append(issues, Issue{
					Code:         IssueStrokeTooThin,
					Severity:     SeverityWarning,
					Message:      fmt.Sprintf("Stroke width %vmm is below threshold %vmm.", strokeWidth, strokeThreshold),
					ObjectID:     objectID,
					SuggestedFix: "Increase stroke width or switch to fill mode.",
				})
			}
		}

		if obj.Kind == KindImage {
			if _, ok := knownAssets[obj.AssetID]; !ok {
				issues = append(issues, Issue{
					Code:         IssueMissingAssetReference,
					Severity:     SeverityError,
					Message:      "Image object references a missing asset.",
					ObjectID:     objectID,
					SuggestedFix: "Upload/relink the image asset before export.",
				})
			}
		}

		if bounds.XMm <= SeamMarginMm || bounds.XMm+bounds.WidthMm >= canvasWidth-SeamMarginMm {
			issues = append(issues, Issue{
				Code:         IssueSeamRisk,
				Severity:     SeverityWarning,
				Message:      "Object is very close to the seam boundary.",
				ObjectID:     objectID,
				SuggestedFix: "Offset object away from seam boundary.",
			})
		}
	}

	for i := 0; i < len(resolved); i++ {
		for j := i + 1; j < len(resolved); j++ {
			if resolved[i].bounds.Intersects(resolved[j].bounds) {
				issues = append(issues, Issue{
					Code:         IssueObjectOverlapRisk,
					Severity:     SeverityWarning,
					Message:      fmt.Sprintf("Objects %s and %s overlap and may over-burn.", resolved[i].obj.ID, resolved[j].obj.ID),
					ObjectID:     issueObjectID(resolved[i].obj),
					SuggestedFix: "Separate objects or tune operation order/power in LightBurn.",
				})
			}
		}
	}

	return PreflightResult{Status: verdict(issues), Issues: issues}
}

func verdict(issues []Issue) string {
	hasWarning := false
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			return StatusFail
		case SeverityWarning:
			hasWarning = true
		}
	}
	if hasWarning {
		return StatusWarn
	}
	return StatusPass
}

// ErrorCount tallies error-severity issues.
func (r PreflightResult) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount tallies warning-severity issues.
func (r PreflightResult) WarningCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

func issueObjectID(obj Object) *string {
	if !obj.IDSet {
		return nil
	}
	id := obj.ID
	return &id
}
