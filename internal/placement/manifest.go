package placement

import "time"

// ManifestVersion tags the manifest schema consumed by the downstream
// engraving toolchain.
const ManifestVersion = "1.0"

type ManifestSource struct {
	Anchor      string  `json:"anchor"`
	OffsetXMm   float64 `json:"offsetXMm"`
	OffsetYMm   float64 `json:"offsetYMm"`
	BoxWidthMm  float64 `json:"boxWidthMm"`
	BoxHeightMm float64 `json:"boxHeightMm"`
	RotationDeg float64 `json:"rotationDeg"`
	MirrorX     bool    `json:"mirrorX"`
	MirrorY     bool    `json:"mirrorY"`
}

type ManifestObject struct {
	ID               *string        `json:"id"`
	Kind             string         `json:"kind"`
	ZIndex           int            `json:"zIndex"`
	Source           ManifestSource `json:"source"`
	AbsoluteBoundsMm Bounds         `json:"absoluteBoundsMm"`
}

type ManifestProduct struct {
	ID                  string  `json:"id"`
	SKU                 string  `json:"sku"`
	Name                string  `json:"name"`
	EngraveZoneWidthMm  float64 `json:"engraveZoneWidthMm"`
	EngraveZoneHeightMm float64 `json:"engraveZoneHeightMm"`
	DiameterMm          float64 `json:"diameterMm"`
	HeightMm            float64 `json:"heightMm"`
}

type ManifestPreflight struct {
	Status       string `json:"status"`
	IssueCount   int    `json:"issueCount"`
	ErrorCount   int    `json:"errorCount"`
	WarningCount int    `json:"warningCount"`
}

// Manifest is the structured export artifact. Its objects mirror the SVG
// artifact exactly: same filter, same ordering, same resolved bounds.
type Manifest struct {
	Version          string            `json:"version"`
	DesignJobID      string            `json:"designJobId"`
	MachineProfileID string            `json:"machineProfileId"`
	PlacementVersion int               `json:"placementVersion"`
	CreatedAt        time.Time         `json:"createdAt"`
	ProductProfile   ManifestProduct   `json:"productProfile"`
	Objects          []ManifestObject  `json:"objects"`
	Preflight        ManifestPreflight `json:"preflight"`
}

// BuildManifest assembles the manifest for one export run. All millimeter
// values are rounded to three decimals; objects whose bounds cannot be
// resolved are omitted.
func BuildManifest(doc *Document, jobID string, product ManifestProduct, machineID string, pre PreflightResult, now time.Time) Manifest {
	objects := []ManifestObject{}
	for index, obj := range doc.VisibleSorted() {
		bounds, ok := ResolveBounds(obj)
		if !ok {
			continue
		}

		var source ManifestSource
		if obj.Kind == KindImage {
			// Image coordinates are stored absolute, so the source record is
			// normalized to a top-left anchor and mirroring is dropped.
			source = ManifestSource{
				Anchor:      AnchorTopLeft,
				OffsetXMm:   round3(bounds.XMm),
				OffsetYMm:   round3(bounds.YMm),
				BoxWidthMm:  round3(bounds.WidthMm),
				BoxHeightMm: round3(bounds.HeightMm),
				RotationDeg: round3(obj.RotationDeg.ValueOr(0)),
				MirrorX:     false,
				MirrorY:     false,
			}
		} else {
			source = ManifestSource{
				Anchor:      obj.Anchor,
				OffsetXMm:   round3(obj.OffsetXMm.ValueOr(0)),
				OffsetYMm:   round3(obj.OffsetYMm.ValueOr(0)),
				BoxWidthMm:  round3(obj.BoxWidthMm.ValueOr(0)),
				BoxHeightMm: round3(obj.BoxHeightMm.ValueOr(0)),
				RotationDeg: round3(obj.RotationDeg.ValueOr(0)),
				MirrorX:     obj.MirrorX,
				MirrorY:     obj.MirrorY,
			}
		}

		zIndex := index
		if z, ok := obj.ZIndex.Float(); ok {
			zIndex = int(z)
		}

		objects = append(objects, ManifestObject{
			ID:               issueObjectID(obj),
			Kind:             obj.Kind,
			ZIndex:           zIndex,
			Source:           source,
			AbsoluteBoundsMm: bounds.Rounded(),
		})
	}

	return Manifest{
		Version:          ManifestVersion,
		DesignJobID:      jobID,
		MachineProfileID: machineID,
		PlacementVersion: doc.Version,
		CreatedAt:        now.UTC(),
		ProductProfile:   product,
		Objects:          objects,
		Preflight: ManifestPreflight{
			Status:       pre.Status,
			IssueCount:   len(pre.Issues),
			ErrorCount:   pre.ErrorCount(),
			WarningCount: pre.WarningCount(),
		},
	}
}
