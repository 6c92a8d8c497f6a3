package services

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/apperr"
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/placement"
	"github.com/laser-thinhs/lt316-customizer-app/internal/repos"
)

// proofScalePxPerMm keeps proofs crisp enough for operator review without
// producing multi-megabyte PNGs for large canvases.
const proofScalePxPerMm = 8

// ProofService renders an operator-facing PNG proof of a job's placement
// layout and records its path on the job.
type ProofService interface {
	Render(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ProofInfo, error)
}

type proofService struct {
	db       *gorm.DB
	log      *logger.Logger
	jobs     repos.DesignJobRepo
	proofDir string
}

func NewProofService(db *gorm.DB, baseLog *logger.Logger, jobs repos.DesignJobRepo, proofDir string) ProofService {
	return &proofService{
		db:       db,
		log:      baseLog.With("service", "ProofService"),
		jobs:     jobs,
		proofDir: proofDir,
	}
}

func (s *proofService) Render(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ProofInfo, error) {
	job, err := s.jobs.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFound("DesignJob")
	}

	doc, err := placement.Parse(json.RawMessage(job.PlacementJSON))
	if err != nil {
		return nil, invalidPlacementError(http.StatusBadRequest)
	}

	canvasWidth, okW := doc.Canvas.WidthMm.Float()
	canvasHeight, okH := doc.Canvas.HeightMm.Float()
	if !okW || !okH || canvasWidth <= 0 || canvasHeight <= 0 {
		return nil, invalidPlacementError(http.StatusBadRequest)
	}

	dc := gg.NewContext(int(canvasWidth*proofScalePxPerMm), int(canvasHeight*proofScalePxPerMm))
	dc.SetColor(color.White)
	dc.Clear()

	// Canvas border.
	dc.SetColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff})
	dc.SetLineWidth(2)
	dc.DrawRectangle(0, 0, canvasWidth*proofScalePxPerMm, canvasHeight*proofScalePxPerMm)
	dc.Stroke()

	for _, obj := range doc.VisibleSorted() {
		bounds, ok := placement.ResolveBounds(obj)
		if !ok {
			continue
		}
		drawProofObject(dc, obj, bounds)
	}

	if err := os.MkdirAll(s.proofDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create proof directory: %w", err)
	}
	proofPath := filepath.Join(s.proofDir, fmt.Sprintf("job-%s.png", job.ID.String()))
	if err := dc.SavePNG(proofPath); err != nil {
		return nil, fmt.Errorf("failed to save proof image: %w", err)
	}

	job.ProofImagePath = &proofPath
	job.UpdatedAt = time.Now().UTC()
	if _, err := s.jobs.Save(ctx, tx, job); err != nil {
		return nil, err
	}

	s.log.Info("Proof rendered", "job_id", job.ID, "path", proofPath)
	return &ProofInfo{
		DesignJobID:    job.ID.String(),
		ProofImagePath: job.ProofImagePath,
		PlacementHash:  job.PlacementHash,
	}, nil
}

func drawProofObject(dc *gg.Context, obj placement.Object, bounds placement.Bounds) {
	x := bounds.XMm * proofScalePxPerMm
	y := bounds.YMm * proofScalePxPerMm
	w := bounds.WidthMm * proofScalePxPerMm
	h := bounds.HeightMm * proofScalePxPerMm

	switch {
	case obj.Kind == placement.KindImage:
		// Images render as a filled gray box with an outline, matching the
		// wrap SVG's placeholder treatment.
		dc.SetColor(color.NRGBA{R: 0xd4, G: 0xd4, B: 0xd4, A: 0xff})
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		dc.SetColor(color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff})
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	case obj.IsText():
		dc.SetColor(color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0x50})
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()
		dc.SetColor(color.NRGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff})
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	default:
		dc.SetColor(color.NRGBA{A: 0xff})
		dc.SetLineWidth(1)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	}
}
