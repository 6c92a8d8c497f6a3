package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/apperr"
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/placement"
	"github.com/laser-thinhs/lt316-customizer-app/internal/repos"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

// AssetView is the asset shape the API exposes, including the legacy
// filename/mime/bytes/path aliases older clients still read.
type AssetView struct {
	ID           string    `json:"id"`
	DesignJobID  string    `json:"designJobId"`
	Kind         string    `json:"kind"`
	Filename     string    `json:"filename"`
	Mime         string    `json:"mime"`
	Bytes        *int64    `json:"bytes"`
	OriginalName *string   `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	ByteSize     *int64    `json:"byteSize"`
	FilePath     string    `json:"filePath"`
	URL          string    `json:"url"`
	Path         string    `json:"path"`
	WidthPx      *int      `json:"widthPx"`
	HeightPx     *int      `json:"heightPx"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DesignJobDetail is a job denormalized with its product, machine and
// (when requested) assets.
type DesignJobDetail struct {
	ID               string                `json:"id"`
	OrderRef         *string               `json:"orderRef"`
	ProductProfileID string                `json:"productProfileId"`
	MachineProfileID string                `json:"machineProfileId"`
	Status           string                `json:"status"`
	PlacementJSON    json.RawMessage       `json:"placementJson"`
	PreviewImagePath *string               `json:"previewImagePath"`
	ProofImagePath   *string               `json:"proofImagePath"`
	PlacementHash    *string               `json:"placementHash"`
	TemplateID       *string               `json:"templateId"`
	BatchRunItemID   *string               `json:"batchRunItemId"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
	ProductProfile   *types.ProductProfile `json:"productProfile"`
	MachineProfile   *types.MachineProfile `json:"machineProfile"`
	Assets           *[]AssetView          `json:"assets,omitempty"`
}

type ProofInfo struct {
	DesignJobID    string  `json:"designJobId"`
	ProofImagePath *string `json:"proofImagePath"`
	PlacementHash  *string `json:"placementHash"`
}

type CreateDesignJobInput struct {
	OrderRef         *string
	ProductProfileID string
	MachineProfileID string
	PlacementJSON    json.RawMessage
	PreviewImagePath *string
}

type ExportMetadata struct {
	PreflightStatus string `json:"preflightStatus"`
	IssueCount      int    `json:"issueCount"`
}

type ExportResult struct {
	Manifest placement.Manifest `json:"manifest"`
	SVG      string             `json:"svg"`
	Metadata ExportMetadata     `json:"metadata"`
}

// DesignJobService sequences the design-job workflow: placement validation,
// preflight, and the fail-closed export that persists the two artifacts.
type DesignJobService interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*DesignJobDetail, error)
	GetProof(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ProofInfo, error)
	ListAssets(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]AssetView, error)
	Create(ctx context.Context, tx *gorm.DB, input CreateDesignJobInput) (*DesignJobDetail, error)
	UpdatePlacement(ctx context.Context, tx *gorm.DB, id uuid.UUID, placementJSON json.RawMessage) (*DesignJobDetail, error)
	Preflight(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*placement.PreflightResult, error)
	Export(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ExportResult, error)
	ExportSVG(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeGuides bool) (string, error)
}

type designJobService struct {
	db        *gorm.DB
	log       *logger.Logger
	jobs      repos.DesignJobRepo
	products  repos.ProductProfileRepo
	machines  repos.MachineProfileRepo
	assets    repos.AssetRepo
	artifacts repos.ExportArtifactRepo
}

func NewDesignJobService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobs repos.DesignJobRepo,
	products repos.ProductProfileRepo,
	machines repos.MachineProfileRepo,
	assets repos.AssetRepo,
	artifacts repos.ExportArtifactRepo,
) DesignJobService {
	return &designJobService{
		db:        db,
		log:       baseLog.With("service", "DesignJobService"),
		jobs:      jobs,
		products:  products,
		machines:  machines,
		assets:    assets,
		artifacts: artifacts,
	}
}

func invalidPlacementError(status int) *apperr.Error {
	return apperr.New(status, apperr.CodeInvalidPlacement, "Invalid placement payload")
}

func assetView(asset *types.Asset) AssetView {
	filename := asset.ID.String() + ".bin"
	if asset.OriginalName != nil && *asset.OriginalName != "" {
		filename = *asset.OriginalName
	}
	return AssetView{
		ID:           asset.ID.String(),
		DesignJobID:  asset.DesignJobID.String(),
		Kind:         asset.Kind,
		Filename:     filename,
		Mime:         asset.MimeType,
		Bytes:        asset.ByteSize,
		OriginalName: asset.OriginalName,
		MimeType:     asset.MimeType,
		ByteSize:     asset.ByteSize,
		FilePath:     asset.FilePath,
		URL:          "/api/assets/" + asset.ID.String(),
		Path:         asset.FilePath,
		WidthPx:      asset.WidthPx,
		HeightPx:     asset.HeightPx,
		CreatedAt:    asset.CreatedAt,
	}
}

func assetViews(assets []*types.Asset) []AssetView {
	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, assetView(asset))
	}
	return views
}

func assetRefs(assets []*types.Asset) []placement.AssetRef {
	refs := make([]placement.AssetRef, 0, len(assets))
	for _, asset := range assets {
		refs = append(refs, placement.AssetRef{ID: asset.ID.String(), FilePath: asset.FilePath})
	}
	return refs
}

func (s *designJobService) detail(job *types.DesignJob, product *types.ProductProfile, machine *types.MachineProfile, assets *[]AssetView) (*DesignJobDetail, error) {
	doc, err := placement.Parse(json.RawMessage(job.PlacementJSON))
	if err != nil {
		return nil, invalidPlacementError(http.StatusBadRequest)
	}
	return &DesignJobDetail{
		ID:               job.ID.String(),
		OrderRef:         job.OrderRef,
		ProductProfileID: job.ProductProfileID,
		MachineProfileID: job.MachineProfileID,
		Status:           job.Status,
		PlacementJSON:    doc.Raw(),
		PreviewImagePath: job.PreviewImagePath,
		ProofImagePath:   job.ProofImagePath,
		PlacementHash:    job.PlacementHash,
		TemplateID:       job.TemplateID,
		BatchRunItemID:   job.BatchRunItemID,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
		ProductProfile:   product,
		MachineProfile:   machine,
		Assets:           assets,
	}, nil
}

func (s *designJobService) loadJob(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DesignJob, error) {
	job, err := s.jobs.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.NotFound("DesignJob")
	}
	return job, nil
}

func (s *designJobService) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*DesignJobDetail, error) {
	job, err := s.loadJob(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, tx, job.ProductProfileID)
	if err != nil {
		return nil, err
	}
	machine, err := s.machines.GetByID(ctx, tx, job.MachineProfileID)
	if err != nil {
		return nil, err
	}
	assets, err := s.assets.GetByDesignJobID(ctx, tx, job.ID)
	if err != nil {
		return nil, err
	}
	views := assetViews(assets)
	return s.detail(job, product, machine, &views)
}

func (s *designJobService) GetProof(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ProofInfo, error) {
	job, err := s.loadJob(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	proofPath := job.ProofImagePath
	if proofPath == nil {
		proofPath = job.PreviewImagePath
	}
	return &ProofInfo{
		DesignJobID:    job.ID.String(),
		ProofImagePath: proofPath,
		PlacementHash:  job.PlacementHash,
	}, nil
}

func (s *designJobService) ListAssets(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]AssetView, error) {
	assets, err := s.assets.GetByDesignJobID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return assetViews(assets), nil
}

func (s *designJobService) Create(ctx context.Context, tx *gorm.DB, input CreateDesignJobInput) (*DesignJobDetail, error) {
	if input.OrderRef != nil {
		trimmed := strings.TrimSpace(*input.OrderRef)
		if trimmed == "" {
			return nil, apperr.New(http.StatusBadRequest, apperr.CodeValidationError, "orderRef must not be blank")
		}
		input.OrderRef = &trimmed
	}

	doc, err := placement.Parse(input.PlacementJSON)
	if err != nil {
		return nil, invalidPlacementError(http.StatusBadRequest)
	}

	product, err := s.products.GetByID(ctx, tx, input.ProductProfileID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.New(http.StatusBadRequest, apperr.CodeInvalidProductProfile, "Invalid productProfileId")
	}
	machine, err := s.machines.GetByID(ctx, tx, input.MachineProfileID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, apperr.New(http.StatusBadRequest, apperr.CodeInvalidMachineProfile, "Invalid machineProfileId")
	}

	now := time.Now().UTC()
	job := &types.DesignJob{
		ID:               uuid.New(),
		OrderRef:         input.OrderRef,
		ProductProfileID: input.ProductProfileID,
		MachineProfileID: input.MachineProfileID,
		Status:           types.DesignJobStatusDraft,
		PlacementJSON:    datatypes.JSON(doc.Raw()),
		PreviewImagePath: input.PreviewImagePath,
		ProofImagePath:   input.PreviewImagePath,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.jobs.Create(ctx, tx, job); err != nil {
		return nil, err
	}

	s.log.Info("Design job created", "job_id", job.ID, "product_profile_id", product.ID)
	return s.detail(job, product, machine, nil)
}

func (s *designJobService) UpdatePlacement(ctx context.Context, tx *gorm.DB, id uuid.UUID, placementJSON json.RawMessage) (*DesignJobDetail, error) {
	doc, err := placement.Parse(placementJSON)
	if err != nil {
		return nil, invalidPlacementError(http.StatusUnprocessableEntity)
	}

	job, err := s.loadJob(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	// Replace-on-write: the stored document is never merged or patched.
	job.PlacementJSON = datatypes.JSON(doc.Raw())
	job.UpdatedAt = time.Now().UTC()
	if _, err := s.jobs.Save(ctx, tx, job); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, tx, job.ProductProfileID)
	if err != nil {
		return nil, err
	}
	machine, err := s.machines.GetByID(ctx, tx, job.MachineProfileID)
	if err != nil {
		return nil, err
	}
	assets, err := s.assets.GetByDesignJobID(ctx, tx, job.ID)
	if err != nil {
		return nil, err
	}
	views := assetViews(assets)
	return s.detail(job, product, machine, &views)
}

func (s *designJobService) Preflight(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*placement.PreflightResult, error) {
	job, err := s.loadJob(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, tx, job.ProductProfileID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("ProductProfile")
	}
	assets, err := s.assets.GetByDesignJobID(ctx, tx, job.ID)
	if err != nil {
		return nil, err
	}

	result := placement.RunPreflight(
		json.RawMessage(job.PlacementJSON),
		engraveZone(product),
		assetRefs(assets),
	)
	return &result, nil
}

func engraveZone(product *types.ProductProfile) placement.EngraveZone {
	zoneWidth := product.EngraveZoneWidthMm
	zoneHeight := product.EngraveZoneHeightMm
	return placement.EngraveZone{WidthMm: &zoneWidth, HeightMm: &zoneHeight}
}

func (s *designJobService) Export(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ExportResult, error) {
	job, err := s.loadJob(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, tx, job.ProductProfileID)
	if err != nil {
		return nil, err
	}
	machine, err := s.machines.GetByID(ctx, tx, job.MachineProfileID)
	if err != nil {
		return nil, err
	}
	if product == nil || machine == nil {
		return nil, apperr.New(http.StatusNotFound, apperr.CodeNotFound, "Design job dependencies not found")
	}
	assets, err := s.assets.GetByDesignJobID(ctx, tx, job.ID)
	if err != nil {
		return nil, err
	}

	pre := placement.RunPreflight(json.RawMessage(job.PlacementJSON), engraveZone(product), assetRefs(assets))
	if pre.Status == placement.StatusFail {
		// Fail-closed gate: nothing is persisted when preflight fails.
		return nil, apperr.New(http.StatusUnprocessableEntity, apperr.CodePreflightFailed, "Preflight failed").WithDetails(pre)
	}

	doc, err := placement.Parse(json.RawMessage(job.PlacementJSON))
	if err != nil {
		return nil, invalidPlacementError(http.StatusBadRequest)
	}

	now := time.Now().UTC()
	manifest := placement.BuildManifest(doc, job.ID.String(), placement.ManifestProduct{
		ID:                  product.ID,
		SKU:                 product.SKU,
		Name:                product.Name,
		EngraveZoneWidthMm:  product.EngraveZoneWidthMm,
		EngraveZoneHeightMm: product.EngraveZoneHeightMm,
		DiameterMm:          product.DiameterMm,
		HeightMm:            product.HeightMm,
	}, machine.ID, pre, now)
	svg := placement.BuildPrintSVG(doc, product.ID)

	payloadJSON, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("marshal export manifest: %w", err)
	}

	artifacts := []*types.ExportArtifact{
		{
			ID:              uuid.New(),
			DesignJobID:     job.ID,
			Kind:            types.ExportArtifactKindManifest,
			Version:         placement.ManifestVersion,
			PreflightStatus: pre.Status,
			PayloadJSON:     datatypes.JSON(payloadJSON),
			CreatedAt:       now,
		},
		{
			ID:              uuid.New(),
			DesignJobID:     job.ID,
			Kind:            types.ExportArtifactKindSVG,
			Version:         placement.ManifestVersion,
			PreflightStatus: pre.Status,
			TextContent:     &svg,
			CreatedAt:       now,
		},
	}

	// Both artifact rows land in one transaction: a partial export can never
	// be observed.
	persist := func(transaction *gorm.DB) error {
		_, err := s.artifacts.Create(ctx, transaction, artifacts)
		return err
	}
	if tx != nil {
		err = persist(tx)
	} else {
		err = s.db.WithContext(ctx).Transaction(persist)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Design job exported", "job_id", job.ID, "preflight_status", pre.Status, "issue_count", len(pre.Issues))
	return &ExportResult{
		Manifest: manifest,
		SVG:      svg,
		Metadata: ExportMetadata{PreflightStatus: pre.Status, IssueCount: len(pre.Issues)},
	}, nil
}

func (s *designJobService) ExportSVG(ctx context.Context, tx *gorm.DB, id uuid.UUID, includeGuides bool) (string, error) {
	job, err := s.loadJob(ctx, tx, id)
	if err != nil {
		return "", err
	}
	doc, err := placement.Parse(json.RawMessage(job.PlacementJSON))
	if err != nil {
		if errors.Is(err, placement.ErrInvalidDocument) {
			return "", invalidPlacementError(http.StatusBadRequest)
		}
		return "", err
	}
	return placement.BuildWrapSVG(doc, includeGuides), nil
}
