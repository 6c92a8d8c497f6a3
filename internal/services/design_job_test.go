package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/apperr"
	"github.com/laser-thinhs/lt316-customizer-app/internal/db"
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/placement"
	"github.com/laser-thinhs/lt316-customizer-app/internal/repos"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.MigrateModels(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}

type testEnv struct {
	db        *gorm.DB
	jobs      repos.DesignJobRepo
	assets    repos.AssetRepo
	artifacts repos.ExportArtifactRepo
	svc       DesignJobService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB := newTestDB(t)
	log := testLogger()

	now := time.Now().UTC()
	product := &types.ProductProfile{
		ID:                  "tumbler-20oz",
		Name:                "20oz Tumbler",
		SKU:                 "TUM-20",
		DiameterMm:          74,
		HeightMm:            180,
		EngraveZoneWidthMm:  200,
		EngraveZoneHeightMm: 120,
		SeamReference:       "handle",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	machine := &types.MachineProfile{
		ID:        "fiber-60w",
		Name:      "Fiber 60W",
		LaserType: "fiber",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := gormDB.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := gormDB.Create(machine).Error; err != nil {
		t.Fatalf("seed machine: %v", err)
	}

	jobs := repos.NewDesignJobRepo(gormDB, log)
	products := repos.NewProductProfileRepo(gormDB, log)
	machines := repos.NewMachineProfileRepo(gormDB, log)
	assets := repos.NewAssetRepo(gormDB, log)
	artifacts := repos.NewExportArtifactRepo(gormDB, log)

	return &testEnv{
		db:        gormDB,
		jobs:      jobs,
		assets:    assets,
		artifacts: artifacts,
		svc:       NewDesignJobService(gormDB, log, jobs, products, machines, assets, artifacts),
	}
}

func placementDoc(objects string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"version":2,"canvas":{"widthMm":50,"heightMm":50},"machine":{},"objects":[%s]}`, objects))
}

func (env *testEnv) createJob(t *testing.T, placementJSON json.RawMessage) *DesignJobDetail {
	t.Helper()
	job, err := env.svc.Create(context.Background(), nil, CreateDesignJobInput{
		ProductProfileID: "tumbler-20oz",
		MachineProfileID: "fiber-60w",
		PlacementJSON:    placementJSON,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func assertAppError(t *testing.T, err error, status int, code string) *apperr.Error {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want *apperr.Error", err)
	}
	if appErr.Status != status || appErr.Code != code {
		t.Fatalf("error = (%d, %s), want (%d, %s)", appErr.Status, appErr.Code, status, code)
	}
	return appErr
}

func TestDesignJobCreate(t *testing.T) {
	env := newTestEnv(t)
	raw := placementDoc(`{"id":"a","kind":"text_line","offsetXMm":10,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`)

	job := env.createJob(t, raw)

	if job.Status != types.DesignJobStatusDraft {
		t.Errorf("status = %q, want draft", job.Status)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("id = %q, not a uuid", job.ID)
	}
	if string(job.PlacementJSON) != string(raw) {
		t.Errorf("placement echo = %s, want verbatim input", job.PlacementJSON)
	}
	if job.ProductProfile == nil || job.ProductProfile.ID != "tumbler-20oz" {
		t.Errorf("productProfile = %+v", job.ProductProfile)
	}
	if job.MachineProfile == nil || job.MachineProfile.ID != "fiber-60w" {
		t.Errorf("machineProfile = %+v", job.MachineProfile)
	}
	if job.Assets != nil {
		t.Errorf("assets = %+v, want omitted on create", job.Assets)
	}
}

func TestDesignJobCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	valid := string(placementDoc(""))

	tests := []struct {
		name       string
		input      CreateDesignJobInput
		wantStatus int
		wantCode   string
	}{
		{
			"unknown product",
			CreateDesignJobInput{ProductProfileID: "ghost", MachineProfileID: "fiber-60w", PlacementJSON: json.RawMessage(valid)},
			http.StatusBadRequest, apperr.CodeInvalidProductProfile,
		},
		{
			"unknown machine",
			CreateDesignJobInput{ProductProfileID: "tumbler-20oz", MachineProfileID: "ghost", PlacementJSON: json.RawMessage(valid)},
			http.StatusBadRequest, apperr.CodeInvalidMachineProfile,
		},
		{
			"invalid placement",
			CreateDesignJobInput{ProductProfileID: "tumbler-20oz", MachineProfileID: "fiber-60w", PlacementJSON: json.RawMessage(`{"nope":1}`)},
			http.StatusBadRequest, apperr.CodeInvalidPlacement,
		},
		{
			"blank orderRef",
			CreateDesignJobInput{OrderRef: strPtr("   "), ProductProfileID: "tumbler-20oz", MachineProfileID: "fiber-60w", PlacementJSON: json.RawMessage(valid)},
			http.StatusBadRequest, apperr.CodeValidationError,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Create(context.Background(), nil, tc.input)
			assertAppError(t, err, tc.wantStatus, tc.wantCode)
		})
	}
}

func strPtr(s string) *string { return &s }

func TestDesignJobCreateTrimsOrderRef(t *testing.T) {
	env := newTestEnv(t)
	job, err := env.svc.Create(context.Background(), nil, CreateDesignJobInput{
		OrderRef:         strPtr("  SO-1001  "),
		ProductProfileID: "tumbler-20oz",
		MachineProfileID: "fiber-60w",
		PlacementJSON:    placementDoc(""),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.OrderRef == nil || *job.OrderRef != "SO-1001" {
		t.Errorf("orderRef = %v, want SO-1001", job.OrderRef)
	}
}

func TestDesignJobCreateCopiesPreviewToProof(t *testing.T) {
	env := newTestEnv(t)
	preview := "storage/previews/p.png"
	job, err := env.svc.Create(context.Background(), nil, CreateDesignJobInput{
		ProductProfileID: "tumbler-20oz",
		MachineProfileID: "fiber-60w",
		PlacementJSON:    placementDoc(""),
		PreviewImagePath: &preview,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.ProofImagePath == nil || *job.ProofImagePath != preview {
		t.Errorf("proofImagePath = %v, want preview path copied", job.ProofImagePath)
	}
}

func TestDesignJobGetByID(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(""))

	got, err := env.svc.GetByID(context.Background(), nil, uuid.MustParse(created.ID))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("id = %q, want %q", got.ID, created.ID)
	}
	if got.Assets == nil || len(*got.Assets) != 0 {
		t.Errorf("assets = %v, want empty list on get", got.Assets)
	}
}

func TestDesignJobGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.GetByID(context.Background(), nil, uuid.New())
	appErr := assertAppError(t, err, http.StatusNotFound, apperr.CodeNotFound)
	if appErr.Message != "DesignJob not found" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestDesignJobUpdatePlacement(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(""))
	id := uuid.MustParse(created.ID)

	replacement := placementDoc(`{"id":"b","kind":"text_line","offsetXMm":5,"offsetYMm":5,"boxWidthMm":4,"boxHeightMm":2}`)
	updated, err := env.svc.UpdatePlacement(context.Background(), nil, id, replacement)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if string(updated.PlacementJSON) != string(replacement) {
		t.Errorf("placement = %s, want wholesale replacement", updated.PlacementJSON)
	}
	if updated.Status != types.DesignJobStatusDraft {
		t.Errorf("status = %q, update must not transition status", updated.Status)
	}

	t.Run("invalid payload", func(t *testing.T) {
		_, err := env.svc.UpdatePlacement(context.Background(), nil, id, json.RawMessage(`{"nope":1}`))
		assertAppError(t, err, http.StatusUnprocessableEntity, apperr.CodeInvalidPlacement)

		// The stored document is untouched after a rejected update.
		got, err := env.svc.GetByID(context.Background(), nil, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(got.PlacementJSON) != string(replacement) {
			t.Errorf("placement = %s, want previous document retained", got.PlacementJSON)
		}
	})
}

func TestDesignJobPreflight(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(
		`{"id":"a","kind":"text_line","offsetXMm":48,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`))

	result, err := env.svc.Preflight(context.Background(), nil, uuid.MustParse(created.ID))
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if result.Status != placement.StatusFail {
		t.Errorf("status = %q, want fail", result.Status)
	}
}

func TestDesignJobPreflightUsesJobAssets(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(""))
	id := uuid.MustParse(created.ID)

	assetID := uuid.New()
	asset := &types.Asset{
		ID:          assetID,
		DesignJobID: id,
		Kind:        "image",
		MimeType:    "image/png",
		FilePath:    "storage/uploads/logo.png",
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := env.assets.Create(context.Background(), nil, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	withImage := placementDoc(fmt.Sprintf(
		`{"id":"img","kind":"image","xMm":10,"yMm":10,"widthMm":4,"heightMm":2,"assetId":"%s"}`, assetID))
	if _, err := env.svc.UpdatePlacement(context.Background(), nil, id, withImage); err != nil {
		t.Fatalf("update: %v", err)
	}

	result, err := env.svc.Preflight(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	for _, issue := range result.Issues {
		if issue.Code == placement.IssueMissingAssetReference {
			t.Errorf("asset reference flagged missing: %+v", issue)
		}
	}
}

func TestDesignJobExportFailClosed(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(
		`{"id":"a","kind":"text_line","offsetXMm":60,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`))
	id := uuid.MustParse(created.ID)

	_, err := env.svc.Export(context.Background(), nil, id)
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity, apperr.CodePreflightFailed)
	if appErr.Details == nil {
		t.Error("details missing, want the preflight result attached")
	}

	rows, err := env.artifacts.GetByDesignJobID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("artifact rows = %d, want 0 after a failed export", len(rows))
	}
}

func TestDesignJobExport(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(
		`{"id":"a","kind":"text_line","offsetXMm":10,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`))
	id := uuid.MustParse(created.ID)

	result, err := env.svc.Export(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if result.Manifest.DesignJobID != created.ID {
		t.Errorf("manifest job id = %q, want %q", result.Manifest.DesignJobID, created.ID)
	}
	if !strings.Contains(result.SVG, "<svg") {
		t.Errorf("svg artifact malformed: %q", result.SVG)
	}
	if result.Metadata.PreflightStatus != placement.StatusPass {
		t.Errorf("metadata status = %q, want pass", result.Metadata.PreflightStatus)
	}

	rows, err := env.artifacts.GetByDesignJobID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("artifact rows = %d, want exactly 2", len(rows))
	}
	kinds := map[string]bool{}
	for _, row := range rows {
		kinds[row.Kind] = true
		if row.Version != placement.ManifestVersion {
			t.Errorf("artifact version = %q, want %q", row.Version, placement.ManifestVersion)
		}
		if row.PreflightStatus != placement.StatusPass {
			t.Errorf("artifact preflight status = %q, want pass", row.PreflightStatus)
		}
	}
	if !kinds[types.ExportArtifactKindManifest] || !kinds[types.ExportArtifactKindSVG] {
		t.Errorf("artifact kinds = %v, want manifest and svg", kinds)
	}

	// Export does not transition job status.
	job, err := env.svc.GetByID(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != types.DesignJobStatusDraft {
		t.Errorf("status = %q, want draft after export", job.Status)
	}
}

func TestDesignJobExportWithWarningsSucceeds(t *testing.T) {
	env := newTestEnv(t)
	// Seam-adjacent object: warn verdict, which still exports.
	created := env.createJob(t, placementDoc(
		`{"id":"a","kind":"text_line","offsetXMm":0.5,"offsetYMm":10,"boxWidthMm":4,"boxHeightMm":2}`))
	id := uuid.MustParse(created.ID)

	result, err := env.svc.Export(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if result.Metadata.PreflightStatus != placement.StatusWarn {
		t.Errorf("metadata status = %q, want warn", result.Metadata.PreflightStatus)
	}
	if result.Metadata.IssueCount == 0 {
		t.Error("issue count = 0, want the seam warning counted")
	}
}

func TestDesignJobExportSVG(t *testing.T) {
	env := newTestEnv(t)
	raw := json.RawMessage(`{"version":2,"canvas":{"widthMm":100,"heightMm":40},"machine":{},` +
		`"wrap":{"enabled":true,"wrapWidthMm":100,"seamXmm":0,"microOverlapMm":2},"objects":[]}`)
	created := env.createJob(t, raw)

	svg, err := env.svc.ExportSVG(context.Background(), nil, uuid.MustParse(created.ID), true)
	if err != nil {
		t.Fatalf("export svg: %v", err)
	}
	if !strings.Contains(svg, `<g id="guides">`) {
		t.Errorf("guides missing with includeGuides=true:\n%s", svg)
	}

	plain, err := env.svc.ExportSVG(context.Background(), nil, uuid.MustParse(created.ID), false)
	if err != nil {
		t.Fatalf("export svg: %v", err)
	}
	if strings.Contains(plain, `<g id="guides">`) {
		t.Errorf("guides rendered without the flag:\n%s", plain)
	}
}

func TestDesignJobProofInfo(t *testing.T) {
	env := newTestEnv(t)
	preview := "storage/previews/p.png"
	job, err := env.svc.Create(context.Background(), nil, CreateDesignJobInput{
		ProductProfileID: "tumbler-20oz",
		MachineProfileID: "fiber-60w",
		PlacementJSON:    placementDoc(""),
		PreviewImagePath: &preview,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	proof, err := env.svc.GetProof(context.Background(), nil, uuid.MustParse(job.ID))
	if err != nil {
		t.Fatalf("get proof: %v", err)
	}
	if proof.ProofImagePath == nil || *proof.ProofImagePath != preview {
		t.Errorf("proofImagePath = %v, want the preview fallback", proof.ProofImagePath)
	}
}

func TestAssetViewShape(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(""))
	id := uuid.MustParse(created.ID)

	assetID := uuid.New()
	name := "logo.png"
	asset := &types.Asset{
		ID:           assetID,
		DesignJobID:  id,
		Kind:         "image",
		OriginalName: &name,
		MimeType:     "image/png",
		FilePath:     "storage/uploads/logo.png",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := env.assets.Create(context.Background(), nil, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	views, err := env.svc.ListAssets(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("assets = %d, want 1", len(views))
	}
	view := views[0]
	if view.Filename != "logo.png" {
		t.Errorf("filename = %q, want logo.png", view.Filename)
	}
	if view.URL != "/api/assets/"+assetID.String() {
		t.Errorf("url = %q", view.URL)
	}
	if view.Path != view.FilePath {
		t.Errorf("path alias = %q, want %q", view.Path, view.FilePath)
	}
}

func TestAssetViewFilenameFallback(t *testing.T) {
	env := newTestEnv(t)
	created := env.createJob(t, placementDoc(""))
	id := uuid.MustParse(created.ID)

	assetID := uuid.New()
	asset := &types.Asset{
		ID:          assetID,
		DesignJobID: id,
		Kind:        "image",
		MimeType:    "application/octet-stream",
		FilePath:    "storage/uploads/raw",
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := env.assets.Create(context.Background(), nil, asset); err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	views, err := env.svc.ListAssets(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if want := assetID.String() + ".bin"; views[0].Filename != want {
		t.Errorf("filename = %q, want %q", views[0].Filename, want)
	}
}
