package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laser-thinhs/lt316-customizer-app/internal/apperr"
	"github.com/laser-thinhs/lt316-customizer-app/internal/services"
)

type DesignJobHandler struct {
	designJobService services.DesignJobService
	proofService     services.ProofService
}

func NewDesignJobHandler(designJobService services.DesignJobService, proofService services.ProofService) *DesignJobHandler {
	return &DesignJobHandler{designJobService: designJobService, proofService: proofService}
}

type createDesignJobRequest struct {
	OrderRef         *string         `json:"orderRef"`
	ProductProfileID string          `json:"productProfileId" binding:"required"`
	MachineProfileID string          `json:"machineProfileId" binding:"required"`
	PlacementJSON    json.RawMessage `json:"placementJson"`
	PreviewImagePath *string         `json:"previewImagePath"`
}

type updatePlacementRequest struct {
	PlacementJSON json.RawMessage `json:"placementJson"`
}

// jobID parses the :id path parameter. An unparseable id behaves exactly like
// a missing job.
func jobID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("DesignJob")
	}
	return id, nil
}

// presentDocument reports whether a raw placement field was actually supplied:
// an absent key decodes to an empty RawMessage, an explicit null to the bytes
// "null", and neither counts as a document.
func presentDocument(raw json.RawMessage) bool {
	return len(raw) != 0 && string(raw) != "null"
}

func (h *DesignJobHandler) Create(c *gin.Context) {
	var req createDesignJobRequest
	if err := c.ShouldBindJSON(&req); err != nil || !presentDocument(req.PlacementJSON) {
		RespondError(c, apperr.New(http.StatusBadRequest, apperr.CodeValidationError, "Invalid request payload"))
		return
	}

	job, err := h.designJobService.Create(c.Request.Context(), nil, services.CreateDesignJobInput{
		OrderRef:         req.OrderRef,
		ProductProfileID: req.ProductProfileID,
		MachineProfileID: req.MachineProfileID,
		PlacementJSON:    req.PlacementJSON,
		PreviewImagePath: req.PreviewImagePath,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, job)
}

func (h *DesignJobHandler) GetByID(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	job, err := h.designJobService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, job)
}

func (h *DesignJobHandler) UpdatePlacement(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	// Body-shape problems are validation errors; INVALID_PLACEMENT is reserved
	// for a well-formed body carrying an unparseable document.
	var req updatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil || !presentDocument(req.PlacementJSON) {
		RespondError(c, apperr.New(http.StatusUnprocessableEntity, apperr.CodeValidationError, "Invalid request payload"))
		return
	}
	job, err := h.designJobService.UpdatePlacement(c.Request.Context(), nil, id, req.PlacementJSON)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, job)
}

func (h *DesignJobHandler) GetProof(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	proof, err := h.designJobService.GetProof(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, proof)
}

func (h *DesignJobHandler) RenderProof(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	proof, err := h.proofService.Render(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, proof)
}

func (h *DesignJobHandler) ListAssets(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	assets, err := h.designJobService.ListAssets(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, assets)
}

func (h *DesignJobHandler) Preflight(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	result, err := h.designJobService.Preflight(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, result)
}

func (h *DesignJobHandler) Export(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	result, err := h.designJobService.Export(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, result)
}

func (h *DesignJobHandler) ExportSVG(c *gin.Context) {
	id, err := jobID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	includeGuides := c.Query("guides") == "1"
	svg, err := h.designJobService.ExportSVG(c.Request.Context(), nil, id, includeGuides)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "job-"+id.String()+".svg"))
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg))
}
