package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laser-thinhs/lt316-customizer-app/internal/services"
)

type ProductProfileHandler struct {
	productProfileService services.ProductProfileService
}

func NewProductProfileHandler(productProfileService services.ProductProfileService) *ProductProfileHandler {
	return &ProductProfileHandler{productProfileService: productProfileService}
}

func (h *ProductProfileHandler) List(c *gin.Context) {
	profiles, err := h.productProfileService.List(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, profiles)
}

func (h *ProductProfileHandler) GetByID(c *gin.Context) {
	profile, err := h.productProfileService.GetByID(c.Request.Context(), nil, c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, profile)
}
