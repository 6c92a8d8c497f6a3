package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/laser-thinhs/lt316-customizer-app/internal/apperr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type DataEnvelope struct {
	Data any `json:"data"`
}

// RespondData writes the success envelope.
func RespondData(c *gin.Context, status int, payload any) {
	c.JSON(status, DataEnvelope{Data: payload})
}

// RespondError writes the error envelope, mapping any error through apperr so
// uncoded errors surface as 500 INTERNAL_ERROR without leaking internals.
func RespondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		},
	})
}
