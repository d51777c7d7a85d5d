package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/sample-social/internal/application"
	"github.com/oksasatya/sample-social/pkg/response"
	"github.com/oksasatya/sample-social/pkg/validation"
)

// respondError maps service errors onto HTTP statuses. Unknown errors are
// logged and hidden behind a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if ve, ok := application.IsValidation(err); ok {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", ve.Fields)
		return
	}
	switch {
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrEmailNotVerified):
		response.Error[any](c, http.StatusForbidden, "email not verified", nil)
	case errors.Is(err, application.ErrSearchUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "search unavailable", nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// respondBindError answers 422 for rule violations and 400 for malformed payloads.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", validation.ToDetails(err))
		return
	}
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}
