package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medremind/medremind/internal/domain/access"
	"github.com/medremind/medremind/internal/domain/clinical"
	"github.com/medremind/medremind/internal/domain/document"
	"github.com/medremind/medremind/internal/domain/medicine"
	"github.com/medremind/medremind/internal/domain/profile"
	"github.com/medremind/medremind/internal/domain/schedule"
	"github.com/medremind/medremind/internal/domain/user"
	"github.com/medremind/medremind/internal/repository"
	"github.com/medremind/medremind/internal/service"
	"github.com/medremind/medremind/pkg/keys"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, medicine.ErrNotFound),
		errors.Is(err, schedule.ErrNotFound),
		errors.Is(err, document.ErrPrescriptionNotFound),
		errors.Is(err, document.ErrTestNotFound),
		errors.Is(err, clinical.ErrQueryNotFound),
		errors.Is(err, clinical.ErrAppointmentNotFound),
		errors.Is(err, access.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, user.ErrDuplicateLoginName),
		errors.Is(err, access.ErrDuplicateActiveRequest),
		errors.Is(err, access.ErrStateConflict),
		errors.Is(err, access.ErrNotTerminal),
		errors.Is(err, clinical.ErrStateConflict),
		errors.Is(err, schedule.ErrNotActive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, user.ErrWeakCredential),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, profile.ErrInvalidEmail),
		errors.Is(err, profile.ErrInvalidAvailability),
		errors.Is(err, medicine.ErrInvalidQuantity),
		errors.Is(err, medicine.ErrInvalidExpiry),
		errors.Is(err, medicine.ErrInvalidTiming),
		errors.Is(err, medicine.ErrInvalidCategory),
		errors.Is(err, schedule.ErrInvalidCardinality),
		errors.Is(err, schedule.ErrInvalidDoseTime),
		errors.Is(err, schedule.ErrInvalidMealRelation),
		errors.Is(err, document.ErrMissingFilePath),
		errors.Is(err, clinical.ErrInvalidIntent),
		errors.Is(err, clinical.ErrInvalidModality),
		errors.Is(err, clinical.ErrInvalidTime):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrCrossOwner),
		errors.Is(err, access.ErrNotAuthorized),
		errors.Is(err, schedule.ErrCrossOwnerViolation),
		errors.Is(err, clinical.ErrNotConnected),
		errors.Is(err, clinical.ErrNotAssigned):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})

	case errors.Is(err, user.ErrUnknownAccount),
		errors.Is(err, user.ErrBadCredential),
		errors.Is(err, user.ErrInactiveAccount):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, repository.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "store temporarily unavailable",
			Code:  "STORE_UNAVAILABLE",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

// paramKey reads a path parameter that must carry the given role prefix.
func paramKey(c *gin.Context, param string, prefix keys.Prefix) (string, bool) {
	raw := c.Param(param)
	if !keys.HasPrefix(raw, prefix) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param})
		return "", false
	}
	return raw, true
}

// actorKey returns the authenticated user's key, set by the auth middleware.
func actorKey(c *gin.Context) string {
	return c.GetString(ctxUserKey)
}

func actorRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
