package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/harune/tenant-tracker/internal/errors"
	"github.com/harune/tenant-tracker/internal/logger"
	"github.com/harune/tenant-tracker/internal/policy"
	"github.com/harune/tenant-tracker/internal/quota"
	"github.com/harune/tenant-tracker/internal/services"
	"go.uber.org/zap"
)

// respondError maps a service error to its HTTP response. Every handler
// funnels failures through here so a given error always gets the same
// status and code no matter which endpoint produced it.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, policy.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apperrors.NotFound(c, "")

	case errors.Is(err, services.ErrTenantNotFound):
		apperrors.NotFound(c, err.Error())

	case errors.Is(err, policy.ErrForbidden):
		apperrors.Forbidden(c, "")

	case errors.Is(err, services.ErrFieldNotAllowed):
		apperrors.Forbidden(c, err.Error())

	case errors.Is(err, policy.ErrTenantRequired):
		apperrors.Forbidden(c, "A tenant context is required for this operation")

	case errors.Is(err, quota.ErrLimitReached):
		apperrors.Respond(c, http.StatusForbidden, apperrors.ErrCodeLimitReached, err.Error())

	case errors.Is(err, services.ErrTenantSuspended):
		apperrors.Respond(c, http.StatusForbidden, apperrors.ErrCodeTenantSuspended, err.Error())

	case errors.Is(err, services.ErrAccountSuspended):
		apperrors.Respond(c, http.StatusForbidden, apperrors.ErrCodeAccountSuspended, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		apperrors.Respond(c, http.StatusUnauthorized, apperrors.ErrCodeInvalidCredentials, err.Error())

	case errors.Is(err, services.ErrTenantContextRequired):
		apperrors.Respond(c, http.StatusUnauthorized, apperrors.ErrCodeTenantContextRequired, err.Error())

	case errors.Is(err, services.ErrSubdomainTaken),
		errors.Is(err, services.ErrEmailTaken):
		apperrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrInvalidAssignee):
		apperrors.Respond(c, http.StatusBadRequest, apperrors.ErrCodeInvalidAssignee, err.Error())

	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrSubdomainRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrTaskTitleRequired):
		apperrors.BadRequest(c, err.Error())

	default:
		logger.L().Error("unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		apperrors.InternalError(c)
	}
}

// parseID reads a numeric path parameter. A non-numeric ID is reported as
// not found, matching what a lookup for it would return.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apperrors.NotFound(c, "")
		return 0, false
	}
	return id, true
}

func parseQueryID(value string) (uint64, error) {
	return strconv.ParseUint(value, 10, 64)
}
