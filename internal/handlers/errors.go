package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/backend/internal/services"
	"github.com/taskhive/backend/pkg/response"
)

// writeServiceError maps domain errors onto HTTP responses. Anything
// unrecognized is a storage failure and becomes a 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrParentNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskDeleteForbidden):
		response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrNotAProjectMember),
		errors.Is(err, services.ErrNotAMember),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrHasReplies),
		errors.Is(err, services.ErrInvalidStatus):
		response.BadRequest(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
