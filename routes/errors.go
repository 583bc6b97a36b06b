package routes

import (
	"context"
	"errors"

	"docqa-service/internal/logger"
	"docqa-service/middleware"
	"docqa-service/models"
	"docqa-service/utils"

	"github.com/gin-gonic/gin"
)

// respondWithServiceError maps service errors to status codes. Anything unrecognised is
// an upstream or store failure: it is logged in full and the client gets fallback.
func respondWithServiceError(c *gin.Context, fallback string, err error) {
	switch {
	case errors.Is(err, models.ErrMissingUserID):
		utils.RespondWithBadRequest(c, "Missing user_id", nil)
	case errors.Is(err, models.ErrInvalidUserType):
		utils.RespondWithBadRequest(c, "Invalid user_type", nil)
	case errors.Is(err, models.ErrEmptyQuestion):
		utils.RespondWithBadRequest(c, "Missing question", nil)
	case errors.Is(err, models.ErrUserNotFound):
		utils.RespondWithNotFound(c, "User not found")
	case errors.Is(err, models.ErrLimitExceeded):
		utils.RespondWithForbidden(c, "User limit exceeded")
	default:
		_ = c.Error(err)
		logger.Error(fallback,
			"error", err,
			"timeout", errors.Is(err, context.DeadlineExceeded),
			"path", c.FullPath(),
			"request_id", middleware.GetRequestID(c),
		)
		utils.RespondWithInternalError(c, fallback, gin.H{"error": err.Error()})
	}
}
