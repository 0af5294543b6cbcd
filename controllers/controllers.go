package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/beartracks/middlewares"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/utils"
)

var (
	errUserGone     = errors.New("account no longer exists, please log in again")
	errInvalidLimit = errors.New("limit must be a positive number")
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrClaimNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrDuplicateClaim),
		errors.Is(err, services.ErrClaimNotPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(c *gin.Context, err error) {
	utils.RespondMappedError(c, err, statusFor)
}

// currentUser returns the account AuthMiddleware loaded for this request.
func currentUser(c *gin.Context) (models.User, bool) {
	value, _ := c.Get(middlewares.CtxUser)
	user, ok := value.(models.User)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errUserGone)
		return models.User{}, false
	}
	return user, true
}
