package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventra-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventra-api/internal/api/middleware"
)

var errMissingUserID = errors.New("user ID not found in the request context")

func getUserIDFromContext(ctx *gin.Context) (string, *response.Err) {
	userID := ctx.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		return "", response.ErrUnauthorized(errMissingUserID)
	}

	return userID, nil
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         healthcheck
// @Produce      json
// @Success      200
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
