package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/naijj/ml-shelf/service"
)

type ProfileController struct {
	catalog  *service.CatalogService
	profiles *service.ProfileService
}

func NewProfileController(catalog *service.CatalogService, profiles *service.ProfileService) *ProfileController {
	return &ProfileController{catalog: catalog, profiles: profiles}
}

// MyModels handles GET /v1/users/me/models: the dashboard view of the caller's
// uploads plus their aggregate download count. Auth required.
func (c *ProfileController) MyModels(ctx *gin.Context) {
	session, ok := CurrentSession(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrNotAuthenticated.Error()})
		return
	}

	models, err := c.catalog.UserModels(ctx.Request.Context(), session.UserID)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	var totalDownloads int64
	for _, model := range models {
		totalDownloads += model.Downloads
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total_downloads": totalDownloads,
		"models":          models,
	})
}

// GetUserProfile handles GET /v1/users/:id/profile.
func (c *ProfileController) GetUserProfile(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("id"))
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}

	profile, err := c.profiles.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}
