package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naijj/ml-shelf/service"
)

type LikeController struct {
	likes *service.LikeService
}

func NewLikeController(likes *service.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// GetLikes handles GET /v1/models/:id/likes. The count is public; the liked
// flag reflects the caller's session when one is attached.
func (c *LikeController) GetLikes(ctx *gin.Context) {
	id, err := parseUintPathParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewerID := ""
	if session, ok := CurrentSession(ctx); ok {
		viewerID = session.UserID
	}

	state, err := c.likes.Load(ctx.Request.Context(), id, viewerID)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// ToggleLike handles POST /v1/models/:id/likes/toggle. Auth required.
func (c *LikeController) ToggleLike(ctx *gin.Context) {
	id, err := parseUintPathParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := CurrentSession(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrNotAuthenticated.Error()})
		return
	}

	state, err := c.likes.Toggle(ctx.Request.Context(), id, session.UserID)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}
