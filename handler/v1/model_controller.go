package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/naijj/ml-shelf/entity"
	"github.com/naijj/ml-shelf/service"
)

type ModelController struct {
	catalog *service.CatalogService
}

func NewModelController(catalog *service.CatalogService) *ModelController {
	return &ModelController{catalog: catalog}
}

// ListModels handles GET /v1/models. Serves the in-memory snapshot through the
// filter/sort projection; the database is not touched per request.
func (c *ModelController) ListModels(ctx *gin.Context) {
	var query entity.CatalogQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if status, _ := c.catalog.Status(); status == service.CatalogIdle {
		if err := c.catalog.Fetch(ctx.Request.Context()); err != nil {
			writeHTTPError(ctx, err)
			return
		}
	}

	models := service.Project(c.catalog.Models(), query)
	ctx.JSON(http.StatusOK, entity.PageResult{
		Total: int64(len(models)),
		List:  models,
	})
}

// RefreshCatalog handles POST /v1/models/refetch.
func (c *ModelController) RefreshCatalog(ctx *gin.Context) {
	if err := c.catalog.Fetch(ctx.Request.Context()); err != nil {
		writeHTTPError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "catalog refreshed"})
}

// UploadModel handles POST /v1/models/upload (multipart).
func (c *ModelController) UploadModel(ctx *gin.Context) {
	session, _ := CurrentSession(ctx)

	req := service.UploadRequest{
		UserID:              session.UserID,
		Name:                ctx.PostForm("name"),
		Description:         ctx.PostForm("description"),
		UsageInstructions:   ctx.PostForm("usage_instructions"),
		MacInstructions:     ctx.PostForm("mac_instructions"),
		WindowsInstructions: ctx.PostForm("windows_instructions"),
		LinuxInstructions:   ctx.PostForm("linux_instructions"),
		Framework:           ctx.PostForm("framework"),
		Format:              ctx.PostForm("format"),
		Tags:                splitTags(ctx.PostForm("tags")),
	}

	fileHeader, err := ctx.FormFile("file")
	if err == nil && fileHeader != nil {
		src, openErr := fileHeader.Open()
		if openErr != nil {
			writeHTTPError(ctx, openErr)
			return
		}
		defer src.Close()
		req.File = src
		req.FileName = fileHeader.Filename
		req.Size = fileHeader.Size
	}

	model, err := c.catalog.Upload(ctx.Request.Context(), req)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, model)
}

// DownloadModel handles GET /v1/models/:id/download. Returns a short-lived
// signed URL; the download counter moves only when the URL was produced.
func (c *ModelController) DownloadModel(ctx *gin.Context) {
	id, err := parseUintPathParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := c.catalog.Download(ctx.Request.Context(), id)
	if err != nil {
		writeHTTPError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, link)
}
