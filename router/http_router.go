package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/naijj/ml-shelf/config"
	"github.com/naijj/ml-shelf/dao"
	v1 "github.com/naijj/ml-shelf/handler/v1"
	"github.com/naijj/ml-shelf/infrastructure/events"
	"github.com/naijj/ml-shelf/infrastructure/objectstore"
	"github.com/naijj/ml-shelf/service"
)

// SetupRouter wires the production dependency graph and returns the engine.
func SetupRouter() (*gin.Engine, error) {
	logger := config.EnsureLoggerInitialized()

	storage, err := objectstore.NewStoreFromConfig(context.Background())
	if err != nil {
		return nil, err
	}

	// Events are best-effort; a missing broker only costs the event stream.
	publisher, err := events.NewPublisherFromConfig(logger)
	if err != nil {
		logger.Warn("event publisher disabled", "error", err)
		publisher = nil
	}

	urlTTL := service.DefaultSignedURLTTL
	if config.AppConfig != nil && config.AppConfig.Storage.SignedURLTTL > 0 {
		urlTTL = time.Duration(config.AppConfig.Storage.SignedURLTTL) * time.Second
	}

	catalog := service.NewCatalogService(dao.NewModelDAO(), storage, publisher, urlTTL)
	likes := service.NewLikeService(dao.NewLikeDAO(), publisher)
	profiles := service.NewProfileService(service.RedisProfileSource{})

	// Initial catalog load. A failure leaves the catalog in its error state;
	// recovery needs an explicit POST /v1/models/refetch.
	if err := catalog.Fetch(context.Background()); err != nil {
		logger.Warn("initial catalog fetch failed", "error", err)
	}

	modelController := v1.NewModelController(catalog)
	likeController := v1.NewLikeController(likes)
	profileController := v1.NewProfileController(catalog, profiles)

	r := gin.Default()
	r.Use(gin.Recovery())

	Register(r, modelController, likeController, profileController, service.GetSessionByToken)

	return r, nil
}

// Register mounts the v1 routes. Split out so tests can mount controllers
// with their own dependencies and session lookup.
func Register(
	r *gin.Engine,
	modelController *v1.ModelController,
	likeController *v1.LikeController,
	profileController *v1.ProfileController,
	sessions v1.SessionLookup,
) {
	v1Group := r.Group("/v1")
	{
		models := v1Group.Group("/models")
		{
			models.GET("", modelController.ListModels)
			models.POST("/refetch", modelController.RefreshCatalog)
			models.POST("/upload", v1.AuthRequired(sessions), modelController.UploadModel)
			models.GET("/:id/download", modelController.DownloadModel)
			models.GET("/:id/likes", v1.AuthOptional(sessions), likeController.GetLikes)
			models.POST("/:id/likes/toggle", v1.AuthRequired(sessions), likeController.ToggleLike)
		}

		users := v1Group.Group("/users")
		{
			users.GET("/me/models", v1.AuthRequired(sessions), profileController.MyModels)
			users.GET("/:id/profile", profileController.GetUserProfile)
		}
	}
}
