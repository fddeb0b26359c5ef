package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/naijj/ml-shelf/config"
	"github.com/naijj/ml-shelf/infrastructure/db"
	"github.com/naijj/ml-shelf/router"
)

func main() {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Init config failed: %v", err)
	}

	// 2. Initialize logging
	logger := config.InitLogger()

	// 3. Initialize database
	if err := db.InitDB(); err != nil {
		log.Fatalf("Init database failed: %v", err)
	}

	// 4. Initialize redis (sessions and profiles); without it the service
	// still serves the public catalog.
	if err := config.InitRedis(); err != nil {
		logger.Warn("redis unavailable, authenticated endpoints disabled", "error", err)
	}

	// 5. Setup router
	r, err := router.SetupRouter()
	if err != nil {
		log.Fatalf("Setup router failed: %v", err)
	}

	// 6. Start server
	port := config.AppConfig.Server.Port
	if port == 0 {
		port = 8080
	}

	fmt.Printf("Server is running on port %d...\n", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		log.Fatalf("Server run failed: %v", err)
	}
}
