package cmd

import (
	"time"

	"review-platform/config"
	"review-platform/database"
	routes "review-platform/internal/app/http"
	"review-platform/internal/app/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		logger := initLogger()
		defer logger.Sync()

		config.LoadEnv()
		database.InitDB()

		r := gin.New()
		r.Use(gin.Recovery())
		r.Use(middleware.RequestLogger(logger))

		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{config.CORS_ORIGIN},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))

		routes.RegisterRoutes(r)

		if err := r.Run(":" + config.PORT); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
