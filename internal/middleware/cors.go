// internal/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cincoin-asia/cincoin-backend/internal/config"
)

func CORS(cfg *config.Config) gin.HandlerFunc {
	origins := []string{"http://localhost:5173", "https://app.cincoin.asia"}
	if cfg.Frontend.BaseURL != "" {
		origins = append(origins, cfg.Frontend.BaseURL)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "X-Idempotency-Key"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
