package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigins is used when ALLOWED_ORIGINS is unset.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// CORS allows the configured origins. A single "*" entry allows every origin,
// in which case credentials are not allowed.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		normalized := make([]string, 0, len(origins))
		for _, o := range origins {
			normalized = append(normalized, strings.TrimSuffix(strings.TrimSpace(o), "/"))
		}
		cfg.AllowOrigins = normalized
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
