// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing
func CORS(cfg *config.Config) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     cfg.Security.CORSAllowedMethods,
		AllowHeaders:     cfg.Security.CORSAllowedHeaders,
		ExposeHeaders:    []string{"Content-Disposition", RequestIDHeader},
		AllowCredentials: true,
		AllowWildcard:    true,
		MaxAge:           24 * time.Hour,
	}

	origins := make([]string, 0, len(cfg.Security.CORSAllowedOrigins))
	for _, origin := range cfg.Security.CORSAllowedOrigins {
		if origin == "*" {
			// Credentials cannot be combined with a literal wildcard origin
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c
		}
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	if len(origins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
		return c
	}

	c.AllowOrigins = origins
	return c
}
