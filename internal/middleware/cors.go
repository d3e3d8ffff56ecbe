package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AllowedHeaders are the request headers accepted on cross-origin requests
var AllowedHeaders = []string{
	"Content-Type",
	"Accept",
	"Origin",
	"Authorization",
	RequestIDHeader,
	"X-Requested-With",
	"Cache-Control",
}

// CORS middleware to handle cross-origin requests from the configured origins.
// Credentials are allowed, so origins and headers are listed explicitly;
// browsers treat "*" literally on credentialed requests.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     AllowedHeaders,
		ExposeHeaders:    []string{RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
