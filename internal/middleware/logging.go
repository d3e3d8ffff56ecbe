package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per completed request in the form
// "METHOD /path - STATUS - 0.12s"
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.Str("request_id", GetRequestID(c)).
			Str("client_ip", c.ClientIP()).
			Msg(fmt.Sprintf("%s %s - %d - %.2fs", c.Request.Method, c.Request.URL.Path, status, duration.Seconds()))
	}
}
