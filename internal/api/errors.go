package api

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-suggester/backend/internal/middleware"
	"github.com/pageza/recipe-suggester/backend/internal/types"
)

// Error kinds reported in the response body
const (
	KindValidation          = "validation_error"
	KindUpstream            = "upstream_error"
	KindUpstreamTimeout     = "upstream_timeout"
	KindResourceUnavailable = "resource_unavailable"
	KindInternal            = "internal_error"
)

// classifyError maps an error to its HTTP status and kind
func classifyError(err error) (int, string) {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		if ve.Source == types.SourceRequest {
			return http.StatusUnprocessableEntity, KindValidation
		}
		return http.StatusBadGateway, KindValidation
	}

	var ue *types.UpstreamError
	if errors.As(err, &ue) {
		if ue.Timeout {
			return http.StatusGatewayTimeout, KindUpstreamTimeout
		}
		return http.StatusBadGateway, KindUpstream
	}

	if errors.Is(err, types.ErrResourceUnavailable) {
		return http.StatusServiceUnavailable, KindResourceUnavailable
	}

	return http.StatusInternalServerError, KindInternal
}

// respondError logs err, reports server errors to Sentry and writes the JSON error body
func respondError(c *gin.Context, logger zerolog.Logger, err error) {
	status, kind := classifyError(err)
	requestID := middleware.GetRequestID(c)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("request_id", requestID).Str("kind", kind).Int("status", status).Msg("request failed")

	if status >= http.StatusInternalServerError {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("request_id", requestID)
				scope.SetTag("kind", kind)
				hub.CaptureException(err)
			})
		}
	}

	body := middleware.ErrorResponse{
		Error:     publicMessage(err, status),
		Kind:      kind,
		RequestID: requestID,
	}

	var ve *types.ValidationError
	if errors.As(err, &ve) {
		body.Field = ve.Field
	}

	c.AbortWithStatusJSON(status, body)
}

// publicMessage hides internal error details from clients
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}
