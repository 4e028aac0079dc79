package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mailflow/mailq/auth"
	"github.com/mailflow/mailq/common"
)

type traceCtxKey struct{}
type claimsCtxKey struct{}

// tracing is the outermost stage: it attaches correlation and request ids
// before anything else runs, so even an auth rejection is logged with them,
// and it brackets every request with a structured log line on each side.
func tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		correlationId := req.Header.Get(common.CorrelationIdHeader)
		if correlationId == "" {
			correlationId = uuid.New().String()
		}
		// the request id is always fresh, whatever the caller sent
		requestId := uuid.New().String()

		ctx := context.WithValue(req.Context(), traceCtxKey{}, common.TraceContext{
			CorrelationId: correlationId,
			RequestId:     requestId,
		})

		w.Header().Set(common.CorrelationIdHeader, correlationId)
		w.Header().Set(common.RequestIdHeader, requestId)

		log.Info().
			Str("correlation_id", correlationId).
			Str("request_id", requestId).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("incoming request")

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req.WithContext(ctx))

		log.Info().
			Str("correlation_id", correlationId).
			Str("request_id", requestId).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("outgoing response")
	})
}

// recoverer turns handler panics into taxonomy-shaped internal errors.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Any("panic", rec).Str("path", req.URL.Path).Msg("panic while handling request")
				sendApiError(w, common.InternalError("panic while handling request"))
			}
		}()
		next.ServeHTTP(w, req)
	})
}

// bearerTokenAuth extracts and validates the bearer credential, then makes
// the claims available to handlers for the rest of the request. Extraction
// failures keep their specific reason; they are not sensitive.
func bearerTokenAuth(validator auth.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token, err := auth.ExtractToken(req.Header.Get("Authorization"))
			if err != nil {
				log.Warn().Err(err).Msg("failed to extract bearer token")
				sendApiError(w, common.UnauthorizedError(err.Error()))
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				log.Warn().Err(err).Msg("token validation failed")
				sendApiError(w, common.UnauthorizedError("Invalid token: "+err.Error()))
				return
			}

			ctx := context.WithValue(req.Context(), claimsCtxKey{}, claims)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// TraceFromContext returns the trace ids the tracing stage attached.
func TraceFromContext(ctx context.Context) (common.TraceContext, bool) {
	tc, ok := ctx.Value(traceCtxKey{}).(common.TraceContext)
	return tc, ok
}

// ClaimsFromContext returns the identity the auth stage attached.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*auth.Claims)
	return claims, ok
}
