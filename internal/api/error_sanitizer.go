package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/service/newsletter"
)

// statusFor maps a business error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case newsletter.CodeAlreadyRegistered, newsletter.CodeInvalidRequest:
		return http.StatusBadRequest
	case newsletter.CodeNotFound:
		return http.StatusNotFound
	case newsletter.CodeForbidden:
		return http.StatusForbidden
	case newsletter.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as the standard error envelope. Only the fixed
// description of the business error reaches the client; the full chain,
// which may carry driver or filesystem details, is logged server-side.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	e := newsletter.AsError(err)
	status := statusFor(e.Code)

	fields := []interface{}{
		"method", r.Method,
		"route", routePattern(r),
		"status", status,
		"code", e.Code,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}

	httputil.Failure[struct{}](status, httputil.ErrorBody{
		Error:            e.Code,
		ErrorDescription: e.Description,
	}).Render(w)
}

// routePattern returns the matched route pattern, or "unmatched" when no
// route has been resolved. Raw paths are never returned since they can carry
// the admin token.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
