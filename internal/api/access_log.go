package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// accessLogger writes one structured line per request. Requests are
// identified by their route pattern; the raw URI can carry the admin token
// and subscriber emails and is never logged.
func accessLogger() func(http.Handler) http.Handler {
	return middleware.RequestLogger(accessLogFormatter{})
}

type accessLogFormatter struct{}

func (accessLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &accessLogEntry{r: r}
}

type accessLogEntry struct {
	r *http.Request
}

func (e *accessLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	fields := []interface{}{
		"method", e.r.Method,
		"route", routePattern(e.r),
		"status", status,
		"bytes", bytes,
		"duration", elapsed.String(),
		"remote", e.r.RemoteAddr,
		"request_id", middleware.GetReqID(e.r.Context()),
	}
	if status >= http.StatusInternalServerError {
		logger.Warn("request", fields...)
		return
	}
	logger.Info("request", fields...)
}

func (e *accessLogEntry) Panic(v interface{}, _ []byte) {
	logger.Error("request panicked",
		"method", e.r.Method,
		"route", routePattern(e.r),
		"panic", fmt.Sprint(v),
		"request_id", middleware.GetReqID(e.r.Context()),
	)
}
