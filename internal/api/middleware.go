package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"studymate.dev/presentation/internal/logging"
)

// RequestLogger logs method, path, status and latency of every request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.Infow("HTTP request",
			"requestID", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", time.Since(start).String(),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
