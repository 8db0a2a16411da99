package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// Secure adds the security headers served with every response. The same
// headers are written to _headers by the cloudflare adapter.
func Secure(next http.Handler, development bool) http.Handler {
	sm := secure.New(secure.Options{
		IsDevelopment:      development,
		BrowserXssFilter:   true,
		ContentTypeNosniff: true,
		FrameDeny:          true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})
	return sm.Handler(next)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LogRequests logs one line per request tagged with a request id, which is
// also returned in X-Request-Id.
func LogRequests(next http.Handler, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log.Info("Request",
			zap.String("req", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}
