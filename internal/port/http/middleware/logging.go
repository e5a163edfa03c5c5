package middleware

import (
	"net/http"
	"time"

	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const requestIDHeader = "X-Request-ID"

// Logging assigns a request ID, echoes it on the response, opens a span,
// and logs one line per completed request. An inbound X-Request-ID is
// reused so upstream callers can correlate.
func Logging(log logger.Logger) func(http.Handler) http.Handler {
	tracer := otel.Tracer("used-books-resale-server/http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(ctx))

			log.Infof("%s %s -> %d (%s) request_id=%s",
				r.Method, r.URL.Path, rec.status, time.Since(start), requestID)
		})
	}
}
