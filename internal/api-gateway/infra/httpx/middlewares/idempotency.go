package middlewares

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/interceptors/constants"
)

// HeaderIdempotentReplayed is set on responses served from the cache.
const HeaderIdempotentReplayed = "Idempotent-Replayed"

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// Idempotency replays the stored response of a POST, PUT or PATCH that
// carries an x-idempotency-key already seen within ttl. Responses with a 5xx
// status are not stored so the caller can retry them. A cache outage
// degrades to running the request.
func Idempotency(c cache.Cache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(constants.HeaderXIdempotencyKey)
			if key == "" || !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey := c.GenerateKey(r.Method+" "+r.URL.Path, key)

			raw, err := c.Get(ctx, cacheKey)
			if err != nil {
				slog.WarnContext(ctx, "idempotency cache read failed", "key", cacheKey, "error", err)
			}
			if raw != "" {
				var cached cachedResponse
				if err := json.Unmarshal([]byte(raw), &cached); err == nil {
					slog.InfoContext(ctx, "replaying idempotent response", "key", cacheKey, "status", cached.Status)
					if cached.ContentType != "" {
						w.Header().Set("Content-Type", cached.ContentType)
					}
					w.Header().Set(HeaderIdempotentReplayed, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write([]byte(cached.Body))
					return
				}
				slog.WarnContext(ctx, "discarding unreadable idempotent response", "key", cacheKey)
			}

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(cachedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.String(),
			})
			if err != nil {
				return
			}
			if err := c.Set(ctx, cacheKey, string(payload), ttl); err != nil {
				slog.WarnContext(ctx, "idempotency cache write failed", "key", cacheKey, "error", err)
			}
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
