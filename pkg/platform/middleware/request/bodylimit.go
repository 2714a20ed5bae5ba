package request

import (
	"net/http"

	dErrors "consentry/pkg/domain-errors"
	"consentry/pkg/platform/httputil"
)

// BodyLimit caps consent form payloads at maxBytes. A declared Content-Length
// above the cap is refused with 413 before the handler runs; chunked bodies
// fail with *http.MaxBytesError once a read crosses it. maxBytes <= 0 disables
// the cap.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.WriteError(w, dErrors.New(dErrors.CodeTooLarge, "request body too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
