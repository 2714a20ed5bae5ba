// Package middleware maps the request Host to a website and stores it in the context.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"consentry/internal/website/models"
	dErrors "consentry/pkg/domain-errors"
	"consentry/pkg/platform/httputil"
	"consentry/pkg/platform/sentinel"
	"consentry/pkg/requestcontext"
)

type websiteKey struct{}

// Finder is the subset of the website store the middleware needs.
type Finder interface {
	FindByHost(ctx context.Context, host string) (*models.Website, error)
}

// WithWebsite stores the resolved website in the context.
func WithWebsite(ctx context.Context, w *models.Website) context.Context {
	return context.WithValue(ctx, websiteKey{}, w)
}

// FromContext returns the website resolved for the request, or nil.
func FromContext(ctx context.Context) *models.Website {
	w, _ := ctx.Value(websiteKey{}).(*models.Website)
	return w
}

// ResolveWebsite rejects requests whose Host is unknown or belongs to an inactive website.
func ResolveWebsite(finder Finder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			host := HostOnly(r.Host)

			site, err := finder.FindByHost(ctx, host)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnknownWebsite, "no website configured for this host"))
					return
				}
				logger.ErrorContext(ctx, "failed to resolve website",
					"error", err,
					"host", host,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "resolve website"))
				return
			}
			if !site.IsActive() {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnknownWebsite, "website is not active"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithWebsite(ctx, site)))
		})
	}
}

// HostOnly strips the port and lowercases the host.
func HostOnly(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		hostport = h
	}
	return strings.ToLower(strings.Trim(hostport, "[]"))
}
