// Package middleware injects resolved Content-Security-Policy headers
// into HTTP responses.
package middleware

import (
	"log/slog"
	"net/http"
)

// HeaderName is the response header the middleware writes.
const HeaderName = "Content-Security-Policy"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Resolver yields the policy for a request path. *csp.Resolver and
// *config.ReloadingResolver both satisfy it.
type Resolver interface {
	Header(path string) (string, bool, error)
}

// Observer is notified after each resolution, for tracing or metrics.
type Observer interface {
	Observe(r *http.Request, matched bool, policy string)
}

// Options configures the CSP middleware.
type Options struct {
	Resolver Resolver
	// Logger receives a debug line per resolution and an error line
	// when a policy fails header validation. Defaults to slog.Default.
	Logger   *slog.Logger
	Observer Observer
}

// CSP resolves each request path and sets the Content-Security-Policy
// header when a policy applies. No header is written when no ruleset
// matches.
func CSP(resolver Resolver) Middleware {
	return CSPWithOptions(Options{Resolver: resolver})
}

// CSPWithOptions is CSP with logging and observer hooks.
func CSPWithOptions(options Options) Middleware {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if options.Resolver == nil {
				next.ServeHTTP(w, r)
				return
			}

			path := r.URL.Path
			policy, matched, err := options.Resolver.Header(path)
			switch {
			case err != nil:
				// Policies are validated at configuration time, so
				// this means a directive value carried header-breaking
				// bytes. Serve without the header rather than fail the
				// request.
				logger.Error("csp policy rejected", "path", path, "error", err)
				matched = false
				policy = ""
			case matched:
				w.Header().Set(HeaderName, policy)
				logger.Debug("csp policy applied", "path", path, "policy", policy)
			}

			if options.Observer != nil {
				options.Observer.Observe(r, matched, policy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Static sets a fixed prebuilt policy on every response.
func Static(policy string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderName, policy)
			next.ServeHTTP(w, r)
		})
	}
}
