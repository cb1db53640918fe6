package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

const (
	defaultRequestsPerMinute = 100
	defaultMaxBodyBytes      = 1 << 20
	defaultHandlerTimeout    = 30 * time.Second
)

// ServerConfig holds the options for NewRouter. Zero limits fall back to
// 100 req/min per IP, a 1 MB body cap and a 30 s handler deadline.
type ServerConfig struct {
	ServiceName   string
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string

	RequestsPerMinute int
	MaxBodyBytes      int64
	HandlerTimeout    time.Duration
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = defaultRequestsPerMinute
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.HandlerTimeout <= 0 {
		c.HandlerTimeout = defaultHandlerTimeout
	}
	return c
}

// Middleware is the standard net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Instrumentation is the set of application middlewares NewRouter places
// around the chi built-ins. Nil entries are skipped.
type Instrumentation struct {
	Recovery Middleware
	Sentry   Middleware
	Tracing  Middleware
	Logging  Middleware
}

// NewRouter returns a chi.Mux carrying the standard middleware stack.
//
// Order, outermost first:
//
//	Recovery          catches panics re-raised by Sentry
//	Sentry            reports panics, then re-panics
//	RequestID         X-Request-Id per request
//	Tracing           one span per request
//	Logging           access log with trace_id/span_id
//	RealIP            RemoteAddr from X-Forwarded-For
//	rate limit        cfg.RequestsPerMinute per IP
//	CORS
//	body limit        cfg.MaxBodyBytes
//	Timeout           cfg.HandlerTimeout
//	security headers  see SecurityHeaders
func NewRouter(cfg ServerConfig, inst Instrumentation) *chi.Mux {
	cfg = cfg.withDefaults()

	stack := make([]Middleware, 0, 11)
	appendIf := func(m Middleware) {
		if m != nil {
			stack = append(stack, m)
		}
	}
	appendIf(inst.Recovery)
	appendIf(inst.Sentry)
	stack = append(stack, middleware.RequestID)
	appendIf(inst.Tracing)
	appendIf(inst.Logging)
	stack = append(stack,
		middleware.RealIP,
		httprate.LimitByIP(cfg.RequestsPerMinute, time.Minute),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.HandlerTimeout),
		SecurityHeaders(cfg.IsDevelopment),
	)

	r := chi.NewRouter()
	r.Use(stack...)
	return r
}

// SecurityHeaders sets HSTS, CSP, frame denial, nosniff and a locked-down
// Permissions-Policy. In development HSTS and host checks are relaxed.
func SecurityHeaders(isDevelopment bool) Middleware {
	return secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=()",
		IsDevelopment:         isDevelopment,
	}).Handler
}

// CORSMiddleware allows the product API verbs from allowedOrigins, a
// comma-separated list. An empty list means "*".
func CORSMiddleware(allowedOrigins string) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins: splitOrigins(allowedOrigins),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit wraps the body in http.MaxBytesReader. Reads past the cap
// fail with *http.MaxBytesError, which the validator turns into a 413.
func RequestBodyLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server for handler. The write timeout leaves
// headroom over handlerTimeout so the Timeout middleware answers first.
func NewServer(addr string, handler http.Handler, handlerTimeout time.Duration) *http.Server {
	if handlerTimeout <= 0 {
		handlerTimeout = defaultHandlerTimeout
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      handlerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
