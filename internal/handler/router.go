package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/repository/redis"
	"github.com/kadankyi1/amforex/internal/service"
	"github.com/kadankyi1/amforex/internal/util"
)

type Handlers struct {
	Auth     *AuthHandler
	Admin    *AdminHandler
	Currency *CurrencyHandler
	Rate     *RateHandler
	Bureau   *BureauHandler
	Report   *ReportHandler
}

// NewRouter configures the chi router: middleware stack, health endpoint,
// the public login/register routes and the token-guarded admin API.
func NewRouter(h Handlers, tokenManager *auth.Manager, tokenCache *redis.TokenCache, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggerMiddleware(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"amforex-admin"}`))
	})

	rejectUnauthenticated := func(w http.ResponseWriter, r *http.Request) {
		respondFail(w, http.StatusUnauthorized, service.ErrPermissionDenied.Error())
	}

	router.Route("/api/v1/admin", func(r chi.Router) {
		h.Auth.RegisterPublicRoutes(r)
		h.Admin.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticator(tokenManager, tokenCache, rejectUnauthenticated))

			h.Auth.RegisterProtectedRoutes(r)
			h.Admin.RegisterProtectedRoutes(r)
			h.Currency.RegisterRoutes(r)
			h.Rate.RegisterRoutes(r)
			h.Bureau.RegisterRoutes(r)
			h.Report.RegisterRoutes(r)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondFail(w, http.StatusNotFound, "Endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondFail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}

// LoggerMiddleware logs each HTTP request with its status and latency.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("HTTP request",
					util.String("method", r.Method),
					util.String("path", r.URL.Path),
					util.String("remote_addr", r.RemoteAddr),
					util.Int("status", ww.Status()),
					util.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
