package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/taskmanager-api/internal/auth"
	"github.com/redmonkez12/taskmanager-api/internal/config"
	"github.com/redmonkez12/taskmanager-api/internal/httputil"
	"github.com/redmonkez12/taskmanager-api/internal/logging"
	"github.com/redmonkez12/taskmanager-api/internal/task"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Task           *task.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware.RequireAuth)
				r.Get("/profile", h.Auth.GetProfile)
				r.Put("/profile", h.Auth.UpdateProfile)
				r.Delete("/profile", h.Auth.DeleteProfile)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(h.AuthMiddleware.RequireAuth)
			r.Post("/", h.Task.Create)
			r.Get("/", h.Task.List)
			r.Get("/stats", h.Task.Stats)
			r.Get("/{id}", h.Task.Get)
			r.Put("/{id}", h.Task.Update)
			r.Delete("/{id}", h.Task.Delete)
		})
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "Task Manager API is running")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w,
		fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path),
		httputil.CodeRouteNotFound,
		http.StatusNotFound,
	)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.RespondErrorWithCode(w,
		fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path),
		httputil.CodeMethodNotAllowed,
		http.StatusMethodNotAllowed,
	)
}
