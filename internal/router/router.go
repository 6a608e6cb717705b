package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go-auth-tasks/internal/handler"
	"go-auth-tasks/internal/middleware"
)

// Options carries the ambient pieces shared by both services.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	Metrics        *middleware.Metrics
	Health         *handler.HealthHandler
}

// NewAuth builds the identity service routes. Register, login and refresh
// are public; /me requires a bearer access token.
func NewAuth(opts Options, authMiddleware *middleware.AuthMiddleware, authHandler *handler.AuthHandler) http.Handler {
	r := base(opts)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(opts.RequestTimeout))

		api.Post("/register", authHandler.Register)
		api.Post("/login", authHandler.Login)
		api.Post("/refresh", authHandler.Refresh)
		api.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
	})

	return r
}

// NewTasks builds the resource service routes. Every task route requires a
// bearer access token; the verified user_id scopes all queries.
func NewTasks(opts Options, authMiddleware *middleware.AuthMiddleware, taskHandler *handler.TaskHandler) http.Handler {
	r := base(opts)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(opts.RequestTimeout))
		api.Use(authMiddleware.RequireAuth)

		api.Post("/tasks", taskHandler.Create)
		api.Get("/tasks", taskHandler.List)
		api.Get("/tasks/{task_id}", taskHandler.Get)
		api.Put("/tasks/{task_id}", taskHandler.Update)
		api.Delete("/tasks/{task_id}", taskHandler.Delete)
	})

	return r
}

func base(opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(opts.CORSOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Handler)
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Expose())
	}

	r.Get("/", opts.Health.Root)
	r.Get("/health", opts.Health.Health)

	return r
}
