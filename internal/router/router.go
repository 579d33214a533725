package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/robertgriman1702/daka-technical-assessment/internal/config"
	"github.com/robertgriman1702/daka-technical-assessment/internal/handler"
	"github.com/robertgriman1702/daka-technical-assessment/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	spriteHandler *handler.SpriteHandler,
	wsHandler http.HandlerFunc,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// The websocket route skips the timeout middleware: connections are
	// long-lived.
	r.Get("/ws", wsHandler)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/pokemon", func(pokemon chi.Router) {
			pokemon.Use(authMiddleware.RequireAuth)
			pokemon.Get("/", spriteHandler.List)
			pokemon.Post("/", spriteHandler.Create)
			pokemon.Delete("/{id}", spriteHandler.Delete)
			pokemon.Delete("/", spriteHandler.DeleteAll)
		})
	})

	return r
}
