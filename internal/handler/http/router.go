package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/formacentre/payroll-backend-go/internal/handler/http/middleware"
	"github.com/formacentre/payroll-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	Env         string
	LogLevel    slog.Level
	FrontendURL string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	userHandler UserHandler,
	sessionHandler SessionHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "formacentre-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Put("/me", userHandler.UpdateMyProfile)
				r.Post("/me/cv", userHandler.UploadMyCV)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", userHandler.List)
					r.Get("/{id}", userHandler.GetByID)
					r.Get("/{id}/cv", userHandler.DownloadCV)
					r.Patch("/{id}/status", userHandler.UpdateStatus)
					r.Delete("/{id}", userHandler.Delete)
				})
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Get("/{id}", sessionHandler.GetByID)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", sessionHandler.Create)
					r.Put("/{id}", sessionHandler.Update)
					r.Delete("/{id}", sessionHandler.Delete)
				})
			})

			// Payroll is manager territory end to end
			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.RequireManager)

				r.Get("/sessions", payrollHandler.ListSessionSummaries)
				r.Route("/sessions/{sessionID}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetSessionPayload)
					r.Post("/trainer-sheets", payrollHandler.UpsertTrainerSheet)
					r.Post("/coordination-sheet", payrollHandler.UpsertCoordinationSheet)
					r.Post("/settlement", payrollHandler.SettleSession)
					r.Get("/export", payrollHandler.ExportSheet)
				})
			})
		})
	})
	return r
}
