package rest

import (
	"log/slog"

	"github.com/frahmantamala/hiring-gateway/internal/application"
	"github.com/frahmantamala/hiring-gateway/internal/auth"
	"github.com/frahmantamala/hiring-gateway/internal/captcha"
	"github.com/frahmantamala/hiring-gateway/internal/department"
	"github.com/frahmantamala/hiring-gateway/internal/diagnostic"
	"github.com/frahmantamala/hiring-gateway/internal/job"
	"github.com/frahmantamala/hiring-gateway/internal/message"
	"github.com/frahmantamala/hiring-gateway/internal/notification"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/internal/transport/middleware"
	"github.com/frahmantamala/hiring-gateway/internal/transport/swagger"
	"github.com/frahmantamala/hiring-gateway/internal/upload"
	"github.com/frahmantamala/hiring-gateway/internal/user"
	"github.com/frahmantamala/hiring-gateway/pkg/permission"
	"github.com/go-chi/chi"
)

// Handlers groups every route handler. Nil entries leave their routes unregistered.
type Handlers struct {
	Health       *HealthHandler
	Diagnostic   *diagnostic.Handler
	Auth         *auth.Handler
	Job          *job.Handler
	Department   *department.Handler
	Application  *application.Handler
	Upload       *upload.Handler
	Notification *notification.Handler
	Message      *message.Handler
	Captcha      *captcha.Handler
	User         *user.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, authn middleware.Authenticator, allowedOrigins string, logger *slog.Logger) {
	base := transport.NewBaseHandler(logger)
	index := &IndexHandler{BaseHandler: base}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(allowedOrigins))

	router.NotFound(index.NotFound)
	router.MethodNotAllowed(index.MethodNotAllowed)

	router.Get("/", index.Index)
	router.Get("/openapi.yml", swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	if h.Health != nil {
		router.Get("/health", h.Health.Health)
		router.Get("/ping", h.Health.Ping)
	}

	requireAuth := middleware.RequireAuth(authn, base)
	feature := func(name string) func(chi.Router) chi.Router {
		return func(r chi.Router) chi.Router {
			return r.With(middleware.RequireFeature(name, base))
		}
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/", index.Index)

		if h.Diagnostic != nil {
			r.Get("/test", h.Diagnostic.Test)
		}

		if h.Job != nil {
			r.Get("/jobs", h.Job.ListJobs)
			r.Get("/jobs/{id}", h.Job.GetJob)
		}

		if h.Department != nil {
			r.Get("/departments", h.Department.List)
			r.Get("/departments/{id}", h.Department.Get)
		}

		if h.Captcha != nil {
			r.Route("/captcha", func(cr chi.Router) {
				cr.Post("/generate", h.Captcha.Generate)
				cr.Post("/verify", h.Captcha.Verify)
			})
		}

		if h.Auth != nil {
			r.Route("/auth", func(ar chi.Router) {
				ar.Post("/login", h.Auth.Login)
				ar.Post("/register", h.Auth.Register)
				ar.Post("/refresh", h.Auth.Refresh)
				ar.Get("/user", h.Auth.CurrentUser)
				ar.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Application != nil {
			r.Post("/applications/submit", h.Application.Submit)
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(requireAuth)

			if h.Application != nil {
				pr.Get("/applications", h.Application.List)
				feature(permission.FeatureManageApplications)(pr).Patch("/applications/{id}/status", h.Application.UpdateStatus)
			}

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				feature(permission.FeatureManageProfile)(pr).Patch("/users/me/profile", h.User.UpdateProfile)
			}

			if h.Upload != nil {
				pr.Route("/upload", func(ur chi.Router) {
					feature(permission.FeatureUploadResume)(ur).Post("/resume", h.Upload.UploadResume)
					feature(permission.FeatureManageProfile)(ur).Post("/avatar", h.Upload.UploadAvatar)
					ur.Post("/signed-url", h.Upload.SignedURL)
					ur.Delete("/delete/*", h.Upload.Delete)
				})
			}

			if h.Notification != nil {
				pr.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", h.Notification.List)
					nr.Get("/unread-count", h.Notification.UnreadCount)
					feature(permission.FeatureSendNotifications)(nr).Post("/", h.Notification.Create)
					nr.Patch("/read-all", h.Notification.MarkAllRead)
					nr.Patch("/{id}/read", h.Notification.MarkRead)
					nr.Delete("/{id}", h.Notification.Delete)
				})
			}

			if h.Message != nil {
				pr.Route("/messages", func(mr chi.Router) {
					mr.Get("/", h.Message.List)
					mr.Get("/unread-count", h.Message.UnreadCount)
					mr.Get("/{id}", h.Message.Get)
					feature(permission.FeatureSendMessages)(mr).Post("/", h.Message.Create)
					mr.Patch("/{id}", h.Message.UpdateStatus)
					mr.Delete("/{id}", h.Message.Delete)
				})
			}
		})
	})
}
