package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/http/admin"
	"github.com/MrJamesThe3rd/chaibook/internal/http/login"
	"github.com/MrJamesThe3rd/chaibook/internal/http/office"
	"github.com/MrJamesThe3rd/chaibook/internal/http/session"
	"github.com/MrJamesThe3rd/chaibook/internal/http/vendor"
)

type Options struct {
	AllowedOrigins []string
}

func New(
	opts Options,
	sessions *session.Middleware,
	loginV1 *login.Handler,
	adminV1 *admin.Handler,
	vendorV1 *vendor.Handler,
	officeV1 *office.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", session.WarningHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/login", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			loginV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(sessions.Authenticate)

			r.Route("/admin", func(r chi.Router) {
				r.Use(sessions.Require(account.RoleAdmin))
				adminV1.Routes(r)
			})

			r.Route("/vendor", func(r chi.Router) {
				r.Use(sessions.Require(account.RoleVendor))
				vendorV1.Routes(r)
			})

			r.Route("/office", func(r chi.Router) {
				r.Use(sessions.Require(account.RoleOffice))
				officeV1.Routes(r)
			})
		})
	})

	return router
}
