package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes groups the handlers and middleware mounted by NewRouter.
type Routes struct {
	Health   *HealthHandler
	Profile  *ProfileHandler
	Sessions *SessionHandler
	Contacts *ContactHandler
	Messages *MessageHandler
	Admin    *AdminHandler
	Metrics  http.Handler

	// Global runs on every request; API runs on /api only, after Global.
	Global []func(http.Handler) http.Handler
	API    []func(http.Handler) http.Handler

	MaxBodyBytes int64
}

// NewRouter builds the HTTP handler tree.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(rt.Global...)

	r.Get("/live", rt.Health.Live)
	r.Get("/ready", rt.Health.Ready)
	r.Get("/health", rt.Health.Health)
	if rt.Metrics != nil {
		r.Handle("/metrics", rt.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		if rt.MaxBodyBytes > 0 {
			r.Use(limitBody(rt.MaxBodyBytes))
		}
		r.Use(rt.API...)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", rt.Profile.Me)
			r.Post("/sign-in", rt.Profile.SignIn)
			r.Put("/phone", rt.Profile.UpdatePhone)
		})

		r.Put("/entries", rt.Sessions.SaveEntry)
		r.Get("/streak", rt.Sessions.Streak)
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", rt.Sessions.List)
			r.Post("/", rt.Sessions.Create)
			r.Get("/by-date", rt.Sessions.ByDate)
			r.Get("/{id}", rt.Sessions.Get)
			r.Put("/{id}", rt.Sessions.Update)
			r.Delete("/{id}", rt.Sessions.Delete)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", rt.Contacts.List)
			r.Post("/", rt.Contacts.Create)
			r.Post("/import", rt.Contacts.Import)
			r.Get("/export", rt.Contacts.Export)
			r.Get("/{id}", rt.Contacts.Get)
			r.Put("/{id}", rt.Contacts.Update)
			r.Delete("/{id}", rt.Contacts.Delete)
			r.Get("/{id}/messages", rt.Contacts.Messages)
		})
		r.Get("/birthdays/upcoming", rt.Contacts.Upcoming)
		r.Get("/birthdays/month/{month}", rt.Contacts.ForMonth)

		r.Post("/messages", rt.Messages.Send)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", rt.Admin.ListUsers)
			r.Put("/users/{id}/role", rt.Admin.SetRole)
			r.Post("/users/{id}/suspend", rt.Admin.Suspend)
			r.Delete("/users/{id}", rt.Admin.DeleteUser)
			r.Post("/users/{id}/password-reset", rt.Admin.PasswordReset)
			r.Get("/audit", rt.Admin.AuditLog)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
