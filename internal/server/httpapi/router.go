package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
)

// Options tune the middleware around the API.
type Options struct {
	AllowedOrigins    []string
	AuthRatePerMinute int
	RequestTimeout    time.Duration
}

// NewRouter mounts the API under /api and the recognition stub under /ml.
func NewRouter(h *Handler, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	limiter := NewRateLimiter(opts.AuthRatePerMinute)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(secureMiddleware.Handler)
	r.Use(corsMiddleware.Handler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "OK")
	})

	r.Post("/ml/predict", h.predict)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Handler)
			r.Post("/auth/login", h.login)
			r.Post("/auth/register", h.register)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Get("/auth/profile", h.profile)
			r.Put("/auth/profile", h.updateProfile)
			r.Delete("/auth/profile", h.deleteAccount)

			r.Get("/temples", h.listTemples)
			r.Get("/temples/{id}", h.getTemple)
			r.Get("/artifacts", h.listArtifacts)
			r.Get("/artifacts/{id}", h.getArtifact)
			r.Post("/artifacts/{id}/bookmark", h.bookmarkArtifact)
			r.Post("/artifacts/{id}/read", h.readArtifact)
			r.Get("/tickets", h.listTickets)
			r.Get("/tickets/{id}", h.getTicket)
			r.Get("/transactions", h.listTransactions)
			r.Get("/transactions/{id}", h.getTransaction)
			r.Post("/transactions", h.createTransaction)
			r.Get("/owned-tickets", h.listOwnedTickets)
			r.Get("/owned-tickets/{id}", h.getOwnedTicket)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/temples", h.createTemple)
				r.Put("/temples/{id}", h.updateTemple)
				r.Delete("/temples/{id}", h.deleteTemple)
				r.Post("/artifacts", h.createArtifact)
				r.Put("/artifacts/{id}", h.updateArtifact)
				r.Delete("/artifacts/{id}", h.deleteArtifact)
				r.Post("/tickets", h.createTicket)
				r.Put("/tickets/{id}", h.updateTicket)
				r.Delete("/tickets/{id}", h.deleteTicket)
			})
		})
	})

	return r
}
