// Package server wires the HTTP surface: the chi router, middleware, CORS,
// and the route table for the feedback API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nptc-feedback/backend/internal/auth"
	"github.com/nptc-feedback/backend/internal/feedback"
	"github.com/nptc-feedback/backend/internal/server/handlers"
	"github.com/nptc-feedback/backend/internal/server/util"
	"github.com/nptc-feedback/backend/internal/shared"
)

// NewRouter configures the chi router, middleware, and route handlers.
func NewRouter(authSvc *auth.Service, feedbackSvc *feedback.Service, corsCfg shared.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// The API contract answers preflight with 204; go-chi/cors writes 200.
	r.Use(preflightNoContent)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsCfg.AllowedOrigins,
		AllowedMethods: corsCfg.AllowedMethods,
		AllowedHeaders: corsCfg.AllowedHeaders,
		MaxAge:         corsCfg.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: authSvc}
	feedbackHandler := &handlers.FeedbackHandler{Feedback: feedbackSvc}

	// 3. Define Routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/", health)

		r.Post("/login", authHandler.Login)
		r.Get("/students", feedbackHandler.ListStudents)
		r.Post("/feedback", feedbackHandler.Submit)
		r.Get("/feedback/{department}", feedbackHandler.DepartmentAggregate)
	})

	return r
}

// health handles GET /api.
func health(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Feedback API is running",
	})
}

// preflightNoContent rewrites the 200 that go-chi/cors writes for preflight
// requests into the 204 the API contract promises.
func preflightNoContent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(&noContentWriter{ResponseWriter: w}, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type noContentWriter struct {
	http.ResponseWriter
}

func (w *noContentWriter) WriteHeader(status int) {
	if status == http.StatusOK {
		status = http.StatusNoContent
	}
	w.ResponseWriter.WriteHeader(status)
}
