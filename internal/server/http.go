package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/config"
	"github.com/prepdesk/prepdesk/internal/question"
	"github.com/prepdesk/prepdesk/internal/quiz"
	"github.com/prepdesk/prepdesk/internal/score"
)

// Handlers groups the endpoint handlers wired by the app.
type Handlers struct {
	Auth        *auth.HTTPHandlers
	Quiz        *quiz.HTTPHandlers
	Admin       *question.HTTPHandlers
	Leaderboard *score.HTTPHandler
	Feed        http.HandlerFunc
}

// NewHTTPServer wires all routes for the API service. Every /v1 route
// runs behind the token middleware; the admin question-bank routes
// additionally require the admin claim.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, authSvc *auth.Service, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	// Auth endpoints
	mux.HandleFunc("/v1/auth/signup", h.Auth.Signup)
	mux.HandleFunc("/v1/auth/login", h.Auth.Login)
	mux.HandleFunc("/v1/admin/login", h.Auth.AdminLogin)
	mux.HandleFunc("/v1/users/me", h.Auth.GetMe)

	// Quiz endpoints
	mux.HandleFunc("/v1/subjects", h.Quiz.Subjects)
	mux.HandleFunc("/v1/quizzes", h.Quiz.Start)
	mux.HandleFunc("/v1/quizzes/{session_id}/questions", h.Quiz.Questions)
	mux.HandleFunc("/v1/quizzes/{session_id}/submit", h.Quiz.Submit)

	// Leaderboard
	mux.HandleFunc("/v1/leaderboard", h.Leaderboard.HandleGet)
	if h.Feed != nil {
		mux.HandleFunc("/ws/leaderboard", h.Feed)
	}

	// Admin question bank
	admin := func(fn http.HandlerFunc) http.Handler {
		return auth.RequireAdmin(fn)
	}
	mux.Handle("/v1/admin/questions", admin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.Admin.Create(w, r)
			return
		}
		h.Admin.List(w, r)
	}))
	mux.Handle("/v1/admin/questions/{id}", admin(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			h.Admin.DeleteByID(w, r)
			return
		}
		h.Admin.UpdateByID(w, r)
	}))
	mux.Handle("/v1/admin/questions/import", admin(h.Admin.Import))
	mux.Handle("/v1/admin/questions/template", admin(h.Admin.Template))

	handler := auth.Middleware(authSvc, logger)(mux)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}
