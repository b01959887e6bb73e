// Package server exposes the HTTP API: problem generation, grading,
// solving, vision extraction, topic chat, and the audit endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/mathlingo/mathlingo/internal/chat"
	"github.com/mathlingo/mathlingo/internal/grading"
	"github.com/mathlingo/mathlingo/internal/problems"
	"github.com/mathlingo/mathlingo/internal/store"
	"github.com/mathlingo/mathlingo/internal/vision"
)

// Server wires the domain services behind the HTTP surface.
type Server struct {
	log       logrus.FieldLogger
	generator *problems.Generator
	grader    *grading.Grader
	solver    *grading.Solver
	extractor *vision.Extractor
	topics    *chat.Service
	attempts  store.AttemptRepo
	feedback  store.FeedbackRepo
}

// Deps carries the server's collaborators. Attempts and Feedback may be
// nil when the audit database is unavailable; their endpoints then return
// 503 while the core quiz flow keeps working.
type Deps struct {
	Log       logrus.FieldLogger
	Generator *problems.Generator
	Grader    *grading.Grader
	Solver    *grading.Solver
	Extractor *vision.Extractor
	Topics    *chat.Service
	Attempts  store.AttemptRepo
	Feedback  store.FeedbackRepo
}

// New creates a Server from its dependencies.
func New(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		log:       log,
		generator: deps.Generator,
		grader:    deps.Grader,
		solver:    deps.Solver,
		extractor: deps.Extractor,
		topics:    deps.Topics,
		attempts:  deps.Attempts,
		feedback:  deps.Feedback,
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/problems", s.handleGenerateProblem)
		r.Post("/grade", s.handleGrade)
		r.Post("/solve", s.handleSolve)
		r.Post("/extract", s.handleExtract)

		r.Get("/topics", s.handleListTopics)
		r.Post("/topics/discuss", s.handleDiscussTopic)

		r.Post("/attempts", s.handleInsertAttempt)
		r.Get("/attempts", s.handleRecentAttempts)
		r.Post("/feedback", s.handleInsertFeedback)
		r.Get("/stats", s.handleStats)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
