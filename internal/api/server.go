package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/mabruk/internal/api/handler"
	mw "github.com/edvin/mabruk/internal/api/middleware"
	"github.com/edvin/mabruk/internal/config"
	"github.com/edvin/mabruk/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, services *core.Services, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/health", s.handleHealthz)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	if s.cfg.AuthDisabled {
		s.logger.Warn().Msg("API authentication is disabled")
	}
	s.router.Route("/api/v1", s.apiRoutes)
	// Unversioned mount kept for existing clients.
	s.router.Route("/api", s.apiRoutes)
}

func (s *Server) apiRoutes(r chi.Router) {
	if !s.cfg.AuthDisabled {
		r.Use(mw.Auth(mw.AuthConfig{
			Secret:   s.cfg.AuthJWTSecret,
			Issuer:   s.cfg.AuthJWTIssuer,
			Audience: s.cfg.AuthJWTAudience,
			Leeway:   s.cfg.AuthLeeway,
		}))
	}

	// Organizations
	organization := handler.NewOrganization(s.services.Organization)
	r.Get("/organizations", organization.List)
	r.Post("/organizations", organization.Create)
	r.Get("/organizations/{id}", organization.Get)
	r.Put("/organizations/{id}", organization.Update)
	r.Delete("/organizations/{id}", organization.Delete)

	// Organization course links
	r.Post("/organizations/{id}/courses", organization.AssignCourse)
	r.Delete("/organizations/{id}/courses/{linkID}", organization.RemoveCourseLink)

	// Groups
	group := handler.NewGroup(s.services.Group)
	r.Get("/groups", group.List)
	r.Post("/groups", group.Create)
	r.Get("/groups/{id}", group.Get)
	r.Put("/groups/{id}", group.Update)
	r.Delete("/groups/{id}", group.Delete)

	// Courses
	course := handler.NewCourse(s.services.Course)
	r.Get("/courses", course.List)
	r.Post("/courses", course.Create)
	r.Get("/courses/{id}", course.Get)
	r.Put("/courses/{id}", course.Update)
	r.Delete("/courses/{id}", course.Delete)

	// Subscribers
	subscriber := handler.NewSubscriber(s.services.Subscriber)
	r.Get("/subscribers", subscriber.List)
	r.Post("/subscribers", subscriber.Create)
	r.Get("/subscribers/{id}", subscriber.Get)
	r.Put("/subscribers/{id}", subscriber.Update)
	r.Delete("/subscribers/{id}", subscriber.Delete)

	// Subscriptions
	subscription := handler.NewSubscription(s.services.Subscription)
	r.Get("/subscriptions", subscription.List)
	r.Post("/subscriptions", subscription.Create)
	r.Get("/subscriptions/{id}", subscription.Get)
	r.Put("/subscriptions/{id}", subscription.Update)
	r.Delete("/subscriptions/{id}", subscription.Delete)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.services.Ping(ctx); err != nil {
		checks["store"] = err.Error()
		healthy = false
	} else {
		checks["store"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
