package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/mind-engage/cetscore/internal/auth"
	authmw "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/rbac"
	"github.com/mind-engage/cetscore/internal/score"
	"github.com/mind-engage/cetscore/internal/session"
)

type Deps struct {
	Sessions *session.Service
	Auth     *authmw.AuthService
	Dataset  *score.Dataset

	AdminUser     string
	AdminPassHash string

	CORSOrigins   []string
	SecureCookies bool

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only set it behind a proxy that overwrites those headers.
	TrustProxy bool

	RateLimitRPS   float64
	RateLimitBurst int

	// Logger enables request logging when set.
	Logger *httplog.Logger
}

func NewRouter(d Deps) chi.Router {
	if d.Dataset == nil {
		d.Dataset = score.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		r.Use(middleware.RealIP)
	}
	if d.Logger != nil {
		r.Use(httplog.RequestLogger(d.Logger))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	// one bucket per client across every limited route
	limit := RateLimit(d.RateLimitRPS, d.RateLimitBurst)

	r.Group(func(pr chi.Router) {
		pr.Use(limit)
		pr.Use(middleware.Timeout(30 * time.Second))

		pr.Get("/tables", TablesHandler(d.Dataset))
		pr.Get("/tables/{tier}/{section}", SectionHandler(d.Dataset))
		pr.Post("/calculate", CalculateHandler(d.Dataset))
		pr.Get("/feedback", FeedbackHandler())

		pr.Post("/auth/guest", auth.GuestLoginHandler(d.Auth, d.Sessions, d.SecureCookies))
		pr.Post("/auth/admin", auth.AdminLoginHandler(d.Auth, d.AdminUser, d.AdminPassHash))
	})

	// Token subject = session ID for guests.
	r.Group(func(pr chi.Router) {
		pr.Use(limit)
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.Route("/session", func(sr chi.Router) {
			sr.With(rbac.Require("session:view")).Get("/", GetSessionHandler(d.Sessions, d.Auth))
			sr.With(rbac.Require("session:update")).Patch("/", PatchSessionHandler(d.Sessions))
			sr.With(rbac.Require("session:update")).Post("/reset", ResetSessionHandler(d.Sessions))
			sr.With(rbac.Require("session:delete")).Delete("/", EndSessionHandler(d.Sessions))
			// no Timeout middleware: the stream is long-lived
			sr.With(rbac.Require("session:update")).Get("/ws", SessionStreamHandler(d.Sessions, d.CORSOrigins))
		})

		pr.With(rbac.Require("sessions:list")).Get("/admin/sessions", ListSessionsHandler(d.Sessions))
		pr.With(rbac.Require("sessions:delete")).Delete("/admin/sessions/{sessionID}", DeleteSessionHandler(d.Sessions))
	})

	return r
}
