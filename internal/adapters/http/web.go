package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"trainerweb/internal/adapters/email"
	"trainerweb/internal/adapters/http/middleware"
	"trainerweb/internal/adapters/http/perf"
	assignmentStore "trainerweb/internal/adapters/storage/assignment"
	auditStore "trainerweb/internal/adapters/storage/audit"
	monthStore "trainerweb/internal/adapters/storage/monthstatus"
	rateStore "trainerweb/internal/adapters/storage/rolerate"
	sessionStore "trainerweb/internal/adapters/storage/session"
	tournamentStore "trainerweb/internal/adapters/storage/tournament"
	trainerStore "trainerweb/internal/adapters/storage/trainer"
	trainingStore "trainerweb/internal/adapters/storage/training"
	planStore "trainerweb/internal/adapters/storage/trainingplan"
	noticeStore "trainerweb/internal/adapters/storage/unavailability"
	"trainerweb/internal/domain/session"
)

// Stores holds all storage dependencies.
type Stores struct {
	Trainers    trainerStore.Store
	Sessions    sessionStore.Store
	Trainings   trainingStore.Store
	Assignments assignmentStore.Store
	Notices     noticeStore.Store
	Plans       planStore.Store
	Tournaments tournamentStore.Store
	Months      monthStore.Store
	Audit       auditStore.Store
	RoleRates   rateStore.Store
}

// Options configures the HTTP surface.
type Options struct {
	Stores         *Stores
	Collector      *perf.Collector // optional
	Email          email.Sender    // optional; PIN resets are mailed only when it is Enabled
	SessionTTL     time.Duration
	Location       *time.Location // club timezone for "today"
	CSRFKey        []byte         // 32 bytes
	CORSOrigins    []string
	LoginPerMinute int
	SlowRequest    time.Duration
	Now            func() time.Time // defaults to time.Now
}

// Server serves the JSON API under /api and the HTML UI.
type Server struct {
	stores       *Stores
	collector    *perf.Collector
	email        email.Sender
	ttl          time.Duration
	loc          *time.Location
	now          func() time.Time
	loginLimiter *middleware.RateLimiter
	handler      http.Handler
}

// New wires routes and middleware.
// PRE: opts.Stores is fully populated; opts.CSRFKey is 32 bytes
// POST: Returns a ready Server; call Run to evict idle rate-limit buckets
func New(opts Options) *Server {
	s := &Server{
		stores:    opts.Stores,
		collector: opts.Collector,
		email:     opts.Email,
		ttl:       opts.SessionTTL,
		loc:       opts.Location,
		now:       opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = session.DefaultTTL
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	perMinute := opts.LoginPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	s.loginLimiter = middleware.NewRateLimiter(perMinute, time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.Timing(s.collector, opts.SlowRequest))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CSRF(opts.CSRFKey, trustedHosts(opts.CORSOrigins), "/api/", "/healthz", "/metrics"))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.collector.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		api.NotFound(handleAPINotFound)
		api.MethodNotAllowed(handleAPINotFound)
		s.registerAPI(api)
	})

	s.registerUI(r)
	s.handler = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run performs background upkeep until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.loginLimiter.Run(ctx)
}

// clock returns the current time in the club's timezone.
func (s *Server) clock() time.Time {
	return s.now().In(s.loc)
}

// trustedHosts reduces CORS origins to the host[:port] form the CSRF
// origin check compares against.
func trustedHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
