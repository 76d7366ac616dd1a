// internal/httpserver/server.go
//
// HTTP server wiring for the binary word game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging and latency metrics).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints: one route per engine operation (see routes_game.go).
//   - Leaderboard backed by the history database.
//
// Notes:
//   - Session ids travel in a signed cookie (see session.go); requests that
//     share a session id are handled one at a time.
//   - State is loaded from the session store before each operation and the
//     returned state is saved afterwards (last writer wins).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/binword/internal/apperrors"
	"github.com/robalobadob/binword/internal/game"
	"github.com/robalobadob/binword/internal/history"
	"github.com/robalobadob/binword/internal/metrics"
	"github.com/robalobadob/binword/internal/store"
)

// Options configures a Server. Engine and Store are required.
type Options struct {
	Engine  *game.Engine
	Store   store.Store
	History *history.Store   // nil disables the leaderboard and result recording
	Metrics *metrics.Metrics // nil uses a private registry

	Secret        string
	CookieName    string
	CookieTTL     time.Duration
	SecureCookies bool
	ClientOrigin  string
	Timeout       time.Duration
}

// Server bundles router, engine, and stores.
type Server struct {
	r       *chi.Mux
	engine  *game.Engine
	store   store.Store
	history *history.Store
	metrics *metrics.Metrics
	cookies *sessionCookies
	locks   *keyedMutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMetrics("binword", nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:       chi.NewRouter(),
		engine:  opts.Engine,
		store:   opts.Store,
		history: opts.History,
		metrics: opts.Metrics,
		cookies: newSessionCookies(opts.CookieName, opts.Secret, opts.CookieTTL, opts.SecureCookies),
		locks:   newKeyedMutex(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(s.observe)                   // access log + latency histogram
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(chimw.Timeout(opts.Timeout)) // bound handler time
	s.r.Use(jsonContentType)             // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "binword",
			"endpoints": []string{
				"/health", "/metrics", "/state", "/leaderboard",
				"POST /set_username", "POST /set_difficulty",
				"GET /generate_binary_code", "GET /preview",
				"POST /check_guess", "POST /restart", "POST /reset",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.mountGame(s.r)

	s.r.Get("/leaderboard", s.handleLeaderboard)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets the Server be used directly as a handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// observe logs each request and records its latency.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.metrics.RequestLatency.WithLabelValues(r.Method, strconv.Itoa(status)).Observe(elapsed.Seconds())
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders game errors with their own status; anything else is
// logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ge *apperrors.GameError
	if errors.As(err, &ge) {
		writeJSON(w, ge.HTTPStatus(), map[string]string{"error": ge.Message})
		return
	}
	log.Error().Err(err).Str("reqId", chimw.GetReqID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
}
