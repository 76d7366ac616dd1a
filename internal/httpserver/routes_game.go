// internal/httpserver/routes_game.go
//
// HTTP routes for the game operations:
//   - POST /set_username         → StartSession
//   - POST /set_difficulty       → SetDifficulty
//   - GET  /generate_binary_code → BeginRound
//   - GET  /preview              → PreviewRound
//   - POST /check_guess          → SubmitGuess (records history on game over)
//   - POST /restart              → Restart
//   - POST /reset                → ResetSession
//   - GET  /state                → Snapshot
//   - GET  /leaderboard          → history leaderboard
//
// Input fields are read from a JSON object body or from form values.

package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/binword/internal/apperrors"
	"github.com/robalobadob/binword/internal/game"
	"github.com/robalobadob/binword/internal/history"
	"github.com/robalobadob/binword/internal/metrics"
	"github.com/robalobadob/binword/internal/words"
)

const (
	maxBodyBytes     = 1 << 16
	maxLeaderboard   = 100
	defaultBoardSize = 20
)

// mountGame registers the game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/set_username", s.handleSetUsername)
	r.Post("/set_difficulty", s.handleSetDifficulty)
	r.Get("/generate_binary_code", s.handleBeginRound)
	r.Get("/preview", s.handlePreview)
	r.Post("/check_guess", s.handleCheckGuess)
	r.Post("/restart", s.handleRestart)
	r.Post("/reset", s.handleReset)
	r.Get("/state", s.handleState)
}

// op applies one engine operation to the loaded state.
type op func(sid string, st *game.State) (next *game.State, payload any, err error)

// run resolves the caller's session, applies fn while holding that
// session's lock, and persists the returned state. On error nothing is saved.
// Each committed func runs after a successful save, still under the lock.
func (s *Server) run(w http.ResponseWriter, r *http.Request, fn op, committed ...func()) {
	sid, ok := s.cookies.sessionID(r)
	if !ok {
		writeError(w, r, apperrors.ErrNoPlayer)
		return
	}
	unlock := s.locks.Lock(sid)
	defer unlock()

	ctx := r.Context()
	st, err := s.store.Load(ctx, sid)
	if err != nil {
		writeError(w, r, fmt.Errorf("load session: %w", err))
		return
	}
	next, payload, err := fn(sid, st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Save(ctx, sid, next); err != nil {
		writeError(w, r, fmt.Errorf("save session: %w", err))
		return
	}
	for _, after := range committed {
		after()
	}
	writeJSON(w, http.StatusOK, payload)
}

// ------------------------------ session ------------------------------------

type usernameRes struct {
	Username   string     `json:"username"`
	Difficulty words.Tier `json:"difficulty"`
}

// handleSetUsername starts a fresh session, issuing a cookie if needed.
func (s *Server) handleSetUsername(w http.ResponseWriter, r *http.Request) {
	username := readField(r, "username")

	st, err := s.engine.StartSession(username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sid, err := s.cookies.ensure(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	unlock := s.locks.Lock(sid)
	defer unlock()
	if err := s.store.Save(r.Context(), sid, st); err != nil {
		writeError(w, r, fmt.Errorf("save session: %w", err))
		return
	}
	s.metrics.SessionsStarted.Inc()
	log.Info().Str("sid", sid).Str("username", st.Player.Username).Msg("session started")

	writeJSON(w, http.StatusOK, usernameRes{Username: st.Player.Username, Difficulty: st.Player.Difficulty})
}

func (s *Server) handleSetDifficulty(w http.ResponseWriter, r *http.Request) {
	tier := readField(r, "difficulty")
	s.run(w, r, func(_ string, st *game.State) (*game.State, any, error) {
		return s.engine.SetDifficulty(st, tier)
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(_ string, st *game.State) (*game.State, any, error) {
		return s.engine.Restart(st)
	})
}

// handleReset discards the session unconditionally.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if sid, ok := s.cookies.sessionID(r); ok {
		unlock := s.locks.Lock(sid)
		defer unlock()
		if err := s.store.Clear(r.Context(), sid); err != nil {
			writeError(w, r, fmt.Errorf("clear session: %w", err))
			return
		}
	}
	_, res := s.engine.ResetSession(nil)
	s.cookies.clear(w)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(_ string, st *game.State) (*game.State, any, error) {
		snap, err := s.engine.Snapshot(st)
		return st, snap, err
	})
}

// ------------------------------- rounds ------------------------------------

func (s *Server) handleBeginRound(w http.ResponseWriter, r *http.Request) {
	var tier words.Tier
	s.run(w, r, func(_ string, st *game.State) (*game.State, any, error) {
		next, info, err := s.engine.BeginRound(st)
		if err != nil {
			return st, nil, err
		}
		tier = next.Player.Difficulty
		return next, info, nil
	}, func() {
		s.metrics.RoundsStarted.WithLabelValues(string(tier)).Inc()
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var tier words.Tier
	s.run(w, r, func(_ string, st *game.State) (*game.State, any, error) {
		next, info, err := s.engine.PreviewRound(st)
		if err != nil {
			return st, nil, err
		}
		tier = next.Player.Difficulty
		return next, info, nil
	}, func() {
		s.metrics.RoundsStarted.WithLabelValues(string(tier)).Inc()
	})
}

// handleCheckGuess scores a guess and, once the new state is saved and the
// guess ended the game, records the result in the history database.
func (s *Server) handleCheckGuess(w http.ResponseWriter, r *http.Request) {
	guess := readField(r, "guess")

	var (
		sid  string
		next *game.State
		res  game.GuessResult
	)
	s.run(w, r, func(id string, st *game.State) (*game.State, any, error) {
		var err error
		next, res, err = s.engine.SubmitGuess(st, guess)
		if err != nil {
			return st, nil, err
		}
		sid = id
		return next, res, nil
	}, func() {
		difficulty := string(next.Player.Difficulty)
		s.metrics.Guesses.WithLabelValues(difficulty, outcome(res)).Inc()
		if res.GameOver {
			s.metrics.GamesCompleted.WithLabelValues(difficulty).Inc()
			s.recordGame(r.Context(), sid, next, res)
		}
	})
}

func outcome(res game.GuessResult) string {
	switch {
	case res.RevealWord != "":
		return metrics.OutcomeExhausted
	case res.NewRound:
		return metrics.OutcomeCorrect
	default:
		return metrics.OutcomeWrong
	}
}

// recordGame is best effort: failures are logged, never returned.
func (s *Server) recordGame(ctx context.Context, sid string, st *game.State, res game.GuessResult) {
	if s.history == nil {
		return
	}
	rec, err := s.history.Record(ctx, history.Result{
		SessionID:     sid,
		Username:      st.Player.Username,
		Difficulty:    string(st.Player.Difficulty),
		Points:        st.Player.Points,
		TotalAttempts: st.Session.TotalAttempts,
		WrongCount:    st.Session.WrongCount,
		Rounds:        res.TotalRounds,
	})
	if err != nil {
		log.Warn().Err(err).Str("sid", sid).Msg("record game")
		return
	}
	log.Info().Str("sid", sid).Str("gameId", rec.ID).Int("points", rec.Points).Msg("game recorded")
}

// ----------------------------- leaderboard ---------------------------------

type leaderboardRes struct {
	Difficulty string           `json:"difficulty,omitempty"`
	Top        []history.Result `json:"top"`
}

// handleLeaderboard returns the best finished games, optionally for one
// difficulty (?difficulty=easy) and with ?limit=N (max 100).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history_disabled"})
		return
	}
	q := r.URL.Query()
	difficulty := q.Get("difficulty")
	if difficulty != "" {
		if _, ok := words.ParseTier(difficulty); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown difficulty"})
			return
		}
	}
	limit := defaultBoardSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = min(n, maxLeaderboard)
	}

	rows, err := s.history.Leaderboard(r.Context(), difficulty, limit)
	if err != nil {
		writeError(w, r, fmt.Errorf("leaderboard: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Difficulty: difficulty, Top: rows})
}

// ------------------------------- small util --------------------------------

// readField returns a string field from a JSON object body or form values.
func readField(r *http.Request, name string) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
			return ""
		}
		v, _ := body[name].(string)
		return v
	}
	return r.FormValue(name)
}
