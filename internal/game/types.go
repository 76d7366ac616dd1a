// internal/game/types.go
//
// Core type definitions for the round/session state machine.
// Defines:
//   - Player:  per-session player attributes (score, attempts, hint, active word).
//   - Session: the round sequence and end-of-game counters.
//   - State:   the full snapshot persisted between requests.
//   - Response payloads returned by each Engine operation.

package game

import "github.com/robalobadob/binword/internal/words"

// Phase is a coarse view of where a session is in its lifecycle.
type Phase string

const (
	PhaseNoSession     Phase = "no_session"
	PhaseAwaitingRound Phase = "awaiting_round"
	PhaseRoundActive   Phase = "round_active"
	PhaseGameOver      Phase = "game_over"
)

// Player holds the attributes of the person playing this session.
type Player struct {
	Username      string     `json:"username"`
	Difficulty    words.Tier `json:"difficulty"`
	Points        int        `json:"points"`   // may go negative
	Attempts      int        `json:"attempts"` // wrong guesses in the current round
	Hint          string     `json:"hint"`     // revealed prefix of CurrentWord
	CurrentWord   string     `json:"current_word"`
	CurrentBinary string     `json:"current_binary"`
}

// Session tracks progression through one game of several rounds.
type Session struct {
	Rounds        []words.Round `json:"rounds,omitempty"`
	CurrentRound  int           `json:"current_round"` // 1-based; 0 until rounds are drawn
	WrongCount    int           `json:"wrong_count"`
	TotalAttempts int           `json:"total_attempts"`
	GameOver      bool          `json:"game_over"`
}

// State is everything the engine needs between two operations.
// A nil *State means no session exists.
type State struct {
	Player  Player  `json:"player"`
	Session Session `json:"session"`
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	if s.Session.Rounds != nil {
		c.Session.Rounds = append([]words.Round(nil), s.Session.Rounds...)
	}
	return &c
}

// Phase derives the lifecycle phase from the snapshot.
func (s *State) Phase() Phase {
	switch {
	case s == nil:
		return PhaseNoSession
	case s.Player.CurrentWord != "":
		return PhaseRoundActive
	case s.Session.GameOver:
		return PhaseGameOver
	default:
		return PhaseAwaitingRound
	}
}

// DifficultyResult is returned by SetDifficulty.
type DifficultyResult struct {
	Difficulty words.Tier `json:"difficulty"`
}

// RoundInfo is returned by BeginRound. It never carries the plaintext word.
type RoundInfo struct {
	Binary      string `json:"binary"`
	Round       int    `json:"round"`
	TotalRounds int    `json:"total_rounds"`
	Points      int    `json:"points"`
}

// PreviewInfo is returned by PreviewRound.
type PreviewInfo struct {
	Binary      string `json:"binary"`
	Word        string `json:"word"`
	Points      int    `json:"points"`
	Round       int    `json:"round"`
	TotalRounds int    `json:"total_rounds"`
}

// GuessResult is returned by SubmitGuess.
type GuessResult struct {
	Result       string `json:"result"`
	Points       int    `json:"points"`
	NewRound     bool   `json:"new_round"`
	HintRevealed bool   `json:"hint_revealed"`
	Hint         string `json:"hint"`
	Round        int    `json:"round"`
	TotalRounds  int    `json:"total_rounds"`
	GameOver     bool   `json:"game_over"`
	Summary      string `json:"summary,omitempty"`
	RevealWord   string `json:"reveal_word,omitempty"`
}

// StatusResult acknowledges Restart and ResetSession.
type StatusResult struct {
	Status string `json:"status"`
}

// Snapshot is a read-only view of a session for clients resuming play.
type Snapshot struct {
	Username    string     `json:"username"`
	Difficulty  words.Tier `json:"difficulty"`
	Points      int        `json:"points"`
	Phase       Phase      `json:"phase"`
	Binary      string     `json:"binary,omitempty"`
	Hint        string     `json:"hint"`
	Attempts    int        `json:"attempts"`
	Round       int        `json:"round"`
	TotalRounds int        `json:"total_rounds"`
	GameOver    bool       `json:"game_over"`
}
