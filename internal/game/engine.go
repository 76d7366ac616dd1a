// internal/game/engine.go
//
// Round/session state machine for the binary word game.
// Responsibilities:
//   - Start sessions and change difficulty.
//   - Draw a fixed sequence of rounds and load the active word.
//   - Evaluate guesses: scoring, penalties, hint escalation, exhaustion.
//   - Track end-of-game counters and produce the summary.
//
// Notes:
//   - Every operation takes the loaded *State and returns an updated copy;
//     the input is never mutated, so a failed call leaves it untouched.
//   - Tier pools and scoring come from a words.Table.
//   - Phases: no session → awaiting round → round active → … → game over.
package game

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/binword/internal/apperrors"
	"github.com/robalobadob/binword/internal/words"
)

const (
	DefaultMaxRounds  = 5
	DefaultDifficulty = words.Medium

	// Hints start after this many wrong guesses in a round.
	hintThreshold = 3

	maxUsernameLen = 64
)

var errUsernameTooLong = &apperrors.GameError{
	Code:    apperrors.CodeValidation,
	Message: fmt.Sprintf("Username cannot exceed %d characters", maxUsernameLen),
}

// Config carries the immutable settings of an Engine.
type Config struct {
	MaxRounds         int
	DefaultDifficulty words.Tier
	Table             *words.Table
	Rand              words.Rand // nil uses words.GlobalRand
}

// Engine applies operations to session states. It holds no per-session data
// and is safe for concurrent use as long as its Rand is.
type Engine struct {
	maxRounds   int
	defaultTier words.Tier
	table       *words.Table
	rng         words.Rand
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Table == nil {
		return nil, errors.New("game: nil word table")
	}
	if cfg.MaxRounds <= 0 {
		return nil, fmt.Errorf("game: max rounds must be positive, got %d", cfg.MaxRounds)
	}
	if _, ok := words.ParseTier(string(cfg.DefaultDifficulty)); !ok {
		return nil, fmt.Errorf("game: unknown default difficulty %q", cfg.DefaultDifficulty)
	}
	rng := cfg.Rand
	if rng == nil {
		rng = words.GlobalRand
	}
	return &Engine{
		maxRounds:   cfg.MaxRounds,
		defaultTier: cfg.DefaultDifficulty,
		table:       cfg.Table,
		rng:         rng,
	}, nil
}

// MaxRounds reports the configured number of rounds per game.
func (e *Engine) MaxRounds() int { return e.maxRounds }

// StartSession discards any previous state and opens a fresh session.
func (e *Engine) StartSession(username string) (*State, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrEmptyUsername
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, errUsernameTooLong
	}
	return &State{Player: Player{Username: username, Difficulty: e.defaultTier}}, nil
}

// SetDifficulty switches the tier used for the next round sequence.
// Unrecognized tiers are ignored.
func (e *Engine) SetDifficulty(st *State, tier string) (*State, DifficultyResult, error) {
	if st == nil {
		return nil, DifficultyResult{}, apperrors.ErrNoPlayer
	}
	next := st.Clone()
	if t, ok := words.ParseTier(tier); ok {
		next.Player.Difficulty = t
	}
	return next, DifficultyResult{Difficulty: next.Player.Difficulty}, nil
}

// BeginRound loads the word for the current round, drawing a new sequence
// first when none exists or the previous one has been played through.
func (e *Engine) BeginRound(st *State) (*State, RoundInfo, error) {
	if st == nil {
		return nil, RoundInfo{}, apperrors.ErrNoPlayer
	}
	next := st.Clone()
	p, s := &next.Player, &next.Session

	if len(s.Rounds) == 0 || s.CurrentRound < 1 || s.CurrentRound > len(s.Rounds) {
		s.GameOver = false
		s.Rounds = e.table.SampleRounds(p.Difficulty, e.maxRounds, e.rng)
		s.CurrentRound = 1
	}

	r := s.Rounds[s.CurrentRound-1]
	p.CurrentWord, p.CurrentBinary = r.Word, r.Binary
	p.Attempts, p.Hint = 0, ""

	return next, RoundInfo{
		Binary:      r.Binary,
		Round:       s.CurrentRound,
		TotalRounds: e.totalRounds(next),
		Points:      p.Points,
	}, nil
}

// PreviewRound activates a single random word of the current tier for
// practice. The round sequence is left alone.
func (e *Engine) PreviewRound(st *State) (*State, PreviewInfo, error) {
	if st == nil {
		return nil, PreviewInfo{}, apperrors.ErrNoPlayer
	}
	next := st.Clone()
	p := &next.Player

	word := e.table.PickWord(p.Difficulty, e.rng)
	bin, err := words.Encode(word)
	if err != nil {
		return st, PreviewInfo{}, fmt.Errorf("preview: %w", err)
	}
	p.CurrentWord, p.CurrentBinary = word, bin
	p.Attempts, p.Hint = 0, ""

	return next, PreviewInfo{
		Binary:      bin,
		Word:        word,
		Points:      p.Points,
		Round:       next.Session.CurrentRound,
		TotalRounds: e.totalRounds(next),
	}, nil
}

// SubmitGuess evaluates guess against the active word.
//
// A correct guess scores the tier's points and ends the round. A wrong guess
// costs the tier's penalty; from the third wrong guess on, a prefix of
// attempts-3 letters is revealed. Once the prefix is the whole word the round
// ends by exhaustion and counts as a wrong word. Words guessed after the game
// is over never advance the sequence or end the game again.
func (e *Engine) SubmitGuess(st *State, guess string) (*State, GuessResult, error) {
	if st == nil {
		return nil, GuessResult{}, apperrors.ErrNoPlayer
	}
	if st.Player.CurrentWord == "" {
		return st, GuessResult{}, apperrors.ErrNoActiveRound
	}
	next := st.Clone()
	p, s := &next.Player, &next.Session
	if s.CurrentRound < 1 {
		s.CurrentRound = 1
	}

	guess = strings.ToLower(strings.TrimSpace(guess))
	word := strings.ToLower(p.CurrentWord)

	res := GuessResult{
		Hint:        p.Hint,
		Round:       s.CurrentRound,
		TotalRounds: e.totalRounds(next),
	}

	if guess == word {
		p.Points += e.table.Points(p.Difficulty)
		res.Result = "Correct!"
		res.NewRound = true
	} else {
		p.Attempts++
		p.Points -= e.table.Penalty(p.Difficulty)
		res.Result = fmt.Sprintf("Incorrect. %d failed attempts.", p.Attempts)

		if p.Attempts >= hintThreshold {
			p.Hint = prefix(word, p.Attempts-hintThreshold)
			res.Hint = p.Hint
			res.HintRevealed = true
			if p.Hint == word {
				res.NewRound = true
				res.RevealWord = word
			}
		}
	}

	// Practice words guessed after the game ended are scored, but the game
	// stays over and its counters are left alone.
	inSequence := !s.GameOver && s.CurrentRound <= res.TotalRounds
	if res.NewRound && inSequence {
		if res.RevealWord != "" {
			s.WrongCount++
		}
		s.TotalAttempts += p.Attempts
		if last := res.TotalRounds; s.CurrentRound >= last {
			s.GameOver = true
			s.CurrentRound = last + 1
			res.GameOver = true
			res.Result += "  Game over!"
			res.Summary = summary(s.TotalAttempts, s.WrongCount)
		} else {
			s.CurrentRound++
		}
	}
	if res.NewRound {
		p.Attempts, p.Hint = 0, ""
		p.CurrentWord, p.CurrentBinary = "", ""
	}

	res.Points = p.Points
	return next, res, nil
}

// Restart keeps the username and difficulty and clears everything else.
func (e *Engine) Restart(st *State) (*State, StatusResult, error) {
	if st == nil {
		return nil, StatusResult{}, apperrors.ErrNoPlayer
	}
	return &State{Player: Player{
		Username:   st.Player.Username,
		Difficulty: st.Player.Difficulty,
	}}, StatusResult{Status: "restarted"}, nil
}

// ResetSession drops the session entirely.
func (e *Engine) ResetSession(*State) (*State, StatusResult) {
	return nil, StatusResult{Status: "reset"}
}

// Snapshot describes st without changing it.
func (e *Engine) Snapshot(st *State) (Snapshot, error) {
	if st == nil {
		return Snapshot{}, apperrors.ErrNoPlayer
	}
	return Snapshot{
		Username:    st.Player.Username,
		Difficulty:  st.Player.Difficulty,
		Points:      st.Player.Points,
		Phase:       st.Phase(),
		Binary:      st.Player.CurrentBinary,
		Hint:        st.Player.Hint,
		Attempts:    st.Player.Attempts,
		Round:       st.Session.CurrentRound,
		TotalRounds: e.totalRounds(st),
		GameOver:    st.Session.GameOver,
	}, nil
}

// totalRounds is the drawn sequence length, or the configured maximum
// before any sequence exists.
func (e *Engine) totalRounds(st *State) int {
	if n := len(st.Session.Rounds); n > 0 {
		return n
	}
	return e.maxRounds
}

// prefix returns the first n characters of s, clamped to its length.
func prefix(s string, n int) string {
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	return string(r[:n])
}

func summary(totalAttempts, wrongCount int) string {
	return fmt.Sprintf("You made %d total attempts and got %d word(s) wrong.", totalAttempts, wrongCount)
}
