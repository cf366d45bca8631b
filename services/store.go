package services

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/samber/lo"

	"trivia-lab/domain"
	"trivia-lab/errors"
	"trivia-lab/repositories"
)

// QuestionReward is the score increment for a correct answer.
const QuestionReward = 5

// AnswerResult tells the dispatcher how to answer a SEND_ANSWER command.
type AnswerResult struct {
	Correct      bool
	NewScore     int
	CorrectIndex int
	CorrectText  string
}

// GameStore is the authoritative in-memory state: accounts, live sessions
// keyed by session id, and the read-only question bank. A single mutex
// preserves the single-writer invariant the protocol relies on; connection
// goroutines never mutate state outside of it.
//
// Mutations that must survive a crash (question issuance, score change,
// logout) are persisted synchronously before the lock is released.
type GameStore struct {
	mu        sync.Mutex
	users     map[string]domain.User
	sessions  map[string]string // session id -> username
	questions map[int]domain.Question

	repository repositories.IUserRepository
	log        *slog.Logger
}

func NewGameStore(
	users map[string]domain.User,
	questions map[int]domain.Question,
	repository repositories.IUserRepository,
	log *slog.Logger,
) *GameStore {
	return &GameStore{
		users:      users,
		sessions:   make(map[string]string),
		questions:  questions,
		repository: repository,
		log:        log,
	}
}

// Authenticate checks credentials. Comparison is plaintext by design of the
// protocol; there is no credential hashing in this game.
func (s *GameStore) Authenticate(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownUser, username)
	}
	if user.Password != password {
		return errors.ErrWrongPassword
	}
	return nil
}

// MarkLoggedIn binds a connection to a username. Repeated logins from the
// same connection simply rebind it. The same username may be logged in from
// several connections at once; the protocol does not forbid it.
func (s *GameStore) MarkLoggedIn(sessionID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = username
}

// MarkLoggedOut releases the session of a connection and persists the user
// set. Unknown connections are a no-op, which makes the call idempotent and
// lets disconnect cleanup share the logout path.
func (s *GameStore) MarkLoggedOut(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(s.sessions, sessionID)
	s.persistLocked()
	s.log.Info("User logged out", "username", username, "session", sessionID)
}

// SessionUser resolves a connection to its authenticated username.
func (s *GameStore) SessionUser(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[sessionID]
	return username, ok
}

// LoggedUsers lists the usernames currently logged in.
func (s *GameStore) LoggedUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Values(s.sessions)
}

// Score returns the score of the given user.
func (s *GameStore) Score(username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errors.ErrUnknownUser, username)
	}
	return user.Score, nil
}

// Highscore returns all users sorted by score descending. Ties keep a
// stable username order so repeated queries render identically.
func (s *GameStore) Highscore() []domain.ScoreEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := lo.MapToSlice(s.users, func(username string, user domain.User) domain.ScoreEntry {
		return domain.ScoreEntry{Username: username, Score: user.Score}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})
	return entries
}

// PickUnaskedQuestion selects uniformly at random among the questions not
// yet served to the user. The picked ID is recorded and persisted before
// the question is returned, so a crash after the send cannot repeat it.
func (s *GameStore) PickUnaskedQuestion(username string) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return domain.Question{}, fmt.Errorf("%w: %s", errors.ErrUnknownUser, username)
	}

	available := lo.OmitBy(s.questions, func(id int, _ domain.Question) bool {
		return user.WasAsked(id)
	})
	if len(available) == 0 {
		return domain.Question{}, errors.ErrNoQuestions
	}

	ids := lo.Keys(available)
	picked := ids[rand.IntN(len(ids))]

	user.QuestionsAsked = append(user.QuestionsAsked, picked)
	s.users[username] = user
	s.persistLocked()

	return s.questions[picked], nil
}

// RecordAnswer compares the chosen 1-based index to the stored correct one
// and rewards a correct answer. The score change is persisted immediately.
func (s *GameStore) RecordAnswer(username string, questionID, choice int) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return AnswerResult{}, fmt.Errorf("%w: %s", errors.ErrUnknownUser, username)
	}
	question, ok := s.questions[questionID]
	if !ok {
		return AnswerResult{}, fmt.Errorf("%w: %d", errors.ErrUnknownQuestion, questionID)
	}

	if choice == question.Correct {
		user.Score += QuestionReward
		s.users[username] = user
		s.persistLocked()
		return AnswerResult{Correct: true, NewScore: user.Score}, nil
	}

	return AnswerResult{
		CorrectIndex: question.Correct,
		CorrectText:  question.Answers[question.Correct-1],
	}, nil
}

// Flush persists the full user set. Used on shutdown.
func (s *GameStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repository.Save(s.users)
}

// persistLocked saves the user set while holding the store lock. A failed
// save is logged and the in-memory state stays authoritative; the next
// mutation retries the full overwrite anyway.
func (s *GameStore) persistLocked() {
	if err := s.repository.Save(s.users); err != nil {
		s.log.Error("Failed to persist users", "error", err)
	}
}
