package services

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"trivia-lab/domain"
	"trivia-lab/errors"
	"trivia-lab/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUsers() map[string]domain.User {
	return map[string]domain.User{
		"test":   {Username: "test", Password: "test", Score: 0},
		"yossi":  {Username: "yossi", Password: "123", Score: 50},
		"master": {Username: "master", Password: "master", Score: 200},
	}
}

func testQuestions() map[int]domain.Question {
	return map[int]domain.Question{
		1: {ID: 1, Text: "Capital of France?", Answers: []string{"Lyon", "Paris", "Nice", "Lille"}, Correct: 2},
		2: {ID: 2, Text: "2+2?", Answers: []string{"4", "3", "5", "6"}, Correct: 1},
	}
}

func TestGameStore_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repoMock := mocks.NewMockIUserRepository(ctrl)
	store := NewGameStore(testUsers(), testQuestions(), repoMock, discardLogger())

	t.Run("should accept correct credentials", func(t *testing.T) {
		require.NoError(t, store.Authenticate("yossi", "123"))
	})

	t.Run("should reject an unknown username", func(t *testing.T) {
		require.ErrorIs(t, store.Authenticate("nobody", "123"), errors.ErrUnknownUser)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		require.ErrorIs(t, store.Authenticate("yossi", "wrong"), errors.ErrWrongPassword)
	})
}

func TestGameStore_Sessions(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repoMock := mocks.NewMockIUserRepository(ctrl)
	store := NewGameStore(testUsers(), testQuestions(), repoMock, discardLogger())

	store.MarkLoggedIn("1.2.3.4:1000", "yossi")
	store.MarkLoggedIn("1.2.3.4:2000", "test")

	username, ok := store.SessionUser("1.2.3.4:1000")
	req.True(ok)
	req.Equal("yossi", username)
	req.ElementsMatch([]string{"yossi", "test"}, store.LoggedUsers())

	// Logout persists the user set and releases only that session.
	repoMock.EXPECT().Save(gomock.Any()).Return(nil).Times(1)
	store.MarkLoggedOut("1.2.3.4:1000")
	_, ok = store.SessionUser("1.2.3.4:1000")
	req.False(ok)
	req.Equal([]string{"test"}, store.LoggedUsers())

	// Logging out an unknown connection is a no-op: no save, no panic.
	store.MarkLoggedOut("9.9.9.9:1")
	req.Equal([]string{"test"}, store.LoggedUsers())
}

func TestGameStore_RecordAnswer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("should reward a correct answer and persist", func(t *testing.T) {
		req := require.New(t)
		repoMock := mocks.NewMockIUserRepository(ctrl)
		store := NewGameStore(testUsers(), testQuestions(), repoMock, discardLogger())

		repoMock.EXPECT().Save(gomock.Any()).Return(nil).Times(1)

		result, err := store.RecordAnswer("yossi", 1, 2)
		req.NoError(err)
		req.True(result.Correct)
		req.Equal(55, result.NewScore)

		score, err := store.Score("yossi")
		req.NoError(err)
		req.Equal(55, score)
	})

	t.Run("should report the correct answer on a wrong choice without mutating score", func(t *testing.T) {
		req := require.New(t)
		repoMock := mocks.NewMockIUserRepository(ctrl)
		store := NewGameStore(testUsers(), testQuestions(), repoMock, discardLogger())

		repoMock.EXPECT().Save(gomock.Any()).Times(0)

		result, err := store.RecordAnswer("yossi", 1, 3)
		req.NoError(err)
		req.False(result.Correct)
		req.Equal(2, result.CorrectIndex)
		req.Equal("Paris", result.CorrectText)

		score, err := store.Score("yossi")
		req.NoError(err)
		req.Equal(50, score)
	})

	t.Run("should fail on an unknown question id", func(t *testing.T) {
		req := require.New(t)
		repoMock := mocks.NewMockIUserRepository(ctrl)
		store := NewGameStore(testUsers(), testQuestions(), repoMock, discardLogger())

		_, err := store.RecordAnswer("yossi", 42, 1)
		req.ErrorIs(err, errors.ErrUnknownQuestion)
	})
}

func TestGameStore_PickUnaskedQuestion(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repoMock := mocks.NewMockIUserRepository(ctrl)
	store := NewGameStore(testUsers(), testQuestions(), repoMock, discardLogger())

	// Each pick persists the asked-set before the question is returned.
	repoMock.EXPECT().Save(gomock.Any()).Return(nil).Times(2)

	seen := make(map[int]bool)
	for range len(testQuestions()) {
		question, err := store.PickUnaskedQuestion("yossi")
		req.NoError(err)
		req.False(seen[question.ID], "question %d served twice", question.ID)
		seen[question.ID] = true
	}

	// Exhausted: every subsequent call reports no questions left.
	_, err := store.PickUnaskedQuestion("yossi")
	req.ErrorIs(err, errors.ErrNoQuestions)
	_, err = store.PickUnaskedQuestion("yossi")
	req.ErrorIs(err, errors.ErrNoQuestions)

	// Other users still have their own unasked set.
	repoMock.EXPECT().Save(gomock.Any()).Return(nil).Times(1)
	_, err = store.PickUnaskedQuestion("test")
	req.NoError(err)
}

func TestGameStore_Highscore(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repoMock := mocks.NewMockIUserRepository(ctrl)

	users := testUsers()
	users["zed"] = domain.User{Username: "zed", Password: "z", Score: 50}
	store := NewGameStore(users, testQuestions(), repoMock, discardLogger())

	entries := store.Highscore()
	req.Len(entries, 4)
	req.Equal("master", entries[0].Username)
	// Ties are broken by a stable username order.
	req.Equal("yossi", entries[1].Username)
	req.Equal("zed", entries[2].Username)
	req.Equal("test", entries[3].Username)
}
