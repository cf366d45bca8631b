package repositories

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trivia-lab/domain"
)

func TestUserRepository_Load(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("should bootstrap default accounts when the file is absent", func(t *testing.T) {
		req := require.New(t)
		repo := NewUserRepository(filepath.Join(t.TempDir(), "users.txt"), logger)

		users, err := repo.Load()
		req.NoError(err)
		req.Len(users, 3)
		req.Equal(50, users["yossi"].Score)
		req.Equal("123", users["yossi"].Password)
		req.Equal(200, users["master"].Score)
	})

	t.Run("should parse records and the asked-question history", func(t *testing.T) {
		req := require.New(t)
		path := filepath.Join(t.TempDir(), "users.txt")
		content := "yossi,123,65,4 7 12\ntest,test,0,\n"
		req.NoError(os.WriteFile(path, []byte(content), 0o644))

		users, err := NewUserRepository(path, logger).Load()
		req.NoError(err)
		req.Len(users, 2)
		req.Equal(65, users["yossi"].Score)
		req.Equal([]int{4, 7, 12}, users["yossi"].QuestionsAsked)
		req.Empty(users["test"].QuestionsAsked)
	})

	t.Run("should skip malformed records and keep the rest", func(t *testing.T) {
		req := require.New(t)
		path := filepath.Join(t.TempDir(), "users.txt")
		content := "yossi,123,50,\n" +
			"broken-line\n" +
			"noscore,pw,not-a-number,\n" +
			"master,master,200,1 2\n"
		req.NoError(os.WriteFile(path, []byte(content), 0o644))

		users, err := NewUserRepository(path, logger).Load()
		req.NoError(err)
		req.Len(users, 2)
		req.Contains(users, "yossi")
		req.Contains(users, "master")
	})
}

func TestUserRepository_SaveRoundTrip(t *testing.T) {
	req := require.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "users.txt")
	repo := NewUserRepository(path, logger)

	users := map[string]domain.User{
		"yossi": {Username: "yossi", Password: "123", Score: 55, QuestionsAsked: []int{3, 9}},
		"test":  {Username: "test", Password: "test", Score: 0},
	}
	req.NoError(repo.Save(users))

	loaded, err := repo.Load()
	req.NoError(err)
	req.Equal(users["yossi"].Score, loaded["yossi"].Score)
	req.Equal(users["yossi"].QuestionsAsked, loaded["yossi"].QuestionsAsked)
	req.Equal(users["test"], loaded["test"])

	// Save overwrites prior state entirely.
	delete(users, "test")
	req.NoError(repo.Save(users))
	loaded, err = repo.Load()
	req.NoError(err)
	req.Len(loaded, 1)
}
