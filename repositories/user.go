//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"trivia-lab/domain"
)

type IUserRepository interface {
	Load() (map[string]domain.User, error)
	Save(users map[string]domain.User) error
}

// UserRepository persists accounts in a plain text file, one user per line:
//
//	username,password,score,q1 q2 q3 ...
//
// The trailing field is the space-separated list of already-asked question
// IDs. Save rewrites the whole file; the store is small enough that a full
// overwrite per mutation is an accepted latency trade-off.
type UserRepository struct {
	path string
	log  *slog.Logger
}

func NewUserRepository(path string, log *slog.Logger) IUserRepository {
	return &UserRepository{path: path, log: log}
}

// Load reads the user file best-effort: malformed lines are skipped with a
// warning rather than failing the whole load. An absent file yields the
// built-in bootstrap accounts.
func (r *UserRepository) Load() (map[string]domain.User, error) {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.log.Info("User file not found, bootstrapping default accounts", "path", r.path)
		return bootstrapUsers(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user file: %w", err)
	}

	users := make(map[string]domain.User)
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		user, err := parseUserLine(line)
		if err != nil {
			r.log.Warn("Skipping invalid user record", "line", line, "error", err)
			continue
		}
		users[user.Username] = user
	}
	r.log.Info("Loaded users", "count", len(users), "path", r.path)
	return users, nil
}

// Save serializes the full user mapping, overwriting prior state.
func (r *UserRepository) Save(users map[string]domain.User) error {
	var sb strings.Builder
	for _, user := range users {
		asked := make([]string, 0, len(user.QuestionsAsked))
		for _, id := range user.QuestionsAsked {
			asked = append(asked, strconv.Itoa(id))
		}
		fmt.Fprintf(&sb, "%s,%s,%d,%s\n",
			user.Username, user.Password, user.Score, strings.Join(asked, " "))
	}
	if err := os.WriteFile(r.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing user file: %w", err)
	}
	return nil
}

func parseUserLine(line string) (domain.User, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return domain.User{}, fmt.Errorf("expected at least 3 fields, got %d", len(parts))
	}

	score, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid score: %w", err)
	}

	var asked []int
	if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
		for _, field := range strings.Fields(parts[3]) {
			id, err := strconv.Atoi(field)
			if err != nil {
				return domain.User{}, fmt.Errorf("invalid question id %q: %w", field, err)
			}
			asked = append(asked, id)
		}
	}

	return domain.User{
		Username:       strings.TrimSpace(parts[0]),
		Password:       strings.TrimSpace(parts[1]),
		Score:          score,
		QuestionsAsked: asked,
	}, nil
}

// bootstrapUsers is the account set used when no user file exists yet.
func bootstrapUsers() map[string]domain.User {
	return map[string]domain.User{
		"test":   {Username: "test", Password: "test", Score: 0},
		"yossi":  {Username: "yossi", Password: "123", Score: 50},
		"master": {Username: "master", Password: "master", Score: 200},
	}
}
