package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/go-playground/validator/v10"

	"trivia-lab/domain"
	"trivia-lab/errors"
	"trivia-lab/repositories"
)

// Loader fetches the question bank from an Open Trivia DB style endpoint at
// startup. The fetched seed is cached; when the endpoint is unreachable or
// returns garbage, the previous cached bank is served instead.
type Loader struct {
	url      string
	client   *http.Client
	cache    repositories.IQuestionCache
	validate *validator.Validate
	log      *slog.Logger
}

func NewLoader(url string, client *http.Client, cache repositories.IQuestionCache, log *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		url:      url,
		client:   client,
		cache:    cache,
		validate: validator.New(),
		log:      log,
	}
}

// seedResponse mirrors the trivia API payload. Answers arrive HTML-escaped.
type seedResponse struct {
	ResponseCode int        `json:"response_code"`
	Results      []seedItem `json:"results"`
}

type seedItem struct {
	Question         string   `json:"question" validate:"required"`
	CorrectAnswer    string   `json:"correct_answer" validate:"required"`
	IncorrectAnswers []string `json:"incorrect_answers" validate:"len=3,dive,required"`
}

// Load returns the question bank for this process run, refreshing the cache
// on a successful fetch and falling back to it otherwise. An empty bank
// from both paths is an error: the server cannot run without questions.
func (l *Loader) Load(ctx context.Context) (map[int]domain.Question, error) {
	bank, err := l.fetch(ctx)
	if err != nil {
		l.log.Warn("Question fetch failed, falling back to cached bank", "error", err)
		cached, cacheErr := l.cache.LoadBank()
		if cacheErr != nil {
			return nil, fmt.Errorf("fetch failed (%v) and cache unavailable: %w", err, cacheErr)
		}
		if len(cached) == 0 {
			return nil, fmt.Errorf("fetch failed and cache is empty: %w", errors.ErrEmptyBank)
		}
		l.log.Info("Loaded questions from cache", "count", len(cached))
		return cached, nil
	}

	if err := l.cache.StoreBank(bank); err != nil {
		// A stale cache only hurts the next offline start, not this run.
		l.log.Warn("Failed to refresh question cache", "error", err)
	}
	l.log.Info("Loaded questions from the web", "count", len(bank))
	return bank, nil
}

func (l *Loader) fetch(ctx context.Context) (map[int]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trivia API returned %s", resp.Status)
	}

	var seed seedResponse
	if err := json.NewDecoder(resp.Body).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decoding trivia API response: %w", err)
	}
	if seed.ResponseCode != 0 {
		return nil, fmt.Errorf("trivia API response code %d", seed.ResponseCode)
	}

	bank := make(map[int]domain.Question, len(seed.Results))
	id := 1
	for _, item := range seed.Results {
		if err := l.validate.Struct(item); err != nil {
			l.log.Warn("Skipping invalid seed record", "error", err)
			continue
		}
		bank[id] = buildQuestion(id, item)
		id++
	}
	if len(bank) == 0 {
		return nil, errors.ErrEmptyBank
	}
	return bank, nil
}

// buildQuestion unescapes the record, shuffles the answer order and
// recomputes the 1-based correct index.
func buildQuestion(id int, item seedItem) domain.Question {
	correct := html.UnescapeString(item.CorrectAnswer)
	answers := make([]string, 0, len(item.IncorrectAnswers)+1)
	for _, answer := range item.IncorrectAnswers {
		answers = append(answers, html.UnescapeString(answer))
	}
	answers = append(answers, correct)
	rand.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	correctIndex := 0
	for i, answer := range answers {
		if answer == correct {
			correctIndex = i + 1
			break
		}
	}

	return domain.Question{
		ID:      id,
		Text:    html.UnescapeString(item.Question),
		Answers: answers,
		Correct: correctIndex,
	}
}
