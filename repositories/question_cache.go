//go:generate go run go.uber.org/mock/mockgen -source=question_cache.go -destination=../mocks/mock_question_cache.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"trivia-lab/domain"
)

type IQuestionCache interface {
	StoreBank(questions map[int]domain.Question) error
	LoadBank() (map[int]domain.Question, error)
}

// QuestionCache keeps the last successfully fetched question bank in
// BadgerDB so a restart without network access still has questions to
// serve. Keys are formatted as "question:%04d" to keep the prefix scan in
// ID order.
type QuestionCache struct {
	db  *badger.DB
	log *slog.Logger
}

func NewQuestionCache(db *badger.DB, log *slog.Logger) IQuestionCache {
	return &QuestionCache{db: db, log: log}
}

const questionKeyPrefix = "question:"

type cachedQuestion struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Answers []string `json:"answers"`
	Correct int      `json:"correct"`
}

// StoreBank replaces the cached bank with the given one in a single
// transaction. Stale entries from a previous, larger bank are dropped first
// so LoadBank never mixes two seeds.
func (c *QuestionCache) StoreBank(questions map[int]domain.Question) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(questionKeyPrefix)})
		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for id, question := range questions {
			bytes, err := json.Marshal(cachedQuestion{
				ID:      question.ID,
				Text:    question.Text,
				Answers: question.Answers,
				Correct: question.Correct,
			})
			if err != nil {
				return err
			}
			key := fmt.Sprintf("%s%04d", questionKeyPrefix, id)
			if err := txn.Set([]byte(key), bytes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("caching question bank: %w", err)
	}
	c.log.Info("Cached question bank", "count", len(questions))
	return nil
}

// LoadBank retrieves the cached bank using a prefix scan.
func (c *QuestionCache) LoadBank() (map[int]domain.Question, error) {
	questions := make(map[int]domain.Question)
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(questionKeyPrefix)})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var cached cachedQuestion
				if err := json.Unmarshal(val, &cached); err != nil {
					return err
				}
				questions[cached.ID] = domain.Question{
					ID:      cached.ID,
					Text:    cached.Text,
					Answers: cached.Answers,
					Correct: cached.Correct,
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading cached question bank: %w", err)
	}
	return questions, nil
}
