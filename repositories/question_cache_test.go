package repositories

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"trivia-lab/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestQuestionCache_RoundTrip(t *testing.T) {
	req := require.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := NewQuestionCache(openTestDB(t), logger)

	bank := map[int]domain.Question{
		1: {ID: 1, Text: "Capital of France?", Answers: []string{"Paris", "Lyon", "Nice", "Lille"}, Correct: 1},
		2: {ID: 2, Text: "2+2?", Answers: []string{"3", "4", "5", "6"}, Correct: 2},
	}
	req.NoError(cache.StoreBank(bank))

	loaded, err := cache.LoadBank()
	req.NoError(err)
	req.Equal(bank, loaded)
}

func TestQuestionCache_StoreBankReplacesStaleEntries(t *testing.T) {
	req := require.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := NewQuestionCache(openTestDB(t), logger)

	big := map[int]domain.Question{
		1: {ID: 1, Text: "one", Answers: []string{"a", "b", "c", "d"}, Correct: 1},
		2: {ID: 2, Text: "two", Answers: []string{"a", "b", "c", "d"}, Correct: 2},
		3: {ID: 3, Text: "three", Answers: []string{"a", "b", "c", "d"}, Correct: 3},
	}
	req.NoError(cache.StoreBank(big))

	small := map[int]domain.Question{
		1: {ID: 1, Text: "uno", Answers: []string{"a", "b", "c", "d"}, Correct: 4},
	}
	req.NoError(cache.StoreBank(small))

	loaded, err := cache.LoadBank()
	req.NoError(err)
	req.Equal(small, loaded)
}

func TestQuestionCache_LoadBankEmpty(t *testing.T) {
	req := require.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := NewQuestionCache(openTestDB(t), logger)

	loaded, err := cache.LoadBank()
	req.NoError(err)
	req.Empty(loaded)
}
