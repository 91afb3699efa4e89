package database_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/cvetykz/flowerbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRecordResponseQualityFirstRatingWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	inserted, err := store.RecordResponseQuality(ctx, &database.ResponseQuality{
		MessageID: "-100200:42",
		Source:    "operator",
		Rating:    "like",
	})
	if err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	if !inserted {
		t.Fatal("first rating must insert")
	}

	// An opposite rating for the same message must not replace the first.
	inserted, err = store.RecordResponseQuality(ctx, &database.ResponseQuality{
		MessageID: "-100200:42",
		Source:    "operator",
		Rating:    "dislike",
	})
	if err != nil {
		t.Fatalf("second rating failed: %v", err)
	}
	if inserted {
		t.Error("second rating for the same message must not insert")
	}

	inserted, err = store.RecordResponseQuality(ctx, &database.ResponseQuality{
		MessageID: "-100200:43",
		Source:    "operator",
		Rating:    "dislike",
	})
	if err != nil {
		t.Fatalf("rating for another message failed: %v", err)
	}
	if !inserted {
		t.Error("a different message must get its own rating")
	}
}
