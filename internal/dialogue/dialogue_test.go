package dialogue_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cvetykz/flowerbot/internal/dialogue"
)

func newTestManager(maxTurns int, ttl time.Duration) *dialogue.Manager {
	return dialogue.NewManager(maxTurns, ttl, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "order keyword",
			content:  "Хочу оформить заказ на букет",
			expected: dialogue.TypeOrder,
		},
		{
			name:     "question keyword",
			content:  "Когда вы открываетесь?",
			expected: dialogue.TypeQuestion,
		},
		{
			name:     "order wins over question",
			content:  "Сколько стоит доставка?",
			expected: dialogue.TypeOrder,
		},
		{
			name:     "preference keyword",
			content:  "Мне нравится красный цвет",
			expected: dialogue.TypePreference,
		},
		{
			name:     "confirmation keyword",
			content:  "Верно, подтверждаю",
			expected: dialogue.TypeConfirmation,
		},
		{
			name:     "greeting keyword",
			content:  "Привет!",
			expected: dialogue.TypeGreeting,
		},
		{
			name:     "default fallback",
			content:  "12345",
			expected: dialogue.TypeDefault,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := dialogue.Classify(tc.content); got != tc.expected {
				t.Errorf("Classify(%q) = %q, expected %q", tc.content, got, tc.expected)
			}
		})
	}
}

func TestHistoryCappedAtMaxTurns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(10, 24*time.Hour)

	for i := 0; i < 15; i++ {
		m.AddTurn(ctx, 1, "user", fmt.Sprintf("сообщение номер %d о тюльпанах и пионах", i))
	}

	turns := m.Recent(ctx, 1)
	if len(turns) != 10 {
		t.Errorf("expected history capped at 10 turns, got %d", len(turns))
	}
}

func TestPruneDiscardsLowImportanceFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(2, 24*time.Hour)

	// Same timestamps and lengths; only the type weight differs.
	m.AddTurn(ctx, 7, "user", "привет приветствую вас сегодня хорошим днем")
	m.AddTurn(ctx, 7, "user", "хочу заказать букет примерно на эту сумму")
	m.AddTurn(ctx, 7, "user", "сколько времени займет ваша доставка заказа")

	turns := m.Recent(ctx, 7)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns retained, got %d", len(turns))
	}
	for _, turn := range turns {
		if turn.Type == dialogue.TypeGreeting {
			t.Errorf("greeting should be discarded first, kept: %q", turn.Content)
		}
	}
}

func TestRecentKeepsChronologicalOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(10, 24*time.Hour)

	m.AddTurn(ctx, 2, "user", "хочу заказать розы")
	m.AddTurn(ctx, 2, "assistant", "какие розы вам нравятся")
	m.AddTurn(ctx, 2, "user", "красные пожалуйста")

	turns := m.Recent(ctx, 2)
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Timestamp.Before(turns[i-1].Timestamp) {
			t.Error("turns are not in chronological order")
		}
	}
}

func TestRelevantContextPrefersMatchingType(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(10, 24*time.Hour)

	m.AddTurn(ctx, 3, "user", "привет")
	m.AddTurn(ctx, 3, "user", "хочу заказать букет пионов")
	m.AddTurn(ctx, 3, "user", "мне нравится белый цвет")

	turns := m.RelevantContext(ctx, 3, "сколько стоит букет пионов", 1)

	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Type != dialogue.TypeOrder {
		t.Errorf("expected the order turn, got %q (%s)", turns[0].Content, turns[0].Type)
	}
}

func TestClearUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newTestManager(10, 24*time.Hour)

	m.AddTurn(ctx, 4, "user", "хочу заказать розы")
	m.ClearUser(ctx, 4)

	if turns := m.Recent(ctx, 4); len(turns) != 0 {
		t.Errorf("expected empty history after clear, got %d turns", len(turns))
	}
}
