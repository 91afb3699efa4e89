package inventory_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/cvetykz/flowerbot/internal/inventory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticFetcher struct {
	rows [][]string
	err  error
}

func (f *staticFetcher) FetchRows(_ context.Context) ([][]string, error) {
	return f.rows, f.err
}

func TestParseRows(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		rows     [][]string
		expected int
	}{
		{
			name: "valid rows",
			rows: [][]string{
				{"Название", "Цена", "Количество", "Описание", "Категория"},
				{"Розы", "1500", "120", "Свежие розы из Эквадора", "розы"},
				{"Тюльпаны", "800", "50", "", "тюльпаны"},
			},
			expected: 2,
		},
		{
			name: "missing price skipped",
			rows: [][]string{
				{"Название", "Цена"},
				{"Розы", "1500"},
				{"Пионы", ""},
			},
			expected: 1,
		},
		{
			name: "missing name skipped",
			rows: [][]string{
				{"Название", "Цена"},
				{"", "1500"},
			},
			expected: 0,
		},
		{
			name:     "header only",
			rows:     [][]string{{"Название", "Цена"}},
			expected: 0,
		},
		{
			name:     "empty sheet",
			rows:     nil,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			products := inventory.ParseRows(tc.rows, discardLogger())
			if len(products) != tc.expected {
				t.Errorf("expected %d products, got %d", tc.expected, len(products))
			}
		})
	}
}

func TestParseRowsUnparseableQuantity(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Название", "Цена", "Количество"},
		{"Розы", "1500", "много"},
	}

	products := inventory.ParseRows(rows, discardLogger())

	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", products[0].Quantity)
	}
}

func TestFormatContextIncludesPrices(t *testing.T) {
	t.Parallel()

	fetcher := &staticFetcher{rows: [][]string{
		{"Название", "Цена", "Количество", "Описание"},
		{"Розы", "1500", "120", "Свежие розы"},
		{"Пионы", "3000", "0", ""},
	}}
	svc := inventory.NewService(fetcher, time.Minute, discardLogger())

	got := svc.FormatContext(context.Background())

	if !strings.Contains(got, "Розы: 1500 тенге") {
		t.Errorf("expected rose price in context, got:\n%s", got)
	}
	if !strings.Contains(got, "в наличии 120 шт") {
		t.Errorf("expected rose stock in context, got:\n%s", got)
	}
	if !strings.Contains(got, "Пионы: 3000 тенге, нет в наличии") {
		t.Errorf("expected out-of-stock marker, got:\n%s", got)
	}
}

func TestFindByNameFirstMatchWins(t *testing.T) {
	t.Parallel()

	fetcher := &staticFetcher{rows: [][]string{
		{"Название", "Цена"},
		{"Розы", "1500"},
		{"розы", "9999"},
	}}
	svc := inventory.NewService(fetcher, time.Minute, discardLogger())

	p, ok := svc.FindByName(context.Background(), "РОЗЫ")

	if !ok {
		t.Fatal("expected product to be found")
	}
	if p.Price != "1500" {
		t.Errorf("expected first row to win, got price %s", p.Price)
	}
}

func TestProductsServesStaleSnapshotOnError(t *testing.T) {
	t.Parallel()

	fetcher := &staticFetcher{rows: [][]string{
		{"Название", "Цена"},
		{"Розы", "1500"},
	}}
	svc := inventory.NewService(fetcher, time.Nanosecond, discardLogger())

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	fetcher.err = io.ErrUnexpectedEOF
	time.Sleep(time.Millisecond)

	products := svc.Products(context.Background())
	if len(products) != 1 {
		t.Errorf("expected stale snapshot to be served, got %d products", len(products))
	}
}
