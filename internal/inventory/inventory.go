// Package inventory loads the product list from a Google Sheet and renders
// it as prompt context, so the bot quotes live prices and stock levels.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Product is one row of the inventory sheet.
type Product struct {
	Name        string
	Price       string
	Quantity    int
	Description string
	Category    string
}

// Fetcher retrieves the raw sheet rows, header included.
type Fetcher interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// Service keeps a TTL-bounded snapshot of the parsed product list.
// A failed refresh keeps serving the previous snapshot.
type Service struct {
	fetcher    Fetcher
	logger     *slog.Logger
	refreshTTL time.Duration

	mu          sync.RWMutex
	products    []Product
	refreshedAt time.Time
}

// NewService creates an inventory service over the given sheet fetcher.
func NewService(fetcher Fetcher, refreshTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		logger:     logger.With("component", "inventory"),
		refreshTTL: refreshTTL,
	}
}

// Refresh downloads and reparses the sheet, replacing the snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	rows, err := s.fetcher.FetchRows(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to refresh inventory", "error", err)
		return err
	}

	products := ParseRows(rows, s.logger)

	s.mu.Lock()
	s.products = products
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Inventory refreshed", "products", len(products))
	return nil
}

// Products returns the current snapshot, refreshing it first when stale.
func (s *Service) Products(ctx context.Context) []Product {
	s.mu.RLock()
	stale := s.refreshedAt.IsZero() || time.Since(s.refreshedAt) > s.refreshTTL
	s.mu.RUnlock()

	if stale {
		if err := s.Refresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "Serving stale inventory snapshot", "error", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// FindByName returns the first product whose name matches, ignoring case.
// Duplicate names can occur in the sheet; the earliest row wins.
func (s *Service) FindByName(ctx context.Context, name string) (Product, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range s.Products(ctx) {
		if strings.ToLower(p.Name) == name {
			return p, true
		}
	}
	return Product{}, false
}

// FormatContext renders the snapshot as a prompt block. Empty when the sheet
// could not be loaded, so the prompt assembler can skip the section.
func (s *Service) FormatContext(ctx context.Context) string {
	products := s.Products(ctx)
	if len(products) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Актуальный ассортимент и цены:\n")
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("- %s: %s тенге", p.Name, p.Price))
		if p.Quantity > 0 {
			sb.WriteString(fmt.Sprintf(", в наличии %d шт", p.Quantity))
		} else {
			sb.WriteString(", нет в наличии")
		}
		if p.Description != "" {
			sb.WriteString(". " + p.Description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// ParseRows converts raw sheet rows into products. The first row is the
// header. Rows without a name or price are logged and skipped; a quantity
// that does not parse counts as zero.
func ParseRows(rows [][]string, logger *slog.Logger) []Product {
	if len(rows) < 2 {
		return nil
	}

	products := make([]Product, 0, len(rows)-1)
	for i, row := range rows[1:] {
		p := Product{}
		if len(row) > 0 {
			p.Name = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			p.Price = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			qty, err := strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil {
				logger.Warn("Unparseable quantity in inventory row", "row", i+2, "value", row[2])
			} else {
				p.Quantity = qty
			}
		}
		if len(row) > 3 {
			p.Description = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			p.Category = strings.TrimSpace(row[4])
		}

		if p.Name == "" || p.Price == "" {
			logger.Warn("Skipping malformed inventory row", "row", i+2)
			continue
		}
		products = append(products, p)
	}
	return products
}
