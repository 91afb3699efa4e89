package knowledge

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Service keeps a parsed snapshot of the knowledge document and answers
// relevance queries against it. The snapshot refreshes lazily when older
// than refreshTTL, and eagerly via Refresh from the scheduler or the
// operator's update command. A failed refresh keeps serving the previous
// snapshot.
type Service struct {
	fetcher     Fetcher
	logger      *slog.Logger
	refreshTTL  time.Duration
	maxSections int

	mu          sync.RWMutex
	sections    []Section
	refreshedAt time.Time
}

// NewService creates a knowledge service over the given document fetcher.
func NewService(fetcher Fetcher, refreshTTL time.Duration, maxSections int, logger *slog.Logger) *Service {
	return &Service{
		fetcher:     fetcher,
		logger:      logger.With("component", "knowledge"),
		refreshTTL:  refreshTTL,
		maxSections: maxSections,
	}
}

// Refresh downloads and reparses the document, replacing the snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	text, err := s.fetcher.FetchDocument(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to refresh knowledge base", "error", err)
		return err
	}

	sections := ParseSections(text)

	s.mu.Lock()
	s.sections = sections
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Knowledge base refreshed", "sections", len(sections))
	return nil
}

// RelevantKnowledge returns the context block for a customer question.
// Returns NoRelevantInfo when nothing in the document matches, and
// Unavailable when no snapshot could be loaded at all.
func (s *Service) RelevantKnowledge(ctx context.Context, query string) string {
	s.mu.RLock()
	stale := s.refreshedAt.IsZero() || time.Since(s.refreshedAt) > s.refreshTTL
	s.mu.RUnlock()

	if stale {
		if err := s.Refresh(ctx); err != nil {
			s.logger.WarnContext(ctx, "Serving stale knowledge snapshot", "error", err)
		}
	}

	s.mu.RLock()
	sections := s.sections
	s.mu.RUnlock()

	if len(sections) == 0 {
		return Unavailable
	}
	return SelectRelevant(query, sections, s.maxSections)
}

// SectionCount reports the size of the current snapshot.
func (s *Service) SectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sections)
}
