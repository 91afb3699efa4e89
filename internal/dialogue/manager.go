package dialogue

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cvetykz/flowerbot/internal/database"
)

// Turn is one message of a conversation held in memory.
type Turn struct {
	Role      string
	Content   string
	Type      string
	Timestamp time.Time
}

// Archive mirrors dialogue turns to persistent storage so history survives
// restarts. Implemented by database.Store; may be nil to keep history purely
// in memory.
type Archive interface {
	SaveDialogueTurn(ctx context.Context, turn *database.DialogueTurn) error
	GetRecentDialogueTurns(ctx context.Context, userID int64, limit int) ([]database.DialogueTurn, error)
	DeleteDialogueTurnsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteDialogueTurns(ctx context.Context, userID int64) error
}

// Manager keeps bounded per-user conversation history. When a user's history
// exceeds maxTurns after TTL expiry, the least important turns are dropped;
// the retained turns stay in chronological order.
type Manager struct {
	archive  Archive
	logger   *slog.Logger
	maxTurns int
	turnTTL  time.Duration

	mu            sync.Mutex
	conversations map[int64][]Turn
	loaded        map[int64]bool
}

// NewManager creates a dialogue manager. archive may be nil.
func NewManager(maxTurns int, turnTTL time.Duration, archive Archive, logger *slog.Logger) *Manager {
	return &Manager{
		archive:       archive,
		logger:        logger.With("component", "dialogue"),
		maxTurns:      maxTurns,
		turnTTL:       turnTTL,
		conversations: make(map[int64][]Turn),
		loaded:        make(map[int64]bool),
	}
}

// AddTurn classifies and records one message, pruning the user's history
// afterwards. The turn is also mirrored to the archive.
func (m *Manager) AddTurn(ctx context.Context, userID int64, role, content string) {
	turnType := Classify(content)
	turn := Turn{
		Role:      role,
		Content:   content,
		Type:      turnType,
		Timestamp: time.Now(),
	}

	m.mu.Lock()
	m.ensureLoaded(ctx, userID)
	m.conversations[userID] = append(m.conversations[userID], turn)
	m.prune(userID)
	m.mu.Unlock()

	if m.archive != nil {
		record := &database.DialogueTurn{
			UserID:    userID,
			Role:      role,
			Content:   content,
			TurnType:  turnType,
			Timestamp: turn.Timestamp,
		}
		if err := m.archive.SaveDialogueTurn(ctx, record); err != nil {
			m.logger.WarnContext(ctx, "Failed to archive dialogue turn", "user_id", userID, "error", err)
		}
	}

	m.logger.DebugContext(ctx, "Dialogue turn added", "user_id", userID, "type", turnType)
}

// Recent returns the user's retained history in chronological order.
func (m *Manager) Recent(ctx context.Context, userID int64) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx, userID)
	m.prune(userID)

	turns := m.conversations[userID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// RelevantContext returns up to maxTurns history turns ranked by relevance to
// the current message: same-type turns score 1.0, order turns score 0.8 for
// an incoming question, recency decays the score down to a 0.2 floor, and a
// shared non-stopword adds 0.5. The result is re-sorted chronologically.
func (m *Manager) RelevantContext(ctx context.Context, userID int64, currentMessage string, maxTurns int) []Turn {
	currentType := Classify(currentMessage)
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx, userID)
	m.prune(userID)

	turns := m.conversations[userID]
	type scored struct {
		turn  Turn
		score float64
	}
	ranked := make([]scored, 0, len(turns))
	for _, turn := range turns {
		score := 0.0
		switch {
		case turn.Type == currentType:
			score += 1.0
		case turn.Type == TypeOrder && currentType == TypeQuestion:
			score += 0.8
		}

		age := now.Sub(turn.Timestamp)
		decay := 1 - age.Seconds()/m.turnTTL.Seconds()
		if decay < 0.2 {
			decay = 0.2
		}
		score *= decay

		if hasCommonKeywords(currentMessage, turn.Content) {
			score += 0.5
		}
		ranked = append(ranked, scored{turn: turn, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > maxTurns {
		ranked = ranked[:maxTurns]
	}

	out := make([]Turn, len(ranked))
	for i, r := range ranked {
		out[i] = r.turn
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// ClearUser drops a user's history from memory and the archive.
func (m *Manager) ClearUser(ctx context.Context, userID int64) {
	m.mu.Lock()
	delete(m.conversations, userID)
	delete(m.loaded, userID)
	m.mu.Unlock()

	if m.archive != nil {
		if err := m.archive.DeleteDialogueTurns(ctx, userID); err != nil {
			m.logger.WarnContext(ctx, "Failed to clear archived dialogue", "user_id", userID, "error", err)
		}
	}
	m.logger.InfoContext(ctx, "Dialogue history cleared", "user_id", userID)
}

// PruneExpired removes expired turns for all users and from the archive.
// Returns the number of archived rows deleted.
func (m *Manager) PruneExpired(ctx context.Context) int64 {
	m.mu.Lock()
	for userID := range m.conversations {
		m.prune(userID)
	}
	m.mu.Unlock()

	if m.archive == nil {
		return 0
	}
	deleted, err := m.archive.DeleteDialogueTurnsBefore(ctx, time.Now().Add(-m.turnTTL))
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to prune archived dialogue turns", "error", err)
		return 0
	}
	return deleted
}

// importance weighs a turn for retention. Recency decays linearly over the
// TTL with a 0.5 floor; length scales up to 1.5 at 150 characters.
func (m *Manager) importance(turn Turn, now time.Time) float64 {
	weight, ok := typeWeights[turn.Type]
	if !ok {
		weight = typeWeights[TypeDefault]
	}

	age := now.Sub(turn.Timestamp)
	timeFactor := 1 - age.Seconds()/m.turnTTL.Seconds()
	if timeFactor < 0.5 {
		timeFactor = 0.5
	}

	lengthFactor := float64(len([]rune(turn.Content))) / 100
	if lengthFactor > 1.5 {
		lengthFactor = 1.5
	}

	return weight * timeFactor * lengthFactor
}

// prune drops expired turns, then the least important ones past maxTurns.
// Caller holds the lock.
func (m *Manager) prune(userID int64) {
	now := time.Now()
	turns := m.conversations[userID]

	kept := turns[:0]
	for _, turn := range turns {
		if now.Sub(turn.Timestamp) < m.turnTTL {
			kept = append(kept, turn)
		}
	}

	if len(kept) > m.maxTurns {
		sort.SliceStable(kept, func(i, j int) bool {
			return m.importance(kept[i], now) > m.importance(kept[j], now)
		})
		kept = kept[:m.maxTurns]
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Timestamp.Before(kept[j].Timestamp)
		})
	}

	m.conversations[userID] = kept
}

// ensureLoaded hydrates a user's history from the archive once per process.
// Caller holds the lock.
func (m *Manager) ensureLoaded(ctx context.Context, userID int64) {
	if m.loaded[userID] || m.archive == nil {
		m.loaded[userID] = true
		return
	}
	m.loaded[userID] = true

	records, err := m.archive.GetRecentDialogueTurns(ctx, userID, m.maxTurns)
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to load archived dialogue", "user_id", userID, "error", err)
		return
	}

	turns := make([]Turn, 0, len(records))
	for _, r := range records {
		turns = append(turns, Turn{
			Role:      r.Role,
			Content:   r.Content,
			Type:      r.TurnType,
			Timestamp: r.Timestamp,
		})
	}
	m.conversations[userID] = append(turns, m.conversations[userID]...)
}
