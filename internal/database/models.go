package database

import "time"

// Credential is a single secret or setting from the credentials table,
// addressed by the (service_name, credential_key) composite key. Values may
// be plain strings or JSON blobs; interpretation is up to the caller.
type Credential struct {
	ID          uint      `db:"id"`
	ServiceName string    `db:"service_name"`
	Key         string    `db:"credential_key"`
	Value       string    `db:"credential_value"`
	Description string    `db:"description"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// DialogueTurn is one persisted message of a user's conversation with the bot.
// TurnType is the keyword-classified category used for importance weighting.
type DialogueTurn struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	Role      string    `db:"role"`
	Content   string    `db:"content"`
	TurnType  string    `db:"turn_type"`
	Timestamp time.Time `db:"timestamp"`
	CreatedAt time.Time `db:"created_at"`
}

// CacheJournalEntry mirrors a response-cache write into the database so cache
// activity survives restarts and can be inspected offline. The in-memory
// cache remains the source of truth for lookups.
type CacheJournalEntry struct {
	ID              uint      `db:"id"`
	NormalizedQuery string    `db:"normalized_query"`
	Answer          string    `db:"answer"`
	HitCount        int       `db:"hit_count"`
	LastHitAt       time.Time `db:"last_hit_at"`
	CreatedAt       time.Time `db:"created_at"`
}

// TokenUsage records completion API consumption for one generated reply.
// Append-only; never mutated after insert.
type TokenUsage struct {
	ID               uint      `db:"id"`
	MessageID        string    `db:"message_id"`
	Model            string    `db:"model"`
	Scenario         string    `db:"scenario"`
	PromptTokens     int       `db:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens"`
	CreatedAt        time.Time `db:"created_at"`
}

// ResponseQuality records an operator rating of a logged exchange. The unique
// constraint on message_id is what makes the feedback buttons first-press-wins.
type ResponseQuality struct {
	ID        uint      `db:"id"`
	MessageID string    `db:"message_id"`
	Source    string    `db:"source"`
	Rating    string    `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
}
