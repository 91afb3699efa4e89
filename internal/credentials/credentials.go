// Package credentials stores and retrieves service secrets and settings from
// the database, so tokens and IDs can be rotated without redeploying.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cvetykz/flowerbot/internal/database"
)

// ErrNotFound is returned when a credential does not exist.
var ErrNotFound = errors.New("credential not found")

// Manager provides read-through cached access to the credentials table.
// Values are cached in memory forever; Set updates both the database and the
// cache, so a running process always sees its own writes.
type Manager struct {
	store  database.Store
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewManager creates a credential manager backed by the given store.
func NewManager(store database.Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger.With("component", "credentials"),
		cache:  make(map[string]string),
	}
}

// Get returns the credential value for (service, key).
// Returns ErrNotFound if no value is stored.
func (m *Manager) Get(ctx context.Context, service, key string) (string, error) {
	cacheKey := service + "/" + key

	m.mu.RLock()
	value, ok := m.cache[cacheKey]
	m.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err := m.store.GetCredential(ctx, service, key)
	if err != nil {
		if errors.Is(err, database.ErrCredentialNotFound) {
			return "", fmt.Errorf("%s: %w", cacheKey, ErrNotFound)
		}
		return "", err
	}

	m.mu.Lock()
	m.cache[cacheKey] = value
	m.mu.Unlock()

	return value, nil
}

// GetOptional returns the credential value, or fallback when it is missing.
// Storage errors other than absence are still reported.
func (m *Manager) GetOptional(ctx context.Context, service, key, fallback string) (string, error) {
	value, err := m.Get(ctx, service, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return value, nil
}

// GetJSON fetches a credential and unmarshals its value into out.
func (m *Manager) GetJSON(ctx context.Context, service, key string, out any) error {
	value, err := m.Get(ctx, service, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("credential %s/%s is not valid JSON: %w", service, key, err)
	}
	return nil
}

// Set stores a credential value and refreshes the in-memory copy.
func (m *Manager) Set(ctx context.Context, service, key, value, description string) error {
	cred := &database.Credential{
		ServiceName: service,
		Key:         key,
		Value:       value,
		Description: description,
	}
	if err := m.store.SetCredential(ctx, cred); err != nil {
		return err
	}

	m.mu.Lock()
	m.cache[service+"/"+key] = value
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Credential updated", "service", service, "key", key)
	return nil
}
