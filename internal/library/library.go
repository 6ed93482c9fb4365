// Package library maintains the user's audio list: fetching it from the
// API, mirroring it into the local cache, filtering it for display, and
// running the two-step confirmed delete.
package library

import (
	"context"
	"strings"
	"sync"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

// Lister is the slice of the API surface the library needs.
type Lister interface {
	ListAudios(ctx context.Context) ([]models.AudioRecord, error)
	DeleteAudio(ctx context.Context, audioID string) error
}

// Cache mirrors the server listing locally so the library can be browsed
// offline. A nil cache disables mirroring.
type Cache interface {
	ReplaceAll(records []models.AudioRecord) error
	Records() ([]models.AudioRecord, error)
}

// Manager holds the current audio listing and per-item delete state.
// Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	api     Lister
	cache   Cache
	records []models.AudioRecord

	// pending maps audio IDs awaiting confirmation, deleting maps IDs
	// with a delete request in flight.
	pending  map[string]bool
	deleting map[string]bool
}

func NewManager(api Lister, cache Cache) *Manager {
	return &Manager{
		api:      api,
		cache:    cache,
		pending:  map[string]bool{},
		deleting: map[string]bool{},
	}
}

// Refresh fetches the authoritative listing from the server and mirrors
// it into the cache. On a fetch error the previous listing is kept.
func (m *Manager) Refresh(ctx context.Context) error {
	records, err := m.api.ListAudios(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.records = records
	m.mu.Unlock()

	if m.cache != nil {
		return m.cache.ReplaceAll(records)
	}
	return nil
}

// LoadCached fills the listing from the local mirror without touching
// the network.
func (m *Manager) LoadCached() error {
	if m.cache == nil {
		return nil
	}
	records, err := m.cache.Records()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.records = records
	m.mu.Unlock()
	return nil
}

// Records returns a snapshot of the current listing.
func (m *Manager) Records() []models.AudioRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AudioRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Filter returns records whose display title contains query,
// case-insensitively. An empty query returns everything.
func (m *Manager) Filter(query string) []models.AudioRecord {
	records := m.Records()
	if query == "" {
		return records
	}

	needle := strings.ToLower(query)
	var out []models.AudioRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.DisplayTitle()), needle) {
			out = append(out, r)
		}
	}
	return out
}

// RequestDelete marks an item as awaiting confirmation. Deleting never
// starts from a single action.
func (m *Manager) RequestDelete(audioID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[audioID] = true
}

// CancelDelete withdraws a pending confirmation.
func (m *Manager) CancelDelete(audioID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pending, audioID)
}

// PendingDelete reports whether an item is awaiting confirmation.
func (m *Manager) PendingDelete(audioID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pending[audioID]
}

// Deleting reports whether a delete request for the item is in flight.
func (m *Manager) Deleting(audioID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.deleting[audioID]
}

// ConfirmDelete performs the server delete and then re-fetches the
// listing so local state matches what the server kept. The in-flight
// flag stays set across both calls; it clears even on failure.
func (m *Manager) ConfirmDelete(ctx context.Context, audioID string) error {
	m.mu.Lock()
	delete(m.pending, audioID)
	m.deleting[audioID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.deleting, audioID)
		m.mu.Unlock()
	}()

	if err := m.api.DeleteAudio(ctx, audioID); err != nil {
		return err
	}

	return m.Refresh(ctx)
}
