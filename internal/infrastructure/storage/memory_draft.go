package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
)

type memoryDraftRepository struct {
	mu      sync.RWMutex
	drafts  map[string]*entity.ShopDraft
	actions map[string][]entity.DraftAction
}

// NewMemoryDraftRepository in-memory draft repository
func NewMemoryDraftRepository() repository.DraftRepository {
	return &memoryDraftRepository{
		drafts:  make(map[string]*entity.ShopDraft),
		actions: make(map[string][]entity.DraftAction),
	}
}

// Create stores a new draft
func (m *memoryDraftRepository) Create(ctx context.Context, draft entity.ShopDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.drafts[draft.ID]; exists {
		return fmt.Errorf("draft already exists: %s", draft.ID)
	}
	m.drafts[draft.ID] = draft.Clone()
	return nil
}

// Get returns a copy so callers never alias stored state
func (m *memoryDraftRepository) Get(ctx context.Context, draftID string) (*entity.ShopDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	draft, exists := m.drafts[draftID]
	if !exists {
		return nil, entity.ErrDraftNotFound
	}
	return draft.Clone(), nil
}

// Update fn works on a copy; the copy replaces the stored draft only if fn succeeds
func (m *memoryDraftRepository) Update(ctx context.Context, draftID string, fn func(draft *entity.ShopDraft) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.drafts[draftID]
	if !exists {
		return entity.ErrDraftNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = time.Now()
	m.drafts[draftID] = next
	return nil
}

// Delete discards the draft; its audit trail is kept
func (m *memoryDraftRepository) Delete(ctx context.Context, draftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, draftID)
	return nil
}

// LogAction records a draft action
func (m *memoryDraftRepository) LogAction(ctx context.Context, action entity.DraftAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions[action.DraftID] = append(m.actions[action.DraftID], action)
	return nil
}

// Actions audit trail of one draft
func (m *memoryDraftRepository) Actions(ctx context.Context, draftID string) ([]entity.DraftAction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entity.DraftAction, len(m.actions[draftID]))
	copy(out, m.actions[draftID])
	return out, nil
}
