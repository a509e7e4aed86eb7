package repository

import (
	"context"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// DraftRepository shop drafts storage
type DraftRepository interface {
	// Create stores a new draft
	Create(ctx context.Context, draft entity.ShopDraft) error

	// Get returns a copy of the draft or entity.ErrDraftNotFound
	Get(ctx context.Context, draftID string) (*entity.ShopDraft, error)

	// Update runs fn on a copy and commits it only when fn returns nil
	Update(ctx context.Context, draftID string, fn func(draft *entity.ShopDraft) error) error

	// Delete discards the draft
	Delete(ctx context.Context, draftID string) error

	// LogAction records a draft action
	LogAction(ctx context.Context, action entity.DraftAction) error

	// Actions audit trail of one draft in insertion order
	Actions(ctx context.Context, draftID string) ([]entity.DraftAction, error)
}
