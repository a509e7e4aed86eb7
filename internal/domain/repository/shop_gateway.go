package repository

import (
	"context"

	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// ShopGateway external shop creation endpoint
type ShopGateway interface {
	// CreateShop sends the payload; endpoint failures come back as *entity.SubmissionError
	CreateShop(ctx context.Context, orgID string, payload *entity.ShopPayload) error
}
