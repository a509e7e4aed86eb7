package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"go.uber.org/zap"
)

// DraftUseCase shop draft lifecycle: file import, manual entry, submission
type DraftUseCase interface {
	// OpenDraft creates an empty draft for an organization
	OpenDraft(ctx context.Context, orgID string, ownerID int64) (*entity.ShopDraft, error)

	// GetDraft returns a snapshot of the draft
	GetDraft(ctx context.Context, draftID string) (*entity.ShopDraft, error)

	// SetShopDetails replaces all identity fields; every field must be non-empty
	SetShopDetails(ctx context.Context, draftID string, details entity.ShopDetails) error

	// SetShopField sets one identity field by its form name (shop_id, shop_name, ...)
	SetShopField(ctx context.Context, draftID, field, value string) error

	// UploadFile imports a csv/xlsx/xls file into the draft
	UploadFile(ctx context.Context, draftID string, data []byte, filename string) (*entity.ImportResult, error)

	// UploadFileAsync runs UploadFile in the background and delivers the outcome once
	UploadFileAsync(ctx context.Context, draftID string, data []byte, filename string) <-chan UploadOutcome

	// AddPlanogramRow appends a catalog SKU to the planogram
	AddPlanogramRow(ctx context.Context, draftID, skuID string) error

	// EditPlanogramRow swaps the SKU at a position without moving the row
	EditPlanogramRow(ctx context.Context, draftID string, index int, skuID string) error

	// RemovePlanogramRow removes one position, keeping the order of the rest
	RemovePlanogramRow(ctx context.Context, draftID string, index int) error

	// AddFacing adds a new facings entry; existing keys are rejected
	AddFacing(ctx context.Context, draftID, skuID, count string) error

	// EditFacing replaces the count of an existing entry
	EditFacing(ctx context.Context, draftID, skuID, count string) error

	// RemoveFacing deletes an entry
	RemoveFacing(ctx context.Context, draftID, skuID string) error

	// ClearPlanogram empties the planogram sequence
	ClearPlanogram(ctx context.Context, draftID string) error

	// ClearFacings empties the facings map
	ClearFacings(ctx context.Context, draftID string) error

	// CatalogOptions catalog SKUs selectable for manual entry
	CatalogOptions(ctx context.Context, draftID, query string, limit int) ([]entity.SkuCatalogEntry, error)

	// Preview assembles the payload without sending it
	Preview(ctx context.Context, draftID string) (*entity.ShopPayload, error)

	// Submit sends the draft and discards it on success
	Submit(ctx context.Context, draftID string) error

	// Cancel discards the draft; in-flight uploads are ignored when they finish
	Cancel(ctx context.Context, draftID string) error
}

// UploadOutcome result of an asynchronous upload
type UploadOutcome struct {
	Result *entity.ImportResult
	Err    error
}

// FileTooLargeError upload exceeds the configured size limit
type FileTooLargeError struct {
	Size  int
	Limit int
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file is %d bytes, limit is %d", e.Size, e.Limit)
}

type draftUseCase struct {
	draftRepo      repository.DraftRepository
	catalogRepo    repository.SkuCatalogRepository
	parser         repository.PlanogramParser
	gateway        repository.ShopGateway
	maxUploadBytes int
	logger         *zap.Logger
}

// NewDraftUseCase creates a DraftUseCase. maxUploadBytes <= 0 disables the size check.
func NewDraftUseCase(
	draftRepo repository.DraftRepository,
	catalogRepo repository.SkuCatalogRepository,
	parser repository.PlanogramParser,
	gateway repository.ShopGateway,
	maxUploadBytes int,
	logger *zap.Logger,
) DraftUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &draftUseCase{
		draftRepo:      draftRepo,
		catalogRepo:    catalogRepo,
		parser:         parser,
		gateway:        gateway,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// OpenDraft creates an empty draft for an organization
func (u *draftUseCase) OpenDraft(ctx context.Context, orgID string, ownerID int64) (*entity.ShopDraft, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, errors.New("organization is required")
	}

	now := time.Now()
	draft := entity.ShopDraft{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		OwnerID:   ownerID,
		Facings:   entity.FacingsMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.draftRepo.Create(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	u.logAction(ctx, draft.ID, ownerID, "open", fmt.Sprintf("Draft opened for organization %s", orgID))
	return draft.Clone(), nil
}

// GetDraft returns a snapshot of the draft
func (u *draftUseCase) GetDraft(ctx context.Context, draftID string) (*entity.ShopDraft, error) {
	return u.draftRepo.Get(ctx, draftID)
}

// SetShopDetails replaces all identity fields
func (u *draftUseCase) SetShopDetails(ctx context.Context, draftID string, details entity.ShopDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}
	return u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		d.Details = details.Normalize()
		return nil
	})
}

// SetShopField sets one identity field by its form name
func (u *draftUseCase) SetShopField(ctx context.Context, draftID, field, value string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	value = strings.TrimSpace(value)
	if value == "" {
		return &entity.InvalidShopFieldError{Field: field}
	}

	var set func(d *entity.ShopDetails)
	switch field {
	case FieldShopID:
		set = func(d *entity.ShopDetails) { d.ShopID = value }
	case FieldShopName:
		set = func(d *entity.ShopDetails) { d.ShopName = value }
	case FieldShopLocation:
		set = func(d *entity.ShopDetails) { d.ShopLocation = value }
	case FieldShopType:
		set = func(d *entity.ShopDetails) { d.ShopType = value }
	default:
		return fmt.Errorf("unknown shop field: %s", field)
	}

	return u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		set(&d.Details)
		return nil
	})
}

// UploadFile decodes outside the draft lock and applies the result only if the draft is
// still open and no newer upload was started meanwhile. A failed import leaves the
// planogram and facings untouched.
func (u *draftUseCase) UploadFile(ctx context.Context, draftID string, data []byte, filename string) (*entity.ImportResult, error) {
	if u.maxUploadBytes > 0 && len(data) > u.maxUploadBytes {
		return nil, &FileTooLargeError{Size: len(data), Limit: u.maxUploadBytes}
	}

	var ticket int
	var orgID string
	var ownerID int64
	err := u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		d.UploadSeq++
		ticket = d.UploadSeq
		orgID = d.OrgID
		ownerID = d.OwnerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := u.parser.ParseFromBytes(ctx, data, filename)
	if err != nil {
		u.logger.Warn("import failed", zap.String("draft", draftID), zap.String("file", filename), zap.Error(err))
		return nil, fmt.Errorf("failed to import %s: %w", filename, err)
	}

	facings := result.Facings
	if result.HasFacingsColumn {
		facings, err = u.fillFacingNames(ctx, orgID, result.Facings)
		if err != nil {
			return nil, err
		}
	}

	err = u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		if d.UploadSeq != ticket {
			return entity.ErrStaleUpload
		}
		d.Planogram = append([]entity.PlanogramRow(nil), result.Planogram...)
		if result.HasFacingsColumn {
			d.Facings = facings
		}
		d.Source = filename
		return nil
	})
	if err != nil {
		u.logger.Info("upload result discarded", zap.String("draft", draftID), zap.String("file", filename), zap.Error(err))
		return nil, err
	}

	u.logAction(ctx, draftID, ownerID, "upload",
		fmt.Sprintf("Imported %d planogram rows and %d facings entries from %s", len(result.Planogram), len(result.Facings), filename))
	return result, nil
}

// UploadFileAsync delivers exactly one outcome on a buffered channel, then closes it
func (u *draftUseCase) UploadFileAsync(ctx context.Context, draftID string, data []byte, filename string) <-chan UploadOutcome {
	out := make(chan UploadOutcome, 1)
	go func() {
		defer close(out)
		result, err := u.UploadFile(ctx, draftID, data, filename)
		out <- UploadOutcome{Result: result, Err: err}
	}()
	return out
}

// fillFacingNames file rows with a null-like name take the catalog name when registered
func (u *draftUseCase) fillFacingNames(ctx context.Context, orgID string, facings entity.FacingsMap) (entity.FacingsMap, error) {
	out := facings.Clone()
	if out == nil {
		out = entity.FacingsMap{}
	}
	for id, entry := range out {
		if entry.SkuName != "" {
			continue
		}
		sku, err := u.catalogRepo.GetByID(ctx, orgID, id)
		var unknown *entity.UnknownSkuError
		if errors.As(err, &unknown) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sku %s: %w", id, err)
		}
		entry.SkuName = sku.SkuName
		out[id] = entry
	}
	return out, nil
}

// lookupSku resolves a selected SKU against the draft's organization catalog
func (u *draftUseCase) lookupSku(ctx context.Context, draftID, skuID string) (*entity.ShopDraft, *entity.SkuCatalogEntry, error) {
	draft, err := u.draftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	skuID = strings.TrimSpace(skuID)
	if skuID == "" {
		return nil, nil, &entity.UnknownSkuError{SkuID: skuID}
	}
	sku, err := u.catalogRepo.GetByID(ctx, draft.OrgID, skuID)
	if err != nil {
		return nil, nil, err
	}
	return draft, sku, nil
}

// AddPlanogramRow appends a catalog SKU to the planogram
func (u *draftUseCase) AddPlanogramRow(ctx context.Context, draftID, skuID string) error {
	draft, sku, err := u.lookupSku(ctx, draftID, skuID)
	if err != nil {
		return err
	}

	err = u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		d.Planogram = append(d.Planogram, entity.NewPlanogramRow(sku.SkuID, sku.SkuName))
		return nil
	})
	if err != nil {
		return err
	}

	u.logAction(ctx, draftID, draft.OwnerID, "add_row", sku.SkuID)
	return nil
}

// EditPlanogramRow swaps the SKU at a position without moving the row
func (u *draftUseCase) EditPlanogramRow(ctx context.Context, draftID string, index int, skuID string) error {
	draft, sku, err := u.lookupSku(ctx, draftID, skuID)
	if err != nil {
		return err
	}

	err = u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		if index < 0 || index >= len(d.Planogram) {
			return fmt.Errorf("%w: %d", entity.ErrRowOutOfRange, index+1)
		}
		d.Planogram[index] = entity.NewPlanogramRow(sku.SkuID, sku.SkuName)
		return nil
	})
	if err != nil {
		return err
	}

	u.logAction(ctx, draftID, draft.OwnerID, "edit_row", fmt.Sprintf("row %d -> %s", index+1, sku.SkuID))
	return nil
}

// RemovePlanogramRow removes one position, keeping the order of the rest
func (u *draftUseCase) RemovePlanogramRow(ctx context.Context, draftID string, index int) error {
	var ownerID int64
	err := u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		if index < 0 || index >= len(d.Planogram) {
			return fmt.Errorf("%w: %d", entity.ErrRowOutOfRange, index+1)
		}
		d.Planogram = append(d.Planogram[:index], d.Planogram[index+1:]...)
		ownerID = d.OwnerID
		return nil
	})
	if err != nil {
		return err
	}

	u.logAction(ctx, draftID, ownerID, "remove_row", fmt.Sprintf("row %d", index+1))
	return nil
}

// AddFacing validates the SKU and count first, then rejects an existing key
func (u *draftUseCase) AddFacing(ctx context.Context, draftID, skuID, count string) error {
	draft, sku, err := u.lookupSku(ctx, draftID, skuID)
	if err != nil {
		return err
	}
	facings, err := entity.ParseFacings(count)
	if err != nil {
		return err
	}

	err = u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		if _, exists := d.Facings[sku.SkuID]; exists {
			return &entity.DuplicateSkuError{SkuID: sku.SkuID}
		}
		if d.Facings == nil {
			d.Facings = entity.FacingsMap{}
		}
		d.Facings[sku.SkuID] = entity.FacingEntry{SkuID: sku.SkuID, SkuName: sku.SkuName, Facings: facings}
		return nil
	})
	if err != nil {
		return err
	}

	u.logAction(ctx, draftID, draft.OwnerID, "add_facing", fmt.Sprintf("%s = %d", sku.SkuID, facings))
	return nil
}

// EditFacing replaces only the count of an existing entry
func (u *draftUseCase) EditFacing(ctx context.Context, draftID, skuID, count string) error {
	skuID = strings.TrimSpace(skuID)
	facings, err := entity.ParseFacings(count)
	if err != nil {
		return err
	}

	var ownerID int64
	err = u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		entry, exists := d.Facings[skuID]
		if !exists {
			return fmt.Errorf("%w: %s", entity.ErrFacingNotFound, skuID)
		}
		entry.Facings = facings
		d.Facings[skuID] = entry
		ownerID = d.OwnerID
		return nil
	})
	if err != nil {
		return err
	}

	u.logAction(ctx, draftID, ownerID, "edit_facing", fmt.Sprintf("%s = %d", skuID, facings))
	return nil
}

// RemoveFacing deletes an entry
func (u *draftUseCase) RemoveFacing(ctx context.Context, draftID, skuID string) error {
	skuID = strings.TrimSpace(skuID)

	var ownerID int64
	err := u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		if _, exists := d.Facings[skuID]; !exists {
			return fmt.Errorf("%w: %s", entity.ErrFacingNotFound, skuID)
		}
		delete(d.Facings, skuID)
		ownerID = d.OwnerID
		return nil
	})
	if err != nil {
		return err
	}

	u.logAction(ctx, draftID, ownerID, "remove_facing", skuID)
	return nil
}

// ClearPlanogram empties the planogram sequence
func (u *draftUseCase) ClearPlanogram(ctx context.Context, draftID string) error {
	return u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		d.Planogram = nil
		return nil
	})
}

// ClearFacings empties the facings map
func (u *draftUseCase) ClearFacings(ctx context.Context, draftID string) error {
	return u.draftRepo.Update(ctx, draftID, func(d *entity.ShopDraft) error {
		d.Facings = entity.FacingsMap{}
		return nil
	})
}

// CatalogOptions catalog SKUs selectable for manual entry
func (u *draftUseCase) CatalogOptions(ctx context.Context, draftID, query string, limit int) ([]entity.SkuCatalogEntry, error) {
	draft, err := u.draftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return u.catalogRepo.Search(ctx, draft.OrgID, query, limit)
}

// Preview assembles the payload without sending it
func (u *draftUseCase) Preview(ctx context.Context, draftID string) (*entity.ShopPayload, error) {
	draft, err := u.draftRepo.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return AssemblePayload(draft)
}

// Submit sends the draft once; a failure keeps the draft so the user can resubmit
func (u *draftUseCase) Submit(ctx context.Context, draftID string) error {
	draft, err := u.draftRepo.Get(ctx, draftID)
	if err != nil {
		return err
	}
	if err := draft.Details.Validate(); err != nil {
		return err
	}

	payload, err := AssemblePayload(draft)
	if err != nil {
		return err
	}

	if err := u.gateway.CreateShop(ctx, draft.OrgID, payload); err != nil {
		u.logger.Warn("shop submission failed",
			zap.String("draft", draftID),
			zap.String("org", draft.OrgID),
			zap.Error(err))
		return err
	}

	if err := u.draftRepo.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("failed to discard submitted draft: %w", err)
	}

	u.logAction(ctx, draftID, draft.OwnerID, "submit",
		fmt.Sprintf("Shop %s created with %d planogram rows and %d facings entries",
			draft.Details.Normalize().ShopID, len(draft.Planogram), len(draft.Facings)))
	return nil
}

// Cancel discards the draft
func (u *draftUseCase) Cancel(ctx context.Context, draftID string) error {
	draft, err := u.draftRepo.Get(ctx, draftID)
	if err != nil {
		return err
	}
	if err := u.draftRepo.Delete(ctx, draftID); err != nil {
		return err
	}
	u.logAction(ctx, draftID, draft.OwnerID, "cancel", "Draft discarded")
	return nil
}

func (u *draftUseCase) logAction(ctx context.Context, draftID string, userID int64, action, details string) {
	_ = u.draftRepo.LogAction(ctx, entity.DraftAction{
		ID:        uuid.New().String(),
		DraftID:   draftID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now(),
	})
	u.logger.Debug("draft action", zap.String("draft", draftID), zap.String("action", action), zap.String("details", details))
}
