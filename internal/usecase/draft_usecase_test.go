package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/parser"
	"github.com/yourusername/shelf-planogram/internal/infrastructure/storage"
	"go.uber.org/goleak"
)

type fakeGateway struct {
	calls   int
	orgID   string
	payload *entity.ShopPayload
	err     error
}

func (g *fakeGateway) CreateShop(ctx context.Context, orgID string, payload *entity.ShopPayload) error {
	g.calls++
	g.orgID = orgID
	g.payload = payload
	return g.err
}

// gatedParser blocks parsing of one file name until released
type gatedParser struct {
	repository.PlanogramParser
	slow    string
	started chan struct{}
	release chan struct{}
}

func (p *gatedParser) ParseFromBytes(ctx context.Context, data []byte, filename string) (*entity.ImportResult, error) {
	if filename == p.slow {
		close(p.started)
		<-p.release
	}
	return p.PlanogramParser.ParseFromBytes(ctx, data, filename)
}

type draftFixture struct {
	uc      DraftUseCase
	drafts  repository.DraftRepository
	gateway *fakeGateway
	parser  *gatedParser
}

func newDraftFixture(t *testing.T) *draftFixture {
	t.Helper()

	catalog := storage.NewMemorySkuCatalogRepository()
	require.NoError(t, catalog.SaveMany(context.Background(), "org1", []entity.SkuCatalogEntry{
		{SkuID: "A", SkuName: "Apple"},
		{SkuID: "B", SkuName: "Bread"},
		{SkuID: "C", SkuName: "Cola"},
	}))

	gated := &gatedParser{
		PlanogramParser: parser.NewPlanogramParser(parser.NewTabularDecoder(",", nil), nil),
		slow:            "slow.csv",
		started:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	drafts := storage.NewMemoryDraftRepository()
	gateway := &fakeGateway{}

	return &draftFixture{
		uc:      NewDraftUseCase(drafts, catalog, gated, gateway, 1024, nil),
		drafts:  drafts,
		gateway: gateway,
		parser:  gated,
	}
}

func (f *draftFixture) open(t *testing.T) string {
	t.Helper()
	draft, err := f.uc.OpenDraft(context.Background(), "org1", 42)
	require.NoError(t, err)
	return draft.ID
}

func (f *draftFixture) get(t *testing.T, id string) *entity.ShopDraft {
	t.Helper()
	draft, err := f.uc.GetDraft(context.Background(), id)
	require.NoError(t, err)
	return draft
}

const facingsCSV = "sku_id,sku_name,facings\nA,Apple,3\nB,,2\nA,Apple,5\n"

func TestDraftUseCase_OpenDraft(t *testing.T) {
	f := newDraftFixture(t)
	draft, err := f.uc.OpenDraft(context.Background(), "org1", 42)
	require.NoError(t, err)

	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, entity.DraftNoEntries, draft.State())

	_, err = f.uc.OpenDraft(context.Background(), " ", 42)
	require.Error(t, err)
}

func TestDraftUseCase_UploadFile(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	result, err := f.uc.UploadFile(ctx, id, []byte(facingsCSV), "plan.csv")
	require.NoError(t, err)
	assert.True(t, result.HasFacingsColumn)

	draft := f.get(t, id)
	require.Len(t, draft.Planogram, 3)
	assert.Equal(t, "A", draft.Planogram[0].ID())
	assert.Equal(t, "B", draft.Planogram[1].ID())
	assert.Nil(t, draft.Planogram[1].SkuName)
	assert.Equal(t, "A", draft.Planogram[2].ID())

	assert.Equal(t, entity.FacingsMap{
		"A": {SkuID: "A", SkuName: "Apple", Facings: 5},
		"B": {SkuID: "B", SkuName: "Bread", Facings: 2},
	}, draft.Facings)
	assert.Equal(t, "plan.csv", draft.Source)
	assert.Equal(t, entity.DraftHasEntries, draft.State())
}

func TestDraftUseCase_UploadFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	_, err := f.uc.UploadFile(ctx, id, []byte(facingsCSV), "plan.csv")
	require.NoError(t, err)
	before := f.get(t, id)

	tests := []struct {
		name     string
		data     string
		filename string
		check    func(t *testing.T, err error)
	}{
		{
			name:     "missing column",
			data:     "sku_id,facings\nA,1\n",
			filename: "plan.csv",
			check: func(t *testing.T, err error) {
				var missing *entity.MissingColumnError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "sku_name", missing.Field)
			},
		},
		{
			name:     "unsupported type",
			data:     "sku_id,sku_name\nA,Apple\n",
			filename: "plan.txt",
			check: func(t *testing.T, err error) {
				var unsupported *entity.UnsupportedFileTypeError
				require.ErrorAs(t, err, &unsupported)
			},
		},
		{
			name:     "header only",
			data:     "sku_id,sku_name\n",
			filename: "plan.csv",
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, entity.ErrEmptyFile)
			},
		},
		{
			name:     "invalid facings",
			data:     "sku_id,sku_name,facings\nA,Apple,-1\n",
			filename: "plan.csv",
			check: func(t *testing.T, err error) {
				var invalid *entity.InvalidFacingsError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, 1, invalid.Row)
			},
		},
		{
			name:     "too large",
			data:     string(make([]byte, 2048)),
			filename: "plan.csv",
			check: func(t *testing.T, err error) {
				var tooLarge *FileTooLargeError
				require.ErrorAs(t, err, &tooLarge)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.UploadFile(ctx, id, []byte(tt.data), tt.filename)
			tt.check(t, err)

			after := f.get(t, id)
			assert.Equal(t, before.Planogram, after.Planogram)
			assert.Equal(t, before.Facings, after.Facings)
		})
	}
}

func TestDraftUseCase_UploadWithoutFacingsKeepsManualFacings(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	require.NoError(t, f.uc.AddFacing(ctx, id, "C", "4"))

	result, err := f.uc.UploadFile(ctx, id, []byte("SKU_ID,Sku_Name\nA,Apple\nnan,N/A\nB,Bread\n"), "plan.csv")
	require.NoError(t, err)
	assert.False(t, result.HasFacingsColumn)
	assert.Equal(t, 1, result.DroppedRows)

	draft := f.get(t, id)
	assert.Len(t, draft.Planogram, 2)
	assert.Equal(t, entity.FacingsMap{"C": {SkuID: "C", SkuName: "Cola", Facings: 4}}, draft.Facings)
}

func TestDraftUseCase_AddFacingValidation(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	require.NoError(t, f.uc.AddFacing(ctx, id, "A", "2"))

	var unknown *entity.UnknownSkuError
	require.ErrorAs(t, f.uc.AddFacing(ctx, id, "Z", "1"), &unknown)

	var invalid *entity.InvalidFacingsError
	require.ErrorAs(t, f.uc.AddFacing(ctx, id, "B", "abc"), &invalid)
	require.ErrorAs(t, f.uc.AddFacing(ctx, id, "B", "-3"), &invalid)

	var duplicate *entity.DuplicateSkuError
	require.ErrorAs(t, f.uc.AddFacing(ctx, id, "A", "9"), &duplicate)
	assert.Equal(t, "A", duplicate.SkuID)

	draft := f.get(t, id)
	assert.Equal(t, entity.FacingsMap{"A": {SkuID: "A", SkuName: "Apple", Facings: 2}}, draft.Facings)
}

func TestDraftUseCase_EditAndRemoveFacing(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	require.NoError(t, f.uc.AddFacing(ctx, id, "A", "2"))
	require.NoError(t, f.uc.EditFacing(ctx, id, "A", "0"))
	assert.Equal(t, entity.FacingEntry{SkuID: "A", SkuName: "Apple", Facings: 0}, f.get(t, id).Facings["A"])

	require.ErrorIs(t, f.uc.EditFacing(ctx, id, "B", "1"), entity.ErrFacingNotFound)

	var invalid *entity.InvalidFacingsError
	require.ErrorAs(t, f.uc.EditFacing(ctx, id, "A", "1.5"), &invalid)

	require.NoError(t, f.uc.RemoveFacing(ctx, id, "A"))
	require.ErrorIs(t, f.uc.RemoveFacing(ctx, id, "A"), entity.ErrFacingNotFound)
	assert.Empty(t, f.get(t, id).Facings)
}

func TestDraftUseCase_EditFacingLeavesOtherSkus(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	require.NoError(t, f.uc.AddFacing(ctx, id, "A", "5"))
	require.NoError(t, f.uc.AddFacing(ctx, id, "B", "3"))
	require.NoError(t, f.uc.EditFacing(ctx, id, "A", "7"))

	assert.Equal(t, entity.FacingsMap{
		"A": {SkuID: "A", SkuName: "Apple", Facings: 7},
		"B": {SkuID: "B", SkuName: "Bread", Facings: 3},
	}, f.get(t, id).Facings)
}

func TestDraftUseCase_PlanogramRows(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	require.NoError(t, f.uc.AddPlanogramRow(ctx, id, "A"))
	require.NoError(t, f.uc.AddPlanogramRow(ctx, id, "B"))
	require.NoError(t, f.uc.AddPlanogramRow(ctx, id, "A"))

	var unknown *entity.UnknownSkuError
	require.ErrorAs(t, f.uc.AddPlanogramRow(ctx, id, "free text"), &unknown)

	require.NoError(t, f.uc.EditPlanogramRow(ctx, id, 1, "C"))
	require.ErrorIs(t, f.uc.EditPlanogramRow(ctx, id, 3, "C"), entity.ErrRowOutOfRange)

	require.NoError(t, f.uc.RemovePlanogramRow(ctx, id, 0))
	require.ErrorIs(t, f.uc.RemovePlanogramRow(ctx, id, -1), entity.ErrRowOutOfRange)

	draft := f.get(t, id)
	require.Len(t, draft.Planogram, 2)
	assert.Equal(t, "C", draft.Planogram[0].ID())
	assert.Equal(t, "Cola", draft.Planogram[0].Name())
	assert.Equal(t, "A", draft.Planogram[1].ID())

	require.NoError(t, f.uc.ClearPlanogram(ctx, id))
	assert.Empty(t, f.get(t, id).Planogram)
}

func TestDraftUseCase_SetShopField(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	require.NoError(t, f.uc.SetShopField(ctx, id, "shop_name", "  Corner  "))
	assert.Equal(t, "Corner", f.get(t, id).Details.ShopName)

	var invalid *entity.InvalidShopFieldError
	require.ErrorAs(t, f.uc.SetShopField(ctx, id, "shop_type", "   "), &invalid)
	require.Error(t, f.uc.SetShopField(ctx, id, "owner", "x"))
}

func TestDraftUseCase_Submit(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	var invalid *entity.InvalidShopFieldError
	require.ErrorAs(t, f.uc.Submit(ctx, id), &invalid)
	assert.Equal(t, "shop_id", invalid.Field)
	assert.Zero(t, f.gateway.calls)

	require.NoError(t, f.uc.SetShopDetails(ctx, id, testDetails()))
	require.NoError(t, f.uc.AddFacing(ctx, id, "A", "3"))

	f.gateway.err = &entity.SubmissionError{Reason: "Shop ID already exists"}
	err := f.uc.Submit(ctx, id)
	require.Error(t, err)
	assert.Equal(t, "Shop ID already exists", err.Error())
	f.get(t, id)

	f.gateway.err = nil
	require.NoError(t, f.uc.Submit(ctx, id))
	assert.Equal(t, 2, f.gateway.calls)
	assert.Equal(t, "org1", f.gateway.orgID)

	_, ok := f.gateway.payload.Get(FieldPlanogramData)
	assert.False(t, ok)
	facings, ok := f.gateway.payload.Get(FieldFacingsData)
	require.True(t, ok)
	assert.JSONEq(t, `{"A":{"sku_name":"Apple","facings":3}}`, facings)

	_, err = f.uc.GetDraft(ctx, id)
	require.ErrorIs(t, err, entity.ErrDraftNotFound)

	actions, err := f.drafts.Actions(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "submit", actions[len(actions)-1].Action)
}

func TestDraftUseCase_SupersededUploadIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	pending := f.uc.UploadFileAsync(ctx, id, []byte(facingsCSV), "slow.csv")
	<-f.parser.started

	_, err := f.uc.UploadFile(ctx, id, []byte("sku_id,sku_name\nC,Cola\n"), "fast.csv")
	require.NoError(t, err)

	close(f.parser.release)
	outcome := <-pending
	require.ErrorIs(t, outcome.Err, entity.ErrStaleUpload)
	assert.Nil(t, outcome.Result)

	draft := f.get(t, id)
	require.Len(t, draft.Planogram, 1)
	assert.Equal(t, "C", draft.Planogram[0].ID())
	assert.Equal(t, "fast.csv", draft.Source)
}

func TestDraftUseCase_UploadAfterCancelIsIgnored(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	pending := f.uc.UploadFileAsync(ctx, id, []byte(facingsCSV), "slow.csv")
	<-f.parser.started

	require.NoError(t, f.uc.Cancel(ctx, id))
	close(f.parser.release)

	outcome := <-pending
	require.True(t, errors.Is(outcome.Err, entity.ErrDraftNotFound))

	_, err := f.uc.GetDraft(ctx, id)
	require.ErrorIs(t, err, entity.ErrDraftNotFound)
}

func TestDraftUseCase_CatalogOptions(t *testing.T) {
	ctx := context.Background()
	f := newDraftFixture(t)
	id := f.open(t)

	options, err := f.uc.CatalogOptions(ctx, id, "", 10)
	require.NoError(t, err)
	assert.Len(t, options, 3)

	options, err = f.uc.CatalogOptions(ctx, id, "bread", 10)
	require.NoError(t, err)
	require.NotEmpty(t, options)
	assert.Equal(t, "B", options[0].SkuID)
}
