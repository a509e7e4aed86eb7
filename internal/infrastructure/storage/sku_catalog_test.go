package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
	"github.com/yourusername/shelf-planogram/internal/domain/repository"
)

var testCatalog = []entity.SkuCatalogEntry{
	{SkuID: "COKE-330", SkuName: "Coca-Cola 330ml"},
	{SkuID: "PEPSI-500", SkuName: "Pepsi 500ml"},
	{SkuID: "FANTA-330", SkuName: "Fanta Orange 330ml"},
}

func catalogRepos(t *testing.T) map[string]repository.SkuCatalogRepository {
	t.Helper()
	sqliteRepo, err := NewSQLiteSkuCatalogRepository(filepath.Join(t.TempDir(), "db", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteRepo.Close() })

	return map[string]repository.SkuCatalogRepository{
		"memory": NewMemorySkuCatalogRepository(),
		"sqlite": sqliteRepo,
	}
}

func TestSkuCatalog_SaveListGet(t *testing.T) {
	for name, repo := range catalogRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.SaveMany(ctx, "org1", testCatalog))
			require.NoError(t, repo.SaveMany(ctx, "org2", []entity.SkuCatalogEntry{{SkuID: "X", SkuName: "Other"}}))

			entries, err := repo.ListByOrganization(ctx, "org1")
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "COKE-330", entries[0].SkuID)
			assert.Equal(t, "FANTA-330", entries[1].SkuID)
			assert.Equal(t, "PEPSI-500", entries[2].SkuID)

			entry, err := repo.GetByID(ctx, "org1", "PEPSI-500")
			require.NoError(t, err)
			assert.Equal(t, "Pepsi 500ml", entry.SkuName)

			_, err = repo.GetByID(ctx, "org2", "PEPSI-500")
			var unknown *entity.UnknownSkuError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, "PEPSI-500", unknown.SkuID)

			require.NoError(t, repo.SaveMany(ctx, "org1", []entity.SkuCatalogEntry{{SkuID: "PEPSI-500", SkuName: "Pepsi Max 500ml"}}))
			entry, err = repo.GetByID(ctx, "org1", "PEPSI-500")
			require.NoError(t, err)
			assert.Equal(t, "Pepsi Max 500ml", entry.SkuName)

			empty, err := repo.ListByOrganization(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestSkuCatalog_Search(t *testing.T) {
	for name, repo := range catalogRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.SaveMany(ctx, "org1", testCatalog))

			results, err := repo.Search(ctx, "org1", "coke", 5)
			require.NoError(t, err)
			require.NotEmpty(t, results)
			assert.Equal(t, "COKE-330", results[0].SkuID)

			results, err = repo.Search(ctx, "org1", "330", 5)
			require.NoError(t, err)
			assert.Len(t, results, 2)

			results, err = repo.Search(ctx, "org1", "", 2)
			require.NoError(t, err)
			assert.Len(t, results, 2)

			results, err = repo.Search(ctx, "org1", "zzz", 5)
			require.NoError(t, err)
			assert.Empty(t, results)
		})
	}
}

func TestSkuCatalog_SearchRanking(t *testing.T) {
	for name, repo := range catalogRepos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.SaveMany(ctx, "org1", testCatalog))
			require.NoError(t, repo.SaveMany(ctx, "org2", []entity.SkuCatalogEntry{
				{SkuID: "MILK-1", SkuName: "Молоко 3.2%"},
				{SkuID: "KEFIR-1", SkuName: "Кефир 3.2%"},
			}))

			results, err := repo.Search(ctx, "org1", "pep", 5)
			require.NoError(t, err)
			require.NotEmpty(t, results)
			assert.Equal(t, "PEPSI-500", results[0].SkuID)

			results, err = repo.Search(ctx, "org1", "coke330", 5)
			require.NoError(t, err)
			require.NotEmpty(t, results)
			assert.Equal(t, "COKE-330", results[0].SkuID)

			results, err = repo.Search(ctx, "org2", "кефир32", 5)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "KEFIR-1", results[0].SkuID)
		})
	}
}
