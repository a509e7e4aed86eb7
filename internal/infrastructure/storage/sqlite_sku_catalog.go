package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/yourusername/shelf-planogram/internal/domain/entity"
)

// SQLiteSkuCatalogRepository SKU catalog persisted in SQLite
type SQLiteSkuCatalogRepository struct {
	db *sqlx.DB
}

// NewSQLiteSkuCatalogRepository opens (and creates) the catalog database
func NewSQLiteSkuCatalogRepository(dbPath string) (*SQLiteSkuCatalogRepository, error) {
	if dbPath == "" {
		return nil, errors.New("catalog db path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if err := createCatalogSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteSkuCatalogRepository{db: db}, nil
}

func createCatalogSchema(db *sqlx.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sku_catalog (
	org_id TEXT NOT NULL,
	sku_id TEXT NOT NULL,
	sku_name TEXT NOT NULL,
	PRIMARY KEY (org_id, sku_id)
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// catalogRow named parameters of the upsert
type catalogRow struct {
	OrgID   string `db:"org_id"`
	SkuID   string `db:"sku_id"`
	SkuName string `db:"sku_name"`
}

// Close releases the database handle
func (s *SQLiteSkuCatalogRepository) Close() error {
	return s.db.Close()
}

// ListByOrganization all SKUs of an organization sorted by sku_id
func (s *SQLiteSkuCatalogRepository) ListByOrganization(ctx context.Context, orgID string) ([]entity.SkuCatalogEntry, error) {
	entries := []entity.SkuCatalogEntry{}
	err := s.db.SelectContext(ctx, &entries, `SELECT sku_id, sku_name FROM sku_catalog WHERE org_id = ? ORDER BY sku_id`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return entries, nil
}

// GetByID exact sku_id lookup
func (s *SQLiteSkuCatalogRepository) GetByID(ctx context.Context, orgID, skuID string) (*entity.SkuCatalogEntry, error) {
	var entry entity.SkuCatalogEntry
	err := s.db.GetContext(ctx, &entry, `SELECT sku_id, sku_name FROM sku_catalog WHERE org_id = ? AND sku_id = ?`, orgID, skuID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &entity.UnknownSkuError{SkuID: skuID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sku: %w", err)
	}
	return &entry, nil
}

// Search ranks the organization catalog in memory
func (s *SQLiteSkuCatalogRepository) Search(ctx context.Context, orgID, query string, limit int) ([]entity.SkuCatalogEntry, error) {
	entries, err := s.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return rankCatalog(entries, query, limit), nil
}

// SaveMany upserts entries in one transaction
func (s *SQLiteSkuCatalogRepository) SaveMany(ctx context.Context, orgID string, entries []entity.SkuCatalogEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT OR REPLACE INTO sku_catalog (org_id, sku_id, sku_name) VALUES (:org_id, :sku_id, :sku_name)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, entry := range entries {
		row := catalogRow{OrgID: orgID, SkuID: entry.SkuID, SkuName: entry.SkuName}
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save sku %s: %w", entry.SkuID, err)
		}
	}

	return tx.Commit()
}
