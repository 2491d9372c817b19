package tables

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
)

// Repository persists dining tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all tables ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.DiningTable, error) {
	var rows []models.DiningTable
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one table.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DiningTable, error) {
	var table models.DiningTable
	if err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// Create inserts the table.
func (r *Repository) Create(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error) {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// Update persists mutable columns.
func (r *Repository) Update(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error) {
	if err := r.db.WithContext(ctx).
		Model(table).
		Select("name", "seats", "status").
		Updates(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// Delete removes the table.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DiningTable{}, "id = ?", id).Error
}
