package repositories

import (
	"context"

	"kartvizit.link/configs/configsdatabase"
	"kartvizit.link/models"

	"gorm.io/gorm"
)

// ILayoutRepository görsel şablon kayıtlarına salt-okur erişim sağlar.
type ILayoutRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Layout, error)
	FindByName(ctx context.Context, name string) (*models.Layout, error)
	FindAll(ctx context.Context) ([]models.Layout, error)
}

type LayoutRepository struct {
	db *gorm.DB
}

func NewLayoutRepository() ILayoutRepository {
	return &LayoutRepository{db: configsdatabase.GetDB()}
}

func NewLayoutRepositoryTx(tx *gorm.DB) ILayoutRepository {
	return &LayoutRepository{db: tx}
}

func (r *LayoutRepository) FindByID(ctx context.Context, id uint) (*models.Layout, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var layout models.Layout
	if err := getDB(ctx, r.db).First(&layout, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &layout, nil
}

func (r *LayoutRepository) FindByName(ctx context.Context, name string) (*models.Layout, error) {
	var layout models.Layout
	if err := getDB(ctx, r.db).Where("name = ?", name).First(&layout).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &layout, nil
}

func (r *LayoutRepository) FindAll(ctx context.Context) ([]models.Layout, error) {
	var layouts []models.Layout
	err := getDB(ctx, r.db).Order("id asc").Find(&layouts).Error
	return layouts, err
}

var _ ILayoutRepository = (*LayoutRepository)(nil)
