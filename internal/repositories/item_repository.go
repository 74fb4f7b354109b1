package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"listaai/internal/models/db_models"
)

type ItemRepository interface {
	FindByList(ctx context.Context, listID uint) ([]db_models.Item, error)
	FindInList(ctx context.Context, listID, itemID uint) (*db_models.Item, error)
	Insert(ctx context.Context, item *db_models.Item) error
	Update(ctx context.Context, listID, itemID uint, fields map[string]interface{}) error
	Delete(ctx context.Context, listID, itemID uint) error
	// Claim marks an unclaimed item as claimed. It reports false when the
	// item is missing or already claimed.
	Claim(ctx context.Context, listID, itemID uint, name, phone string) (bool, error)
	WithTx(tx *gorm.DB) ItemRepository
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (i *itemRepository) WithTx(tx *gorm.DB) ItemRepository {
	return &itemRepository{db: tx}
}

func (i *itemRepository) FindByList(ctx context.Context, listID uint) ([]db_models.Item, error) {
	var items []db_models.Item
	err := i.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (i *itemRepository) FindInList(ctx context.Context, listID, itemID uint) (*db_models.Item, error) {
	var item db_models.Item
	err := i.db.WithContext(ctx).First(&item, "id = ? AND list_id = ?", itemID, listID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &item, nil
}

func (i *itemRepository) Insert(ctx context.Context, item *db_models.Item) error {
	return i.db.WithContext(ctx).Create(item).Error
}

func (i *itemRepository) Update(ctx context.Context, listID, itemID uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return i.db.WithContext(ctx).
		Model(&db_models.Item{}).
		Where("id = ? AND list_id = ?", itemID, listID).
		Updates(fields).Error
}

func (i *itemRepository) Delete(ctx context.Context, listID, itemID uint) error {
	return i.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		Delete(&db_models.Item{}).Error
}

func (i *itemRepository) Claim(ctx context.Context, listID, itemID uint, name, phone string) (bool, error) {
	res := i.db.WithContext(ctx).
		Model(&db_models.Item{}).
		Where("id = ? AND list_id = ? AND claimed = ?", itemID, listID, false).
		Updates(map[string]interface{}{
			"claimed":          true,
			"claimed_by_name":  name,
			"claimed_by_phone": phone,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
