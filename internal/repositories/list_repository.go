package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"listaai/internal/models/db_models"
)

// ListSummaryRow is one row of the per-user overview with item counters.
type ListSummaryRow struct {
	ID           uint
	Title        string
	Description  string
	Image        string
	CreatedAt    time.Time
	ItemCount    int64
	ClaimedCount int64
}

type ListRepository interface {
	// Insert stores the list and its style in one transaction.
	Insert(ctx context.Context, list *db_models.List, style *db_models.ListStyle) error
	FindById(ctx context.Context, id uint) (*db_models.List, error)
	Exists(ctx context.Context, id uint) (bool, error)
	FindSummariesByUser(ctx context.Context, userID uint) ([]ListSummaryRow, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	// Delete removes the items, the style and the list in one transaction.
	Delete(ctx context.Context, id uint) error

	FindStyle(ctx context.Context, listID uint) (*db_models.ListStyle, error)
	// UpsertStyle applies fields to the style row, creating it from the
	// defaults first when missing.
	UpsertStyle(ctx context.Context, listID uint, fields map[string]interface{}) error
}

type listRepository struct {
	db *gorm.DB
}

func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (l *listRepository) Insert(ctx context.Context, list *db_models.List, style *db_models.ListStyle) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Style").Create(list).Error; err != nil {
			return err
		}
		style.ListID = list.ID
		return tx.Create(style).Error
	})
}

func (l *listRepository) FindById(ctx context.Context, id uint) (*db_models.List, error) {
	var list db_models.List
	err := l.db.WithContext(ctx).First(&list, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &list, nil
}

func (l *listRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&db_models.List{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (l *listRepository) FindSummariesByUser(ctx context.Context, userID uint) ([]ListSummaryRow, error) {
	var rows []ListSummaryRow
	err := l.db.WithContext(ctx).
		Table("lists AS l").
		Select(`l.id, l.title, l.description, l.image, l.created_at,
			(SELECT COUNT(*) FROM items i WHERE i.list_id = l.id) AS item_count,
			(SELECT COUNT(*) FROM items i WHERE i.list_id = l.id AND i.claimed = ?) AS claimed_count`, true).
		Where("l.user_id = ?", userID).
		Order("l.created_at DESC, l.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (l *listRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Model(&db_models.List{}).Where("id = ?", id).Updates(fields).Error
}

func (l *listRepository) Delete(ctx context.Context, id uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&db_models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&db_models.ListStyle{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&db_models.List{}).Error
	})
}

func (l *listRepository) FindStyle(ctx context.Context, listID uint) (*db_models.ListStyle, error) {
	var style db_models.ListStyle
	err := l.db.WithContext(ctx).First(&style, "list_id = ?", listID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &style, nil
}

func (l *listRepository) UpsertStyle(ctx context.Context, listID uint, fields map[string]interface{}) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db_models.ListStyle{}).Where("list_id = ?", listID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Create(db_models.DefaultListStyle(listID)).Error; err != nil {
				return err
			}
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(&db_models.ListStyle{}).Where("list_id = ?", listID).Updates(fields).Error
	})
}
