package inventory

import (
	"Compliance-Shield/domain"
	"Compliance-Shield/entities"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	InventoryRepository interface {
		GetInventory(ctx context.Context, userID string) ([]entities.InventoryItem, error)
		GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error)
		PutItem(ctx context.Context, item *entities.InventoryItem) error
		DeleteItem(ctx context.Context, userID string, id string) (bool, error)
		AppendFeedback(ctx context.Context, feedback *entities.UserFeedback) error
		MarkFeedbackSubmitted(ctx context.Context, userID string, id string) (bool, error)
		GetFeedbackByItem(ctx context.Context, userID string, itemID string) ([]entities.UserFeedback, error)
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// GetInventory returns the user's items newest first.
func (r *inventoryRepository) GetInventory(ctx context.Context, userID string) ([]entities.InventoryItem, error) {
	var items []entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// PutItem inserts item or replaces every column of the row with the same id.
// An id already owned by another user is refused.
func (r *inventoryRepository) PutItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entities.InventoryItem
		err := tx.Select("id", "user_id").Where("id = ?", item.ID).Take(&existing).Error
		switch {
		case err == nil:
			if existing.UserID != item.UserID {
				return domain.ErrUnauthorizedAccess
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(item).Error
	})
}

func (r *inventoryRepository) DeleteItem(ctx context.Context, userID string, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.InventoryItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *inventoryRepository) AppendFeedback(ctx context.Context, feedback *entities.UserFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *inventoryRepository) MarkFeedbackSubmitted(ctx context.Context, userID string, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("feedback_submitted", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *inventoryRepository) GetFeedbackByItem(ctx context.Context, userID string, itemID string) ([]entities.UserFeedback, error) {
	var feedback []entities.UserFeedback
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Order("submitted_at asc").
		Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}
