package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrElementNotFound = errors.New("custom element not found")

type UserElement struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`

	Name        string            `gorm:"size:200;not null"`
	ElementData datatypes.JSONMap `gorm:"not null"`
	Thumbnail   *string           `gorm:"type:text"`
	UsageCount  int               `gorm:"not null;default:0"`
	LastUsedAt  *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ElementDAO struct {
	db *gorm.DB
}

func NewElementDAO(db *gorm.DB) *ElementDAO {
	return &ElementDAO{
		db: db,
	}
}

func (d *ElementDAO) Insert(ctx context.Context, element UserElement) (UserElement, error) {
	if element.ElementData == nil {
		element.ElementData = datatypes.JSONMap{}
	}

	if err := d.db.WithContext(ctx).Create(&element).Error; err != nil {
		return UserElement{}, err
	}

	return element, nil
}

// FindByUserID lists the user's elements; a non-empty search keeps only names
// containing it, ignoring case.
func (d *ElementDAO) FindByUserID(ctx context.Context, userID uint, search string) ([]UserElement, error) {
	var elements []UserElement

	query := d.db.WithContext(ctx).Where("user_id = ?", userID)
	if search != "" {
		query = query.Where("name ILIKE ?", containsPattern(search))
	}

	if err := query.Order("id").Find(&elements).Error; err != nil {
		return nil, err
	}

	return elements, nil
}

func (d *ElementDAO) FindOwned(ctx context.Context, id, userID uint) (UserElement, error) {
	var element UserElement

	result := d.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&element)
	if result.Error != nil {
		return UserElement{}, notFoundAs(result.Error, ErrElementNotFound)
	}

	return element, nil
}

func (d *ElementDAO) Update(ctx context.Context, id, userID uint, mutate func(*UserElement) error) (UserElement, error) {
	var updated UserElement

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row UserElement
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&row).Error
		if err != nil {
			return notFoundAs(err, ErrElementNotFound)
		}

		if err = mutate(&row); err != nil {
			return err
		}
		if row.ElementData == nil {
			row.ElementData = datatypes.JSONMap{}
		}
		row.UpdatedAt = nextUpdatedAt(row.UpdatedAt)

		err = tx.Model(&UserElement{}).Where("id = ?", row.ID).Updates(map[string]any{
			"name":         row.Name,
			"element_data": row.ElementData,
			"thumbnail":    row.Thumbnail,
			"updated_at":   row.UpdatedAt,
		}).Error
		if err != nil {
			return err
		}

		updated = row
		return nil
	})
	if err != nil {
		return UserElement{}, err
	}

	return updated, nil
}

// IncrementUsage bumps usage_count in place so concurrent uses are all counted.
func (d *ElementDAO) IncrementUsage(ctx context.Context, id, userID uint, at time.Time) (UserElement, error) {
	var updated UserElement

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&UserElement{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(map[string]any{
				"usage_count":  gorm.Expr("usage_count + 1"),
				"last_used_at": at,
				"updated_at":   gorm.Expr("GREATEST(updated_at + interval '1 microsecond', ?)", at),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrElementNotFound
		}

		return tx.First(&updated, id).Error
	})
	if err != nil {
		return UserElement{}, err
	}

	return updated, nil
}

func (d *ElementDAO) Delete(ctx context.Context, id, userID uint) error {
	result := d.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&UserElement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrElementNotFound
	}

	return nil
}
