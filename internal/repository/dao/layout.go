package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrLayoutNotFound = errors.New("layout not found")

type Layout struct {
	ID      uint `gorm:"primaryKey"`
	EventID uint `gorm:"not null;index"`

	Name     string            `gorm:"size:200;not null"`
	Document datatypes.JSONMap `gorm:"column:layout"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type LayoutDAO struct {
	db *gorm.DB
}

func NewLayoutDAO(db *gorm.DB) *LayoutDAO {
	return &LayoutDAO{
		db: db,
	}
}

// owned scopes a layouts query to rows whose parent event belongs to userID.
func owned(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN events ON events.id = layouts.event_id").
			Where("events.user_id = ?", userID)
	}
}

// Insert attaches the layout to an event owned by userID. The event row is
// share-locked so it cannot be deleted underneath the insert.
func (d *LayoutDAO) Insert(ctx context.Context, userID uint, layout Layout) (Layout, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id").
			Where("id = ? AND user_id = ?", layout.EventID, userID).
			First(&event).Error
		if err != nil {
			return notFoundAs(err, ErrEventNotFound)
		}

		return tx.Create(&layout).Error
	})
	if err != nil {
		return Layout{}, err
	}

	return layout, nil
}

func (d *LayoutDAO) FindOwned(ctx context.Context, id, userID uint) (Layout, error) {
	var layout Layout

	result := d.db.WithContext(ctx).Scopes(owned(userID)).
		Where("layouts.id = ?", id).
		First(&layout)
	if result.Error != nil {
		return Layout{}, notFoundAs(result.Error, ErrLayoutNotFound)
	}

	return layout, nil
}

// FindOwnedWithEvent loads a layout and its parent event in one snapshot.
func (d *LayoutDAO) FindOwnedWithEvent(ctx context.Context, id, userID uint) (Layout, Event, error) {
	var (
		layout Layout
		event  Event
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(owned(userID)).Where("layouts.id = ?", id).First(&layout).Error
		if err != nil {
			return notFoundAs(err, ErrLayoutNotFound)
		}

		err = tx.Where("id = ? AND user_id = ?", layout.EventID, userID).First(&event).Error
		if err != nil {
			return notFoundAs(err, ErrLayoutNotFound)
		}

		return nil
	})
	if err != nil {
		return Layout{}, Event{}, err
	}

	return layout, event, nil
}

func (d *LayoutDAO) FindByUserID(ctx context.Context, userID uint) ([]Layout, error) {
	var layouts []Layout

	result := d.db.WithContext(ctx).Scopes(owned(userID)).Order("layouts.id").Find(&layouts)
	if result.Error != nil {
		return nil, result.Error
	}

	return layouts, nil
}

// FindByEventID lists an event's layouts, failing with ErrEventNotFound when
// the event is not owned by userID.
func (d *LayoutDAO) FindByEventID(ctx context.Context, eventID, userID uint) ([]Layout, error) {
	var layouts []Layout

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		err := tx.Select("id").Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error
		if err != nil {
			return notFoundAs(err, ErrEventNotFound)
		}

		return tx.Where("event_id = ?", eventID).Order("id").Find(&layouts).Error
	})
	if err != nil {
		return nil, err
	}

	return layouts, nil
}

func (d *LayoutDAO) Update(ctx context.Context, id, userID uint, mutate func(*Layout) error) (Layout, error) {
	var updated Layout

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Layout
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "layouts"}}).
			Scopes(owned(userID)).
			Where("layouts.id = ?", id).
			First(&row).Error
		if err != nil {
			return notFoundAs(err, ErrLayoutNotFound)
		}

		if err = mutate(&row); err != nil {
			return err
		}
		row.UpdatedAt = nextUpdatedAt(row.UpdatedAt)

		err = tx.Model(&Layout{}).Where("id = ?", row.ID).Updates(map[string]any{
			"name":       row.Name,
			"layout":     row.Document,
			"updated_at": row.UpdatedAt,
		}).Error
		if err != nil {
			return err
		}

		updated = row
		return nil
	})
	if err != nil {
		return Layout{}, err
	}

	return updated, nil
}

func (d *LayoutDAO) Delete(ctx context.Context, id, userID uint) error {
	ownedEvents := d.db.Model(&Event{}).Select("id").Where("user_id = ?", userID)

	result := d.db.WithContext(ctx).
		Where("id = ? AND event_id IN (?)", id, ownedEvents).
		Delete(&Layout{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLayoutNotFound
	}

	return nil
}
