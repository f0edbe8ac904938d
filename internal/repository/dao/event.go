package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index"`

	Title       string                      `gorm:"size:200;not null"`
	Description *string                     `gorm:"type:text"`
	Location    *string                     `gorm:"size:500"`
	Images      datatypes.JSONSlice[string] `gorm:"not null"`
	StartDate   *datatypes.Date
	EndDate     *datatypes.Date
	StartTime   *datatypes.Time
	EndTime     *datatypes.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Layouts []Layout `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (e Event) columns() map[string]any {
	images := e.Images
	if images == nil {
		images = datatypes.JSONSlice[string]{}
	}

	return map[string]any{
		"title":       e.Title,
		"description": e.Description,
		"location":    e.Location,
		"images":      images,
		"start_date":  e.StartDate,
		"end_date":    e.EndDate,
		"start_time":  e.StartTime,
		"end_time":    e.EndTime,
		"updated_at":  e.UpdatedAt,
	}
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if event.Images == nil {
		event.Images = datatypes.JSONSlice[string]{}
	}

	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByUserID(ctx context.Context, userID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// FindOwned returns the event only if userID owns it.
func (d *EventDAO) FindOwned(ctx context.Context, id, userID uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&event)
	if result.Error != nil {
		return Event{}, notFoundAs(result.Error, ErrEventNotFound)
	}

	return event, nil
}

// Update locks the owned row, lets mutate change it and writes it back in the
// same transaction. An error from mutate rolls everything back.
func (d *EventDAO) Update(ctx context.Context, id, userID uint, mutate func(*Event) error) (Event, error) {
	var updated Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&row).Error
		if err != nil {
			return notFoundAs(err, ErrEventNotFound)
		}

		if err = mutate(&row); err != nil {
			return err
		}
		row.UpdatedAt = nextUpdatedAt(row.UpdatedAt)

		if err = tx.Model(&Event{}).Where("id = ?", row.ID).Updates(row.columns()).Error; err != nil {
			return err
		}

		updated = row
		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return updated, nil
}

func (d *EventDAO) Delete(ctx context.Context, id, userID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&row).Error
		if err != nil {
			return notFoundAs(err, ErrEventNotFound)
		}

		if err = tx.Where("event_id = ?", row.ID).Delete(&Layout{}).Error; err != nil {
			return err
		}

		return tx.Delete(&Event{}, row.ID).Error
	})
}
