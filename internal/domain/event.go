package domain

import (
	"errors"
	"time"
)

var ErrEndDateBeforeStart = errors.New("end_date must not be before start_date")

type Event struct {
	ID          uint       `json:"event_id"`
	UserID      uint       `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Images      []string   `json:"images"`
	StartDate   *Date      `json:"start_date"`
	EndDate     *Date      `json:"end_date"`
	StartTime   *TimeOfDay `json:"start_time"`
	EndTime     *TimeOfDay `json:"end_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidateDates rejects an end date that falls before the start date. Times
// are not compared: an event may run past midnight.
func (e Event) ValidateDates() error {
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return ErrEndDateBeforeStart
	}

	return nil
}

type EventPatch struct {
	Title       Optional[string]
	Description Optional[*string]
	Location    Optional[*string]
	Images      Optional[[]string]
	StartDate   Optional[*Date]
	EndDate     Optional[*Date]
	StartTime   Optional[*TimeOfDay]
	EndTime     Optional[*TimeOfDay]
}

// Apply merges the fields present in p into e.
func (p EventPatch) Apply(e *Event) {
	p.Title.Apply(&e.Title)
	p.Description.Apply(&e.Description)
	p.Location.Apply(&e.Location)
	p.Images.Apply(&e.Images)
	p.StartDate.Apply(&e.StartDate)
	p.EndDate.Apply(&e.EndDate)
	p.StartTime.Apply(&e.StartTime)
	p.EndTime.Apply(&e.EndTime)

	if e.Images == nil {
		e.Images = []string{}
	}
}
