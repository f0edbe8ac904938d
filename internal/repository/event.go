package repository

import (
	"context"
	"fmt"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Event, error)
	FindOwned(ctx context.Context, id, userID uint) (dao.Event, error)
	Update(ctx context.Context, id, userID uint, mutate func(*dao.Event) error) (dao.Event, error)
	Delete(ctx context.Context, id, userID uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Event, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, r.daoToDomain(e))
	}

	return events, nil
}

func (r *EventRepository) FindOwned(ctx context.Context, id, userID uint) (domain.Event, error) {
	found, err := r.dao.FindOwned(ctx, id, userID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindOwned -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// Update hands mutate the current state of the owned event inside the row
// lock; whatever mutate leaves behind is persisted.
func (r *EventRepository) Update(ctx context.Context, id, userID uint, mutate func(*domain.Event) error) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, id, userID, func(row *dao.Event) error {
		event := r.daoToDomain(*row)
		if err := mutate(&event); err != nil {
			return err
		}

		next := r.domainToDAO(event)
		next.ID, next.UserID = row.ID, row.UserID
		next.CreatedAt, next.UpdatedAt = row.CreatedAt, row.UpdatedAt
		*row = next

		return nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id, userID uint) error {
	if err := r.dao.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) domainToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Images:      imagesToDAO(e.Images),
		StartDate:   dateToDAO(e.StartDate),
		EndDate:     dateToDAO(e.EndDate),
		StartTime:   timeToDAO(e.StartTime),
		EndTime:     timeToDAO(e.EndTime),
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return eventToDomain(e)
}

func eventToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Images:      imagesToDomain(e.Images),
		StartDate:   dateToDomain(e.StartDate),
		EndDate:     dateToDomain(e.EndDate),
		StartTime:   timeToDomain(e.StartTime),
		EndTime:     timeToDomain(e.EndTime),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
