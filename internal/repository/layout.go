package repository

import (
	"context"
	"fmt"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/repository/dao"
)

var ErrLayoutNotFound = dao.ErrLayoutNotFound

type LayoutDAO interface {
	Insert(ctx context.Context, userID uint, layout dao.Layout) (dao.Layout, error)
	FindOwned(ctx context.Context, id, userID uint) (dao.Layout, error)
	FindOwnedWithEvent(ctx context.Context, id, userID uint) (dao.Layout, dao.Event, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Layout, error)
	FindByEventID(ctx context.Context, eventID, userID uint) ([]dao.Layout, error)
	Update(ctx context.Context, id, userID uint, mutate func(*dao.Layout) error) (dao.Layout, error)
	Delete(ctx context.Context, id, userID uint) error
}

type LayoutRepository struct {
	dao LayoutDAO
}

func NewLayoutRepository(dao LayoutDAO) *LayoutRepository {
	return &LayoutRepository{
		dao: dao,
	}
}

// Create stores the layout under an event owned by userID.
func (r *LayoutRepository) Create(ctx context.Context, userID uint, layout domain.Layout) (domain.Layout, error) {
	created, err := r.dao.Insert(ctx, userID, dao.Layout{
		EventID:  layout.EventID,
		Name:     layout.Name,
		Document: documentToDAO(layout.Document),
	})
	if err != nil {
		return domain.Layout{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *LayoutRepository) FindOwned(ctx context.Context, id, userID uint) (domain.Layout, error) {
	found, err := r.dao.FindOwned(ctx, id, userID)
	if err != nil {
		return domain.Layout{}, fmt.Errorf("r.dao.FindOwned -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *LayoutRepository) FindOwnedWithEvent(ctx context.Context, id, userID uint) (domain.Layout, domain.Event, error) {
	layout, event, err := r.dao.FindOwnedWithEvent(ctx, id, userID)
	if err != nil {
		return domain.Layout{}, domain.Event{}, fmt.Errorf("r.dao.FindOwnedWithEvent -> %w", err)
	}

	return r.daoToDomain(layout), eventToDomain(event), nil
}

func (r *LayoutRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Layout, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *LayoutRepository) FindByEventID(ctx context.Context, eventID, userID uint) ([]domain.Layout, error) {
	found, err := r.dao.FindByEventID(ctx, eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *LayoutRepository) Update(ctx context.Context, id, userID uint, mutate func(*domain.Layout) error) (domain.Layout, error) {
	updated, err := r.dao.Update(ctx, id, userID, func(row *dao.Layout) error {
		layout := r.daoToDomain(*row)
		if err := mutate(&layout); err != nil {
			return err
		}

		row.Name = layout.Name
		row.Document = documentToDAO(layout.Document)

		return nil
	})
	if err != nil {
		return domain.Layout{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *LayoutRepository) Delete(ctx context.Context, id, userID uint) error {
	if err := r.dao.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *LayoutRepository) daosToDomain(found []dao.Layout) []domain.Layout {
	layouts := make([]domain.Layout, 0, len(found))
	for _, l := range found {
		layouts = append(layouts, r.daoToDomain(l))
	}

	return layouts
}

func (r *LayoutRepository) daoToDomain(l dao.Layout) domain.Layout {
	return domain.Layout{
		ID:        l.ID,
		EventID:   l.EventID,
		Name:      l.Name,
		Document:  documentToDomain(l.Document),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
