package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/repository/dao"
)

var ErrElementNotFound = dao.ErrElementNotFound

type ElementDAO interface {
	Insert(ctx context.Context, element dao.UserElement) (dao.UserElement, error)
	FindByUserID(ctx context.Context, userID uint, search string) ([]dao.UserElement, error)
	FindOwned(ctx context.Context, id, userID uint) (dao.UserElement, error)
	Update(ctx context.Context, id, userID uint, mutate func(*dao.UserElement) error) (dao.UserElement, error)
	IncrementUsage(ctx context.Context, id, userID uint, at time.Time) (dao.UserElement, error)
	Delete(ctx context.Context, id, userID uint) error
}

type ElementRepository struct {
	dao ElementDAO
}

func NewElementRepository(dao ElementDAO) *ElementRepository {
	return &ElementRepository{
		dao: dao,
	}
}

func (r *ElementRepository) Create(ctx context.Context, element domain.CustomElement) (domain.CustomElement, error) {
	created, err := r.dao.Insert(ctx, dao.UserElement{
		UserID:      element.UserID,
		Name:        element.Name,
		ElementData: documentToDAO(element.Data),
		Thumbnail:   element.Thumbnail,
	})
	if err != nil {
		return domain.CustomElement{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ElementRepository) FindByUserID(ctx context.Context, userID uint, search string) ([]domain.CustomElement, error) {
	found, err := r.dao.FindByUserID(ctx, userID, search)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	elements := make([]domain.CustomElement, 0, len(found))
	for _, e := range found {
		elements = append(elements, r.daoToDomain(e))
	}

	return elements, nil
}

func (r *ElementRepository) FindOwned(ctx context.Context, id, userID uint) (domain.CustomElement, error) {
	found, err := r.dao.FindOwned(ctx, id, userID)
	if err != nil {
		return domain.CustomElement{}, fmt.Errorf("r.dao.FindOwned -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ElementRepository) Update(ctx context.Context, id, userID uint, mutate func(*domain.CustomElement) error) (domain.CustomElement, error) {
	updated, err := r.dao.Update(ctx, id, userID, func(row *dao.UserElement) error {
		element := r.daoToDomain(*row)
		if err := mutate(&element); err != nil {
			return err
		}

		row.Name = element.Name
		row.ElementData = documentToDAO(element.Data)
		row.Thumbnail = element.Thumbnail

		return nil
	})
	if err != nil {
		return domain.CustomElement{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ElementRepository) RecordUse(ctx context.Context, id, userID uint, at time.Time) (domain.CustomElement, error) {
	used, err := r.dao.IncrementUsage(ctx, id, userID, at)
	if err != nil {
		return domain.CustomElement{}, fmt.Errorf("r.dao.IncrementUsage -> %w", err)
	}

	return r.daoToDomain(used), nil
}

func (r *ElementRepository) Delete(ctx context.Context, id, userID uint) error {
	if err := r.dao.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ElementRepository) daoToDomain(e dao.UserElement) domain.CustomElement {
	data := documentToDomain(e.ElementData)
	if data == nil {
		data = domain.Document{}
	}

	return domain.CustomElement{
		ID:         e.ID,
		UserID:     e.UserID,
		Name:       e.Name,
		Data:       data,
		Thumbnail:  e.Thumbnail,
		UsageCount: e.UsageCount,
		LastUsedAt: e.LastUsedAt,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
