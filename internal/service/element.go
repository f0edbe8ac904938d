package service

import (
	"context"
	"strings"
	"time"

	"github.com/hostbuddy/api/internal/domain"
)

type ElementRepository interface {
	Create(ctx context.Context, element domain.CustomElement) (domain.CustomElement, error)
	FindByUserID(ctx context.Context, userID uint, search string) ([]domain.CustomElement, error)
	Update(ctx context.Context, id, userID uint, mutate func(*domain.CustomElement) error) (domain.CustomElement, error)
	RecordUse(ctx context.Context, id, userID uint, at time.Time) (domain.CustomElement, error)
	Delete(ctx context.Context, id, userID uint) error
}

type ElementService struct {
	repo  ElementRepository
	guard *Guard
	now   func() time.Time
}

func NewElementService(repo ElementRepository, guard *Guard) *ElementService {
	return &ElementService{
		repo:  repo,
		guard: guard,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *ElementService) Create(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error) {
	if strings.TrimSpace(element.Name) == "" {
		return domain.CustomElement{}, validationError("name is required")
	}
	if element.Data == nil {
		element.Data = domain.Document{}
	}
	element.ID = 0
	element.UserID = user.ID
	element.UsageCount = 0
	element.LastUsedAt = nil

	created, err := s.repo.Create(ctx, element)
	if err != nil {
		return domain.CustomElement{}, translate("s.repo.Create", err)
	}

	return created, nil
}

// CreateGroup stores a composite element built from several layout elements.
// element.Data must hold an "elements" sequence; the stored copy is tagged as
// a group and records how many children it has.
func (s *ElementService) CreateGroup(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error) {
	data, err := domain.GroupDocument(element.Data)
	if err != nil {
		return domain.CustomElement{}, ErrMissingGroupElements
	}
	element.Data = data

	return s.Create(ctx, user, element)
}

// List returns the caller's library, optionally narrowed to names containing
// search in any case.
func (s *ElementService) List(ctx context.Context, user domain.User, search string) ([]domain.CustomElement, error) {
	elements, err := s.repo.FindByUserID(ctx, user.ID, strings.TrimSpace(search))
	if err != nil {
		return nil, translate("s.repo.FindByUserID", err)
	}

	return elements, nil
}

func (s *ElementService) Get(ctx context.Context, user domain.User, id uint) (domain.CustomElement, error) {
	return s.guard.AuthorizeElement(ctx, user, id)
}

func (s *ElementService) Update(ctx context.Context, user domain.User, id uint, patch domain.ElementPatch) (domain.CustomElement, error) {
	updated, err := s.repo.Update(ctx, id, user.ID, func(e *domain.CustomElement) error {
		patch.Apply(e)
		if strings.TrimSpace(e.Name) == "" {
			return validationError("name must not be empty")
		}
		if e.Data == nil {
			e.Data = domain.Document{}
		}

		return nil
	})
	if err != nil {
		return domain.CustomElement{}, translate("s.repo.Update", err)
	}

	return updated, nil
}

// Use records that the element was placed on a layout.
func (s *ElementService) Use(ctx context.Context, user domain.User, id uint) (domain.CustomElement, error) {
	used, err := s.repo.RecordUse(ctx, id, user.ID, s.now())
	if err != nil {
		return domain.CustomElement{}, translate("s.repo.RecordUse", err)
	}

	return used, nil
}

func (s *ElementService) Delete(ctx context.Context, user domain.User, id uint) error {
	if err := s.repo.Delete(ctx, id, user.ID); err != nil {
		return translate("s.repo.Delete", err)
	}

	return nil
}
