package service

import (
	"context"
	"strings"
	"time"

	"github.com/hostbuddy/api/internal/domain"
)

type LayoutRepository interface {
	Create(ctx context.Context, userID uint, layout domain.Layout) (domain.Layout, error)
	FindOwnedWithEvent(ctx context.Context, id, userID uint) (domain.Layout, domain.Event, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Layout, error)
	FindByEventID(ctx context.Context, eventID, userID uint) ([]domain.Layout, error)
	Update(ctx context.Context, id, userID uint, mutate func(*domain.Layout) error) (domain.Layout, error)
	Delete(ctx context.Context, id, userID uint) error
}

type LayoutService struct {
	repo  LayoutRepository
	guard *Guard
	now   func() time.Time
}

func NewLayoutService(repo LayoutRepository, guard *Guard) *LayoutService {
	return &LayoutService{
		repo:  repo,
		guard: guard,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create attaches a layout to one of the caller's events. Another user's
// event is reported as ErrEventNotFound.
func (s *LayoutService) Create(ctx context.Context, user domain.User, layout domain.Layout) (domain.Layout, error) {
	if strings.TrimSpace(layout.Name) == "" {
		return domain.Layout{}, validationError("name is required")
	}
	if layout.EventID == 0 {
		return domain.Layout{}, validationError("event_id is required")
	}

	created, err := s.repo.Create(ctx, user.ID, layout)
	if err != nil {
		return domain.Layout{}, translate("s.repo.Create", err)
	}

	return created, nil
}

// List returns every layout across the caller's events.
func (s *LayoutService) List(ctx context.Context, user domain.User) ([]domain.Layout, error) {
	layouts, err := s.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, translate("s.repo.FindByUserID", err)
	}

	return layouts, nil
}

func (s *LayoutService) ListByEvent(ctx context.Context, user domain.User, eventID uint) ([]domain.Layout, error) {
	layouts, err := s.repo.FindByEventID(ctx, eventID, user.ID)
	if err != nil {
		return nil, translate("s.repo.FindByEventID", err)
	}

	return layouts, nil
}

func (s *LayoutService) Get(ctx context.Context, user domain.User, id uint) (domain.Layout, error) {
	return s.guard.AuthorizeLayout(ctx, user, id)
}

func (s *LayoutService) Update(ctx context.Context, user domain.User, id uint, patch domain.LayoutPatch) (domain.Layout, error) {
	updated, err := s.repo.Update(ctx, id, user.ID, func(l *domain.Layout) error {
		patch.Apply(l)
		if strings.TrimSpace(l.Name) == "" {
			return validationError("name must not be empty")
		}

		return nil
	})
	if err != nil {
		return domain.Layout{}, translate("s.repo.Update", err)
	}

	return updated, nil
}

func (s *LayoutService) Delete(ctx context.Context, user domain.User, id uint) error {
	if err := s.repo.Delete(ctx, id, user.ID); err != nil {
		return translate("s.repo.Delete", err)
	}

	return nil
}

// Export projects the layout together with its event's title and start date.
// Nothing is stored.
func (s *LayoutService) Export(ctx context.Context, user domain.User, id uint) (domain.LayoutExport, error) {
	layout, event, err := s.repo.FindOwnedWithEvent(ctx, id, user.ID)
	if err != nil {
		return domain.LayoutExport{}, translate("s.repo.FindOwnedWithEvent", err)
	}

	return domain.NewLayoutExport(layout, event, s.now()), nil
}
