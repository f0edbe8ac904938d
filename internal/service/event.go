package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hostbuddy/api/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Event, error)
	Update(ctx context.Context, id, userID uint, mutate func(*domain.Event) error) (domain.Event, error)
	Delete(ctx context.Context, id, userID uint) error
}

// BlobRemover deletes stored images by the URL they were published under.
type BlobRemover interface {
	Owns(url string) bool
	Delete(ctx context.Context, url string) error
}

type EventService struct {
	repo  EventRepository
	guard *Guard
	blobs BlobRemover
}

func NewEventService(repo EventRepository, guard *Guard, blobs BlobRemover) *EventService {
	return &EventService{
		repo:  repo,
		guard: guard,
		blobs: blobs,
	}
}

func validateEvent(e domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return validationError("title is required")
	}
	if err := e.ValidateDates(); err != nil {
		return ErrEndDateBeforeStart
	}

	return nil
}

func (s *EventService) Create(ctx context.Context, user domain.User, event domain.Event) (domain.Event, error) {
	event.ID = 0
	event.UserID = user.ID
	if event.Images == nil {
		event.Images = []string{}
	}
	if err := validateEvent(event); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, translate("s.repo.Create", err)
	}

	return created, nil
}

func (s *EventService) List(ctx context.Context, user domain.User) ([]domain.Event, error) {
	events, err := s.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, translate("s.repo.FindByUserID", err)
	}

	return events, nil
}

func (s *EventService) Get(ctx context.Context, user domain.User, id uint) (domain.Event, error) {
	return s.guard.AuthorizeEvent(ctx, user, id)
}

// Update merges patch into the stored event. Validation runs on the merged
// result, so a patch that only moves end_date is checked against the stored
// start_date.
func (s *EventService) Update(ctx context.Context, user domain.User, id uint, patch domain.EventPatch) (domain.Event, error) {
	updated, err := s.repo.Update(ctx, id, user.ID, func(e *domain.Event) error {
		patch.Apply(e)
		return validateEvent(*e)
	})
	if err != nil {
		return domain.Event{}, translate("s.repo.Update", err)
	}

	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, user domain.User, id uint) error {
	if err := s.repo.Delete(ctx, id, user.ID); err != nil {
		return translate("s.repo.Delete", err)
	}

	return nil
}

func (s *EventService) AddImage(ctx context.Context, user domain.User, id uint, imageURL string) (domain.Event, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return domain.Event{}, validationError("image_url is required")
	}

	updated, err := s.repo.Update(ctx, id, user.ID, func(e *domain.Event) error {
		e.Images = append(e.Images, imageURL)
		return nil
	})
	if err != nil {
		return domain.Event{}, translate("s.repo.Update", err)
	}

	return updated, nil
}

// RemoveImage drops the image at index, checked against the list as it is
// inside the update transaction. Once that commits, an image stored in our
// bucket is deleted too; a failed delete is logged and leaves the event as is.
func (s *EventService) RemoveImage(ctx context.Context, user domain.User, id uint, index int) (domain.Event, error) {
	var removed string

	updated, err := s.repo.Update(ctx, id, user.ID, func(e *domain.Event) error {
		if index < 0 || index >= len(e.Images) {
			return ErrInvalidImageIndex
		}

		removed = e.Images[index]
		images := make([]string, 0, len(e.Images)-1)
		images = append(images, e.Images[:index]...)
		e.Images = append(images, e.Images[index+1:]...)

		return nil
	})
	if err != nil {
		return domain.Event{}, translate("s.repo.Update", err)
	}

	s.releaseBlob(ctx, removed, updated)

	return updated, nil
}

func (s *EventService) releaseBlob(ctx context.Context, url string, event domain.Event) {
	if s.blobs == nil || !s.blobs.Owns(url) {
		return
	}
	for _, img := range event.Images {
		if img == url {
			return
		}
	}

	if err := s.blobs.Delete(ctx, url); err != nil {
		zap.L().Error("image removed from event but blob delete failed",
			zap.Uint("event_id", event.ID),
			zap.String("url", url),
			zap.Error(err),
		)
	}
}
