package service

import (
	"context"
	"errors"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/repository"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type GuardUserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type GuardEventRepository interface {
	FindOwned(ctx context.Context, id, userID uint) (domain.Event, error)
}

type GuardLayoutRepository interface {
	FindOwned(ctx context.Context, id, userID uint) (domain.Layout, error)
}

type GuardElementRepository interface {
	FindOwned(ctx context.Context, id, userID uint) (domain.CustomElement, error)
}

// Guard resolves the acting user from a token and every resource id against
// that user. A resource owned by someone else is reported exactly like a
// missing one.
type Guard struct {
	tokens   TokenVerifier
	users    GuardUserRepository
	events   GuardEventRepository
	layouts  GuardLayoutRepository
	elements GuardElementRepository
}

func NewGuard(
	tokens TokenVerifier,
	users GuardUserRepository,
	events GuardEventRepository,
	layouts GuardLayoutRepository,
	elements GuardElementRepository,
) *Guard {
	return &Guard{
		tokens:   tokens,
		users:    users,
		events:   events,
		layouts:  layouts,
		elements: elements,
	}
}

// CurrentUser fails with ErrInvalidToken when the token does not verify or
// its subject no longer names an existing user.
func (g *Guard) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	email, err := g.tokens.Verify(token)
	if err != nil {
		return domain.User{}, ErrInvalidToken
	}

	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrInvalidToken
		}

		return domain.User{}, translate("g.users.FindByEmail", err)
	}

	return user, nil
}

func (g *Guard) AuthorizeEvent(ctx context.Context, user domain.User, eventID uint) (domain.Event, error) {
	event, err := g.events.FindOwned(ctx, eventID, user.ID)
	if err != nil {
		return domain.Event{}, translate("g.events.FindOwned", err)
	}

	return event, nil
}

// AuthorizeLayout resolves ownership through the layout's parent event in a
// single query.
func (g *Guard) AuthorizeLayout(ctx context.Context, user domain.User, layoutID uint) (domain.Layout, error) {
	layout, err := g.layouts.FindOwned(ctx, layoutID, user.ID)
	if err != nil {
		return domain.Layout{}, translate("g.layouts.FindOwned", err)
	}

	return layout, nil
}

func (g *Guard) AuthorizeElement(ctx context.Context, user domain.User, elementID uint) (domain.CustomElement, error) {
	element, err := g.elements.FindOwned(ctx, elementID, user.ID)
	if err != nil {
		return domain.CustomElement{}, translate("g.elements.FindOwned", err)
	}

	return element, nil
}
