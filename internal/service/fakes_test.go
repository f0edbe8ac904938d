package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/pkg/password"
	"github.com/hostbuddy/api/internal/repository"
)

var cheapHasher = password.NewHasher(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

// memStore is an in-memory stand-in for the repositories, enforcing the same
// ownership rules and sentinels.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	users    map[uint]domain.User
	events   map[uint]domain.Event
	layouts  map[uint]domain.Layout
	elements map[uint]domain.CustomElement
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[uint]domain.User{},
		events:   map[uint]domain.Event{},
		layouts:  map[uint]domain.Layout{},
		elements: map[uint]domain.CustomElement{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) stamp(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

type memUsers struct{ *memStore }

func (m memUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = user
	return user, nil
}

func (m memUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m memUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m memUsers) UpdateProfile(_ context.Context, id uint, name, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	for _, other := range m.users {
		if other.ID != id && other.Email == email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	u.Name, u.Email = name, email
	m.users[id] = u
	return u, nil
}

func (m memUsers) UpdatePassword(_ context.Context, id uint, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m memUsers) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for eid, e := range m.events {
		if e.UserID == id {
			for lid, l := range m.layouts {
				if l.EventID == eid {
					delete(m.layouts, lid)
				}
			}
			delete(m.events, eid)
		}
	}
	for cid, c := range m.elements {
		if c.UserID == id {
			delete(m.elements, cid)
		}
	}
	delete(m.users, id)
	return nil
}

type memEvents struct{ *memStore }

func (m memEvents) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = m.id()
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	m.events[event.ID] = event
	return event, nil
}

func (m memEvents) FindByUserID(_ context.Context, userID uint) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Event{}
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m memEvents) FindOwned(_ context.Context, id, userID uint) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (m memEvents) Update(_ context.Context, id, userID uint, mutate func(*domain.Event) error) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return domain.Event{}, repository.ErrEventNotFound
	}
	e.Images = append([]string{}, e.Images...)
	if err := mutate(&e); err != nil {
		return domain.Event{}, err
	}
	e.ID, e.UserID = id, userID
	e.UpdatedAt = m.stamp(e.UpdatedAt)
	m.events[id] = e
	return e, nil
}

func (m memEvents) Delete(_ context.Context, id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.UserID != userID {
		return repository.ErrEventNotFound
	}
	for lid, l := range m.layouts {
		if l.EventID == id {
			delete(m.layouts, lid)
		}
	}
	delete(m.events, id)
	return nil
}

type memLayouts struct{ *memStore }

func (m memLayouts) owned(id, userID uint) (domain.Layout, bool) {
	l, ok := m.layouts[id]
	if !ok {
		return domain.Layout{}, false
	}
	e, ok := m.events[l.EventID]
	return l, ok && e.UserID == userID
}

func (m memLayouts) Create(_ context.Context, userID uint, layout domain.Layout) (domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[layout.EventID]
	if !ok || e.UserID != userID {
		return domain.Layout{}, repository.ErrEventNotFound
	}
	layout.ID = m.id()
	layout.CreatedAt = time.Now().UTC()
	layout.UpdatedAt = layout.CreatedAt
	m.layouts[layout.ID] = layout
	return layout, nil
}

func (m memLayouts) FindOwned(_ context.Context, id, userID uint) (domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.owned(id, userID)
	if !ok {
		return domain.Layout{}, repository.ErrLayoutNotFound
	}
	return l, nil
}

func (m memLayouts) FindOwnedWithEvent(_ context.Context, id, userID uint) (domain.Layout, domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.owned(id, userID)
	if !ok {
		return domain.Layout{}, domain.Event{}, repository.ErrLayoutNotFound
	}
	return l, m.events[l.EventID], nil
}

func (m memLayouts) FindByUserID(_ context.Context, userID uint) ([]domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Layout{}
	for id := range m.layouts {
		if l, ok := m.owned(id, userID); ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m memLayouts) FindByEventID(_ context.Context, eventID, userID uint) ([]domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok || e.UserID != userID {
		return nil, repository.ErrEventNotFound
	}
	out := []domain.Layout{}
	for _, l := range m.layouts {
		if l.EventID == eventID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m memLayouts) Update(_ context.Context, id, userID uint, mutate func(*domain.Layout) error) (domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.owned(id, userID)
	if !ok {
		return domain.Layout{}, repository.ErrLayoutNotFound
	}
	if err := mutate(&l); err != nil {
		return domain.Layout{}, err
	}
	l.UpdatedAt = m.stamp(l.UpdatedAt)
	m.layouts[id] = l
	return l, nil
}

func (m memLayouts) Delete(_ context.Context, id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owned(id, userID); !ok {
		return repository.ErrLayoutNotFound
	}
	delete(m.layouts, id)
	return nil
}

type memElements struct{ *memStore }

func (m memElements) Create(_ context.Context, element domain.CustomElement) (domain.CustomElement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	element.ID = m.id()
	element.CreatedAt = time.Now().UTC()
	element.UpdatedAt = element.CreatedAt
	m.elements[element.ID] = element
	return element, nil
}

func (m memElements) FindByUserID(_ context.Context, userID uint, search string) ([]domain.CustomElement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.CustomElement{}
	for _, c := range m.elements {
		if c.UserID != userID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m memElements) FindOwned(_ context.Context, id, userID uint) (domain.CustomElement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.elements[id]
	if !ok || c.UserID != userID {
		return domain.CustomElement{}, repository.ErrElementNotFound
	}
	return c, nil
}

func (m memElements) Update(_ context.Context, id, userID uint, mutate func(*domain.CustomElement) error) (domain.CustomElement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.elements[id]
	if !ok || c.UserID != userID {
		return domain.CustomElement{}, repository.ErrElementNotFound
	}
	if err := mutate(&c); err != nil {
		return domain.CustomElement{}, err
	}
	c.UpdatedAt = m.stamp(c.UpdatedAt)
	m.elements[id] = c
	return c, nil
}

func (m memElements) RecordUse(_ context.Context, id, userID uint, at time.Time) (domain.CustomElement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.elements[id]
	if !ok || c.UserID != userID {
		return domain.CustomElement{}, repository.ErrElementNotFound
	}
	c.UsageCount++
	c.LastUsedAt = &at
	m.elements[id] = c
	return c, nil
}

func (m memElements) Delete(_ context.Context, id, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.elements[id]
	if !ok || c.UserID != userID {
		return repository.ErrElementNotFound
	}
	delete(m.elements, id)
	return nil
}
