package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/repository/dao"
)

type fakeEventDAO struct {
	row      dao.Event
	inserted dao.Event
	err      error
}

func (f *fakeEventDAO) Insert(_ context.Context, event dao.Event) (dao.Event, error) {
	f.inserted = event
	event.ID = 7
	return event, f.err
}

func (f *fakeEventDAO) FindByUserID(context.Context, uint) ([]dao.Event, error) {
	return []dao.Event{f.row}, f.err
}

func (f *fakeEventDAO) FindOwned(context.Context, uint, uint) (dao.Event, error) {
	return f.row, f.err
}

func (f *fakeEventDAO) Update(_ context.Context, _, _ uint, mutate func(*dao.Event) error) (dao.Event, error) {
	if f.err != nil {
		return dao.Event{}, f.err
	}
	row := f.row
	if err := mutate(&row); err != nil {
		return dao.Event{}, err
	}
	return row, nil
}

func (f *fakeEventDAO) Delete(context.Context, uint, uint) error {
	return f.err
}

func TestEventRepository_CreateConvertsCivilTypes(t *testing.T) {
	fake := &fakeEventDAO{}
	repo := NewEventRepository(fake)

	start := domain.NewDate(2025, time.June, 1)
	at := domain.NewTimeOfDay(18, 30, 0)
	created, err := repo.Create(context.Background(), domain.Event{
		UserID:    3,
		Title:     "Party",
		StartDate: &start,
		StartTime: &at,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), created.ID)
	assert.Equal(t, datatypes.JSONSlice[string]{}, fake.inserted.Images)
	require.NotNil(t, fake.inserted.StartDate)
	assert.Equal(t, "2025-06-01", time.Time(*fake.inserted.StartDate).Format("2006-01-02"))
	require.NotNil(t, fake.inserted.StartTime)
	assert.Equal(t, "18:30:00", fake.inserted.StartTime.String())
	assert.Nil(t, fake.inserted.EndDate)

	require.NotNil(t, created.StartDate)
	assert.Equal(t, "2025-06-01", created.StartDate.String())
	require.NotNil(t, created.StartTime)
	assert.Equal(t, "18:30:00", created.StartTime.String())
	assert.Equal(t, []string{}, created.Images)
}

func TestEventRepository_UpdateKeepsIdentity(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeEventDAO{row: dao.Event{
		ID:        4,
		UserID:    3,
		Title:     "Party",
		Images:    datatypes.JSONSlice[string]{"u1", "u2"},
		CreatedAt: created,
		UpdatedAt: created,
	}}
	repo := NewEventRepository(fake)

	updated, err := repo.Update(context.Background(), 4, 3, func(e *domain.Event) error {
		e.ID = 99
		e.Title = "Garden Party"
		e.Images = e.Images[1:]
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, uint(4), updated.ID)
	assert.Equal(t, uint(3), updated.UserID)
	assert.Equal(t, "Garden Party", updated.Title)
	assert.Equal(t, []string{"u2"}, updated.Images)
	assert.Equal(t, created, updated.CreatedAt)
}

func TestEventRepository_WrapsSentinels(t *testing.T) {
	repo := NewEventRepository(&fakeEventDAO{err: dao.ErrEventNotFound})

	_, err := repo.FindOwned(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = repo.Update(context.Background(), 1, 1, func(*domain.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), 1, 1), ErrEventNotFound)
}

func TestEventRepository_UpdateMutateError(t *testing.T) {
	repo := NewEventRepository(&fakeEventDAO{row: dao.Event{ID: 1, UserID: 1}})
	rejected := errors.New("rejected")

	_, err := repo.Update(context.Background(), 1, 1, func(*domain.Event) error { return rejected })
	assert.ErrorIs(t, err, rejected)
}

type fakeElementDAO struct {
	ElementDAO
	row dao.UserElement
}

func (f *fakeElementDAO) FindOwned(context.Context, uint, uint) (dao.UserElement, error) {
	return f.row, nil
}

func TestElementRepository_NullDataBecomesEmptyDocument(t *testing.T) {
	repo := NewElementRepository(&fakeElementDAO{row: dao.UserElement{ID: 1, UserID: 2, Name: "Table"}})

	found, err := repo.FindOwned(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, found.Data)
	assert.Empty(t, found.Data)
}

func TestDocumentConversion(t *testing.T) {
	assert.Nil(t, documentToDAO(nil))
	assert.Nil(t, documentToDomain(nil))

	doc := domain.Document{"elements": []any{}}
	assert.Equal(t, datatypes.JSONMap{"elements": []any{}}, documentToDAO(doc))
}
