package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hostbuddy/api/internal/config"
	"github.com/hostbuddy/api/internal/db"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

// runWithPostgres starts a throwaway postgres container. Without a docker
// daemon the DAO tests are skipped rather than failed.
func runWithPostgres(m *testing.M) int {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, dao tests will be skipped: %v", err)
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=hostbuddy",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=hostbuddy_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("could not start postgres, dao tests will be skipped: %v", err)
		return m.Run()
	}
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Printf("could not purge postgres container: %v", err)
		}
	}()
	_ = resource.Expire(180)

	url := fmt.Sprintf("postgres://hostbuddy:secret@%s/hostbuddy_test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	err = pool.Retry(func() error {
		conn, err := db.OpenPostgresWithURL(url, &config.PostgresConfig{MaxOpenConns: 10, MaxIdleConns: 5})
		if err != nil {
			return err
		}
		if err = db.Ping(context.Background(), conn); err != nil {
			return err
		}
		testDB = conn
		return nil
	})
	if err != nil {
		log.Printf("postgres never became ready: %v", err)
		return 1
	}

	return m.Run()
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testDB == nil {
		t.Skip("postgres container not available")
	}

	require.NoError(t, dropAllTables(testDB))
	require.NoError(t, InitTables(testDB))

	return testDB
}

func TestOpenPostgresWithURL_SizesPool(t *testing.T) {
	conn := setupDB(t)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func seedUser(t *testing.T, d *UserDAO, email string) User {
	t.Helper()

	user, err := d.Insert(context.Background(), User{Name: "Host", Email: email, PasswordHash: "digest"})
	require.NoError(t, err)

	return user
}

func TestUserDAO_Insert(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(conn)

	created := seedUser(t, users, "a@x.com")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err := users.Insert(ctx, User{Name: "Other", Email: "a@x.com", PasswordHash: "digest"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	found, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = users.FindByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDAO_InsertConcurrentSameEmail(t *testing.T) {
	conn := setupDB(t)
	users := NewUserDAO(conn)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.Insert(context.Background(), User{Name: "Race", Email: "race@x.com", PasswordHash: "digest"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrUserEmailExists):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 7, conflicts)
}

func TestUserDAO_UpdateProfile(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users := NewUserDAO(conn)

	alice := seedUser(t, users, "alice@x.com")
	seedUser(t, users, "bob@x.com")

	_, err := users.UpdateProfile(ctx, alice.ID, "Alice", "bob@x.com")
	assert.ErrorIs(t, err, ErrUserEmailExists)

	updated, err := users.UpdateProfile(ctx, alice.ID, "Alice", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.True(t, updated.UpdatedAt.After(alice.UpdatedAt))

	_, err = users.UpdateProfile(ctx, alice.ID+100, "Ghost", "ghost@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserDAO_DeleteCascades(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users, events, layouts, elements := NewUserDAO(conn), NewEventDAO(conn), NewLayoutDAO(conn), NewElementDAO(conn)

	owner := seedUser(t, users, "owner@x.com")
	other := seedUser(t, users, "other@x.com")

	event, err := events.Insert(ctx, Event{UserID: owner.ID, Title: "Party"})
	require.NoError(t, err)
	_, err = layouts.Insert(ctx, owner.ID, Layout{EventID: event.ID, Name: "Floor"})
	require.NoError(t, err)
	_, err = elements.Insert(ctx, UserElement{UserID: owner.ID, Name: "Table"})
	require.NoError(t, err)

	otherEvent, err := events.Insert(ctx, Event{UserID: other.ID, Title: "Other"})
	require.NoError(t, err)
	_, err = layouts.Insert(ctx, other.ID, Layout{EventID: otherEvent.ID, Name: "Kept"})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, owner.ID))

	var count int64
	require.NoError(t, conn.Model(&Event{}).Where("user_id = ?", owner.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&Layout{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, conn.Model(&UserElement{}).Where("user_id = ?", owner.ID).Count(&count).Error)
	assert.Zero(t, count)

	kept, err := layouts.FindByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, users.Delete(ctx, owner.ID), ErrUserNotFound)
}

func TestEventDAO_Ownership(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users, events := NewUserDAO(conn), NewEventDAO(conn)

	owner := seedUser(t, users, "owner@x.com")
	stranger := seedUser(t, users, "stranger@x.com")

	start := datatypes.Date(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	at := datatypes.NewTime(18, 30, 0, 0)
	event, err := events.Insert(ctx, Event{UserID: owner.ID, Title: "Party", StartDate: &start, StartTime: &at})
	require.NoError(t, err)
	assert.NotNil(t, event.Images)

	found, err := events.FindOwned(ctx, event.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Party", found.Title)
	require.NotNil(t, found.StartDate)
	assert.Equal(t, "2025-06-01", time.Time(*found.StartDate).Format("2006-01-02"))
	require.NotNil(t, found.StartTime)
	assert.Equal(t, "18:30:00", found.StartTime.String())

	_, err = events.FindOwned(ctx, event.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = events.Update(ctx, event.ID, stranger.ID, func(e *Event) error {
		e.Title = "Hijacked"
		return nil
	})
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, events.Delete(ctx, event.ID, stranger.ID), ErrEventNotFound)

	list, err := events.FindByUserID(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEventDAO_Update(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users, events := NewUserDAO(conn), NewEventDAO(conn)

	owner := seedUser(t, users, "owner@x.com")
	event, err := events.Insert(ctx, Event{UserID: owner.ID, Title: "Party", Images: datatypes.JSONSlice[string]{"u1", "u2"}})
	require.NoError(t, err)

	updated, err := events.Update(ctx, event.ID, owner.ID, func(e *Event) error {
		e.Images = append(e.Images[:0:0], e.Images[1:]...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, datatypes.JSONSlice[string]{"u2"}, updated.Images)
	assert.True(t, updated.UpdatedAt.After(event.UpdatedAt))

	again, err := events.Update(ctx, event.ID, owner.ID, func(e *Event) error { return nil })
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))

	rejected := fmt.Errorf("rejected")
	_, err = events.Update(ctx, event.ID, owner.ID, func(e *Event) error {
		e.Title = "Changed"
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	found, err := events.FindOwned(ctx, event.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Party", found.Title)
}

func TestEventDAO_DeleteRemovesLayouts(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users, events, layouts := NewUserDAO(conn), NewEventDAO(conn), NewLayoutDAO(conn)

	owner := seedUser(t, users, "owner@x.com")
	event, err := events.Insert(ctx, Event{UserID: owner.ID, Title: "Party"})
	require.NoError(t, err)
	layout, err := layouts.Insert(ctx, owner.ID, Layout{EventID: event.ID, Name: "Floor"})
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, event.ID, owner.ID))

	_, err = layouts.FindOwned(ctx, layout.ID, owner.ID)
	assert.ErrorIs(t, err, ErrLayoutNotFound)
}

func TestLayoutDAO(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users, events, layouts := NewUserDAO(conn), NewEventDAO(conn), NewLayoutDAO(conn)

	owner := seedUser(t, users, "owner@x.com")
	stranger := seedUser(t, users, "stranger@x.com")
	event, err := events.Insert(ctx, Event{UserID: owner.ID, Title: "Party"})
	require.NoError(t, err)

	_, err = layouts.Insert(ctx, stranger.ID, Layout{EventID: event.ID, Name: "Sneaky"})
	assert.ErrorIs(t, err, ErrEventNotFound)

	layout, err := layouts.Insert(ctx, owner.ID, Layout{
		EventID:  event.ID,
		Name:     "Floor",
		Document: datatypes.JSONMap{"elements": []any{map[string]any{"type": "table"}}},
	})
	require.NoError(t, err)

	found, err := layouts.FindOwned(ctx, layout.ID, owner.ID)
	require.NoError(t, err)
	elements, ok := found.Document["elements"].([]any)
	require.True(t, ok)
	assert.Len(t, elements, 1)

	_, err = layouts.FindOwned(ctx, layout.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrLayoutNotFound)

	byEvent, err := layouts.FindByEventID(ctx, event.ID, owner.ID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)

	_, err = layouts.FindByEventID(ctx, event.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	updated, err := layouts.Update(ctx, layout.ID, owner.ID, func(l *Layout) error {
		l.Name = "Garden"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Garden", updated.Name)
	assert.True(t, updated.UpdatedAt.After(layout.UpdatedAt))

	withLayout, withEvent, err := layouts.FindOwnedWithEvent(ctx, layout.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden", withLayout.Name)
	assert.Equal(t, "Party", withEvent.Title)

	assert.ErrorIs(t, layouts.Delete(ctx, layout.ID, stranger.ID), ErrLayoutNotFound)
	require.NoError(t, layouts.Delete(ctx, layout.ID, owner.ID))
	assert.ErrorIs(t, layouts.Delete(ctx, layout.ID, owner.ID), ErrLayoutNotFound)
}

func TestElementDAO(t *testing.T) {
	conn := setupDB(t)
	ctx := context.Background()
	users, elements := NewUserDAO(conn), NewElementDAO(conn)

	owner := seedUser(t, users, "owner@x.com")
	stranger := seedUser(t, users, "stranger@x.com")

	round, err := elements.Insert(ctx, UserElement{UserID: owner.ID, Name: "Round Table", ElementData: datatypes.JSONMap{"seats": 8}})
	require.NoError(t, err)
	_, err = elements.Insert(ctx, UserElement{UserID: owner.ID, Name: "100%_Stage"})
	require.NoError(t, err)

	matches, err := elements.FindByUserID(ctx, owner.ID, "table")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, round.ID, matches[0].ID)
	assert.Equal(t, "8", fmt.Sprint(matches[0].ElementData["seats"]))

	literal, err := elements.FindByUserID(ctx, owner.ID, "%_")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "100%_Stage", literal[0].Name)

	all, err := elements.FindByUserID(ctx, owner.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = elements.FindOwned(ctx, round.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrElementNotFound)

	used, err := elements.IncrementUsage(ctx, round.ID, owner.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, used.UsageCount)
	assert.NotNil(t, used.LastUsedAt)
	assert.True(t, used.UpdatedAt.After(round.UpdatedAt))

	_, err = elements.IncrementUsage(ctx, round.ID, stranger.ID, time.Now().UTC())
	assert.ErrorIs(t, err, ErrElementNotFound)

	updated, err := elements.Update(ctx, round.ID, owner.ID, func(e *UserElement) error {
		e.Name = "Long Table"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Long Table", updated.Name)
	assert.Equal(t, 1, updated.UsageCount)

	assert.ErrorIs(t, elements.Delete(ctx, round.ID, stranger.ID), ErrElementNotFound)
	require.NoError(t, elements.Delete(ctx, round.ID, owner.ID))
}
