package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hostbuddy/api/internal/api/middleware"
	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/pkg/jwthelper"
	"github.com/hostbuddy/api/internal/service"
)

var testUser = domain.User{ID: 7, Name: "Host", Email: "host@example.com"}

// newTestRouter returns an engine that behaves as if user had passed the
// authenticator. A nil user leaves the context empty.
func newTestRouter(user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if user != nil {
		u := *user
		r.Use(func(ctx *gin.Context) {
			ctx.Set(middleware.ContextUserKey, u)
			ctx.Next()
		})
	}

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))

	return v
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	args := m.Called(ctx, name, email, password)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (domain.User, jwthelper.Token, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.User), args.Get(1).(jwthelper.Token), args.Error(2)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, user domain.User, patch domain.ProfilePatch) (domain.User, error) {
	args := m.Called(ctx, user, patch)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, user domain.User, currentPassword, newPassword string) error {
	return m.Called(ctx, user, currentPassword, newPassword).Error(0)
}

func (m *mockAuthService) DeleteAccount(ctx context.Context, user domain.User, password, confirmation string) error {
	return m.Called(ctx, user, password, confirmation).Error(0)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) Create(ctx context.Context, user domain.User, event domain.Event) (domain.Event, error) {
	args := m.Called(ctx, user, event)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) List(ctx context.Context, user domain.User) ([]domain.Event, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *mockEventService) Get(ctx context.Context, user domain.User, id uint) (domain.Event, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) Update(ctx context.Context, user domain.User, id uint, patch domain.EventPatch) (domain.Event, error) {
	args := m.Called(ctx, user, id, patch)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) Delete(ctx context.Context, user domain.User, id uint) error {
	return m.Called(ctx, user, id).Error(0)
}

func (m *mockEventService) AddImage(ctx context.Context, user domain.User, id uint, imageURL string) (domain.Event, error) {
	args := m.Called(ctx, user, id, imageURL)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *mockEventService) RemoveImage(ctx context.Context, user domain.User, id uint, index int) (domain.Event, error) {
	args := m.Called(ctx, user, id, index)
	return args.Get(0).(domain.Event), args.Error(1)
}

type mockLayoutService struct {
	mock.Mock
}

func (m *mockLayoutService) Create(ctx context.Context, user domain.User, layout domain.Layout) (domain.Layout, error) {
	args := m.Called(ctx, user, layout)
	return args.Get(0).(domain.Layout), args.Error(1)
}

func (m *mockLayoutService) List(ctx context.Context, user domain.User) ([]domain.Layout, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]domain.Layout), args.Error(1)
}

func (m *mockLayoutService) ListByEvent(ctx context.Context, user domain.User, eventID uint) ([]domain.Layout, error) {
	args := m.Called(ctx, user, eventID)
	return args.Get(0).([]domain.Layout), args.Error(1)
}

func (m *mockLayoutService) Get(ctx context.Context, user domain.User, id uint) (domain.Layout, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(domain.Layout), args.Error(1)
}

func (m *mockLayoutService) Update(ctx context.Context, user domain.User, id uint, patch domain.LayoutPatch) (domain.Layout, error) {
	args := m.Called(ctx, user, id, patch)
	return args.Get(0).(domain.Layout), args.Error(1)
}

func (m *mockLayoutService) Delete(ctx context.Context, user domain.User, id uint) error {
	return m.Called(ctx, user, id).Error(0)
}

func (m *mockLayoutService) Export(ctx context.Context, user domain.User, id uint) (domain.LayoutExport, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(domain.LayoutExport), args.Error(1)
}

type mockElementService struct {
	mock.Mock
}

func (m *mockElementService) Create(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error) {
	args := m.Called(ctx, user, element)
	return args.Get(0).(domain.CustomElement), args.Error(1)
}

func (m *mockElementService) CreateGroup(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error) {
	args := m.Called(ctx, user, element)
	return args.Get(0).(domain.CustomElement), args.Error(1)
}

func (m *mockElementService) List(ctx context.Context, user domain.User, search string) ([]domain.CustomElement, error) {
	args := m.Called(ctx, user, search)
	return args.Get(0).([]domain.CustomElement), args.Error(1)
}

func (m *mockElementService) Get(ctx context.Context, user domain.User, id uint) (domain.CustomElement, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(domain.CustomElement), args.Error(1)
}

func (m *mockElementService) Update(ctx context.Context, user domain.User, id uint, patch domain.ElementPatch) (domain.CustomElement, error) {
	args := m.Called(ctx, user, id, patch)
	return args.Get(0).(domain.CustomElement), args.Error(1)
}

func (m *mockElementService) Use(ctx context.Context, user domain.User, id uint) (domain.CustomElement, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(domain.CustomElement), args.Error(1)
}

func (m *mockElementService) Delete(ctx context.Context, user domain.User, id uint) error {
	return m.Called(ctx, user, id).Error(0)
}

type mockUploadService struct {
	mock.Mock
}

func (m *mockUploadService) Upload(ctx context.Context, user domain.User, files []service.UploadFile) ([]service.UploadedFile, error) {
	args := m.Called(ctx, user, files)
	uploaded, _ := args.Get(0).([]service.UploadedFile)
	return uploaded, args.Error(1)
}

func (m *mockUploadService) Delete(ctx context.Context, user domain.User, url string) error {
	return m.Called(ctx, user, url).Error(0)
}
