package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"placehub/internal/auth"
	"placehub/internal/config"
	"placehub/internal/handler"
	"placehub/internal/model"
	"placehub/internal/service"
)

// stubPlaceService records whether the coordinator was reached; the gate
// tests only care about requests being stopped before this point.
type stubPlaceService struct {
	deleteCalled bool
	deleteUserID uuid.UUID
	updateCalled bool
}

func (s *stubPlaceService) GetPlace(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	return &model.Place{ID: id}, nil
}

func (s *stubPlaceService) ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error) {
	return []model.Place{}, nil
}

func (s *stubPlaceService) CreatePlace(ctx context.Context, input service.CreatePlaceInput) (*model.Place, error) {
	return &model.Place{Title: input.Title}, nil
}

func (s *stubPlaceService) UpdatePlace(ctx context.Context, placeID, authUserID uuid.UUID, title, description string) (*model.Place, error) {
	s.updateCalled = true
	return &model.Place{ID: placeID}, nil
}

func (s *stubPlaceService) DeletePlace(ctx context.Context, placeID, authUserID uuid.UUID) error {
	s.deleteCalled = true
	s.deleteUserID = authUserID
	return nil
}

type stubUserService struct{}

func (s *stubUserService) Signup(ctx context.Context, name, email, password, imageKey string) (*model.User, string, error) {
	return &model.User{Email: email}, "token", nil
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	return &model.User{Email: email}, "token", nil
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return []model.User{}, nil
}

type stubImageStore struct{}

func (s *stubImageStore) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	return "images/test.png", nil
}

func (s *stubImageStore) Remove(ctx context.Context, key string) error {
	return nil
}

func newTestRouter(t *testing.T, places *stubPlaceService) (*echo.Echo, *auth.JWTService) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret"}
	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	assert.NoError(t, err)

	images := &stubImageStore{}
	e := echo.New()
	Register(e, cfg, jwtService,
		handler.NewPlaceHandler(places, images),
		handler.NewUserHandler(&stubUserService{}, images),
	)
	return e, jwtService
}

func TestAuthGate_MissingHeader(t *testing.T) {
	places := &stubPlaceService{}
	e, _ := newTestRouter(t, places)

	req := httptest.NewRequest(http.MethodDelete, "/api/places/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication failed")
	assert.False(t, places.deleteCalled, "coordinator must not be invoked")
}

func TestAuthGate_InvalidToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not.a.token"},
		{"missing token segment", "Bearer"},
		{"wrong scheme", "Basic abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places := &stubPlaceService{}
			e, _ := newTestRouter(t, places)

			req := httptest.NewRequest(http.MethodDelete, "/api/places/"+uuid.New().String(), nil)
			req.Header.Set(echo.HeaderAuthorization, tt.header)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.False(t, places.deleteCalled)
		})
	}
}

func TestAuthGate_WrongSigningKey(t *testing.T) {
	places := &stubPlaceService{}
	e, _ := newTestRouter(t, places)

	otherService, err := auth.NewJWTService("some-other-secret")
	assert.NoError(t, err)
	token, err := otherService.IssueToken(uuid.New(), "max@example.com")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/places/"+uuid.New().String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication failed")
	assert.False(t, places.deleteCalled)
}

func TestAuthGate_ValidToken(t *testing.T) {
	places := &stubPlaceService{}
	e, jwtService := newTestRouter(t, places)

	userID := uuid.New()
	token, err := jwtService.IssueToken(userID, "max@example.com")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/places/"+uuid.New().String(), nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, places.deleteCalled)
	assert.Equal(t, userID, places.deleteUserID, "identity from the token reaches the coordinator")
}

func TestUpdatePlace_RejectsInvalidBody(t *testing.T) {
	places := &stubPlaceService{}
	e, jwtService := newTestRouter(t, places)

	token, err := jwtService.IssueToken(uuid.New(), "max@example.com")
	assert.NoError(t, err)

	body := strings.NewReader(`{"title":"Empire State Building","description":"abc"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/places/"+uuid.New().String(), body)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, places.updateCalled, "invalid input must be rejected before the service")
}

func TestAuthGate_PreflightPassesThrough(t *testing.T) {
	places := &stubPlaceService{}
	e, _ := newTestRouter(t, places)

	req := httptest.NewRequest(http.MethodOptions, "/api/places", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// Pre-flights never carry credentials and must not be rejected.
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	places := &stubPlaceService{}
	e, _ := newTestRouter(t, places)

	req := httptest.NewRequest(http.MethodGet, "/api/places/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
