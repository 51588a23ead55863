package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placehub/internal/cache"
	"placehub/internal/errors"
	"placehub/internal/model"
	"placehub/internal/repository"
	"placehub/internal/storage"
)

const (
	placeCacheTTL     = 5 * time.Minute
	minDescriptionLen = 5
)

// Geocoder resolves a postal address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (model.Location, error)
}

// CreatePlaceInput carries the validated fields of a create request.
// Location is never part of the input; it is derived from Address.
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	CreatorID   uuid.UUID
	ImageKey    string
}

// PlaceService coordinates place writes with the owning user's place list.
// Create and Delete mutate both records inside one transaction so a place
// never exists without its entry in the creator's list, or vice versa.
type PlaceService interface {
	GetPlace(ctx context.Context, id uuid.UUID) (*model.Place, error)
	ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error)
	CreatePlace(ctx context.Context, input CreatePlaceInput) (*model.Place, error)
	UpdatePlace(ctx context.Context, placeID, authUserID uuid.UUID, title, description string) (*model.Place, error)
	DeletePlace(ctx context.Context, placeID, authUserID uuid.UUID) error
}

type placeService struct {
	placeRepo repository.PlaceRepository
	userRepo  repository.UserRepository
	geocoder  Geocoder
	images    storage.ImageStore
	cache     *cache.Client
}

// NewPlaceService creates a new place service.
func NewPlaceService(
	placeRepo repository.PlaceRepository,
	userRepo repository.UserRepository,
	geocoder Geocoder,
	images storage.ImageStore,
	cache *cache.Client,
) PlaceService {
	return &placeService{
		placeRepo: placeRepo,
		userRepo:  userRepo,
		geocoder:  geocoder,
		images:    images,
		cache:     cache,
	}
}

func placeCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("place:%s", id.String())
}

func userPlacesCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_places:%s", userID.String())
}

// GetPlace retrieves a place by ID with caching.
func (s *placeService) GetPlace(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	var cached model.Place
	if s.cache.GetJSON(ctx, placeCacheKey(id), &cached) {
		return &cached, nil
	}

	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}

	s.cache.SetJSON(ctx, placeCacheKey(id), place, placeCacheTTL)
	return place, nil
}

// ListPlacesByUser returns the places in a user's list, oldest first.
// An existing user with no places yields an empty list, not an error.
func (s *placeService) ListPlacesByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error) {
	var cached []model.Place
	if s.cache.GetJSON(ctx, userPlacesCacheKey(userID), &cached) {
		return cached, nil
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	places, err := s.placeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}

	s.cache.SetJSON(ctx, userPlacesCacheKey(userID), places, placeCacheTTL)
	return places, nil
}

// CreatePlace validates input, geocodes the address, and inserts the place
// together with the creator's list entry in one transaction. A failure at
// any step leaves the store untouched.
func (s *placeService) CreatePlace(ctx context.Context, input CreatePlaceInput) (*model.Place, error) {
	// Validation happens before any I/O.
	var fields []string
	if strings.TrimSpace(input.Title) == "" {
		fields = append(fields, "title")
	}
	if len(strings.TrimSpace(input.Description)) < minDescriptionLen {
		fields = append(fields, "description")
	}
	if strings.TrimSpace(input.Address) == "" {
		fields = append(fields, "address")
	}
	if input.ImageKey == "" {
		fields = append(fields, "image")
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	location, err := s.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	creator, err := s.userRepo.FindByID(ctx, input.CreatorID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find creator: %w", err)
	}

	place := &model.Place{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    location,
		Image:       input.ImageKey,
		CreatorID:   creator.ID,
	}

	err = s.placeRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PlaceRepository) error {
		if err := txRepo.Create(ctx, place); err != nil {
			return err
		}
		return txRepo.AppendToUserPlaces(ctx, creator.ID, place)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCreateFailed, err)
	}

	_ = s.cache.Delete(ctx, userPlacesCacheKey(creator.ID))
	return place, nil
}

// UpdatePlace overwrites title and description only. Address, location,
// image, and creator are immutable after creation.
func (s *placeService) UpdatePlace(ctx context.Context, placeID, authUserID uuid.UUID, title, description string) (*model.Place, error) {
	var fields []string
	if strings.TrimSpace(title) == "" {
		fields = append(fields, "title")
	}
	if len(strings.TrimSpace(description)) < minDescriptionLen {
		fields = append(fields, "description")
	}
	if len(fields) > 0 {
		return nil, errors.NewValidationError(fields...)
	}

	place, err := s.placeRepo.FindByID(ctx, placeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("find place: %w", err)
	}

	if place.CreatorID != authUserID {
		return nil, errors.ErrNotOwner
	}

	place.Title = title
	place.Description = description

	if err := s.placeRepo.Save(ctx, place); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrUpdateFailed, err)
	}

	_ = s.cache.Delete(ctx, placeCacheKey(place.ID), userPlacesCacheKey(place.CreatorID))
	return place, nil
}

// DeletePlace removes the place and the creator's list entry in one
// transaction, then removes the stored image best-effort.
func (s *placeService) DeletePlace(ctx context.Context, placeID, authUserID uuid.UUID) error {
	place, err := s.placeRepo.FindByID(ctx, placeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrPlaceNotFound
		}
		return fmt.Errorf("find place: %w", err)
	}

	if place.CreatorID != authUserID {
		return errors.ErrNotOwner
	}

	err = s.placeRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PlaceRepository) error {
		if err := txRepo.RemoveFromUserPlaces(ctx, place.CreatorID, place); err != nil {
			return err
		}
		return txRepo.Delete(ctx, place.ID)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDeleteFailed, err)
	}

	// The delete is already committed; a leftover image must not fail it.
	if err := s.images.Remove(ctx, place.Image); err != nil {
		log.Printf("best-effort image cleanup failed for %s: %v", place.Image, err)
	}

	_ = s.cache.Delete(ctx, placeCacheKey(place.ID), userPlacesCacheKey(place.CreatorID))
	return nil
}
