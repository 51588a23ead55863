package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placehub/internal/model"
)

// PlaceRepository defines place persistence operations, including the
// user_places back-reference rows that mirror Place.CreatorID.
type PlaceRepository interface {
	Create(ctx context.Context, place *model.Place) error
	Save(ctx context.Context, place *model.Place) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Place, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error)
	AppendToUserPlaces(ctx context.Context, userID uuid.UUID, place *model.Place) error
	RemoveFromUserPlaces(ctx context.Context, userID uuid.UUID, place *model.Place) error
	// WithTransaction runs fn against a repository bound to one transaction;
	// fn returning an error rolls back every write made through it.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PlaceRepository) error) error
}

type placeRepository struct {
	db *gorm.DB
}

// NewPlaceRepository creates a new place repository.
func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{db: db}
}

// Create inserts a new place document.
func (r *placeRepository) Create(ctx context.Context, place *model.Place) error {
	return r.db.WithContext(ctx).Create(place).Error
}

// Save persists changes to an existing place.
func (r *placeRepository) Save(ctx context.Context, place *model.Place) error {
	return r.db.WithContext(ctx).Save(place).Error
}

// FindByID finds a place by ID.
func (r *placeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Place, error) {
	var place model.Place
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&place).Error; err != nil {
		return nil, err
	}
	return &place, nil
}

// Delete removes a place row.
func (r *placeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Place{}).Error
}

// ListByUser returns the places referenced by a user's list, oldest first.
func (r *placeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Place, error) {
	var places []model.Place
	err := r.db.WithContext(ctx).
		Joins("JOIN user_places ON user_places.place_id = places.id").
		Where("user_places.user_id = ?", userID).
		Order("places.created_at").
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

// AppendToUserPlaces adds the place to the user's back-reference list.
func (r *placeRepository) AppendToUserPlaces(ctx context.Context, userID uuid.UUID, place *model.Place) error {
	user := model.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Places").Append(place)
}

// RemoveFromUserPlaces drops the place from the user's back-reference list.
// Only the join row is removed, never the place itself.
func (r *placeRepository) RemoveFromUserPlaces(ctx context.Context, userID uuid.UUID, place *model.Place) error {
	user := model.User{ID: userID}
	return r.db.WithContext(ctx).Model(&user).Association("Places").Delete(place)
}

// WithTransaction executes fn within a database transaction.
func (r *placeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PlaceRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &placeRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
