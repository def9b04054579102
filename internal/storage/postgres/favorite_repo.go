package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/gorm"
)

// ErrFavoriteExists maps the (user, movie) unique violation so the handler
// layer can answer with a conflict instead of a 500.
var ErrFavoriteExists = errors.New("favorite already exists")

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Create(ctx context.Context, fav *models.FavoriteMovie) error {
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrFavoriteExists
		}
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

// Delete removes a favorite owned by userID. Returns gorm.ErrRecordNotFound
// when no matching row exists.
func (r *FavoriteRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.FavoriteMovie{})
	if res.Error != nil {
		return fmt.Errorf("delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListWithMovies loads a user's favorites joined with their movie rows,
// the calculator only needs the titles but the API returns full movies.
func (r *FavoriteRepository) ListWithMovies(ctx context.Context, userID uint) ([]models.FavoriteMovie, error) {
	var favorites []models.FavoriteMovie
	if err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Movie.Genres").
		Where("user_id = ?", userID).
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}
