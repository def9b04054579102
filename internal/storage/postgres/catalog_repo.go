package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/gorm"
)

// CatalogRepository persists canonical movie and genre rows. All writes are
// find-or-create against a unique key: concurrent jobs materializing the
// same catalog id race on the insert, the loser re-reads the winner's row.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// isUniqueViolation covers Postgres (SQLSTATE 23505), sqlite and the
// generic gorm duplicate error without importing driver-specific types.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func (r *CatalogRepository) FindOrCreateGenre(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	var existing models.Genre
	err := r.db.WithContext(ctx).
		Where("tmdb_id = ?", genre.TMDBID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find genre: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		if isUniqueViolation(err) {
			// another job won the insert race
			if ferr := r.db.WithContext(ctx).
				Where("tmdb_id = ?", genre.TMDBID).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}
	return genre, nil
}

func (r *CatalogRepository) FindOrCreateMovie(ctx context.Context, movie *models.Movie) (*models.Movie, error) {
	var existing models.Movie
	err := r.db.WithContext(ctx).
		Where("tmdb_id = ?", movie.TMDBID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find movie: %w", err)
	}

	// Omit the association so gorm does not create genres implicitly,
	// the join rows go through FindOrCreateMovieGenre.
	if err := r.db.WithContext(ctx).Omit("Genres").Create(movie).Error; err != nil {
		if isUniqueViolation(err) {
			if ferr := r.db.WithContext(ctx).
				Where("tmdb_id = ?", movie.TMDBID).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

func (r *CatalogRepository) FindOrCreateMovieGenre(ctx context.Context, movieID, genreID uint) error {
	var existing models.MovieGenre
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND genre_id = ?", movieID, genreID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find movie genre: %w", err)
	}

	link := models.MovieGenre{MovieID: movieID, GenreID: genreID}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create movie genre: %w", err)
	}
	return nil
}

// FindMovieByTMDBID returns nil, nil when the movie has not been
// materialized locally yet.
func (r *CatalogRepository) FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	var movie models.Movie
	err := r.db.WithContext(ctx).
		Where("tmdb_id = ?", tmdbID).
		First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie by tmdb id: %w", err)
	}
	return &movie, nil
}
