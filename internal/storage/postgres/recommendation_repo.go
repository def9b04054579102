package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
	"gorm.io/gorm"
)

type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// ReplaceForUser atomically swaps the user's recommendation set.
//
// generatedAt is the favorites-snapshot time of the run producing recs.
// If a concurrent job has already committed a fresher set (any existing
// row with a newer generatedAt), the whole replace is a logged no-op so a
// slow job cannot overwrite newer results with stale ones. Duplicate
// movies within one run collapse onto the (userID, movieID) unique pair.
func (r *RecommendationRepository) ReplaceForUser(ctx context.Context, userID uint, recs []models.Recommendation, generatedAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var newest sql.NullTime
		row := tx.Model(&models.Recommendation{}).
			Where("user_id = ?", userID).
			Select("MAX(generated_at)").
			Row()
		if err := row.Scan(&newest); err != nil {
			return fmt.Errorf("read newest generation: %w", err)
		}

		if newest.Valid && newest.Time.After(generatedAt) {
			logger.WithFields(map[string]interface{}{
				"userId":      userID,
				"generatedAt": generatedAt,
				"newest":      newest.Time,
			}).Warn("Skipping stale recommendation replace")
			return nil
		}

		if err := tx.Where("user_id = ?", userID).
			Delete(&models.Recommendation{}).Error; err != nil {
			return fmt.Errorf("delete prior recommendations: %w", err)
		}

		seen := make(map[uint]bool, len(recs))
		for i := range recs {
			rec := recs[i]
			if seen[rec.MovieID] {
				continue
			}
			seen[rec.MovieID] = true

			rec.UserID = userID
			rec.GeneratedAt = generatedAt
			if err := tx.Create(&rec).Error; err != nil {
				if isUniqueViolation(err) {
					continue
				}
				return fmt.Errorf("insert recommendation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace recommendations for user %d: %w", userID, err)
	}
	return nil
}

// ListForUser returns the user's current set with movie rows preloaded.
// Order carries no ranking meaning.
func (r *RecommendationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	if err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Movie.Genres").
		Where("user_id = ?", userID).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}
