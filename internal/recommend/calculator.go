package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yudhap/cinematch/common"
	"github.com/yudhap/cinematch/internal/ai"
	"github.com/yudhap/cinematch/internal/logger"
	"github.com/yudhap/cinematch/internal/models"
)

// MaterializedRecommendation pairs a canonical movie row with the model's
// reason for suggesting it.
type MaterializedRecommendation struct {
	Movie  models.Movie
	Reason string
}

// Calculator runs the pipeline's core algorithm: favorites snapshot →
// prompt → completion call → per-title catalog resolution → atomic
// replacement of the user's recommendation set.
type Calculator struct {
	favorites FavoriteStore
	recs      RecommendationStore
	resolver  MovieResolver
	suggester Suggester
}

func NewCalculator(favorites FavoriteStore, recs RecommendationStore, resolver MovieResolver, suggester Suggester) *Calculator {
	return &Calculator{
		favorites: favorites,
		recs:      recs,
		resolver:  resolver,
		suggester: suggester,
	}
}

func buildPrompt(titles []string) string {
	if len(titles) == 0 {
		return "Generate a movie recommendation list of 5-15 broadly popular movie titles. " +
			"For each title give a one-line reason why it is worth watching."
	}
	return fmt.Sprintf(
		"Generate a movie recommendation list of 5-15 movie titles that are similar to the following: %s. "+
			"For each title give a one-line reason why it is similar.",
		strings.Join(titles, ", "),
	)
}

// Calculate recomputes the recommendation set for userID.
//
// Collaborator failure semantics: a malformed completion response is
// swallowed (warn log, existing recommendations untouched); a catalog miss
// for an individual suggested title is skipped; every other upstream or
// persistence error propagates so the queue's retry policy redelivers the
// job.
func (c *Calculator) Calculate(ctx context.Context, userID uint) ([]MaterializedRecommendation, error) {
	snapshot := time.Now().UTC()

	favorites, err := c.favorites.ListWithMovies(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	titles := make([]string, 0, len(favorites))
	for _, fav := range favorites {
		titles = append(titles, fav.Movie.Title)
	}

	logger.WithFields(map[string]interface{}{
		"userId":      userID,
		"movieTitles": titles,
	}).Info("calculateRecommendations: starting with user's favorite movie references")

	suggestions, err := c.suggester.Suggest(ctx, buildPrompt(titles))
	if err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			logger.WithField("userId", userID).
				Warn("calculateRecommendations: no parseable recommendations received from AI")
			return nil, nil
		}
		return nil, fmt.Errorf("completion call: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"userId":      userID,
		"suggestions": len(suggestions),
	}).Info("calculateRecommendations: received AI movie recommendations")

	materialized := make([]MaterializedRecommendation, 0, len(suggestions))
	for _, suggestion := range suggestions {
		detail, err := c.resolver.ResolveByTitle(ctx, suggestion.Title)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				// catalog inconsistency between search and detail
				logger.WithFields(map[string]interface{}{
					"userId": userID,
					"title":  suggestion.Title,
				}).Debug("calculateRecommendations: catalog dropped searched id, skipping")
				continue
			}
			return nil, fmt.Errorf("resolve %q: %w", suggestion.Title, err)
		}
		if detail == nil {
			logger.WithFields(map[string]interface{}{
				"userId": userID,
				"title":  suggestion.Title,
			}).Debug("calculateRecommendations: no catalog match, skipping suggestion")
			continue
		}

		movie, _, err := c.resolver.Materialize(ctx, detail)
		if err != nil {
			return nil, fmt.Errorf("materialize %q: %w", suggestion.Title, err)
		}

		materialized = append(materialized, MaterializedRecommendation{
			Movie:  *movie,
			Reason: suggestion.Reason,
		})
	}

	if len(materialized) == 0 {
		// A transient AI or catalog outage must not silently empty a
		// user's list, so an all-miss run keeps the stored set.
		logger.WithField("userId", userID).
			Warn("calculateRecommendations: no suggestions resolved, keeping existing set")
		return nil, nil
	}

	recs := make([]models.Recommendation, 0, len(materialized))
	for _, m := range materialized {
		recs = append(recs, models.Recommendation{
			MovieID: m.Movie.ID,
			Reason:  m.Reason,
		})
	}

	if err := c.recs.ReplaceForUser(ctx, userID, recs, snapshot); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"userId":              userID,
		"recommendationCount": len(materialized),
	}).Info("calculateRecommendations: successfully completed recommendation generation")

	return materialized, nil
}
