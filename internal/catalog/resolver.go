package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/yudhap/cinematch/internal/models"
)

const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// API is the slice of the catalog client the resolver depends on.
type API interface {
	SearchMovies(ctx context.Context, query string) (*SearchResponse, error)
	GetMovie(ctx context.Context, id int64) (*MovieDetail, error)
}

// Store is the persistence surface for materialization.
type Store interface {
	FindOrCreateGenre(ctx context.Context, genre *models.Genre) (*models.Genre, error)
	FindOrCreateMovie(ctx context.Context, movie *models.Movie) (*models.Movie, error)
	FindOrCreateMovieGenre(ctx context.Context, movieID, genreID uint) error
	FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error)
}

// Resolver maps catalog payloads into canonical Movie and Genre rows.
type Resolver struct {
	api   API
	store Store
}

func NewResolver(api API, store Store) *Resolver {
	return &Resolver{api: api, store: store}
}

// ResolveByID fetches full detail for a catalog id. Errors keep the
// client's taxonomy: common.ErrNotFound for unknown ids, UpstreamError
// otherwise.
func (r *Resolver) ResolveByID(ctx context.Context, tmdbID int64) (*MovieDetail, error) {
	return r.api.GetMovie(ctx, tmdbID)
}

// ResolveByTitle searches free-text and fetches detail of the top hit.
// A search with no hits returns nil, nil: AI-suggested titles are not
// guaranteed to exist in the catalog and a miss is not an error.
func (r *Resolver) ResolveByTitle(ctx context.Context, title string) (*MovieDetail, error) {
	page, err := r.api.SearchMovies(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, nil
	}
	return r.api.GetMovie(ctx, page.Results[0].ID)
}

// Materialize upserts the detail payload: each genre by tmdb id, the movie
// by tmdb id, then every (movie, genre) join pair. Safe to call
// concurrently for the same catalog id, the unique constraints plus
// find-or-create semantics make duplicates impossible without any lock.
func (r *Resolver) Materialize(ctx context.Context, detail *MovieDetail) (*models.Movie, []models.Genre, error) {
	genres := make([]models.Genre, 0, len(detail.Genres))
	for _, g := range detail.Genres {
		created, err := r.store.FindOrCreateGenre(ctx, &models.Genre{
			TMDBID: g.ID,
			Name:   g.Name,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("materialize genre %d: %w", g.ID, err)
		}
		genres = append(genres, *created)
	}

	movie, err := r.store.FindOrCreateMovie(ctx, movieFromDetail(detail))
	if err != nil {
		return nil, nil, fmt.Errorf("materialize movie %d: %w", detail.ID, err)
	}

	for _, g := range genres {
		if err := r.store.FindOrCreateMovieGenre(ctx, movie.ID, g.ID); err != nil {
			return nil, nil, fmt.Errorf("materialize movie genre (%d,%d): %w", movie.ID, g.ID, err)
		}
	}

	return movie, genres, nil
}

func movieFromDetail(detail *MovieDetail) *models.Movie {
	movie := &models.Movie{
		TMDBID:           detail.ID,
		Title:            detail.Title,
		Overview:         detail.Overview,
		VoteAverage:      detail.VoteAverage,
		VoteCount:        detail.VoteCount,
		Popularity:       detail.Popularity,
		Adult:            detail.Adult,
		OriginalLanguage: detail.OriginalLanguage,
	}
	if detail.PosterPath != "" {
		movie.PosterPath = imageBaseURL + detail.PosterPath
	}
	if detail.BackdropPath != "" {
		movie.BackdropPath = imageBaseURL + detail.BackdropPath
	}
	if t, err := time.Parse("2006-01-02", detail.ReleaseDate); err == nil {
		movie.ReleaseDate = &t
	}
	return movie
}
