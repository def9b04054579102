package dto

// CreateFavoriteRequest adds a catalog movie to the caller's favorites.
// The movie is materialized locally first if this is the first time anyone
// references it.
type CreateFavoriteRequest struct {
	TMDBID int64 `json:"tmdbId" validate:"required,gt=0"`
}

type FavoriteResponse struct {
	ID      uint          `json:"id"`
	UserID  uint          `json:"user_id"`
	MovieID uint          `json:"movie_id"`
	Movie   MovieResponse `json:"movie"`
}

type MovieResponse struct {
	ID          uint     `json:"id"`
	TMDBID      int64    `json:"tmdb_id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview,omitempty"`
	PosterPath  string   `json:"poster_path,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

type RecommendationResponse struct {
	MovieID uint          `json:"movie_id"`
	Reason  string        `json:"reason"`
	Movie   MovieResponse `json:"movie"`
}
