package models

import "time"

// Movie is the canonical local copy of a catalog movie, keyed by the
// externally assigned TMDB id. One row per tmdb id, ever.
type Movie struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TMDBID           int64      `gorm:"column:tmdb_id;uniqueIndex;not null" json:"tmdb_id"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Overview         string     `gorm:"type:text" json:"overview"`
	ReleaseDate      *time.Time `json:"release_date"`
	PosterPath       string     `gorm:"type:varchar(512)" json:"poster_path"`
	BackdropPath     string     `gorm:"type:varchar(512)" json:"backdrop_path"`
	VoteAverage      float64    `gorm:"default:0" json:"vote_average"`
	VoteCount        int        `gorm:"default:0" json:"vote_count"`
	Popularity       float64    `gorm:"default:0" json:"popularity"`
	Adult            bool       `gorm:"default:false" json:"adult"`
	OriginalLanguage string     `gorm:"type:varchar(10)" json:"original_language"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Genres []Genre `gorm:"many2many:movie_genres;" json:"genres,omitempty"`
}

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TMDBID    int64     `gorm:"column:tmdb_id;uniqueIndex;not null" json:"tmdb_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// MovieGenre is the join row. Declared explicitly so the unique pair
// constraint exists and find-or-create can target it.
type MovieGenre struct {
	MovieID   uint      `gorm:"primaryKey;autoIncrement:false" json:"movie_id"`
	GenreID   uint      `gorm:"primaryKey;autoIncrement:false" json:"genre_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FavoriteMovie links a user to a movie they favorited. Creating or
// deleting one triggers a recommendation recalculation job.
type FavoriteMovie struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorite_user_movie;not null" json:"user_id"`
	MovieID   uint      `gorm:"uniqueIndex:idx_favorite_user_movie;not null" json:"movie_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Movie Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}

// Recommendation is one AI-suggested movie for a user, with the model's
// one-line reason. The pipeline owns the whole set per user; GeneratedAt
// carries the favorites-snapshot time of the run that wrote the row so a
// slower, staler job cannot overwrite a fresher result.
type Recommendation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_recommendation_user_movie;not null" json:"user_id"`
	MovieID     uint      `gorm:"uniqueIndex:idx_recommendation_user_movie;not null" json:"movie_id"`
	Reason      string    `gorm:"type:text" json:"reason"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Movie Movie `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
}
