package models

import "time"

// Genre is a TMDB genre reference attached to movie details
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the summary shape returned by TMDB listings
type Movie struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Overview   string `json:"overview"`
	PosterPath string `json:"poster_path"`
}

// MovieDetails is the full movie record returned by /movie/{id}
type MovieDetails struct {
	Movie

	Genres       []Genre `json:"genres"`
	Runtime      int     `json:"runtime"` // minutes
	Budget       int64   `json:"budget"`
	Revenue      int64   `json:"revenue"`
	Status       string  `json:"status"`
	Tagline      string  `json:"tagline"`
	Homepage     string  `json:"homepage"`
	ReleaseDate  string  `json:"release_date"` // YYYY-MM-DD
	VoteAverage  float64 `json:"vote_average"`
	BackdropPath string  `json:"backdrop_path"`
}

// HasGenre reports whether the movie is tagged with the given genre id
func (d *MovieDetails) HasGenre(genreID int) bool {
	for _, g := range d.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// MoviePage is one page of a paginated TMDB listing
type MoviePage struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// CategoryTheme holds the display styling of a category
type CategoryTheme struct {
	Color string `json:"color" yaml:"color"`
	Font  string `json:"font" yaml:"font"`
}

// MovieCategory maps a curated section of the home page to a TMDB genre filter
type MovieCategory struct {
	ID      string        `json:"id" yaml:"id"` // URL-safe slug, e.g. "science_fiction"
	Name    string        `json:"name" yaml:"name"`
	GenreID int           `json:"genre_id" yaml:"genre_id"`
	Theme   CategoryTheme `json:"theme" yaml:"theme"`
}

// WishlistItem is one saved movie. The same movie may appear more than once.
type WishlistItem struct {
	Movie   Movie     `json:"movie"`
	AddedAt time.Time `json:"added_at"`
}
