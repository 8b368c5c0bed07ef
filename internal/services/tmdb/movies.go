package tmdb

import (
	"context"
	"net/url"
	"strconv"

	"github.com/amaumene/browsefilms/internal/models"
	"go.opentelemetry.io/otel/attribute"
)

// GetMoviesByCategory retrieves one page of movies for the category's genre
func (c *Client) GetMoviesByCategory(ctx context.Context, category models.MovieCategory, page int) (*models.MoviePage, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(category.GenreID))
	params.Set("page", strconv.Itoa(page))

	var result models.MoviePage
	if err := c.doRequest(ctx, "discover", "/discover/movie", params, &result,
		attribute.String("tmdb.category", category.ID),
		attribute.Int("tmdb.genre_id", category.GenreID),
		attribute.Int("tmdb.page", page),
	); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetMovieDetails retrieves the full record of one movie. A JSON null body
// yields a nil result without error.
func (c *Client) GetMovieDetails(ctx context.Context, movieID string) (*models.MovieDetails, error) {
	var result *models.MovieDetails
	if err := c.doRequest(ctx, "movie", "/movie/"+url.PathEscape(movieID), nil, &result,
		attribute.String("tmdb.movie_id", movieID),
	); err != nil {
		return nil, err
	}

	return result, nil
}
