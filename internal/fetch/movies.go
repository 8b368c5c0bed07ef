package fetch

import (
	"context"
	"fmt"

	"github.com/amaumene/browsefilms/internal/catalog"
	"github.com/amaumene/browsefilms/internal/models"
)

// DetailsFallback is reported when a details load fails without a message
const DetailsFallback = "Failed to fetch movie details"

// Gateway is the remote movie data source
type Gateway interface {
	GetMoviesByCategory(ctx context.Context, category models.MovieCategory, page int) (*models.MoviePage, error)
	GetMovieDetails(ctx context.Context, movieID string) (*models.MovieDetails, error)
}

// CategoryResource loads the first page of movies for a category slug
type CategoryResource = Resource[string, []models.Movie]

// DetailsResource loads one movie's details by id
type DetailsResource = Resource[string, *models.MovieDetails]

// NewCategoryResource creates a resource keyed by category id. It starts in
// Loading until a key is supplied.
func NewCategoryResource(gw Gateway, categories *catalog.Catalog, opts ...Option) *CategoryResource {
	fetcher := func(ctx context.Context, slug string) ([]models.Movie, error) {
		category, ok := categories.ByID(slug)
		if !ok {
			return nil, fmt.Errorf("unknown category: %s", slug)
		}

		page, err := gw.GetMoviesByCategory(ctx, category, 1)
		if err != nil {
			return nil, err
		}
		if page == nil {
			return nil, nil
		}
		return page.Results, nil
	}

	opts = append([]Option{WithFallback(DefaultFallback), WithInitialLoading()}, opts...)
	return NewResource(fetcher, opts...)
}

// NewDetailsResource creates a resource keyed by movie id. A successful load
// may carry a nil payload when the movie does not exist.
func NewDetailsResource(gw Gateway, opts ...Option) *DetailsResource {
	fetcher := func(ctx context.Context, movieID string) (*models.MovieDetails, error) {
		return gw.GetMovieDetails(ctx, movieID)
	}

	opts = append([]Option{WithFallback(DetailsFallback)}, opts...)
	return NewResource(fetcher, opts...)
}
