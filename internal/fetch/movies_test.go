package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/amaumene/browsefilms/internal/catalog"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mockMovies = []models.Movie{
		{ID: 1, Title: "The Good, The Bad and The Ugly", Overview: "A bounty hunting scam joins two men", PosterPath: "/poster1.jpg"},
		{ID: 2, Title: "Django Unchained", Overview: "With the help of a German bounty hunter", PosterPath: "/poster2.jpg"},
	}
	errFetch = errors.New("Failed to fetch data from TMDB API")
)

type fakeGateway struct {
	page       *models.MoviePage
	details    *models.MovieDetails
	err        error
	categories []models.MovieCategory
	pages      []int
	movieIDs   []string
}

func (g *fakeGateway) GetMoviesByCategory(_ context.Context, category models.MovieCategory, page int) (*models.MoviePage, error) {
	g.categories = append(g.categories, category)
	g.pages = append(g.pages, page)
	return g.page, g.err
}

func (g *fakeGateway) GetMovieDetails(_ context.Context, movieID string) (*models.MovieDetails, error) {
	g.movieIDs = append(g.movieIDs, movieID)
	return g.details, g.err
}

func TestCategoryResourceLoadsFirstPage(t *testing.T) {
	gw := &fakeGateway{page: &models.MoviePage{Results: mockMovies, Page: 1, TotalPages: 10, TotalResults: 200}}
	r := NewCategoryResource(gw, catalog.Default())

	assert.True(t, r.State().Loading)

	st, err := r.Load(waitCtx(t), "western")
	require.NoError(t, err)

	assert.Equal(t, State[[]models.Movie]{Payload: mockMovies}, st)
	require.Len(t, gw.categories, 1)
	assert.Equal(t, 37, gw.categories[0].GenreID)
	assert.Equal(t, []int{1}, gw.pages)
}

func TestCategoryResourceFailure(t *testing.T) {
	gw := &fakeGateway{err: errFetch}
	r := NewCategoryResource(gw, catalog.Default())

	st, err := r.Load(waitCtx(t), "documentary")
	require.NoError(t, err)

	assert.Nil(t, st.Payload)
	assert.False(t, st.Loading)
	assert.Equal(t, "Failed to fetch data from TMDB API", st.Err)
}

func TestCategoryResourceUnknownSlug(t *testing.T) {
	gw := &fakeGateway{}
	r := NewCategoryResource(gw, catalog.Default())

	st, err := r.Load(waitCtx(t), "musical")
	require.NoError(t, err)

	assert.Equal(t, "unknown category: musical", st.Err)
	assert.Empty(t, gw.categories)
}

func TestDetailsResource(t *testing.T) {
	details := &models.MovieDetails{Movie: models.Movie{ID: 123, Title: "X"}}
	gw := &fakeGateway{details: details}
	r := NewDetailsResource(gw)

	assert.Equal(t, State[*models.MovieDetails]{}, r.State())

	st, err := r.Load(waitCtx(t), "123")
	require.NoError(t, err)

	assert.Equal(t, State[*models.MovieDetails]{Payload: details}, st)
	assert.Equal(t, []string{"123"}, gw.movieIDs)

	r.SetKey("")
	assert.Equal(t, State[*models.MovieDetails]{}, r.State())
	assert.Len(t, gw.movieIDs, 1)
}

func TestDetailsResourceNilPayloadIsSuccess(t *testing.T) {
	r := NewDetailsResource(&fakeGateway{})

	st, err := r.Load(waitCtx(t), "404")
	require.NoError(t, err)

	assert.Nil(t, st.Payload)
	assert.False(t, st.Failed())
}

func TestDetailsResourceFallback(t *testing.T) {
	r := NewDetailsResource(&fakeGateway{err: errors.New("")})

	st, err := r.Load(waitCtx(t), "1")
	require.NoError(t, err)
	assert.Equal(t, DetailsFallback, st.Err)
}
