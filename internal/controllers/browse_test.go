package controllers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/browsefilms/internal/catalog"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFetch = errors.New("Failed to fetch data from TMDB API")

type stubGateway struct {
	mu      sync.Mutex
	pages   map[int]*models.MoviePage // by genre id
	failing map[int]bool
	details map[string]*models.MovieDetails
	block   chan struct{}
}

func (g *stubGateway) GetMoviesByCategory(ctx context.Context, category models.MovieCategory, _ int) (*models.MoviePage, error) {
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return nil, errFetch
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failing[category.GenreID] {
		return nil, errFetch
	}
	return g.pages[category.GenreID], nil
}

func (g *stubGateway) GetMovieDetails(_ context.Context, movieID string) (*models.MovieDetails, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d, ok := g.details[movieID]; ok {
		return d, nil
	}
	if movieID == "500" {
		return nil, errFetch
	}
	return nil, nil
}

func newBrowse(gw *stubGateway) *BrowseController {
	logger, _ := test.NewNullLogger()
	return NewBrowseController(gw, catalog.Default(), 2, logger)
}

func TestHomeLoadsEveryCategoryInOrder(t *testing.T) {
	gw := &stubGateway{
		pages: map[int]*models.MoviePage{
			37:  {Results: []models.Movie{{ID: 1, Title: "The Good, The Bad and The Ugly"}}},
			99:  {Results: []models.Movie{}},
			878: {Results: []models.Movie{{ID: 3, Title: "Alien"}}},
		},
		failing: map[int]bool{99: true},
	}

	sections := newBrowse(gw).Home(context.Background())

	require.Len(t, sections, 3)
	assert.Equal(t, "western", sections[0].Category.ID)
	assert.Equal(t, "The Good, The Bad and The Ugly", sections[0].State.Payload[0].Title)

	assert.Equal(t, "documentary", sections[1].Category.ID)
	assert.Equal(t, "Failed to fetch data from TMDB API", sections[1].State.Err)

	assert.Equal(t, "science_fiction", sections[2].Category.ID)
	assert.False(t, sections[2].State.Loading)
	assert.Len(t, sections[2].State.Payload, 1)
}

func TestHomeReturnsLoadingSectionsWhenContextEnds(t *testing.T) {
	gw := &stubGateway{block: make(chan struct{})}
	defer close(gw.block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	sections := newBrowse(gw).Home(ctx)

	require.Len(t, sections, 3)
	for _, s := range sections {
		assert.True(t, s.State.Loading || s.State.Failed(), s.Category.ID)
	}
}

func TestDetailsResolvesCategory(t *testing.T) {
	gw := &stubGateway{details: map[string]*models.MovieDetails{
		"429": {
			Movie:  models.Movie{ID: 429, Title: "The Good, the Bad and the Ugly"},
			Genres: []models.Genre{{ID: 12, Name: "Adventure"}, {ID: 37, Name: "Western"}},
		},
		"13": {
			Movie:  models.Movie{ID: 13, Title: "Forrest Gump"},
			Genres: []models.Genre{{ID: 18, Name: "Drama"}},
		},
	}}
	c := newBrowse(gw)

	detail := c.Details(context.Background(), "429")
	require.NotNil(t, detail.State.Payload)
	assert.True(t, detail.HasCategory)
	assert.Equal(t, "western", detail.Category.ID)

	detail = c.Details(context.Background(), "13")
	require.NotNil(t, detail.State.Payload)
	assert.False(t, detail.HasCategory)
}

func TestDetailsMissingAndFailing(t *testing.T) {
	c := newBrowse(&stubGateway{})

	missing := c.Details(context.Background(), "404")
	assert.Nil(t, missing.State.Payload)
	assert.False(t, missing.State.Failed())
	assert.False(t, missing.HasCategory)

	failing := c.Details(context.Background(), "500")
	assert.Equal(t, "Failed to fetch data from TMDB API", failing.State.Err)
}
