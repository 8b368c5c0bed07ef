package controllers

import (
	"context"

	"github.com/amaumene/browsefilms/internal/catalog"
	"github.com/amaumene/browsefilms/internal/fetch"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CategorySection is one category row of the home page
type CategorySection struct {
	Category models.MovieCategory
	State    fetch.State[[]models.Movie]
}

// MovieDetail is everything the detail page renders
type MovieDetail struct {
	ID          string
	State       fetch.State[*models.MovieDetails]
	Category    models.MovieCategory
	HasCategory bool
}

// BrowseController loads the data behind the browsing pages
type BrowseController struct {
	gateway     fetch.Gateway
	catalog     *catalog.Catalog
	concurrency int
	logger      *logrus.Logger
}

// NewBrowseController creates a new browse controller
func NewBrowseController(gateway fetch.Gateway, cat *catalog.Catalog, concurrency int, logger *logrus.Logger) *BrowseController {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BrowseController{
		gateway:     gateway,
		catalog:     cat,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Catalog returns the configured categories
func (c *BrowseController) Catalog() *catalog.Catalog {
	return c.catalog
}

// Home loads every category concurrently. A failing category only affects
// its own section. Sections still loading when ctx ends are returned in the
// loading state.
func (c *BrowseController) Home(ctx context.Context) []CategorySection {
	categories := c.catalog.All()
	sections := make([]CategorySection, len(categories))

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			res := fetch.NewCategoryResource(c.gateway, c.catalog, fetch.WithLogger(c.logger))
			st, err := res.Load(ctx, category.ID)
			if err != nil {
				c.logger.WithField("category", category.ID).Debug("Category still loading when request ended")
			}
			if st.Failed() {
				c.logger.WithFields(logrus.Fields{
					"category": category.ID,
					"error":    st.Err,
				}).Warn("Failed to load category")
			}

			sections[i] = CategorySection{Category: category, State: st}
			return nil
		})
	}
	_ = g.Wait()

	return sections
}

// Details loads one movie and resolves the category theming its title
func (c *BrowseController) Details(ctx context.Context, movieID string) MovieDetail {
	res := fetch.NewDetailsResource(c.gateway, fetch.WithLogger(c.logger))
	st, err := res.Load(ctx, movieID)
	if err != nil {
		c.logger.WithField("movie_id", movieID).Debug("Movie details still loading when request ended")
	}

	detail := MovieDetail{ID: movieID, State: st}
	if st.Failed() {
		c.logger.WithFields(logrus.Fields{
			"movie_id": movieID,
			"error":    st.Err,
		}).Warn("Failed to load movie details")
		return detail
	}

	if st.Payload != nil {
		detail.Category, detail.HasCategory = c.catalog.FindByGenre(st.Payload)
	}
	return detail
}
