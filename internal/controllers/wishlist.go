package controllers

import (
	"github.com/amaumene/browsefilms/internal/metrics"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/amaumene/browsefilms/internal/wishlist"
	"github.com/sirupsen/logrus"
)

// WishlistController applies wishlist mutations and records them
type WishlistController struct {
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewWishlistController creates a new wishlist controller
func NewWishlistController(m *metrics.Metrics, logger *logrus.Logger) *WishlistController {
	return &WishlistController{
		metrics: m,
		logger:  logger,
	}
}

// Toggle adds the movie if absent and removes it otherwise. It returns
// whether the movie is saved afterwards.
func (c *WishlistController) Toggle(store *wishlist.Store, movie models.Movie) bool {
	saved := store.Toggle(movie)

	op := "remove"
	if saved {
		op = "add"
	}
	c.metrics.WishlistMutation(op)
	c.logger.WithFields(logrus.Fields{
		"movie_id": movie.ID,
		"op":       op,
		"count":    store.Len(),
	}).Debug("Wishlist toggled")

	return saved
}

// Remove drops the movie from the wishlist
func (c *WishlistController) Remove(store *wishlist.Store, movieID int) {
	if !store.Remove(movieID) {
		return
	}
	c.metrics.WishlistMutation("remove")
	c.logger.WithField("movie_id", movieID).Debug("Removed from wishlist")
}

// Clear empties the wishlist
func (c *WishlistController) Clear(store *wishlist.Store) {
	n := store.Clear()
	if n == 0 {
		return
	}
	c.metrics.WishlistMutation("clear")
	c.logger.WithField("removed", n).Debug("Wishlist cleared")
}
