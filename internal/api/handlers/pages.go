package handlers

import (
	"net/http"
	"strconv"

	"github.com/amaumene/browsefilms/internal/controllers"
	"github.com/amaumene/browsefilms/internal/session"
	"github.com/amaumene/browsefilms/internal/views"
	"github.com/amaumene/browsefilms/internal/wishlist"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// header builds the page header for the request's session
func header(r *http.Request, store *wishlist.Store) views.Header {
	h := views.Header{Path: r.URL.Path}
	if store != nil {
		h.WishlistCount = store.Len()
	}
	return h
}

func writeHTML(w http.ResponseWriter, logger *logrus.Logger, page string, render func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(w); err != nil {
		logger.WithError(err).WithField("page", page).Error("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// HomeHandler renders one section per category
type HomeHandler struct {
	browse   *controllers.BrowseController
	renderer *views.Renderer
	logger   *logrus.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(browse *controllers.BrowseController, renderer *views.Renderer, logger *logrus.Logger) *HomeHandler {
	return &HomeHandler{
		browse:   browse,
		renderer: renderer,
		logger:   logger,
	}
}

// ServeHTTP handles the home page
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	page := views.HomePage{
		Header:   header(r, store),
		Sections: h.browse.Home(r.Context()),
	}

	writeHTML(w, h.logger, "home", func(w http.ResponseWriter) error {
		return h.renderer.Home(w, page)
	})
}

// MovieHandler renders the detail page of one movie
type MovieHandler struct {
	browse   *controllers.BrowseController
	renderer *views.Renderer
	logger   *logrus.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(browse *controllers.BrowseController, renderer *views.Renderer, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		browse:   browse,
		renderer: renderer,
		logger:   logger,
	}
}

// ServeHTTP handles /movie/{id}
func (h *MovieHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	movieID := mux.Vars(r)["id"]
	store := session.StoreFrom(r.Context())

	detail := h.browse.Details(r.Context(), movieID)
	page := views.MoviePage{
		Header: header(r, store),
		Detail: detail,
	}
	if store != nil {
		if id, err := strconv.Atoi(movieID); err == nil {
			page.InWishlist = store.Contains(id)
		}
	}

	writeHTML(w, h.logger, "movie", func(w http.ResponseWriter) error {
		return h.renderer.Movie(w, page)
	})
}
