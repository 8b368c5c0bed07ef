package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/browsefilms/internal/controllers"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/amaumene/browsefilms/internal/session"
	"github.com/amaumene/browsefilms/internal/views"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// WishlistHandler serves the wishlist page and its mutations
type WishlistHandler struct {
	ctrl     *controllers.WishlistController
	renderer *views.Renderer
	logger   *logrus.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(ctrl *controllers.WishlistController, renderer *views.Renderer, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		ctrl:     ctrl,
		renderer: renderer,
		logger:   logger,
	}
}

// WishlistResponse is the JSON view of a session's wishlist
type WishlistResponse struct {
	Count int                   `json:"count"`
	Items []models.WishlistItem `json:"items"`
}

// Page renders the wishlist page
func (h *WishlistHandler) Page(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	if store == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}

	page := views.WishlistPage{
		Header: header(r, store),
		Items:  store.Items(),
	}

	writeHTML(w, h.logger, "wishlist", func(w http.ResponseWriter) error {
		return h.renderer.Wishlist(w, page)
	})
}

// Toggle adds or removes the posted movie, then redirects back
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	if store == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	id, err := strconv.Atoi(r.PostForm.Get("id"))
	if err != nil || id <= 0 {
		h.logger.WithField("id", r.PostForm.Get("id")).Warn("Invalid movie id in toggle request")
		http.Error(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	movie := models.Movie{
		ID:         id,
		Title:      r.PostForm.Get("title"),
		Overview:   r.PostForm.Get("overview"),
		PosterPath: r.PostForm.Get("poster_path"),
	}
	h.ctrl.Toggle(store, movie)

	http.Redirect(w, r, returnTo(r.PostForm.Get("return_to"), "/movie/"+strconv.Itoa(id)), http.StatusSeeOther)
}

// Remove drops one movie from the wishlist
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	if store == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid movie id", http.StatusBadRequest)
		return
	}
	h.ctrl.Remove(store, id)

	http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
}

// Clear empties the wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	if store == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}

	h.ctrl.Clear(store)

	http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
}

// API returns the wishlist as JSON
func (h *WishlistHandler) API(w http.ResponseWriter, r *http.Request) {
	store := session.StoreFrom(r.Context())
	if store == nil {
		http.Error(w, "No session", http.StatusInternalServerError)
		return
	}

	snap := store.Snapshot()
	response := WishlistResponse{
		Count: snap.Len(),
		Items: snap.Items,
	}
	if response.Items == nil {
		response.Items = []models.WishlistItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode wishlist")
	}
}

// returnTo accepts only local absolute paths
func returnTo(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return fallback
	}
	return target
}
