// Package views renders the HTML pages from embedded templates
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/amaumene/browsefilms/internal/controllers"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/amaumene/browsefilms/internal/services/tmdb"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// PosterSize is the TMDB image size used for posters and backdrops
const PosterSize = "w500"

// Header is the state the page header renders
type Header struct {
	Path          string
	WishlistCount int
}

// HomePage lists one section per category
type HomePage struct {
	Header   Header
	Sections []controllers.CategorySection
}

// MoviePage shows one movie
type MoviePage struct {
	Header     Header
	Detail     controllers.MovieDetail
	InWishlist bool
}

// WishlistPage shows the saved movies
type WishlistPage struct {
	Header Header
	Items  []models.WishlistItem
}

// Renderer executes the page templates
type Renderer struct {
	home     *template.Template
	movie    *template.Template
	wishlist *template.Template
}

// NewRenderer parses the embedded templates. Image URLs are built against
// imageBaseURL.
func NewRenderer(imageBaseURL string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"poster": func(path string) string {
			return tmdb.ImageURL(imageBaseURL, path, PosterSize)
		},
		"themeStyle": func(theme models.CategoryTheme) template.CSS {
			// catalog.New restricts themes to safe values
			return template.CSS(fmt.Sprintf("font-family: %s; color: %s", theme.Font, theme.Color))
		},
		"year":    FormatYear,
		"runtime": FormatRuntime,
		"revenue": FormatRevenue,
	}

	page := func(name string) (*template.Template, error) {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return tmpl, nil
	}

	r := &Renderer{}
	var err error
	if r.home, err = page("home.html"); err != nil {
		return nil, err
	}
	if r.movie, err = page("movie.html"); err != nil {
		return nil, err
	}
	if r.wishlist, err = page("wishlist.html"); err != nil {
		return nil, err
	}
	return r, nil
}

const siteTitle = "Browse Films SSR"

// Title is the document title
func (p HomePage) Title() string { return siteTitle }

// Title is the document title
func (p MoviePage) Title() string {
	if d := p.Detail.State.Payload; d != nil && d.Title != "" {
		return d.Title + " | " + siteTitle
	}
	return siteTitle
}

// Title is the document title
func (p WishlistPage) Title() string { return "My Wishlist | " + siteTitle }

// Home renders the home page
func (r *Renderer) Home(w io.Writer, p HomePage) error {
	return render(w, r.home, p)
}

// Movie renders the movie detail page
func (r *Renderer) Movie(w io.Writer, p MoviePage) error {
	return render(w, r.movie, p)
}

// Wishlist renders the wishlist page
func (r *Renderer) Wishlist(w io.Writer, p WishlistPage) error {
	return render(w, r.wishlist, p)
}

// render executes into a buffer so a failing template never produces a
// partial page
func render(w io.Writer, tmpl *template.Template, page interface{}) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded scripts and stylesheets
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
