package catalog

import (
	"fmt"
	"os"
	"regexp"

	"github.com/amaumene/browsefilms/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultCategories are the sections shown on the home page when no
// categories file is configured
var DefaultCategories = []models.MovieCategory{
	{
		ID:      "western",
		Name:    "Western",
		GenreID: 37,
		Theme:   models.CategoryTheme{Color: "#ffaa17ff", Font: "var(--font-western)"},
	},
	{
		ID:      "documentary",
		Name:    "Documentary",
		GenreID: 99,
		Theme:   models.CategoryTheme{Color: "#105615ff", Font: "var(--font-documentary)"},
	},
	{
		ID:      "science_fiction",
		Name:    "Science Fiction",
		GenreID: 878,
		Theme:   models.CategoryTheme{Color: "#0984e3", Font: "var(--font-science-fiction)"},
	},
}

// Catalog is the read-only, ordered list of configured categories
type Catalog struct {
	categories []models.MovieCategory
}

// Theme values are rendered into style attributes unescaped
var (
	themeColorPattern = regexp.MustCompile(`^(#[0-9A-Fa-f]{3,8}|[A-Za-z]+)$`)
	themeFontPattern  = regexp.MustCompile(`^(var\(--[A-Za-z0-9-]+\)|[A-Za-z0-9 ,-]+)$`)
)

// New builds a catalog, rejecting duplicate or empty ids and unsafe themes
func New(categories []models.MovieCategory) (*Catalog, error) {
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category %q has no id", c.Name)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		if c.GenreID <= 0 {
			return nil, fmt.Errorf("category %q has invalid genre id %d", c.ID, c.GenreID)
		}
		if c.Theme.Color != "" && !themeColorPattern.MatchString(c.Theme.Color) {
			return nil, fmt.Errorf("category %q has invalid theme color %q", c.ID, c.Theme.Color)
		}
		if c.Theme.Font != "" && !themeFontPattern.MatchString(c.Theme.Font) {
			return nil, fmt.Errorf("category %q has invalid theme font %q", c.ID, c.Theme.Font)
		}
		seen[c.ID] = true
	}

	cp := make([]models.MovieCategory, len(categories))
	copy(cp, categories)
	return &Catalog{categories: cp}, nil
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, _ := New(DefaultCategories)
	return c
}

type categoriesFile struct {
	Categories []models.MovieCategory `yaml:"categories"`
}

// Load reads categories from a YAML file.
// If the file doesn't exist the built-in categories are used.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}

	return New(file.Categories)
}

// All returns the categories in display order
func (c *Catalog) All() []models.MovieCategory {
	cp := make([]models.MovieCategory, len(c.categories))
	copy(cp, c.categories)
	return cp
}

// ByID looks up a category by slug
func (c *Catalog) ByID(id string) (models.MovieCategory, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.MovieCategory{}, false
}

// FindByGenre returns the first category (in display order) whose genre
// appears in the movie's genres
func (c *Catalog) FindByGenre(movie *models.MovieDetails) (models.MovieCategory, bool) {
	if movie == nil || len(movie.Genres) == 0 {
		return models.MovieCategory{}, false
	}
	for _, cat := range c.categories {
		if movie.HasGenre(cat.GenreID) {
			return cat, true
		}
	}
	return models.MovieCategory{}, false
}

// Len returns the number of categories
func (c *Catalog) Len() int {
	return len(c.categories)
}
