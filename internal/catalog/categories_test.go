package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amaumene/browsefilms/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOrder(t *testing.T) {
	all := Default().All()
	require.Len(t, all, 3)
	assert.Equal(t, "western", all[0].ID)
	assert.Equal(t, "documentary", all[1].ID)
	assert.Equal(t, "science_fiction", all[2].ID)
	assert.Equal(t, "#ffaa17ff", all[0].Theme.Color)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	content := `categories:
  - id: horror
    name: Horror
    genre_id: 27
    theme:
      color: "#ff0000"
      font: Georgia
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	c, err := Load(path)
	require.NoError(t, err)

	cat, ok := c.ByID("horror")
	require.True(t, ok)
	assert.Equal(t, 27, cat.GenreID)
	assert.Equal(t, "Georgia", cat.Theme.Font)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := map[string]string{
		"empty":                     "categories: []\n",
		"duplicate id":              "categories:\n  - {id: a, name: A, genre_id: 1}\n  - {id: a, name: B, genre_id: 2}\n",
		"missing id":                "categories:\n  - {name: A, genre_id: 1}\n",
		"bad genre":                 "categories:\n  - {id: a, name: A, genre_id: 0}\n",
		"not yaml":                  "categories: [",
		"color breaks out of style": "categories:\n  - {id: a, name: A, genre_id: 1, theme: {color: \"red; background: url(x)\"}}\n",
		"font with expression":      "categories:\n  - {id: a, name: A, genre_id: 1, theme: {font: \"expression(alert(1))\"}}\n",
		"font with quote":           "categories:\n  - {id: a, name: A, genre_id: 1, theme: {font: \"x\\\" onclick=\"}}\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "categories.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestNewAcceptsThemes(t *testing.T) {
	for _, theme := range []models.CategoryTheme{
		{},
		{Color: "#0984e3", Font: "var(--font-science-fiction)"},
		{Color: "rebeccapurple", Font: "Georgia, serif"},
	} {
		_, err := New([]models.MovieCategory{{ID: "a", Name: "A", GenreID: 1, Theme: theme}})
		assert.NoError(t, err, "%+v", theme)
	}
}

func TestFindByGenre(t *testing.T) {
	c := Default()

	movie := &models.MovieDetails{Genres: []models.Genre{{ID: 18, Name: "Drama"}, {ID: 878, Name: "Science Fiction"}, {ID: 37, Name: "Western"}}}
	cat, ok := c.FindByGenre(movie)
	require.True(t, ok)
	assert.Equal(t, "western", cat.ID, "display order wins over genre order")

	_, ok = c.FindByGenre(&models.MovieDetails{Genres: []models.Genre{{ID: 999, Name: "Unknown"}}})
	assert.False(t, ok)

	_, ok = c.FindByGenre(&models.MovieDetails{})
	assert.False(t, ok)

	_, ok = c.FindByGenre(nil)
	assert.False(t, ok)
}
