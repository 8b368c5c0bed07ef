package controllers

import (
	"sync"
	"testing"

	"github.com/amaumene/browsefilms/internal/metrics"
	"github.com/amaumene/browsefilms/internal/models"
	"github.com/amaumene/browsefilms/internal/wishlist"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestWishlistControllerRecordsMutations(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := metrics.New()
	c := NewWishlistController(m, logger)
	store := wishlist.New()

	movie := models.Movie{ID: 1, Title: "Test Movie"}
	assert.True(t, c.Toggle(store, movie))
	assert.Equal(t, 1, store.Len())
	assert.False(t, c.Toggle(store, movie))
	assert.Equal(t, 0, store.Len())

	c.Toggle(store, movie)
	c.Toggle(store, models.Movie{ID: 2})
	c.Remove(store, 1)
	c.Remove(store, 99)
	c.Clear(store)
	c.Clear(store)

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 3, countOp(t, m, "add"))
	assert.Equal(t, 2, countOp(t, m, "remove"))
	assert.Equal(t, 1, countOp(t, m, "clear"))
}

func TestWishlistControllerConcurrentRemovesCountOnce(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := metrics.New()
	c := NewWishlistController(m, logger)
	store := wishlist.New()
	store.Add(models.Movie{ID: 7})
	store.Add(models.Movie{ID: 8})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Remove(store, 7)
		}()
		go func() {
			defer wg.Done()
			c.Clear(store)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, store.Len())
	removes := countOp(t, m, "remove")
	clears := countOp(t, m, "clear")
	// 7 goes either by remove or by the first clear, never both
	assert.LessOrEqual(t, removes, 1)
	assert.Equal(t, 1, clears)
}

func TestWishlistControllerWithoutMetrics(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := NewWishlistController(nil, logger)
	store := wishlist.New()

	c.Toggle(store, models.Movie{ID: 1})
	c.Clear(store)

	assert.Equal(t, 0, store.Len())
}

func countOp(t *testing.T, m *metrics.Metrics, op string) int {
	t.Helper()
	mf, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range mf {
		if f.GetName() != "browsefilms_wishlist_mutations_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "op" && l.GetValue() == op {
					return int(metric.GetCounter().GetValue())
				}
			}
		}
	}
	return 0
}
