package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/browsefilms/internal/models"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(ttl time.Duration) *Registry {
	logger, _ := test.NewNullLogger()
	return NewRegistry(ttl, logger)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestResolveStartsSession(t *testing.T) {
	r := newRegistry(time.Hour)

	rec := httptest.NewRecorder()
	id, store := r.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, store)
	cookie := sessionCookie(t, rec)
	assert.Equal(t, id, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, 1, r.Count())
}

func TestResolveReusesSession(t *testing.T) {
	r := newRegistry(time.Hour)

	rec := httptest.NewRecorder()
	id, store := r.Resolve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	store.Add(models.Movie{ID: 1})

	req := httptest.NewRequest(http.MethodGet, "/wishlist", nil)
	req.AddCookie(sessionCookie(t, rec))
	rec2 := httptest.NewRecorder()
	id2, store2 := r.Resolve(rec2, req)

	assert.Equal(t, id, id2)
	assert.Same(t, store, store2)
	assert.True(t, store2.Contains(1))

	// the cookie is re-issued so the browser expiry slides too
	renewed := sessionCookie(t, rec2)
	assert.Equal(t, id, renewed.Value)
	assert.Equal(t, 3600, renewed.MaxAge)
	assert.True(t, renewed.HttpOnly)
	assert.Equal(t, "/", renewed.Path)
}

func TestResolveRejectsUnknownOrMalformedCookie(t *testing.T) {
	r := newRegistry(time.Hour)

	for _, value := range []string{"not-a-uuid", "6f1c3c9e-4d6b-4c36-9d55-3c8f0d2b7a10"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
		rec := httptest.NewRecorder()

		id, _ := r.Resolve(rec, req)
		assert.NotEqual(t, value, id)
		assert.Equal(t, id, sessionCookie(t, rec).Value)
	}
	assert.Equal(t, 2, r.Count())
}

func TestSessionsAreIsolated(t *testing.T) {
	r := newRegistry(time.Hour)

	_, a := r.Resolve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	_, b := r.Resolve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	a.Add(models.Movie{ID: 7})

	assert.NotSame(t, a, b)
	assert.False(t, b.Contains(7))
}

func TestDeleteExpired(t *testing.T) {
	r := newRegistry(10 * time.Millisecond)
	id, _ := r.Resolve(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, 1, r.DeleteExpired())
	assert.Equal(t, 0, r.Count())
	_, ok := r.Lookup(id)
	assert.False(t, ok)
}

func TestMiddlewareAttachesStore(t *testing.T) {
	r := newRegistry(time.Hour)

	var got bool
	h := r.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = StoreFrom(req.Context()) != nil
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, got)
	assert.Nil(t, StoreFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
