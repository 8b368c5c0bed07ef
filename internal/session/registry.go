// Package session maps browser sessions to their wishlist stores
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/amaumene/browsefilms/internal/wishlist"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// CookieName is the cookie carrying the session id
const CookieName = "browsefilms_session"

type contextKey struct{}

// Registry holds one wishlist store per session. Sessions expire after
// ttl without activity; expired entries are dropped by DeleteExpired.
type Registry struct {
	cache  *gocache.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(ttl time.Duration, logger *logrus.Logger) *Registry {
	// no janitor: the scheduler owns the sweep
	c := gocache.New(ttl, 0)
	c.OnEvicted(func(id string, _ interface{}) {
		logger.WithField("session_id", id).Debug("Session expired")
	})

	return &Registry{
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Resolve returns the session id and store for the request, starting a new
// session when none is valid. The cookie is (re)issued on every call so the
// browser expiry slides along with the server entry.
func (r *Registry) Resolve(w http.ResponseWriter, req *http.Request) (string, *wishlist.Store) {
	if cookie, err := req.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			if store, ok := r.Lookup(cookie.Value); ok {
				r.cache.SetDefault(cookie.Value, store)
				r.setCookie(w, cookie.Value)
				return cookie.Value, store
			}
		}
	}

	id, store := r.create()
	r.setCookie(w, id)
	return id, store
}

func (r *Registry) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(r.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Registry) create() (string, *wishlist.Store) {
	for {
		id := uuid.NewString()
		store := wishlist.New()
		if err := r.cache.Add(id, store, gocache.DefaultExpiration); err == nil {
			r.logger.WithField("session_id", id).Debug("Session started")
			return id, store
		}
	}
}

// Lookup returns the store of a live session
func (r *Registry) Lookup(id string) (*wishlist.Store, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	store, ok := v.(*wishlist.Store)
	return store, ok
}

// Count returns the number of sessions held, including expired ones not
// yet swept
func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

// DeleteExpired drops expired sessions and returns how many were removed
func (r *Registry) DeleteExpired() int {
	before := r.cache.ItemCount()
	r.cache.DeleteExpired()
	removed := before - r.cache.ItemCount()
	if removed < 0 {
		removed = 0
	}
	return removed
}

// Middleware attaches the session's store to the request context
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, store := r.Resolve(w, req)
		next.ServeHTTP(w, req.WithContext(WithStore(req.Context(), store)))
	})
}

// WithStore returns a context carrying store
func WithStore(ctx context.Context, store *wishlist.Store) context.Context {
	return context.WithValue(ctx, contextKey{}, store)
}

// StoreFrom returns the store attached by Middleware, or nil
func StoreFrom(ctx context.Context) *wishlist.Store {
	store, _ := ctx.Value(contextKey{}).(*wishlist.Store)
	return store
}
