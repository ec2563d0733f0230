package memory

import (
	"time"

	"ai-chat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// ContextCache keeps per-session context windows hot between relays.
// Entries expire after an hour of inactivity; deletes must be explicit on
// any message or session mutation so the window never serves stale pairs.
type ContextCache struct {
	cache *cache.Cache
}

func NewContextCache() *ContextCache {
	// Default expiration 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &ContextCache{
		cache: c,
	}
}

func (r *ContextCache) Save(window *store.ContextWindow) {
	r.cache.Set(window.SessionID, window, cache.DefaultExpiration)
}

func (r *ContextCache) Get(sessionID string) (*store.ContextWindow, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.ContextWindow), true
	}
	return nil, false
}

func (r *ContextCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
