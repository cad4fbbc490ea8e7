// internal/app/store/selections/memory.go
package selections

import (
	"net/http"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// keySep joins visitor ID and document key; neither can contain it.
const keySep = "\x00"

// MemoryBackend keeps documents in process memory, keyed by visitor cookie.
// Entries never expire; contents are lost on restart.
type MemoryBackend struct {
	cookie visitorCookie
	cache  *gocache.Cache
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend(cookieName, domain string, secure bool) *MemoryBackend {
	return &MemoryBackend{
		cookie: newVisitorCookie(cookieName, domain, secure),
		cache:  gocache.New(gocache.NoExpiration, 0),
	}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return "memory" }

// Bind implements Backend.
func (b *MemoryBackend) Bind(w http.ResponseWriter, r *http.Request) Store {
	return &memoryStore{b: b, v: bindVisitor(b.cookie, w, r)}
}

// Visitors returns the number of visitors with stored documents.
func (b *MemoryBackend) Visitors() int {
	seen := make(map[string]struct{})
	for k := range b.cache.Items() {
		id, _, _ := strings.Cut(k, keySep)
		seen[id] = struct{}{}
	}
	return len(seen)
}

type memoryStore struct {
	b *MemoryBackend
	v *boundVisitor
}

func (s *memoryStore) Get(key string) ([]byte, bool, error) {
	if s.v.id == "" {
		return nil, false, nil
	}
	val, ok := s.b.cache.Get(s.v.id + keySep + key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), val.([]byte)...), true, nil
}

func (s *memoryStore) Set(key string, raw []byte) error {
	id := s.v.ensure()
	s.b.cache.Set(id+keySep+key, append([]byte(nil), raw...), gocache.NoExpiration)
	return nil
}
