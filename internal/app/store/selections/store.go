// internal/app/store/selections/store.go
package selections

import (
	"errors"
	"net/http"
)

// Keys under which the wizard persists its two documents. Both roles share
// the same keys, so a role switch overwrites rather than merges.
const (
	KeyCompetencies = "tp_competencies"
	KeyCourses      = "tp_selected_courses"
)

// ErrNotFound is returned by backend lookups when no document exists.
var ErrNotFound = errors.New("selections: not found")

// Store is the per-visitor key/value view the wizard steps read and write.
// Values are the serialized JSON documents.
type Store interface {
	Get(key string) (raw []byte, ok bool, err error)
	Set(key string, raw []byte) error
}

// Backend produces a Store bound to one request. Implementations may write
// cookies on w when a visitor is first seen.
type Backend interface {
	Name() string
	Bind(w http.ResponseWriter, r *http.Request) Store
}

// MapStore is an in-process Store with no visitor scoping.
type MapStore map[string][]byte

// Get implements Store.
func (m MapStore) Get(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

// Set implements Store.
func (m MapStore) Set(key string, raw []byte) error {
	m[key] = append([]byte(nil), raw...)
	return nil
}
