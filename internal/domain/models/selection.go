// internal/domain/models/selection.go
package models

import "time"

// SelectionDocument is the persisted role + competency choice.
//
// The JSON shape ({"role": "...", "items": [...]}) is the wire format kept in
// the browser session; the bson tags are used by the server-side backend.
type SelectionDocument struct {
	Role  string   `json:"role" bson:"role"`
	Items []string `json:"items" bson:"items"`
}

// StoredSelection is a persisted document as kept by the server-side
// selection backend: one row per visitor and key.
type StoredSelection struct {
	VisitorID string    `bson:"visitor_id"`
	Key       string    `bson:"key"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}
