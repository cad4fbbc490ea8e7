// internal/domain/models/role.go
package models

import "strings"

// Role identifies which competency catalog applies to a planning session.
//
// The value is stored in the persisted selection document and is also the
// stable key used to look up the catalog. Display labels and URL slugs are
// derived from it.
type Role string

// Canonical role identifiers.
const (
	RoleObservers             Role = "Observers"
	RoleInstrumentTechnicians Role = "InstrumentTechnicians"
)

// Roles is the full set of supported roles in display order.
var Roles = []Role{
	RoleObservers,
	RoleInstrumentTechnicians,
}

type roleMeta struct {
	label string
	slug  string
	annex string
}

var roleInfo = map[Role]roleMeta{
	RoleObservers: {
		label: "Meteorological Technicians (Observers)",
		slug:  "observers",
		annex: "5.A",
	},
	RoleInstrumentTechnicians: {
		label: "Meteorological Instrument Technicians",
		slug:  "instrument",
		annex: "5.B",
	},
}

// Label returns the human-facing role name.
func (r Role) Label() string {
	if m, ok := roleInfo[r]; ok {
		return m.label
	}
	return string(r)
}

// Slug returns the URL path segment for the role.
func (r Role) Slug() string {
	return roleInfo[r].slug
}

// Annex returns the WMO No. 8 annex that defines the role's competencies.
func (r Role) Annex() string {
	return roleInfo[r].annex
}

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	_, ok := roleInfo[r]
	return ok
}

// ParseRole resolves a role from its identifier, URL slug, or display label.
// Stored documents written by earlier versions of the planner carry the
// display label, so all three spellings are accepted (case-insensitive).
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for r, m := range roleInfo {
		if strings.EqualFold(s, string(r)) || strings.EqualFold(s, m.slug) || strings.EqualFold(s, m.label) {
			return r, true
		}
	}
	return "", false
}
