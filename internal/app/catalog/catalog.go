// internal/app/catalog/catalog.go
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/dalemusser/trainingplanner/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// ErrUnknownRole is returned when no catalog is registered for a role.
var ErrUnknownRole = errors.New("catalog: unknown role")

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog is the read-only competency catalog for one role.
//
// Competencies are kept sorted by Number. The course→theme index is derived
// from the course entries at load time.
type Catalog struct {
	Role        models.Role
	Lead        string
	Reference   string
	SummaryLead string

	competencies []models.Competency
	byID         map[string]int
	themeIndex   map[string]string
	courseOwner  map[string]string
}

// file is the on-disk YAML shape of a catalog.
type file struct {
	Role         string              `yaml:"role"`
	Lead         string              `yaml:"lead"`
	Reference    string              `yaml:"reference"`
	SummaryLead  string              `yaml:"summary_lead"`
	Competencies []models.Competency `yaml:"competencies"`
}

// Library holds one Catalog per role.
type Library struct {
	catalogs map[models.Role]*Catalog
}

// Load reads every *.yaml catalog from dir. An empty dir loads the catalogs
// embedded in the binary.
func Load(dir string) (*Library, error) {
	var fsys fs.FS = dataFS
	pattern := "data/*.yaml"
	if dir != "" {
		fsys = os.DirFS(dir)
		pattern = "*.yaml"
	}
	return LoadFS(fsys, pattern)
}

// LoadFS reads catalogs matching pattern from fsys.
func LoadFS(fsys fs.FS, pattern string) (*Library, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("catalog: glob %q: %w", pattern, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("catalog: no files match %q", pattern)
	}

	lib := &Library{catalogs: make(map[models.Role]*Catalog, len(names))}
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		c, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", name, err)
		}
		if _, dup := lib.catalogs[c.Role]; dup {
			return nil, fmt.Errorf("catalog: %s: role %q defined twice", name, c.Role)
		}
		lib.catalogs[c.Role] = c
	}
	return lib, nil
}

// MustLoadEmbedded loads the embedded catalogs and panics on error.
// Intended for tests and tools where the data is known to be valid.
func MustLoadEmbedded() *Library {
	lib, err := Load("")
	if err != nil {
		panic(err)
	}
	return lib
}

// Parse decodes and validates a single catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	role, ok := models.ParseRole(f.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, f.Role)
	}
	return build(role, f)
}

func build(role models.Role, f file) (*Catalog, error) {
	comps := append([]models.Competency(nil), f.Competencies...)
	sort.SliceStable(comps, func(i, j int) bool { return comps[i].Number < comps[j].Number })

	c := &Catalog{
		Role:         role,
		Lead:         f.Lead,
		Reference:    f.Reference,
		SummaryLead:  f.SummaryLead,
		competencies: comps,
		byID:         make(map[string]int, len(comps)),
		themeIndex:   make(map[string]string),
		courseOwner:  make(map[string]string),
	}

	for i, comp := range comps {
		if comp.ID == "" {
			return nil, fmt.Errorf("competency #%d has no id", comp.Number)
		}
		if _, dup := c.byID[comp.ID]; dup {
			return nil, fmt.Errorf("duplicate competency id %q", comp.ID)
		}
		c.byID[comp.ID] = i

		themes := make(map[string]struct{}, len(comp.Themes))
		for _, t := range comp.Themes {
			themes[t.Theme] = struct{}{}
		}
		for _, course := range comp.Courses {
			if owner, dup := c.courseOwner[course.ID]; dup {
				return nil, fmt.Errorf("course %q listed under both %s and %s", course.ID, owner, comp.ID)
			}
			c.courseOwner[course.ID] = comp.ID
			if course.Theme == "" {
				continue
			}
			if _, ok := themes[course.Theme]; !ok {
				return nil, fmt.Errorf("course %q maps to theme %q, which %s does not define", course.ID, course.Theme, comp.ID)
			}
			c.themeIndex[course.ID] = course.Theme
		}
	}
	return c, nil
}

// ForRole returns the catalog for role.
func (l *Library) ForRole(role models.Role) (*Catalog, error) {
	if l != nil {
		if c, ok := l.catalogs[role]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// Roles returns the roles that have a catalog, in models.Roles order.
func (l *Library) Roles() []models.Role {
	out := make([]models.Role, 0, len(l.catalogs))
	for _, r := range models.Roles {
		if _, ok := l.catalogs[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Competencies returns all entries sorted by Number.
func (c *Catalog) Competencies() []models.Competency {
	return append([]models.Competency(nil), c.competencies...)
}

// Competency looks up an entry by ID.
func (c *Catalog) Competency(id string) (models.Competency, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Competency{}, false
	}
	return c.competencies[i], true
}

// Has reports whether id names a competency in this catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Lookup resolves ids to catalog entries in Number order. Unknown IDs are
// dropped and duplicates collapse.
func (c *Catalog) Lookup(ids []string) []models.Competency {
	idx := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		i, ok := c.byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		idx = append(idx, i)
	}
	sort.Ints(idx)

	out := make([]models.Competency, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.competencies[i])
	}
	return out
}

// SortIDs returns ids ordered by catalog Number. IDs not in the catalog keep
// their relative order and sort after known ones.
func (c *Catalog) SortIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	rank := func(id string) int {
		if i, ok := c.byID[id]; ok {
			return i
		}
		return len(c.competencies)
	}
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// ThemeOf returns the theme label the course is presented under.
func (c *Catalog) ThemeOf(courseID string) (string, bool) {
	t, ok := c.themeIndex[courseID]
	return t, ok
}

// ThemeIndex returns a copy of the derived courseID→theme label index.
func (c *Catalog) ThemeIndex() map[string]string {
	out := make(map[string]string, len(c.themeIndex))
	for k, v := range c.themeIndex {
		out[k] = v
	}
	return out
}

// OwnerOf returns the competency ID a course belongs to.
func (c *Catalog) OwnerOf(courseID string) (string, bool) {
	id, ok := c.courseOwner[courseID]
	return id, ok
}
