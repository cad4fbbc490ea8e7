// internal/domain/models/competency.go
package models

// Course is a selectable training course under a competency.
//
// Theme is the label of the ThemeRow that presents the course in the exported
// plan. It is part of the catalog entry so the course→theme mapping can be
// derived instead of maintained by hand.
type Course struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Theme string `yaml:"theme,omitempty" json:"theme,omitempty"`
}

// ThemeBlock is one content unit inside a theme row: a cognitive-level tag,
// descriptive content and the teaching methods used.
type ThemeBlock struct {
	Label     string `yaml:"label,omitempty" json:"label,omitempty"`     // "a", "b", ...
	Heading   string `yaml:"heading,omitempty" json:"heading,omitempty"` // optional sub-topic heading
	Cognitive string `yaml:"cognitive" json:"cognitive"`                 // "Cognitive level: Understand, Apply"
	Content   string `yaml:"content" json:"content"`
	Teaching  string `yaml:"teaching" json:"teaching"`
}

// ThemeRow is one exportable topic within a competency. A row either carries
// a single block or expands into labelled sub-rows, which render as a
// row-span group.
type ThemeRow struct {
	Theme    string       `yaml:"theme" json:"theme"`
	Numbered bool         `yaml:"numbered,omitempty" json:"numbered,omitempty"`
	Blocks   []ThemeBlock `yaml:"blocks" json:"blocks"`
}

// HasSubRows reports whether the row expands into more than one block.
func (t ThemeRow) HasSubRows() bool {
	return len(t.Blocks) > 1
}

// Span is the number of table rows the theme occupies (at least one).
func (t ThemeRow) Span() int {
	if len(t.Blocks) == 0 {
		return 1
	}
	return len(t.Blocks)
}

// Competency is a read-only catalog entry for a role.
type Competency struct {
	ID            string     `yaml:"id" json:"id"`
	Number        int        `yaml:"number" json:"number"`
	Title         string     `yaml:"title" json:"title"`
	Subtitle      string     `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Knowledge     []string   `yaml:"knowledge" json:"knowledge"`
	Courses       []Course   `yaml:"courses" json:"courses"`
	Themes        []ThemeRow `yaml:"themes" json:"themes"`
	IsPlaceholder bool       `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`

	// KnowledgePlaceholder marks a card whose knowledge list is still to be
	// written while its courses and theme rows are real. It only affects the
	// course step; such cards are filtered like any other.
	KnowledgePlaceholder bool `yaml:"knowledge_placeholder,omitempty" json:"knowledge_placeholder,omitempty"`
}

// ShowPlaceholderNote reports whether the course step marks the card as
// unfinished.
func (c Competency) ShowPlaceholderNote() bool {
	return c.IsPlaceholder || c.KnowledgePlaceholder
}

// CourseIDs returns the IDs of the competency's courses in catalog order.
func (c Competency) CourseIDs() []string {
	ids := make([]string, 0, len(c.Courses))
	for _, course := range c.Courses {
		ids = append(ids, course.ID)
	}
	return ids
}
