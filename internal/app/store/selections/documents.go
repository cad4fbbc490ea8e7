// internal/app/store/selections/documents.go
package selections

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dalemusser/trainingplanner/internal/domain/models"
	"go.uber.org/zap"
)

// LoadSelection reads the competency document for role.
//
// Reads are fail-soft: a missing, malformed, or other-role document yields an
// empty selection and ok=false. The discard reason is logged at debug level.
func LoadSelection(s Store, role models.Role, log *zap.Logger) (models.SelectionDocument, bool) {
	log = orNop(log)
	empty := models.SelectionDocument{Role: string(role), Items: []string{}}

	raw, ok, err := s.Get(KeyCompetencies)
	if err != nil {
		log.Debug("selection read failed; treating as empty", zap.Error(err))
		return empty, false
	}
	if !ok || len(raw) == 0 {
		return empty, false
	}

	doc, err := decodeSelection(raw)
	if err != nil {
		log.Debug("selection document malformed; discarding", zap.Error(err))
		return empty, false
	}
	stored, known := models.ParseRole(doc.Role)
	if !known || stored != role {
		log.Debug("selection document belongs to another role; discarding",
			zap.String("stored_role", doc.Role),
			zap.String("role", string(role)))
		return empty, false
	}

	doc.Role = string(role)
	if doc.Items == nil {
		doc.Items = []string{}
	}
	return doc, true
}

// SaveSelection writes {role, items} with items de-duplicated and sorted.
func SaveSelection(s Store, role models.Role, items []string) error {
	doc := models.SelectionDocument{Role: string(role), Items: sortedSet(items)}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := s.Set(KeyCompetencies, raw); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

// LoadCourses reads the course document (a bare JSON array). Missing or
// malformed documents read as empty.
func LoadCourses(s Store, log *zap.Logger) ([]string, bool) {
	log = orNop(log)

	raw, ok, err := s.Get(KeyCourses)
	if err != nil {
		log.Debug("course selection read failed; treating as empty", zap.Error(err))
		return []string{}, false
	}
	if !ok || len(raw) == 0 {
		return []string{}, false
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		log.Debug("course selection malformed; discarding", zap.Error(err))
		return []string{}, false
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, true
}

// SaveCourses writes ids verbatim, preserving insertion order.
func SaveCourses(s Store, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode courses: %w", err)
	}
	if err := s.Set(KeyCourses, raw); err != nil {
		return fmt.Errorf("save courses: %w", err)
	}
	return nil
}

// ResetOnRoleChange clears both documents when the stored competency document
// does not belong to role. It reports whether a reset happened. A store with
// no competency document is left alone.
func ResetOnRoleChange(s Store, role models.Role) (bool, error) {
	raw, ok, err := s.Get(KeyCompetencies)
	if err != nil {
		return false, fmt.Errorf("read selection: %w", err)
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}

	if doc, err := decodeSelection(raw); err == nil {
		if stored, known := models.ParseRole(doc.Role); known && stored == role {
			return false, nil
		}
	}

	if err := SaveSelection(s, role, nil); err != nil {
		return false, err
	}
	if err := SaveCourses(s, nil); err != nil {
		return false, err
	}
	return true, nil
}

func decodeSelection(raw []byte) (models.SelectionDocument, error) {
	var doc models.SelectionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, err
	}
	if doc.Role == "" {
		return doc, fmt.Errorf("selection document has no role")
	}
	return doc, nil
}

func sortedSet(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, id := range items {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
