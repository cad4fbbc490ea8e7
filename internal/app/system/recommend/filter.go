// Package recommend turns stored selections into the plan shown on the
// summary page and captured for export.
//
// Every fallback favours showing too much over showing nothing: with no
// stored competencies every card is shown, with no stored courses every row
// is kept, and a card whose rows would all be filtered away keeps them all.
// Callers can tell a default from a real selection through the WasFallback
// flags.
package recommend

import (
	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
)

// Reason explains how a card's rows were chosen.
type Reason string

const (
	ReasonMatched     Reason = "matched"     // rows filtered to selected course themes
	ReasonNoCourses   Reason = "no_courses"  // no course selection stored
	ReasonNoMatch     Reason = "no_match"    // filter matched nothing; all rows kept
	ReasonPlaceholder Reason = "placeholder" // placeholder cards are never filtered
)

// Card is one visible competency with the rows to render for it.
type Card struct {
	Competency  models.Competency
	Rows        []models.ThemeRow
	WasFallback bool
	Reason      Reason
}

// Result is the filtered plan.
type Result struct {
	Cards []Card
	// WasFallback is true when no competency selection was stored and every
	// catalog entry is shown.
	WasFallback bool
}

// Filter selects the visible cards and their theme rows.
func Filter(cat *catalog.Catalog, competencyIDs, courseIDs []string) Result {
	var res Result

	var visible []models.Competency
	if len(competencyIDs) == 0 {
		visible = cat.Competencies()
		res.WasFallback = true
	} else {
		visible = cat.Lookup(competencyIDs)
	}

	themes := make(map[string]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		if t, ok := cat.ThemeOf(id); ok {
			themes[t] = struct{}{}
		}
	}

	res.Cards = make([]Card, 0, len(visible))
	for _, comp := range visible {
		res.Cards = append(res.Cards, filterCard(comp, len(courseIDs) == 0, themes))
	}
	return res
}

func filterCard(comp models.Competency, noCourses bool, themes map[string]struct{}) Card {
	all := comp.Themes
	switch {
	case comp.IsPlaceholder:
		return Card{Competency: comp, Rows: all, Reason: ReasonPlaceholder}
	case noCourses:
		return Card{Competency: comp, Rows: all, WasFallback: true, Reason: ReasonNoCourses}
	}

	rows := make([]models.ThemeRow, 0, len(all))
	for _, row := range all {
		if _, ok := themes[row.Theme]; ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return Card{Competency: comp, Rows: all, WasFallback: true, Reason: ReasonNoMatch}
	}
	return Card{Competency: comp, Rows: rows, Reason: ReasonMatched}
}
