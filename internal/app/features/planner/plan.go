package planner

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/dalemusser/trainingplanner/internal/app/catalog"
	"github.com/dalemusser/trainingplanner/internal/app/system/htmlsanitize"
	"github.com/dalemusser/trainingplanner/internal/app/system/recommend"
	"github.com/dalemusser/trainingplanner/internal/domain/models"
)

// The plan fragment is rendered outside the page engine so the summary page
// and the document handed to the rasterizer share one markup source.
//
//go:embed plan/*.gohtml plan/*.css
var planFS embed.FS

var planTmpl = template.Must(template.New("plan").ParseFS(planFS, "plan/*.gohtml"))

var printCSS = mustRead("plan/print.css")

func mustRead(name string) template.CSS {
	b, err := planFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return template.CSS(b)
}

// planContainer is the element whose height clamp is lifted for capture.
const planContainer = ".plan"

const placeholderNote = "Placeholder: this competency will be updated later."

type planVM struct {
	RoleLabel   string
	SummaryLead template.HTML
	Fallback    bool
	Cards       []planCard
}

type planCard struct {
	ID          string
	Number      int
	Title       string
	Subtitle    string
	Placeholder bool
	Note        string
	Rows        []planRow
}

type planRow struct {
	Theme template.HTML
	Span  int
	First planBlock
	Rest  []planBlock
}

type planBlock struct {
	Label     string
	Heading   string
	Cognitive string
	Content   template.HTML
	Teaching  template.HTML
}

func newPlanVM(cat *catalog.Catalog, res recommend.Result) planVM {
	vm := planVM{
		RoleLabel:   cat.Role.Label(),
		SummaryLead: htmlsanitize.PrepareForDisplay(cat.SummaryLead),
		Fallback:    res.WasFallback,
		Cards:       make([]planCard, 0, len(res.Cards)),
	}
	for _, card := range res.Cards {
		c := card.Competency
		pc := planCard{
			ID:          c.ID,
			Number:      c.Number,
			Title:       c.Title,
			Subtitle:    c.Subtitle,
			Placeholder: c.IsPlaceholder,
		}
		switch {
		case c.IsPlaceholder:
			pc.Note = placeholderNote
		case card.Reason == recommend.ReasonNoMatch:
			pc.Note = "None of the selected courses belong to this competency, so all of its course themes are shown."
		}
		for _, row := range card.Rows {
			pc.Rows = append(pc.Rows, newPlanRow(row))
		}
		vm.Cards = append(vm.Cards, pc)
	}
	return vm
}

func newPlanRow(row models.ThemeRow) planRow {
	pr := planRow{
		Theme: htmlsanitize.PrepareForDisplay(row.Theme),
		Span:  row.Span(),
	}
	for i, b := range row.Blocks {
		pb := planBlock{
			Label:     b.Label,
			Heading:   b.Heading,
			Cognitive: b.Cognitive,
			Content:   htmlsanitize.PrepareForDisplay(b.Content),
			Teaching:  htmlsanitize.PrepareForDisplay(b.Teaching),
		}
		if i == 0 {
			pr.First = pb
			continue
		}
		pr.Rest = append(pr.Rest, pb)
	}
	return pr
}

// renderPlan renders the plan tables for embedding in a page.
func renderPlan(vm planVM) (template.HTML, error) {
	var buf bytes.Buffer
	if err := planTmpl.ExecuteTemplate(&buf, "plan_fragment", vm); err != nil {
		return "", fmt.Errorf("render plan: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// renderPrintDocument renders a complete, self-contained HTML document of the
// plan with its styles inlined.
func renderPrintDocument(vm planVM) (string, error) {
	fragment, err := renderPlan(vm)
	if err != nil {
		return "", err
	}
	data := struct {
		Title string
		CSS   template.CSS
		Plan  template.HTML
	}{
		Title: "Training Plan Summary · " + vm.RoleLabel,
		CSS:   printCSS,
		Plan:  fragment,
	}

	var buf bytes.Buffer
	if err := planTmpl.ExecuteTemplate(&buf, "print_document", data); err != nil {
		return "", fmt.Errorf("render print document: %w", err)
	}
	return buf.String(), nil
}
