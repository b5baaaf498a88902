package reasoning

import (
	"fmt"
	"regexp"
	"strings"

	"sceneguard/internal/config"
	"sceneguard/internal/model"
)

// Template slot names.
const (
	SlotObjA = "obj_a"
	SlotCatA = "cat_a"
	SlotObjB = "obj_b"
	SlotCatB = "cat_b"
)

var slotPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// Renderer fills four-line explanation templates.
type Renderer struct {
	tables config.Tables
}

// NewRenderer creates a Renderer over the template table.
func NewRenderer(tables config.Tables) *Renderer {
	return &Renderer{tables: tables}
}

// Render fills the template for riskType, falling back to the default template.
// A line with a slot absent from slots is kept verbatim with a marker naming the key.
func (r *Renderer) Render(riskType string, slots map[string]string) model.Explanation {
	lines, ok := r.tables.Template(riskType)
	if !ok {
		lines, _ = r.tables.Template(string(model.DefaultRisk))
	}

	var out model.Explanation
	for i, line := range lines {
		out[i] = fillLine(line, slots)
	}
	return out
}

func fillLine(line string, slots map[string]string) string {
	for _, match := range slotPattern.FindAllStringSubmatch(line, -1) {
		if _, ok := slots[match[1]]; !ok {
			return fmt.Sprintf("%s [Missing data: %s]", line, match[1])
		}
	}
	return slotPattern.ReplaceAllStringFunc(line, func(slot string) string {
		return slots[slot[1:len(slot)-1]]
	})
}

// SlotsFor builds the template slots for a finding. Names use the raw class
// label so phrasing matches the detector vocabulary.
func SlotsFor(finding model.RiskFinding) map[string]string {
	catA := "object"
	if len(finding.Source.Categories) > 0 {
		catA = finding.Source.Categories[0]
	}
	catB := "uncategorized"
	if len(finding.Target.Categories) > 0 {
		catB = strings.Join(finding.Target.Categories, ",")
	}
	return map[string]string{
		SlotObjA: finding.Source.Name,
		SlotCatA: catA,
		SlotObjB: finding.Target.Name,
		SlotCatB: catB,
	}
}

// Explain renders the explanation for a finding.
func (r *Renderer) Explain(finding model.RiskFinding) model.Explanation {
	return r.Render(string(finding.Type), SlotsFor(finding))
}
