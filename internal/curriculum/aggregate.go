package curriculum

import (
	"log/slog"
)

// Totals are the course-level figures derived from a course's units.
type Totals struct {
	Level               float64 `json:"level"`
	TotalCredits        float64 `json:"total_credits"`
	GuidedLearningHours float64 `json:"guided_learning_hours"`
}

// Aggregate derives course totals from per-unit header details: the
// highest level, and the summed credits and guided learning hours.
// Missing or non-numeric values count as 0.
func Aggregate(details []CourseDetails) Totals {
	var t Totals
	for _, d := range details {
		t.Level = max(t.Level, d.Number(FieldLevel))
		t.TotalCredits += d.Number(FieldCreditValue, FieldCredit)
		t.GuidedLearningHours += d.Number(FieldGuidedLearningHours, FieldGLH)
	}
	return t
}

// TotalsFromUnits derives course totals from qualification unit fields.
// Callers that edit units use it to re-aggregate; other kinds carry no
// level, credit or hours and contribute 0.
func TotalsFromUnits(units []Unit) Totals {
	var t Totals
	for _, u := range units {
		if u.QualificationUnit == nil {
			continue
		}
		t.Level = max(t.Level, float64(u.Level))
		t.TotalCredits += float64(u.CreditValue)
		t.GuidedLearningHours += float64(u.GLH)
	}
	return t
}

// Generation is the output of converting one curriculum document.
type Generation struct {
	Totals
	Units    []Unit    `json:"units"`
	Warnings []Anomaly `json:"warnings,omitempty"`
}

// Generator converts extracted curriculum documents into units.
type Generator struct {
	builder *Builder
}

// NewGenerator creates a generator that builds units with b.
func NewGenerator(b *Builder) *Generator {
	return &Generator{builder: b}
}

// Generate converts a document's extracted sections, one per unit page.
// The first section is the document's cover page and is skipped.
func (g *Generator) Generate(sections [][]string) Generation {
	gen := Generation{Units: []Unit{}}
	if len(sections) < 2 {
		return gen
	}

	details := make([]CourseDetails, 0, len(sections)-1)
	for i, section := range sections[1:] {
		block := ParseBlock(section)
		unit, anomalies := g.builder.BuildUnit(block)

		for _, a := range append(block.Anomalies, anomalies...) {
			a.Unit = i + 1
			gen.Warnings = append(gen.Warnings, a)
		}
		details = append(details, block.Details)
		gen.Units = append(gen.Units, unit)
	}
	gen.Totals = Aggregate(details)

	slog.Info("curriculum generated",
		"kind", g.builder.Kind(),
		"units", len(gen.Units),
		"warnings", len(gen.Warnings),
		"total_credits", gen.TotalCredits,
	)
	return gen
}

// BuildUnit builds one unit from a parsed page, tagging it with the legacy
// sub-unit view used for evidence tracking.
func (b *Builder) BuildUnit(block Block) (Unit, []Anomaly) {
	d := block.Details
	outcomes, anomalies := b.Classify(StructureOutline(block.Body))

	u := b.NewUnit(ItemID(b.ids.NewID("unit")), d.Get("Title", "Unit title", "Unit"), d.Get(FieldCourseCode))
	if b.kind == KindQualification {
		u.Level = Numeric(d.Number(FieldLevel))
		u.GLH = Numeric(d.Number(FieldGuidedLearningHours, FieldGLH))
		u.CreditValue = Numeric(d.Number(FieldCreditValue, FieldCredit))
	}
	if outcomes != nil {
		u.LearningOutcomes = outcomes
	}
	u.SubUnits = LegacyView(u)

	if len(u.SubUnits) == 0 {
		slog.Debug("unit has no evidence structure", "unit", u.Title)
		anomalies = append(anomalies, Anomaly{Kind: AnomalyEmptyEvidenceStructure, Detail: u.Title})
	}
	return u, anomalies
}
