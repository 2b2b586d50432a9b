package curriculum_test

import (
	"testing"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		details []curriculum.CourseDetails
		want    curriculum.Totals
	}{
		{
			name:    "no units",
			details: nil,
			want:    curriculum.Totals{},
		},
		{
			name: "primary field names",
			details: []curriculum.CourseDetails{
				{"Level": "3", "Credit value": "5", "Guided learning hours": "30"},
				{"Level": "2", "Credit value": "4", "Guided learning hours": "20"},
			},
			want: curriculum.Totals{Level: 3, TotalCredits: 9, GuidedLearningHours: 50},
		},
		{
			name: "fallback field names",
			details: []curriculum.CourseDetails{
				{"Level": "2", "Credit": "4", "GLH": "20"},
				{"Level": "4", "Credit value": "6", "GLH": "10"},
			},
			want: curriculum.Totals{Level: 4, TotalCredits: 10, GuidedLearningHours: 30},
		},
		{
			name: "non-numeric values count as zero",
			details: []curriculum.CourseDetails{
				{"Level": "three", "Credit value": "", "Guided learning hours": "abc"},
				{"Level": "1", "Credit value": "2.5"},
			},
			want: curriculum.Totals{Level: 1, TotalCredits: 2.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := curriculum.Aggregate(tt.details); got != tt.want {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTotalsFromUnits(t *testing.T) {
	q := curriculum.NewBuilder(curriculum.KindQualification, curriculum.NewSequence())
	s := curriculum.NewBuilder(curriculum.KindStandard, curriculum.NewSequence())

	a := q.NewUnit("a", "A", "A1")
	a.Level, a.CreditValue, a.GLH = 2, 5, 40
	c := q.NewUnit("c", "C", "C1")
	c.Level, c.CreditValue, c.GLH = 3, 10, 60

	got := curriculum.TotalsFromUnits([]curriculum.Unit{a, s.NewUnit("b", "B", "B1"), c})

	want := curriculum.Totals{Level: 3, TotalCredits: 15, GuidedLearningHours: 100}
	if got != want {
		t.Errorf("TotalsFromUnits() = %+v, want %+v", got, want)
	}
}

func testDocument() [][]string {
	return [][]string{
		{"Awarding body cover page", "Qualification handbook"},
		{
			"Title: Safety,Safety,U101",
			"Level:,3",
			"Credit value:,5",
			"Guided learning hours:,30",
			"1. Understand safety 1.1 Explain hazards 1.2 Be able to report incidents",
		},
		{
			"Title: Comms,Comms,U102",
			"Level:,2",
			"Credit:,4",
			"GLH:,20",
			"1. Communicate 1.1 Use plain language",
			"2. Record 2.1 Keep accurate records",
		},
	}
}

func TestGenerator_Generate(t *testing.T) {
	g := curriculum.NewGenerator(curriculum.NewBuilder(curriculum.KindQualification, curriculum.NewSequence()))

	gen := g.Generate(testDocument())

	want := curriculum.Totals{Level: 3, TotalCredits: 9, GuidedLearningHours: 50}
	if gen.Totals != want {
		t.Errorf("Totals = %+v, want %+v", gen.Totals, want)
	}
	if len(gen.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2 (cover page skipped)", len(gen.Units))
	}
	if len(gen.Warnings) != 0 {
		t.Errorf("Warnings = %+v, want none", gen.Warnings)
	}

	first := gen.Units[0]
	if first.Title != "Safety" || first.UnitRef != "U101" || first.Level != 3 || first.CreditValue != 5 || first.GLH != 30 {
		t.Errorf("first unit = %q %+v", first.Title, first.QualificationUnit)
	}
	if len(first.SubUnits) != 2 || first.SubUnits[0].Title != "1.1 Explain hazards" {
		t.Errorf("first unit sub-units = %+v", first.SubUnits)
	}

	second := gen.Units[1]
	if second.GLH != 20 || second.CreditValue != 4 {
		t.Errorf("second unit fallback fields = %+v", second.QualificationUnit)
	}
	if len(second.LearningOutcomes) != 2 {
		t.Errorf("second unit outcomes = %d, want 2", len(second.LearningOutcomes))
	}
}

func TestGenerator_GenerateStandard(t *testing.T) {
	g := curriculum.NewGenerator(curriculum.NewBuilder(curriculum.KindStandard, curriculum.NewSequence()))

	gen := g.Generate(testDocument())

	u := gen.Units[0]
	if u.Kind != curriculum.KindStandard || u.ComponentRef != "U101" || u.QualificationUnit != nil {
		t.Errorf("unit = %+v", u)
	}
	c := u.LearningOutcomes[0].AssessmentCriteria[1]
	if c.Type != curriculum.TypeToDo || c.CriterionCategory != curriculum.CategorySkill {
		t.Errorf("criterion 1.2 = %q %q, want to-do skill", c.Type, c.CriterionCategory)
	}
	if gen.TotalCredits != 9 {
		t.Errorf("TotalCredits = %v, want 9 from the header details", gen.TotalCredits)
	}
}

func TestGenerator_Warnings(t *testing.T) {
	g := curriculum.NewGenerator(curriculum.NewBuilder(curriculum.KindQualification, curriculum.NewSequence()))
	doc := [][]string{
		{"cover"},
		{"Title: Empty,Empty,U1", "Level:,1", "Credit value:,1", "no colon here"},
	}

	gen := g.Generate(doc)

	kinds := map[curriculum.AnomalyKind]int{}
	for _, w := range gen.Warnings {
		if w.Unit != 1 {
			t.Errorf("warning unit = %d, want 1", w.Unit)
		}
		kinds[w.Kind]++
	}
	if kinds[curriculum.AnomalyMalformedHeaderRow] != 1 || kinds[curriculum.AnomalyEmptyEvidenceStructure] != 1 {
		t.Errorf("warnings = %+v", gen.Warnings)
	}
}

func TestGenerator_CoverOnly(t *testing.T) {
	g := curriculum.NewGenerator(curriculum.NewBuilder(curriculum.KindQualification, nil))

	gen := g.Generate([][]string{{"cover"}})

	if gen.Units == nil || len(gen.Units) != 0 {
		t.Errorf("Units = %#v, want empty", gen.Units)
	}
	if gen.Totals != (curriculum.Totals{}) {
		t.Errorf("Totals = %+v, want zero", gen.Totals)
	}
}
