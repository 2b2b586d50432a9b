package curriculum_test

import (
	"testing"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

func TestUnit_CloneIsIndependent(t *testing.T) {
	g := curriculum.NewGenerator(curriculum.NewBuilder(curriculum.KindQualification, curriculum.NewSequence()))
	orig := g.Generate(testDocument()).Units[0]
	orig.EvidenceBoxes = []curriculum.EvidenceBox{{LearnerMap: true}}
	orig.SubUnits[0].EvidenceBoxes = []curriculum.EvidenceBox{{}}

	c := orig.Clone()
	c.UnitRef = "CHANGED"
	c.EvidenceBoxes[0].LearnerMap = false
	c.SubUnits[0].Title = "changed"
	c.SubUnits[0].EvidenceBoxes[0].TrainerMap = true
	c.LearningOutcomes[0].Description = "changed"
	c.LearningOutcomes[0].AssessmentCriteria[0].AssessmentMethods[curriculum.MethodProfessionalDiscussion] = true

	if orig.UnitRef != "U101" {
		t.Error("variant struct shared")
	}
	if !orig.EvidenceBoxes[0].LearnerMap {
		t.Error("evidence boxes shared")
	}
	if orig.SubUnits[0].Title == "changed" || orig.SubUnits[0].EvidenceBoxes[0].TrainerMap {
		t.Error("sub-units shared")
	}
	if orig.LearningOutcomes[0].Description == "changed" {
		t.Error("learning outcomes shared")
	}
	if orig.LearningOutcomes[0].AssessmentCriteria[0].AssessmentMethods[curriculum.MethodProfessionalDiscussion] {
		t.Error("assessment methods shared")
	}
}

func TestCloneUnits_Nil(t *testing.T) {
	if got := curriculum.CloneUnits(nil); got != nil {
		t.Errorf("CloneUnits(nil) = %v, want nil", got)
	}
}
