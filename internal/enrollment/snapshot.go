package enrollment

import (
	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

// Snapshot deep-copies a master course for a new enrollee with every
// completion marker reset: completed flags, learner and trainer maps,
// evidence boxes, gateway checkpoints and times-met counters. The result
// shares nothing with course.
func Snapshot(course curriculum.Course) curriculum.Course {
	out := course
	out.Units = curriculum.CloneUnits(course.Units)
	for i := range out.Units {
		resetUnit(&out.Units[i])
	}
	return out
}

func resetUnit(u *curriculum.Unit) {
	u.Completed = false
	u.LearnerMap, u.TrainerMap = false, false
	u.EvidenceBoxes = nil
	for i := range u.SubUnits {
		s := &u.SubUnits[i]
		s.Completed = false
		s.LearnerMap, s.TrainerMap = false, false
		s.EvidenceBoxes = nil
	}
	for i := range u.LearningOutcomes {
		lo := &u.LearningOutcomes[i]
		lo.Completed = false
		for j := range lo.AssessmentCriteria {
			c := &lo.AssessmentCriteria[j]
			c.Completed = false
			c.TimesMet = 0
			if c.GatewayCriterion != nil {
				c.IsCompleted = false
			}
		}
	}
}
