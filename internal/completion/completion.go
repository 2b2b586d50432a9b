// Package completion computes evidence progress for units and enrollments.
// Every function is a pure read over its inputs; malformed or missing data
// resolves to not-started.
package completion

import (
	"math"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

// UnitStatus is the completion state of one unit.
type UnitStatus struct {
	LearnerDone        bool `json:"learnerDone"`
	TrainerDone        bool `json:"trainerDone"`
	FullyCompleted     bool `json:"fullyCompleted"`
	PartiallyCompleted bool `json:"partiallyCompleted"`
}

// UnitProgress is the share of a unit's evidence boxes each party has mapped.
type UnitProgress struct {
	LearnerPercent int `json:"learnerPercent"`
	TrainerPercent int `json:"trainerPercent"`
}

// Status reports whether the learner and trainer have mapped evidence to
// the unit. A nested unit counts as mapped by a party when any of its
// sub-units is; a flat unit is read directly.
func Status(u curriculum.Unit) UnitStatus {
	var learner, trainer bool
	if len(u.SubUnits) > 0 {
		for _, s := range u.SubUnits {
			learner = learner || s.LearnerMap
			trainer = trainer || s.TrainerMap
		}
	} else {
		learner, trainer = u.LearnerMap, u.TrainerMap
	}
	return UnitStatus{
		LearnerDone:        learner,
		TrainerDone:        trainer,
		FullyCompleted:     learner && trainer,
		PartiallyCompleted: learner || trainer,
	}
}

// Percent counts the evidence boxes on the unit and its sub-units. With no
// boxes at all it falls back to Status, so the result is 0 or 100.
func Percent(u curriculum.Unit) UnitProgress {
	var total, learner, trainer int
	count := func(boxes []curriculum.EvidenceBox) {
		for _, b := range boxes {
			total++
			if b.LearnerMap {
				learner++
			}
			if b.TrainerMap {
				trainer++
			}
		}
	}
	count(u.EvidenceBoxes)
	for _, s := range u.SubUnits {
		count(s.EvidenceBoxes)
	}

	if total == 0 {
		st := Status(u)
		return UnitProgress{
			LearnerPercent: boolPercent(st.LearnerDone),
			TrainerPercent: boolPercent(st.TrainerDone),
		}
	}
	return UnitProgress{
		LearnerPercent: ratioPercent(learner, total),
		TrainerPercent: ratioPercent(trainer, total),
	}
}

func ratioPercent(n, total int) int {
	return int(math.Round(float64(n) / float64(total) * 100))
}

func boolPercent(done bool) int {
	if done {
		return 100
	}
	return 0
}
