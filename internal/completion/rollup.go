package completion

import (
	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

// CourseProgress is the tri-state sub-unit rollup of one enrollment.
type CourseProgress struct {
	TotalSubUnits      int `json:"totalSubUnits"`
	NotStarted         int `json:"notStarted"`
	PartiallyCompleted int `json:"partiallyCompleted"`
	FullyCompleted     int `json:"fullyCompleted"`
}

// Rollup buckets every sub-unit seen in the assignments as fully or
// partially completed. A sub-unit is counted once, keyed by its unit and
// sub-unit ids; a partial sub-unit later seen with both maps set is
// promoted to full, and a full one is never demoted. Sub-units of
// courseUnits that no assignment touched are not started.
func Rollup(courseUnits []curriculum.Unit, assignments [][]curriculum.Unit) CourseProgress {
	partial := make(map[subUnitKey]struct{})
	full := make(map[subUnitKey]struct{})

	for _, units := range assignments {
		for _, u := range units {
			for _, s := range u.SubUnits {
				k := subUnitKey{unit: u.ID, sub: s.ID}
				if _, ok := full[k]; ok {
					continue
				}
				switch {
				case s.LearnerMap && s.TrainerMap:
					delete(partial, k)
					full[k] = struct{}{}
				case s.LearnerMap || s.TrainerMap:
					partial[k] = struct{}{}
				}
			}
		}
	}

	p := CourseProgress{
		TotalSubUnits:      TotalSubUnits(courseUnits),
		PartiallyCompleted: len(partial),
		FullyCompleted:     len(full),
	}
	p.NotStarted = max(0, p.TotalSubUnits-p.FullyCompleted-p.PartiallyCompleted)
	return p
}

type subUnitKey struct {
	unit curriculum.ItemID
	sub  curriculum.ItemID
}

// TotalSubUnits counts the sub-units across units.
func TotalSubUnits(units []curriculum.Unit) int {
	n := 0
	for _, u := range units {
		n += len(u.SubUnits)
	}
	return n
}

// MergeUnits returns a copy of base where every unit with the same id as
// one in updates is replaced by a copy of that update. Neither input is
// modified.
func MergeUnits(base []curriculum.Unit, updates ...[]curriculum.Unit) []curriculum.Unit {
	out := curriculum.CloneUnits(base)
	index := make(map[curriculum.ItemID]int, len(out))
	for i, u := range out {
		if _, ok := index[u.ID]; !ok {
			index[u.ID] = i
		}
	}
	for _, units := range updates {
		for _, u := range units {
			if i, ok := index[u.ID]; ok {
				out[i] = u.Clone()
			}
		}
	}
	return out
}

// PercentComplete is the truncated share of fully completed sub-units, 0
// when there are none.
func PercentComplete(p CourseProgress) int {
	if p.TotalSubUnits <= 0 || p.FullyCompleted <= 0 {
		return 0
	}
	return min(100, p.FullyCompleted*100/p.TotalSubUnits)
}
