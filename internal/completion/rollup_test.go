package completion_test

import (
	"fmt"
	"testing"

	"github.com/krishh26/locker-backend-sub000/internal/completion"
	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

func unitWithSubUnits(id string, n int) curriculum.Unit {
	u := curriculum.Unit{ID: curriculum.ItemID(id), Title: id}
	for i := 1; i <= n; i++ {
		u.SubUnits = append(u.SubUnits, curriculum.SubUnit{ID: curriculum.ItemID(fmt.Sprintf("%s.%d", id, i))})
	}
	return u
}

func TestRollup_TriState(t *testing.T) {
	course := []curriculum.Unit{unitWithSubUnits("A", 5), unitWithSubUnits("B", 5)}

	a := unitWithSubUnits("A", 5)
	for i := 0; i < 3; i++ {
		a.SubUnits[i].LearnerMap, a.SubUnits[i].TrainerMap = true, true
	}
	a.SubUnits[3].LearnerMap = true
	a.SubUnits[4].TrainerMap = true

	got := completion.Rollup(course, [][]curriculum.Unit{{a}})

	want := completion.CourseProgress{TotalSubUnits: 10, FullyCompleted: 3, PartiallyCompleted: 2, NotStarted: 5}
	if got != want {
		t.Errorf("Rollup() = %+v, want %+v", got, want)
	}
}

func TestRollup_Promotion(t *testing.T) {
	course := []curriculum.Unit{unitWithSubUnits("A", 2)}

	partial := unitWithSubUnits("A", 2)
	partial.SubUnits[0].LearnerMap = true
	full := unitWithSubUnits("A", 2)
	full.SubUnits[0].LearnerMap, full.SubUnits[0].TrainerMap = true, true

	tests := []struct {
		name        string
		assignments [][]curriculum.Unit
		want        completion.CourseProgress
	}{
		{
			name:        "partial then full is promoted",
			assignments: [][]curriculum.Unit{{partial}, {full}},
			want:        completion.CourseProgress{TotalSubUnits: 2, FullyCompleted: 1, NotStarted: 1},
		},
		{
			name:        "full then partial stays full",
			assignments: [][]curriculum.Unit{{full}, {partial}},
			want:        completion.CourseProgress{TotalSubUnits: 2, FullyCompleted: 1, NotStarted: 1},
		},
		{
			name:        "repeated partial counts once",
			assignments: [][]curriculum.Unit{{partial}, {partial}},
			want:        completion.CourseProgress{TotalSubUnits: 2, PartiallyCompleted: 1, NotStarted: 1},
		},
		{
			name:        "no assignments",
			assignments: nil,
			want:        completion.CourseProgress{TotalSubUnits: 2, NotStarted: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completion.Rollup(course, tt.assignments); got != tt.want {
				t.Errorf("Rollup() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRollup_SameSubUnitIDInDifferentUnits(t *testing.T) {
	a := curriculum.Unit{ID: "A", SubUnits: []curriculum.SubUnit{{ID: "1", LearnerMap: true, TrainerMap: true}}}
	b := curriculum.Unit{ID: "B", SubUnits: []curriculum.SubUnit{{ID: "1", LearnerMap: true, TrainerMap: true}}}

	got := completion.Rollup([]curriculum.Unit{a, b}, [][]curriculum.Unit{{a, b}})

	if got.FullyCompleted != 2 || got.NotStarted != 0 {
		t.Errorf("Rollup() = %+v, want both sub-units fully completed", got)
	}
}

func TestRollup_NotStartedNeverNegative(t *testing.T) {
	extra := unitWithSubUnits("X", 3)
	for i := range extra.SubUnits {
		extra.SubUnits[i].LearnerMap = true
	}

	got := completion.Rollup([]curriculum.Unit{unitWithSubUnits("A", 1)}, [][]curriculum.Unit{{extra}})

	if got.NotStarted != 0 {
		t.Errorf("NotStarted = %d, want 0", got.NotStarted)
	}
}

func TestMergeUnits(t *testing.T) {
	base := []curriculum.Unit{unitWithSubUnits("A", 2), unitWithSubUnits("B", 1)}
	update := unitWithSubUnits("B", 1)
	update.SubUnits[0].LearnerMap = true
	stray := unitWithSubUnits("Z", 1)

	merged := completion.MergeUnits(base, []curriculum.Unit{update, stray})

	if len(merged) != 2 {
		t.Fatalf("len(merged) = %d, want 2", len(merged))
	}
	if !merged[1].SubUnits[0].LearnerMap {
		t.Error("update not applied")
	}
	if base[1].SubUnits[0].LearnerMap {
		t.Error("base was modified")
	}
	merged[0].SubUnits[0].TrainerMap = true
	if base[0].SubUnits[0].TrainerMap {
		t.Error("merged result shares sub-units with base")
	}
}

func TestPercentComplete(t *testing.T) {
	tests := []struct {
		name string
		p    completion.CourseProgress
		want int
	}{
		{"truncates", completion.CourseProgress{TotalSubUnits: 3, FullyCompleted: 2}, 66},
		{"all done", completion.CourseProgress{TotalSubUnits: 4, FullyCompleted: 4}, 100},
		{"nothing done", completion.CourseProgress{TotalSubUnits: 4}, 0},
		{"no sub-units", completion.CourseProgress{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completion.PercentComplete(tt.p); got != tt.want {
				t.Errorf("PercentComplete() = %d, want %d", got, tt.want)
			}
		})
	}
}
