package curriculum_test

import (
	"reflect"
	"testing"

	"github.com/krishh26/locker-backend-sub000/internal/curriculum"
)

func TestStructureOutline_NestsCriteriaUnderOutcome(t *testing.T) {
	body := []string{"1. Understand safety 1.1 Explain hazards 1.2 Be able to report incidents"}

	got := curriculum.StructureOutline(body)

	want := []curriculum.OutlineNode{{
		Key:  "1.",
		Text: "Understand safety",
		SubTopics: []curriculum.SubTopic{
			{Number: "1.1", Text: "Explain hazards"},
			{Number: "1.2", Text: "Be able to report incidents"},
		},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StructureOutline() = %+v, want %+v", got, want)
	}
}

func TestStructureOutline_CleansPunctuation(t *testing.T) {
	body := []string{
		"1. Health,,and safety",
		"1.1 Identify\nhazards",
		"2. Communicate",
		"2.1 Use,appropriate language,",
	}

	got := curriculum.StructureOutline(body)

	if len(got) != 2 {
		t.Fatalf("len(nodes) = %d, want 2", len(got))
	}
	if got[0].Text != "Health and safety" {
		t.Errorf("nodes[0].Text = %q, want %q", got[0].Text, "Health and safety")
	}
	if got[0].SubTopics[0].Text != "Identify hazards" {
		t.Errorf("nodes[0].SubTopics[0].Text = %q, want %q", got[0].SubTopics[0].Text, "Identify hazards")
	}
	if got[1].Key != "2." || got[1].SubTopics[0].Text != "Use appropriate language" {
		t.Errorf("nodes[1] = %+v", got[1])
	}
}

func TestStructureOutline_Keys(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantRoots []string
		wantSubs  [][]string
	}{
		{
			name:      "three level numbering stays one key",
			body:      "1. Plan 1.1 Agree 1.1.1 Record",
			wantRoots: []string{"1."},
			wantSubs:  [][]string{{"1.1", "1.1.1"}},
		},
		{
			name:      "two digit outcome is not nested under 1.",
			body:      "1. Plan 1.1 Agree 10. Review 10.1 Check",
			wantRoots: []string{"1.", "10."},
			wantSubs:  [][]string{{"1.1"}, {"10.1"}},
		},
		{
			name:      "preamble becomes its own root",
			body:      "Learning outcomes The learner will: 1. Know the law",
			wantRoots: []string{"Learning", "1."},
			wantSubs:  [][]string{{}, {}},
		},
		{
			name:      "numeric prose starts a section",
			body:      "1. Arrive by 2.30pm each day",
			wantRoots: []string{"1.", "2.30pm"},
			wantSubs:  [][]string{{}, {}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := curriculum.StructureOutline([]string{tt.body})
			if len(nodes) != len(tt.wantRoots) {
				t.Fatalf("len(nodes) = %d, want %d (%+v)", len(nodes), len(tt.wantRoots), nodes)
			}
			for i, n := range nodes {
				if n.Key != tt.wantRoots[i] {
					t.Errorf("nodes[%d].Key = %q, want %q", i, n.Key, tt.wantRoots[i])
				}
				subs := []string{}
				for _, st := range n.SubTopics {
					subs = append(subs, st.Number)
				}
				if !reflect.DeepEqual(subs, tt.wantSubs[i]) {
					t.Errorf("nodes[%d] subtopics = %v, want %v", i, subs, tt.wantSubs[i])
				}
			}
		})
	}
}

func TestStructureOutline_Empty(t *testing.T) {
	if got := curriculum.StructureOutline(nil); len(got) != 0 {
		t.Errorf("StructureOutline(nil) = %v, want empty", got)
	}
	if got := curriculum.StructureOutline([]string{" , ,", ""}); len(got) != 0 {
		t.Errorf("StructureOutline(punctuation) = %v, want empty", got)
	}
}
