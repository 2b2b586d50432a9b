package curriculum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// LegacyUnit is the flat unit shape older courses were stored in: no
// learning outcomes, only a list of sub-units titled "N.M Title".
type LegacyUnit struct {
	ID            ItemID        `json:"id" yaml:"id"`
	Title         string        `json:"title" yaml:"title"`
	UnitRef       string        `json:"unit_ref" yaml:"unit_ref"`
	Mandatory     Flag          `json:"mandatory" yaml:"mandatory"`
	Level         Numeric       `json:"level" yaml:"level"`
	GLH           Numeric       `json:"glh" yaml:"glh"`
	CreditValue   Numeric       `json:"credit_value" yaml:"credit_value"`
	SubUnits      []SubUnit     `json:"subUnit" yaml:"subUnit"`
	LearnerMap    bool          `json:"learnerMap" yaml:"learnerMap"`
	TrainerMap    bool          `json:"trainerMap" yaml:"trainerMap"`
	EvidenceBoxes []EvidenceBox `json:"evidenceBoxes" yaml:"evidenceBoxes"`
	Completed     bool          `json:"completed" yaml:"completed"`
}

var (
	legacyNumber = regexp.MustCompile(`^(\d+)\.(\d+)`)
	legacyPrefix = regexp.MustCompile(`^\d+\.\d+\s*`)
)

// ConvertLegacy builds the enhanced unit for a legacy unit. Sub-units are
// grouped into learning outcomes by the leading integer of their title;
// sub-units without a numeric prefix stay in SubUnits only.
func (b *Builder) ConvertLegacy(lu LegacyUnit) Unit {
	u := b.NewUnit(lu.ID, lu.Title, lu.UnitRef)
	switch b.kind {
	case KindQualification:
		u.Mandatory = lu.Mandatory
		u.Level = lu.Level
		u.GLH = lu.GLH
		u.CreditValue = lu.CreditValue
	case KindStandard:
		u.Mandatory = lu.Mandatory
	case KindGateway:
		u.IsRequired = bool(lu.Mandatory)
	}

	u.SubUnits = cloneSubUnits(lu.SubUnits)
	u.LearnerMap = lu.LearnerMap
	u.TrainerMap = lu.TrainerMap
	u.EvidenceBoxes = append([]EvidenceBox(nil), lu.EvidenceBoxes...)
	u.Completed = lu.Completed

	index := make(map[string]int)
	var outcomes []LearningOutcome
	for _, su := range lu.SubUnits {
		m := legacyNumber.FindStringSubmatch(su.Title)
		if m == nil {
			continue
		}
		number := m[1]
		i, ok := index[number]
		if !ok {
			outcomes = append(outcomes, b.NewLearningOutcome(number, ""))
			i = len(outcomes) - 1
			index[number] = i
		}

		title := legacyPrefix.ReplaceAllString(su.Title, "")
		description := su.Description
		if description == "" {
			description = title
		}
		outcomes[i].AssessmentCriteria = append(outcomes[i].AssessmentCriteria, b.NewCriterion(CriterionInput{
			Number:      m[1] + "." + m[2],
			Title:       title,
			Description: description,
			Type:        b.defaultType(),
			ShowOrder:   atoi(m[2]),
			Category:    CategoryKnowledge,
		}))
	}

	sort.SliceStable(outcomes, func(a, c int) bool {
		return atoi(outcomes[a].Number) < atoi(outcomes[c].Number)
	})
	if outcomes != nil {
		u.LearningOutcomes = outcomes
	}
	return u
}

// DecodeUnit decodes a stored unit in either shape and returns the
// canonical unit. A unit without learning_outcomes is read as legacy.
func (b *Builder) DecodeUnit(data []byte) (Unit, error) {
	var probe struct {
		LearningOutcomes json.RawMessage `json:"learning_outcomes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Unit{}, fmt.Errorf("decode unit: %w", err)
	}

	raw := bytes.TrimSpace(probe.LearningOutcomes)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		var lu LegacyUnit
		if err := json.Unmarshal(data, &lu); err != nil {
			return Unit{}, fmt.Errorf("decode legacy unit: %w", err)
		}
		return b.ConvertLegacy(lu), nil
	}

	var u Unit
	if err := json.Unmarshal(data, &u); err != nil {
		return Unit{}, fmt.Errorf("decode enhanced unit: %w", err)
	}
	return b.Normalize(u), nil
}

// DecodeUnits decodes every raw unit, stopping at the first failure.
func (b *Builder) DecodeUnits(raw []json.RawMessage) ([]Unit, error) {
	units := make([]Unit, 0, len(raw))
	for i, r := range raw {
		u, err := b.DecodeUnit(r)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
		units = append(units, u)
	}
	return units, nil
}
