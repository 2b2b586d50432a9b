package curriculum

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the three curriculum variants.
type Kind string

const (
	KindQualification Kind = "Qualification"
	KindStandard      Kind = "Standard"
	KindGateway       Kind = "Gateway"
)

// ParseKind maps a course core type to a Kind. Unknown or empty values fall
// back to Qualification, matching how course records without a core type
// have always been treated.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return KindStandard
	case "gateway":
		return KindGateway
	default:
		return KindQualification
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindQualification, KindStandard, KindGateway:
		return true
	}
	return false
}

// CriterionType is derived from criterion text, never authored.
type CriterionType string

const (
	TypeToDo     CriterionType = "to-do"
	TypeToKnow   CriterionType = "to-know"
	TypeRequired CriterionType = "req"
	TypeOther    CriterionType = "other"
)

// AssessmentMethod is a qualification assessment method code.
type AssessmentMethod string

const (
	MethodProfessionalDiscussion AssessmentMethod = "pe"
	MethodDirectObservation      AssessmentMethod = "do"
	MethodWitnessTestimony       AssessmentMethod = "wt"
	MethodQuestionAnswer         AssessmentMethod = "qa"
	MethodProductSample          AssessmentMethod = "ps"
	MethodDiscussion             AssessmentMethod = "di"
	MethodSimulation             AssessmentMethod = "si"
	MethodExpertEvidence         AssessmentMethod = "ee"
	MethodBasicAssessment        AssessmentMethod = "ba"
	MethodOther                  AssessmentMethod = "ot"
	MethodPersonalLog            AssessmentMethod = "ipl"
	MethodLearningOutcome        AssessmentMethod = "lo"
)

// AssessmentMethods lists every method code in display order.
var AssessmentMethods = []AssessmentMethod{
	MethodProfessionalDiscussion,
	MethodDirectObservation,
	MethodWitnessTestimony,
	MethodQuestionAnswer,
	MethodProductSample,
	MethodDiscussion,
	MethodSimulation,
	MethodExpertEvidence,
	MethodBasicAssessment,
	MethodOther,
	MethodPersonalLog,
	MethodLearningOutcome,
}

// CriterionCategory classifies standard criteria.
type CriterionCategory string

const (
	CategoryKnowledge CriterionCategory = "knowledge"
	CategorySkill     CriterionCategory = "skill"
	CategoryBehavior  CriterionCategory = "behavior"
)

// ModuleType marks a standard learning outcome as core or optional.
type ModuleType string

const (
	ModuleCore     ModuleType = "core"
	ModuleOptional ModuleType = "optional"
)

// Criterion is an assessment criterion. Exactly one of the embedded
// variant structs is set, and it matches Kind.
type Criterion struct {
	Kind        Kind          `json:"kind"`
	ID          string        `json:"id"`
	Number      string        `json:"number"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        CriterionType `json:"type"`
	ShowOrder   int           `json:"showOrder"`
	TimesMet    int           `json:"timesMet"`
	Completed   bool          `json:"completed,omitempty"`

	*QualificationCriterion
	*StandardCriterion
	*GatewayCriterion
}

// QualificationCriterion holds the qualification-only criterion fields.
type QualificationCriterion struct {
	AssessmentMethods map[AssessmentMethod]bool `json:"assessmentMethods"`
}

// StandardCriterion holds the standard-only criterion fields.
type StandardCriterion struct {
	CriterionCategory CriterionCategory `json:"criterionCategory"`
	ReferenceNumber   string            `json:"referenceNumber,omitempty"`
}

// GatewayCriterion holds the gateway-only criterion fields.
type GatewayCriterion struct {
	IsCompleted      bool `json:"isCompleted"`
	EvidenceRequired bool `json:"evidenceRequired"`
}

// LearningOutcome groups the criteria numbered "<Number>.M".
type LearningOutcome struct {
	Kind               Kind        `json:"kind"`
	ID                 string      `json:"id"`
	Number             string      `json:"number"`
	Description        string      `json:"description"`
	AssessmentCriteria []Criterion `json:"assessment_criteria"`
	Completed          bool        `json:"completed,omitempty"`

	*StandardOutcome
	*GatewayOutcome
}

// StandardOutcome holds the standard-only outcome fields.
type StandardOutcome struct {
	ModuleType ModuleType `json:"moduleType"`
}

// GatewayOutcome holds the gateway-only outcome fields.
type GatewayOutcome struct {
	CheckpointCategory string `json:"checkpointCategory"`
}

// EvidenceBox is runtime evidence state attached to a unit or sub-unit.
type EvidenceBox struct {
	LearnerMap bool `json:"learnerMap"`
	TrainerMap bool `json:"trainerMap"`
}

// SubUnit is the flattened leaf used for evidence tracking.
type SubUnit struct {
	ID            ItemID        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description,omitempty"`
	LearnerMap    bool          `json:"learnerMap,omitempty"`
	TrainerMap    bool          `json:"trainerMap,omitempty"`
	EvidenceBoxes []EvidenceBox `json:"evidenceBoxes,omitempty"`
	Completed     bool          `json:"completed,omitempty"`
}

// Unit is the canonical unit shape. Flat units carry evidence on the unit
// itself; nested units carry it per sub-unit.
type Unit struct {
	Kind  Kind   `json:"kind"`
	ID    ItemID `json:"id"`
	Title string `json:"title"`
	// Mandatory applies to qualification and standard units. Gateway units
	// use IsRequired.
	Mandatory        Flag              `json:"mandatory,omitempty"`
	LearningOutcomes []LearningOutcome `json:"learning_outcomes"`
	SubUnits         []SubUnit         `json:"subUnit,omitempty"`
	LearnerMap       bool              `json:"learnerMap,omitempty"`
	TrainerMap       bool              `json:"trainerMap,omitempty"`
	EvidenceBoxes    []EvidenceBox     `json:"evidenceBoxes,omitempty"`
	Completed        bool              `json:"completed,omitempty"`

	*QualificationUnit
	*StandardUnit
	*GatewayUnit
}

// QualificationUnit holds the qualification-only unit fields.
type QualificationUnit struct {
	UnitRef     string  `json:"unit_ref"`
	Level       Numeric `json:"level"`
	GLH         Numeric `json:"glh"`
	CreditValue Numeric `json:"credit_value"`
}

// StandardUnit holds the standard-only unit fields.
type StandardUnit struct {
	ComponentRef string `json:"component_ref"`
}

// GatewayUnit holds the gateway-only unit fields.
type GatewayUnit struct {
	SectionRef string `json:"section_ref"`
	IsRequired bool   `json:"isRequired"`
}

// Ref returns the unit's reference code regardless of kind.
func (u Unit) Ref() string {
	switch u.Kind {
	case KindStandard:
		if u.StandardUnit != nil {
			return u.ComponentRef
		}
	case KindGateway:
		if u.GatewayUnit != nil {
			return u.SectionRef
		}
	default:
		if u.QualificationUnit != nil {
			return u.UnitRef
		}
	}
	return ""
}

// Course is a master curriculum record with its embedded unit hierarchy.
type Course struct {
	ID                  string  `json:"course_id"`
	Name                string  `json:"course_name"`
	Code                string  `json:"course_code,omitempty"`
	Kind                Kind    `json:"course_core_type"`
	Level               float64 `json:"level"`
	TotalCredits        float64 `json:"total_credits"`
	GuidedLearningHours float64 `json:"guided_learning_hours"`
	Units               []Unit  `json:"units"`
}

// ItemID is an identifier that also accepts JSON numbers, which is how
// older records store sub-unit ids.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	*id = ItemID(data)
	return nil
}

// Flag is a boolean that also accepts the strings "true" and "false".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	*f = Flag(strings.EqualFold(s, "true"))
	return nil
}

// Numeric is a number that also accepts numeric strings. Anything that does
// not parse decodes as 0.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	*n = Numeric(parseNumber(s))
	return nil
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
