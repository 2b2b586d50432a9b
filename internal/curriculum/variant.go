package curriculum

import (
	"strconv"
)

// Builder constructs kind-specific curriculum records. It is the only
// place that decides which variant fields a record carries.
type Builder struct {
	kind Kind
	ids  IDGenerator
}

// NewBuilder creates a builder for kind. An unknown kind builds
// qualification records; a nil ids uses UUIDGenerator.
func NewBuilder(kind Kind, ids IDGenerator) *Builder {
	if !kind.Valid() {
		kind = KindQualification
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Builder{kind: kind, ids: ids}
}

// Kind returns the kind this builder constructs.
func (b *Builder) Kind() Kind {
	return b.kind
}

// CriterionInput carries the kind-independent criterion fields.
type CriterionInput struct {
	Number      string
	Title       string
	Description string
	Type        CriterionType
	ShowOrder   int
	// Category applies to standard criteria; empty means knowledge.
	Category CriterionCategory
}

// NewUnit creates an empty unit of the builder's kind.
func (b *Builder) NewUnit(id ItemID, title, ref string) Unit {
	u := Unit{
		Kind:             b.kind,
		ID:               id,
		Title:            title,
		LearningOutcomes: []LearningOutcome{},
	}
	switch b.kind {
	case KindStandard:
		u.StandardUnit = &StandardUnit{ComponentRef: ref}
	case KindGateway:
		u.GatewayUnit = &GatewayUnit{SectionRef: ref, IsRequired: true}
	case KindQualification:
		u.QualificationUnit = &QualificationUnit{UnitRef: ref}
	}
	return u
}

// NewLearningOutcome creates an outcome of the builder's kind with no
// criteria.
func (b *Builder) NewLearningOutcome(number, description string) LearningOutcome {
	lo := LearningOutcome{
		Kind:               b.kind,
		ID:                 b.ids.NewID("lo"),
		Number:             number,
		Description:        description,
		AssessmentCriteria: []Criterion{},
	}
	switch b.kind {
	case KindStandard:
		lo.StandardOutcome = &StandardOutcome{ModuleType: ModuleCore}
	case KindGateway:
		lo.GatewayOutcome = &GatewayOutcome{}
	case KindQualification:
	}
	return lo
}

// NewCriterion creates a criterion of the builder's kind.
func (b *Builder) NewCriterion(in CriterionInput) Criterion {
	c := Criterion{
		Kind:        b.kind,
		ID:          b.ids.NewID("ac"),
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		ShowOrder:   in.ShowOrder,
	}
	if c.Type == "" {
		c.Type = b.defaultType()
	}
	switch b.kind {
	case KindStandard:
		category := in.Category
		if category == "" {
			category = CategoryKnowledge
		}
		c.StandardCriterion = &StandardCriterion{CriterionCategory: category}
	case KindGateway:
		c.GatewayCriterion = &GatewayCriterion{EvidenceRequired: true}
	case KindQualification:
		c.QualificationCriterion = &QualificationCriterion{AssessmentMethods: newMethodMap()}
	}
	return c
}

func (b *Builder) defaultType() CriterionType {
	if b.kind == KindGateway {
		return TypeRequired
	}
	return TypeToDo
}

func newMethodMap() map[AssessmentMethod]bool {
	m := make(map[AssessmentMethod]bool, len(AssessmentMethods))
	for _, method := range AssessmentMethods {
		m[method] = false
	}
	return m
}

// LegacyView flattens a unit's criteria into sub-units titled
// "<number> <title>", the shape evidence is recorded against.
func LegacyView(u Unit) []SubUnit {
	var subs []SubUnit
	for _, lo := range u.LearningOutcomes {
		for _, c := range lo.AssessmentCriteria {
			subs = append(subs, SubUnit{
				ID:          ItemID(c.ID),
				Title:       c.Number + " " + c.Title,
				Description: c.Description,
			})
		}
	}
	return subs
}

// Normalize enforces the tagged-union invariant on a decoded unit: Kind is
// set (the builder's kind when missing) and exactly the matching variant
// structs are present, all the way down to criteria. Reference codes carry
// over between variants.
func (b *Builder) Normalize(u Unit) Unit {
	kind := u.Kind
	if !kind.Valid() {
		kind = b.kind
	}
	nb := &Builder{kind: kind, ids: b.ids}

	ref := u.Ref()
	if ref == "" {
		ref = anyRef(u)
	}

	out := u
	out.Kind = kind
	out.QualificationUnit, out.StandardUnit, out.GatewayUnit = nil, nil, nil
	switch kind {
	case KindQualification:
		q := QualificationUnit{UnitRef: ref}
		if u.QualificationUnit != nil {
			q = *u.QualificationUnit
			q.UnitRef = ref
		}
		out.QualificationUnit = &q
	case KindStandard:
		out.StandardUnit = &StandardUnit{ComponentRef: ref}
	case KindGateway:
		g := GatewayUnit{SectionRef: ref, IsRequired: bool(u.Mandatory)}
		if u.GatewayUnit != nil {
			g.IsRequired = u.GatewayUnit.IsRequired
		}
		out.GatewayUnit = &g
	}

	out.LearningOutcomes = make([]LearningOutcome, 0, len(u.LearningOutcomes))
	for _, lo := range u.LearningOutcomes {
		out.LearningOutcomes = append(out.LearningOutcomes, nb.normalizeOutcome(lo))
	}
	return out
}

func (b *Builder) normalizeOutcome(lo LearningOutcome) LearningOutcome {
	out := lo
	out.Kind = b.kind
	if out.ID == "" {
		out.ID = b.ids.NewID("lo")
	}
	out.StandardOutcome, out.GatewayOutcome = nil, nil
	switch b.kind {
	case KindStandard:
		so := StandardOutcome{ModuleType: ModuleCore}
		if lo.StandardOutcome != nil && lo.ModuleType != "" {
			so.ModuleType = lo.ModuleType
		}
		out.StandardOutcome = &so
	case KindGateway:
		g := GatewayOutcome{}
		if lo.GatewayOutcome != nil {
			g = *lo.GatewayOutcome
		}
		out.GatewayOutcome = &g
	case KindQualification:
	}

	out.AssessmentCriteria = make([]Criterion, 0, len(lo.AssessmentCriteria))
	for _, c := range lo.AssessmentCriteria {
		out.AssessmentCriteria = append(out.AssessmentCriteria, b.normalizeCriterion(c))
	}
	return out
}

func (b *Builder) normalizeCriterion(c Criterion) Criterion {
	out := c
	out.Kind = b.kind
	if out.ID == "" {
		out.ID = b.ids.NewID("ac")
	}
	if out.Type == "" {
		out.Type = b.defaultType()
	}
	if out.ShowOrder == 0 && out.Number != "" {
		out.ShowOrder = showOrder(out.Number)
	}

	out.QualificationCriterion, out.StandardCriterion, out.GatewayCriterion = nil, nil, nil
	switch b.kind {
	case KindQualification:
		methods := newMethodMap()
		if c.QualificationCriterion != nil {
			for k, v := range c.AssessmentMethods {
				methods[k] = v
			}
		}
		out.QualificationCriterion = &QualificationCriterion{AssessmentMethods: methods}
	case KindStandard:
		s := StandardCriterion{CriterionCategory: CategoryKnowledge}
		if c.StandardCriterion != nil {
			s = *c.StandardCriterion
			if s.CriterionCategory == "" {
				s.CriterionCategory = CategoryKnowledge
			}
		}
		out.StandardCriterion = &s
	case KindGateway:
		g := GatewayCriterion{EvidenceRequired: true}
		if c.GatewayCriterion != nil {
			g = *c.GatewayCriterion
		}
		out.GatewayCriterion = &g
	}
	return out
}

func anyRef(u Unit) string {
	switch {
	case u.QualificationUnit != nil && u.UnitRef != "":
		return u.UnitRef
	case u.StandardUnit != nil && u.ComponentRef != "":
		return u.ComponentRef
	case u.GatewayUnit != nil && u.SectionRef != "":
		return u.SectionRef
	}
	return ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
