package curriculum

// Clone returns a deep copy of u that shares no slices, maps or variant
// structs with it.
func (u Unit) Clone() Unit {
	out := u
	if u.QualificationUnit != nil {
		q := *u.QualificationUnit
		out.QualificationUnit = &q
	}
	if u.StandardUnit != nil {
		s := *u.StandardUnit
		out.StandardUnit = &s
	}
	if u.GatewayUnit != nil {
		g := *u.GatewayUnit
		out.GatewayUnit = &g
	}
	if u.LearningOutcomes != nil {
		out.LearningOutcomes = make([]LearningOutcome, len(u.LearningOutcomes))
		for i, lo := range u.LearningOutcomes {
			out.LearningOutcomes[i] = lo.Clone()
		}
	}
	out.SubUnits = cloneSubUnits(u.SubUnits)
	if u.EvidenceBoxes != nil {
		out.EvidenceBoxes = append([]EvidenceBox(nil), u.EvidenceBoxes...)
	}
	return out
}

// Clone returns a deep copy of lo.
func (lo LearningOutcome) Clone() LearningOutcome {
	out := lo
	if lo.StandardOutcome != nil {
		s := *lo.StandardOutcome
		out.StandardOutcome = &s
	}
	if lo.GatewayOutcome != nil {
		g := *lo.GatewayOutcome
		out.GatewayOutcome = &g
	}
	if lo.AssessmentCriteria != nil {
		out.AssessmentCriteria = make([]Criterion, len(lo.AssessmentCriteria))
		for i, c := range lo.AssessmentCriteria {
			out.AssessmentCriteria[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of c.
func (c Criterion) Clone() Criterion {
	out := c
	if c.QualificationCriterion != nil {
		methods := make(map[AssessmentMethod]bool, len(c.AssessmentMethods))
		for k, v := range c.AssessmentMethods {
			methods[k] = v
		}
		out.QualificationCriterion = &QualificationCriterion{AssessmentMethods: methods}
	}
	if c.StandardCriterion != nil {
		s := *c.StandardCriterion
		out.StandardCriterion = &s
	}
	if c.GatewayCriterion != nil {
		g := *c.GatewayCriterion
		out.GatewayCriterion = &g
	}
	return out
}

// CloneUnits deep-copies a unit list.
func CloneUnits(units []Unit) []Unit {
	if units == nil {
		return nil
	}
	out := make([]Unit, len(units))
	for i, u := range units {
		out[i] = u.Clone()
	}
	return out
}

func cloneSubUnits(subs []SubUnit) []SubUnit {
	if subs == nil {
		return nil
	}
	out := make([]SubUnit, len(subs))
	for i, s := range subs {
		out[i] = s
		if s.EvidenceBoxes != nil {
			out[i].EvidenceBoxes = append([]EvidenceBox(nil), s.EvidenceBoxes...)
		}
	}
	return out
}
