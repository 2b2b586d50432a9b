package curriculum

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const titleLimit = 50

var (
	outcomeKey   = regexp.MustCompile(`^(\d+)\.$`)
	criterionKey = regexp.MustCompile(`^(\d+)\.\d+(?:\.\d+)*$`)
)

// ClassifyCriterion derives a criterion's type from its text.
func ClassifyCriterion(text string) CriterionType {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(t, "be able to"), strings.HasPrefix(t, "can "):
		return TypeToDo
	case strings.Contains(t, "know"), strings.Contains(t, "understand"), strings.Contains(t, "explain"):
		return TypeToKnow
	default:
		return TypeOther
	}
}

// Classify turns outline nodes into learning outcomes of the builder's
// kind. "N." keys are outcome headers and "N.M" keys are criteria of
// outcome N, which is created on first reference if its header has not
// been seen yet. Subtopics are always read as criteria. Outcomes and
// criteria keep discovery order.
func (b *Builder) Classify(nodes []OutlineNode) ([]LearningOutcome, []Anomaly) {
	c := &classification{builder: b, index: make(map[string]int)}

	for _, n := range nodes {
		switch {
		case outcomeKey.MatchString(n.Key):
			number := outcomeKey.FindStringSubmatch(n.Key)[1]
			c.outcome(number).Description = n.Text
		case criterionKey.MatchString(n.Key):
			c.criterion(n.Key, n.Text)
		default:
			c.skip(n.Key, n.Text)
		}

		for _, st := range n.SubTopics {
			if criterionKey.MatchString(st.Number) {
				c.criterion(st.Number, st.Text)
				continue
			}
			c.skip(st.Number, st.Text)
		}
	}

	return c.outcomes, c.anomalies
}

type classification struct {
	builder   *Builder
	outcomes  []LearningOutcome
	index     map[string]int
	anomalies []Anomaly
}

// outcome returns the outcome numbered number, creating it with a
// placeholder description if needed.
func (c *classification) outcome(number string) *LearningOutcome {
	if i, ok := c.index[number]; ok {
		return &c.outcomes[i]
	}
	c.outcomes = append(c.outcomes, c.builder.NewLearningOutcome(number, "Learning Outcome "+number))
	c.index[number] = len(c.outcomes) - 1
	return &c.outcomes[len(c.outcomes)-1]
}

func (c *classification) criterion(number, text string) {
	parent := criterionKey.FindStringSubmatch(number)[1]
	typ := ClassifyCriterion(text)

	lo := c.outcome(parent)
	lo.AssessmentCriteria = append(lo.AssessmentCriteria, c.builder.NewCriterion(CriterionInput{
		Number:      number,
		Title:       truncate(text, titleLimit),
		Description: text,
		Type:        typ,
		ShowOrder:   showOrder(number),
		Category:    categoryFor(typ),
	}))
}

func (c *classification) skip(key, text string) {
	c.anomalies = append(c.anomalies, Anomaly{
		Kind:   AnomalyUnrecognizedSectionKey,
		Detail: strings.TrimSpace(key + " " + text),
	})
}

// showOrder is the last dotted segment of a criterion number.
func showOrder(number string) int {
	last := number[strings.LastIndex(number, ".")+1:]
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0
	}
	return n
}

func categoryFor(t CriterionType) CriterionCategory {
	if t == TypeToDo {
		return CategorySkill
	}
	return CategoryKnowledge
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
