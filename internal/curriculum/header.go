package curriculum

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// HeaderLines is the number of leading lines of a unit page that hold
// course metadata.
const HeaderLines = 4

// Well-known CourseDetails keys.
const (
	FieldCourseCode          = "course_code"
	FieldLevel               = "Level"
	FieldCreditValue         = "Credit value"
	FieldCredit              = "Credit"
	FieldGuidedLearningHours = "Guided learning hours"
	FieldGLH                 = "GLH"
)

// CourseDetails maps header labels to their raw string values.
type CourseDetails map[string]string

// Get returns the value for the first key present with a non-empty value.
func (d CourseDetails) Get(keys ...string) string {
	for _, k := range keys {
		if v := d[k]; v != "" {
			return v
		}
	}
	return ""
}

// Number parses the first present key as a number, 0 on failure.
func (d CourseDetails) Number(keys ...string) float64 {
	return parseNumber(d.Get(keys...))
}

// Block is one unit page split into its header metadata and outline body.
type Block struct {
	Details   CourseDetails
	Body      []string
	Anomalies []Anomaly
}

var (
	commaRuns     = regexp.MustCompile(`,{2,}`)
	edgeCommas    = regexp.MustCompile(`^,+|,+$`)
	trailingIndex = regexp.MustCompile(`\s+\d+$`)
)

// ParseBlock splits a unit page into header details and body lines. Header
// cells are "Label:value" where the value repeats the label in its first
// comma segment, so the value is the second segment. The first line also
// carries the course code in its third segment. Rows that do not parse are
// recorded as anomalies and leave their field unset.
func ParseBlock(lines []string) Block {
	b := Block{Details: CourseDetails{}}

	n := min(HeaderLines, len(lines))
	for i := 0; i < n; i++ {
		cleaned := cleanHeaderLine(lines[i])
		label, value, ok := strings.Cut(cleaned, ":")
		label = normalizeLabel(label)
		if !ok || label == "" {
			b.Anomalies = append(b.Anomalies, Anomaly{
				Kind:   AnomalyMalformedHeaderRow,
				Detail: lines[i],
			})
			continue
		}

		segments := strings.Split(value, ",")
		if len(segments) < 2 {
			b.Anomalies = append(b.Anomalies, Anomaly{
				Kind:   AnomalyMalformedHeaderRow,
				Detail: lines[i],
			})
			continue
		}
		b.Details[label] = strings.TrimSpace(segments[1])

		if i == 0 && len(segments) > 2 {
			b.Details[FieldCourseCode] = strings.TrimSpace(segments[2])
		}
	}

	if len(lines) > HeaderLines {
		b.Body = lines[HeaderLines:]
	}
	return b
}

func cleanHeaderLine(s string) string {
	s = normalizeText(s)
	s = strings.ReplaceAll(s, "\n", ",")
	s = commaRuns.ReplaceAllString(s, ",")
	return edgeCommas.ReplaceAllString(s, "")
}

// normalizeLabel trims a header label and drops a trailing ordinal, so
// "Unit 1" and "Unit 12" both read as "Unit".
func normalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(trailingIndex.ReplaceAllString(s, ""))
}

// normalizeText folds compatibility characters from PDF extraction
// (ligatures, non-breaking spaces, full-width digits) to their plain forms.
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	return strings.ReplaceAll(s, "\r", "")
}
