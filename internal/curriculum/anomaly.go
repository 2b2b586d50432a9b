package curriculum

// AnomalyKind names a tolerated parsing problem. None of these stop
// ingestion; the affected field or section is left out.
type AnomalyKind string

const (
	AnomalyMalformedHeaderRow     AnomalyKind = "malformed_header_row"
	AnomalyUnrecognizedSectionKey AnomalyKind = "unrecognized_section_key"
	AnomalyEmptyEvidenceStructure AnomalyKind = "empty_evidence_structure"
)

// Anomaly records one tolerated problem and the text that caused it.
type Anomaly struct {
	Kind   AnomalyKind `json:"kind"`
	Unit   int         `json:"unit,omitempty"`
	Detail string      `json:"detail"`
}
