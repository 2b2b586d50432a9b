package curriculum

import (
	"regexp"
	"strings"
)

// SubTopic is a numbered section nested under an outline root.
type SubTopic struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// OutlineNode is a root section of a unit outline, keyed by its heading
// token ("1.", "1.1", ...).
type OutlineNode struct {
	Key       string     `json:"key"`
	Text      string     `json:"text"`
	SubTopics []SubTopic `json:"subTopics"`
}

var (
	newlineRuns = regexp.MustCompile(`\n+`)
	commaGaps   = regexp.MustCompile(`,\s*,`)
)

// StructureOutline joins the body lines and splits them into numbered
// sections. A section whose key starts with the current root key is nested
// under that root; any other key starts a new root.
func StructureOutline(body []string) []OutlineNode {
	joined := normalizeText(strings.Join(body, " "))
	joined = newlineRuns.ReplaceAllString(joined, " ")
	joined = commaRuns.ReplaceAllString(joined, ",")
	joined = commaGaps.ReplaceAllString(joined, ",")
	joined = strings.TrimSpace(joined)

	var nodes []OutlineNode
	root := -1
	for _, section := range splitHeadings(joined) {
		key, text, ok := splitSection(section)
		if !ok {
			continue
		}
		if root >= 0 && strings.HasPrefix(key, nodes[root].Key) {
			nodes[root].SubTopics = append(nodes[root].SubTopics, SubTopic{Number: key, Text: text})
			continue
		}
		nodes = append(nodes, OutlineNode{Key: key, Text: text, SubTopics: []SubTopic{}})
		root = len(nodes) - 1
	}
	return nodes
}

// splitHeadings cuts s before every digit run that is followed by a dot.
// Digits inside a dotted number ("1.1.1") do not start a new section.
func splitHeadings(s string) []string {
	var cuts []int
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			continue
		}
		if i > 0 && (isDigit(s[i-1]) || s[i-1] == '.') {
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j < len(s) && s[j] == '.' {
			cuts = append(cuts, i)
		}
		i = j
	}

	var sections []string
	start := 0
	for _, c := range cuts {
		if c > start {
			sections = append(sections, s[start:c])
		}
		start = c
	}
	if start < len(s) {
		sections = append(sections, s[start:])
	}
	return sections
}

// splitSection returns the first token of a section as its key and the
// remaining words as its text.
func splitSection(section string) (key, text string, ok bool) {
	section = strings.Trim(section, ", \t")
	section = strings.ReplaceAll(section, ",", " ")
	fields := strings.Fields(section)
	if len(fields) == 0 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
