// Package strategy turns the strategist's free-form text blob into typed
// strategy and SWOT records and ranks them. Parsing is a tolerant
// line-oriented pass: malformed structure degrades to partial or empty
// records, it never fails.
package strategy

import (
	"strconv"
	"strings"

	"advisor/pkg/models"
)

// The SWOT block is delimited by two literal marker lines the strategist
// prompt demands verbatim.
const (
	SWOTStartMarker = "<!--SWOT_START-->"
	SWOTEndMarker   = "<!--SWOT_END-->"
)

// Parse converts one final-strategy blob into a structured Analysis. The
// worst case is a structurally valid but empty Analysis; callers check
// Empty() to render a fallback notice.
func Parse(text string) models.Analysis {
	main, swot := splitMarkers(text)
	analysis := parseMain(main)
	analysis.SWOT = parseSWOT(swot)
	return analysis
}

// splitMarkers separates the visible block from the hidden SWOT block. If
// either marker is missing the whole text is the main block.
func splitMarkers(text string) (main, swot string) {
	start := strings.Index(text, SWOTStartMarker)
	if start < 0 {
		return strings.TrimSpace(text), ""
	}
	rest := text[start+len(SWOTStartMarker):]
	end := strings.Index(rest, SWOTEndMarker)
	if end < 0 {
		return strings.TrimSpace(text), ""
	}
	return strings.TrimSpace(text[:start]), strings.TrimSpace(rest[:end])
}

type section struct {
	index int
	title string
	lines []string
}

// splitSections cuts a block into a preamble and the subsections started by
// strategy header lines.
func splitSections(block string) ([]string, []section) {
	var preamble []string
	var sections []section
	for _, line := range strings.Split(block, "\n") {
		if idx, title, ok := headerLine(line); ok {
			sections = append(sections, section{index: idx, title: title})
			continue
		}
		if len(sections) == 0 {
			preamble = append(preamble, line)
			continue
		}
		last := &sections[len(sections)-1]
		last.lines = append(last.lines, line)
	}
	return preamble, sections
}

func parseMain(block string) models.Analysis {
	preamble, sections := splitSections(block)
	analysis := models.Analysis{
		Preamble: strings.TrimSpace(strings.Join(dropRankingSummary(preamble), "\n")),
	}
	for _, sec := range sections {
		analysis.Strategies = append(analysis.Strategies, models.Strategy{
			EmissionIndex: sec.index,
			Title:         sec.title,
			Description:   description(sec.lines),
			Scores:        extractScores(strings.Join(sec.lines, "\n")),
		})
	}
	return analysis
}

// headerLine recognizes "### Strategy {i}: {title}".
func headerLine(line string) (int, string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "###") {
		return 0, "", false
	}
	s = strings.TrimSpace(strings.TrimLeft(s, "#"))
	const word = "strategy"
	if len(s) < len(word) || !strings.EqualFold(s[:len(word)], word) {
		return 0, "", false
	}
	s = strings.TrimSpace(s[len(word):])
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, "", false
	}
	idx, err := strconv.Atoi(s[:digits])
	if err != nil {
		return 0, "", false
	}
	title := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s[digits:]), ":"))
	return idx, title, true
}

// extractScores pulls criterion values out of a subsection. Both the "=" and
// ":" delimiter forms are accepted, "=" first; a criterion that appears in
// neither form is silently omitted.
func extractScores(text string) map[models.Criterion]int {
	scores := map[models.Criterion]int{}
	for _, c := range models.Criteria() {
		if v, ok := scanScore(text, string(c), '='); ok {
			scores[c] = v
			continue
		}
		if v, ok := scanScore(text, string(c), ':'); ok {
			scores[c] = v
		}
	}
	return scores
}

// scanScore finds "{name} {delim} {int}" anywhere in text, tolerating spaces
// around the delimiter.
func scanScore(text, name string, delim byte) (int, bool) {
	lower := strings.ToLower(text)
	needle := strings.ToLower(name)
	from := 0
	for {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			return 0, false
		}
		pos := from + i + len(needle)
		j := skipSpaces(text, pos)
		if j < len(text) && text[j] == delim {
			j = skipSpaces(text, j+1)
			k := j
			for k < len(text) && text[k] >= '0' && text[k] <= '9' {
				k++
			}
			if k > j {
				if v, err := strconv.Atoi(text[j:k]); err == nil {
					return v, true
				}
			}
		}
		from = pos
	}
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// description is the subsection text with the scores line, stray rule lines
// and any trailing ranking summary removed.
func description(lines []string) string {
	var keep []string
	for _, line := range lines {
		if isScoresLine(line) || isRuleLine(line) {
			continue
		}
		keep = append(keep, line)
	}
	return strings.TrimSpace(strings.Join(dropRankingSummary(keep), "\n"))
}

func isScoresLine(line string) bool {
	s := strings.TrimSpace(line)
	if !strings.Contains(s, "Scores") {
		return false
	}
	return strings.Contains(s, "Cost") || strings.Contains(s, "Optimality") || hasScorePair(s)
}

// hasScorePair reports a "{digit}; {digit}" run, the bare-numbers variant of
// the scores line.
func hasScorePair(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			continue
		}
		j := skipSpaces(s, i+1)
		if j < len(s) && s[j] == ';' {
			j = skipSpaces(s, j+1)
			if j < len(s) && s[j] >= '0' && s[j] <= '9' {
				return true
			}
		}
	}
	return false
}

// isRuleLine matches horizontal rules such as "---" or "***".
func isRuleLine(line string) bool {
	s := strings.TrimSpace(line)
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '-' && s[i] != '*' && s[i] != '_' {
			return false
		}
	}
	return true
}

// Lines the strategist appends as its own ranking recap; they duplicate
// what the Ranker computes and are dropped.
var rankingMarkers = []string{
	"Ranking",
	"1️⃣",
	"2️⃣",
	"3️⃣",
}

// dropRankingSummary truncates at the first ranking-summary line.
func dropRankingSummary(lines []string) []string {
	for i, line := range lines {
		s := strings.TrimSpace(line)
		for _, marker := range rankingMarkers {
			if strings.HasPrefix(s, marker) {
				return lines[:i]
			}
		}
	}
	return lines
}

const maxBullets = 5

func parseSWOT(block string) map[int]models.SWOTEntry {
	entries := map[int]models.SWOTEntry{}
	if block == "" {
		return entries
	}
	_, sections := splitSections(block)
	for _, sec := range sections {
		entry := models.SWOTEntry{
			StrategyIndex: sec.index,
			Strengths:     []string{},
			Weaknesses:    []string{},
			Opportunities: []string{},
			Threats:       []string{},
		}
		var current *[]string
		for _, line := range sec.lines {
			s := strings.TrimSpace(line)
			if letter, rest, ok := categoryLabel(s); ok {
				switch letter {
				case 'S':
					current = &entry.Strengths
				case 'W':
					current = &entry.Weaknesses
				case 'O':
					current = &entry.Opportunities
				case 'T':
					current = &entry.Threats
				default:
					// any other single-letter label ends the run
					current = nil
					continue
				}
				if text, ok := bulletText(rest); ok {
					appendBullet(current, text)
				}
				continue
			}
			if current == nil {
				continue
			}
			if text, ok := bulletText(s); ok {
				appendBullet(current, text)
			}
		}
		entries[sec.index] = entry
	}
	return entries
}

// categoryLabel recognizes a single capital letter followed by a colon.
func categoryLabel(s string) (byte, string, bool) {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return 0, "", false
	}
	j := skipSpaces(s, 1)
	if j >= len(s) || s[j] != ':' {
		return 0, "", false
	}
	return s[0], s[j+1:], true
}

// bulletText strips the bullet marker; only marked lines count as bullets.
func bulletText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "•") {
		return "", false
	}
	s = strings.TrimSpace(strings.TrimLeft(s, "-•"))
	if s == "" {
		return "", false
	}
	return s, true
}

func appendBullet(list *[]string, text string) {
	if len(*list) >= maxBullets {
		return
	}
	*list = append(*list, text)
}
