package search

import (
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
)

// Scoring weights. Exact whole-query containment on a field is always worth
// more than a single keyword hit on the same field, and identity-style
// fields (contact name, hospital name) get flat one-shot bonuses so a
// person or hospital query pins its entry to the top of the ranking.
const (
	weightTitleExact   = 10.0
	weightContentExact = 6.0
	weightTitleWord    = 5.0
	weightContentWord  = 3.0
	weightTagWord      = 4.0

	weightGreetingExact = 20.0
	weightGreetingWord  = 10.0

	weightQuestionExact = 12.0
	weightQuestionWord  = 6.0

	weightScenarioExact = 8.0
	weightScenarioWord  = 4.0

	weightNameMatch     = 15.0
	weightDeptMatch     = 8.0
	weightHospitalMatch = 10.0
)

// fieldLexicon awards a flat bonus when the entry carries a field and the
// query uses any of the phrases that ask about it. Kept as data so new
// field/phrase pairs are one line, not a new scoring branch.
type fieldLexicon struct {
	hasField func(*knowledge.Entry) bool
	phrases  []string
	points   float64
}

var fieldLexicons = []fieldLexicon{
	{
		hasField: func(e *knowledge.Entry) bool { return e.Ratio != "" },
		phrases:  []string{"比例", "百分比", "报销比例"},
		points:   7.0,
	},
}

// Score computes the relevance of a knowledge entry for a query.
//
// query must already be normalized (lower-cased, punctuation stripped) and
// keywords must come from ExtractKeywords plus DetectSpecialKeywords. The
// score is a pure sum of the weighted field matches above; identical inputs
// always produce identical scores.
func Score(e *knowledge.Entry, query string, keywords []string) float64 {
	var score float64

	title := strings.ToLower(e.Title)
	content := strings.ToLower(e.Content)

	if query != "" {
		if title != "" && strings.Contains(title, query) {
			score += weightTitleExact
		}
		if content != "" && strings.Contains(content, query) {
			score += weightContentExact
		}
	}

	for _, kw := range keywords {
		if title != "" && strings.Contains(title, kw) {
			score += weightTitleWord
		}
		if content != "" && strings.Contains(content, kw) {
			score += weightContentWord
		}
		for _, tag := range e.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				score += weightTagWord
			}
		}
	}

	if e.Category == knowledge.CategoryGreetings && len(e.Scenarios) > 0 {
		score += scoreGreetingScenarios(e.Scenarios, query, keywords)
	}

	if e.Question != "" {
		question := strings.ToLower(e.Question)
		if query != "" && strings.Contains(question, query) {
			score += weightQuestionExact
		}
		for _, kw := range keywords {
			if strings.Contains(question, kw) {
				score += weightQuestionWord
			}
		}
	}

	if e.Scenario != "" {
		scenario := strings.ToLower(e.Scenario)
		if query != "" && strings.Contains(scenario, query) {
			score += weightScenarioExact
		}
		for _, kw := range keywords {
			if strings.Contains(scenario, kw) {
				score += weightScenarioWord
			}
		}
	}

	if e.Name != "" {
		name := strings.ToLower(e.Name)
		if anyKeywordIn(name, keywords) {
			score += weightNameMatch
			if e.Category == knowledge.CategoryHospitals {
				score += weightHospitalMatch
			}
		}
	}

	if e.Dept != "" && anyKeywordIn(strings.ToLower(e.Dept), keywords) {
		score += weightDeptMatch
	}

	for _, lex := range fieldLexicons {
		if !lex.hasField(e) {
			continue
		}
		for _, phrase := range lex.phrases {
			if strings.Contains(query, phrase) {
				score += lex.points
				break
			}
		}
	}

	return score
}

// scoreGreetingScenarios prefers the single best-fitting scenario: the
// first one whose input the query matches exactly or subsumes takes the
// full exact bonus and ends the search. Only when no scenario matches that
// way do individual keyword hits across all scenarios accumulate instead.
func scoreGreetingScenarios(scenarios []knowledge.Scenario, query string, keywords []string) float64 {
	if query != "" {
		for _, sc := range scenarios {
			input := strings.ToLower(sc.Input)
			if input == "" {
				continue
			}
			if query == input || strings.Contains(query, input) {
				return weightGreetingExact
			}
		}
	}

	var score float64
	for _, sc := range scenarios {
		input := strings.ToLower(sc.Input)
		if input == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(input, kw) {
				score += weightGreetingWord
			}
		}
	}
	return score
}

func anyKeywordIn(field string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(field, kw) {
			return true
		}
	}
	return false
}
