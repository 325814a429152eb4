// Package skills turns retrieval results into user-facing answers.
// Each skill owns the templated response for one query domain; the
// registry routes a classified intent to its composer. Composers are
// pure: same query, entities and results always produce the same text,
// which is what the WebSocket path streams when no LLM is configured.
package skills

import (
	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// Source describes one knowledge entry an answer was built from.
type Source struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Result is a composed answer.
type Result struct {
	Success    bool     `json:"success"`
	Text       string   `json:"content"`
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
	Skill      string   `json:"skill"`
}

// QuickAction is a canned query a client can offer as a shortcut.
type QuickAction struct {
	Title string `json:"title"`
	Query string `json:"query"`
}

// Composer builds the templated answer for one skill.
type Composer interface {
	// Skill returns the intent this composer answers.
	Skill() intent.Skill

	// Compose renders the answer from ranked knowledge entries.
	// An empty results slice yields a polite "no information" answer
	// with zero confidence.
	Compose(query string, entities map[string]string, results []search.ScoredEntry) Result

	// QuickActions returns example queries for this skill.
	QuickActions() []QuickAction
}

// sources converts scored entries to the wire representation, using the
// Chinese category display name like the rest of the answer text.
func sources(results []search.ScoredEntry) []Source {
	out := make([]Source, 0, len(results))
	for _, r := range results {
		out = append(out, Source{
			ID:       r.Entry.ID,
			Title:    r.Entry.Title,
			Category: r.Entry.Category.ChineseName(),
			Score:    r.Score,
		})
	}
	return out
}

// baseConfidence is the average result score normalized to [0,1].
// Skill composers add their own evidence bonuses on top.
func baseConfidence(results []search.ScoredEntry) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range results {
		total += r.Score
	}
	return clip(total / float64(len(results)) / 2.0)
}

func clip(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0 {
		return 0
	}
	return v
}
