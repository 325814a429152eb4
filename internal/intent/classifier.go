// Package intent routes user queries to skills. Classification is a
// transparent pattern-density score over per-skill phrase tables, with
// entity extraction and retrieval-filter generation layered on top. No
// model calls happen here; the tables in patterns.go are the whole
// behavior.
package intent

import (
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/logger"
	"github.com/bjtuwh/campus-assistant-go/internal/stringutil"
)

// Skill identifies which composer answers a query.
type Skill string

const (
	SkillProcess  Skill = "process"
	SkillCourse   Skill = "course"
	SkillContact  Skill = "contact"
	SkillPolicy   Skill = "policy"
	SkillGreeting Skill = "greeting"
)

// Description returns the user-facing description of a skill.
func (s Skill) Description() string {
	switch s {
	case SkillProcess:
		return "办事流程助手 - 处理报销、申请、办理等事务"
	case SkillCourse:
		return "课程学习助手 - 处理选课、成绩、考试等学习事务"
	case SkillContact:
		return "联系人助手 - 查询老师、部门、窗口信息"
	case SkillPolicy:
		return "政策助手 - 解释规章制度、政策条款"
	case SkillGreeting:
		return "问候助手 - 处理日常问候和闲聊"
	default:
		return "通用助手 - 处理一般性查询"
	}
}

// Valid reports whether s is one of the known skills.
func (s Skill) Valid() bool {
	switch s {
	case SkillProcess, SkillCourse, SkillContact, SkillPolicy, SkillGreeting:
		return true
	}
	return false
}

// Skills returns all known skills in classifier order.
func Skills() []Skill {
	out := make([]Skill, len(classifierOrder))
	copy(out, classifierOrder)
	return out
}

// floorConfidence is the score below which classification gives up and
// routes to the greeting skill for a generic response.
const floorConfidence = 0.1

// fallbackConfidence is reported when the floor triggers.
const fallbackConfidence = 0.5

// Result is the outcome of classifying one query.
type Result struct {
	Skill          Skill             `json:"skill"`
	Confidence     float64           `json:"confidence"`
	Entities       map[string]string `json:"entities"`
	Filters        []string          `json:"filters"`
	OriginalQuery  string            `json:"original_query"`
	ProcessedQuery string            `json:"processed_query"`
}

// Classifier scores queries against the skill pattern tables.
type Classifier struct {
	log *logger.Logger
}

// NewClassifier builds a classifier.
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify determines the skill, confidence, entities and retrieval
// filters for a query. It never fails: a query matching nothing routes
// to the greeting skill at a fixed reduced confidence.
func (c *Classifier) Classify(query string) Result {
	processed := stringutil.Normalize(query)

	best := SkillGreeting
	bestScore := 0.0
	for _, skill := range classifierOrder {
		score := scoreSkill(processed, skillPatterns[skill])
		// Strict greater-than keeps the earlier skill on ties.
		if score > bestScore {
			best = skill
			bestScore = score
		}
	}

	confidence := bestScore
	if confidence < floorConfidence {
		best = SkillGreeting
		confidence = fallbackConfidence
	}

	entities := ExtractEntities(processed)
	filters := GenerateFilters(entities, best)

	if c.log != nil {
		c.log.WithSkill(string(best)).WithFields(map[string]any{
			"confidence": confidence,
			"entities":   len(entities),
		}).Debugf("classified query")
	}

	return Result{
		Skill:          best,
		Confidence:     confidence,
		Entities:       entities,
		Filters:        filters,
		OriginalQuery:  query,
		ProcessedQuery: processed,
	}
}

// scoreSkill computes the match score of one pattern table against the
// query. A pattern equal to the whole query counts double. The raw sum
// is normalized by the number of matches and boosted by match density,
// then clipped to 1.0.
func scoreSkill(query string, patterns []string) float64 {
	if query == "" {
		return 0
	}

	total := 0.0
	matched := 0
	for _, p := range patterns {
		if !strings.Contains(query, p) {
			continue
		}
		if query == p {
			total += 2.0
		} else {
			total += 1.0
		}
		matched++
	}

	if matched == 0 {
		return 0
	}

	base := total / float64(matched)
	density := float64(matched) / float64(len(patterns))
	score := base * (1 + density)
	if score > 1.0 {
		return 1.0
	}
	return score
}
