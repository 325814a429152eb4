package skills

import (
	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// Registry maps classified intents to their composers.
type Registry struct {
	composers map[intent.Skill]Composer
	fallback  Composer
}

// NewRegistry creates a registry with the greeting composer as the
// fallback for unknown skills.
func NewRegistry() *Registry {
	greeting := NewGreetingComposer()
	r := &Registry{
		composers: make(map[intent.Skill]Composer),
		fallback:  greeting,
	}
	r.Register(NewProcessComposer())
	r.Register(NewContactComposer())
	r.Register(NewCourseComposer())
	r.Register(greeting)

	// Policy queries have no composer of their own: the knowledge
	// base's policy entries are reimbursement policy, which the
	// process composer presents best.
	r.composers[intent.SkillPolicy] = r.composers[intent.SkillProcess]
	return r
}

// Register adds a composer under its own skill.
func (r *Registry) Register(c Composer) {
	r.composers[c.Skill()] = c
}

// Compose renders the answer for a classified skill. Unknown skills
// fall back to the greeting composer rather than failing.
func (r *Registry) Compose(skill intent.Skill, query string, entities map[string]string, results []search.ScoredEntry) Result {
	if c, ok := r.composers[skill]; ok {
		return c.Compose(query, entities, results)
	}
	return r.fallback.Compose(query, entities, results)
}

// QuickActions returns the canned queries of every registered skill in
// classifier order.
func (r *Registry) QuickActions() map[intent.Skill][]QuickAction {
	out := make(map[intent.Skill][]QuickAction, len(r.composers))
	for skill, c := range r.composers {
		out[skill] = c.QuickActions()
	}
	return out
}
