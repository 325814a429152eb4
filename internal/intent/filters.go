package intent

import "github.com/bjtuwh/campus-assistant-go/internal/sliceutil"

// entityFilterOrder fixes the order entity-derived filter tokens appear
// in, so the filter list is deterministic for a given query.
var entityFilterOrder = []string{"hospital", "dept", "type", "time"}

// skillFilters maps each skill to the retrieval filter tokens it
// implies. The greeting skill implies none: greetings search the whole
// knowledge base.
var skillFilters = map[Skill][]string{
	SkillProcess: {"procedure", "materials", "contacts"},
	SkillCourse:  {"enrollment", "grades", "exams"},
	SkillContact: {"teachers", "departments", "offices"},
	SkillPolicy:  {"policies", "regulations", "standards"},
}

// GenerateFilters derives retrieval filter tokens from the extracted
// entities and the classified skill. The result is deduplicated with
// first occurrence kept.
func GenerateFilters(entities map[string]string, skill Skill) []string {
	var filters []string
	for _, t := range entityFilterOrder {
		if _, ok := entities[t]; ok {
			filters = append(filters, t)
		}
	}
	filters = append(filters, skillFilters[skill]...)
	return sliceutil.Deduplicate(filters, func(s string) string { return s })
}
