package skills

import (
	"fmt"
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// CourseComposer answers study-related queries: courses, grades, exams
// and graduate planning.
type CourseComposer struct{}

// NewCourseComposer builds the course composer.
func NewCourseComposer() *CourseComposer { return &CourseComposer{} }

func (c *CourseComposer) Skill() intent.Skill { return intent.SkillCourse }

func (c *CourseComposer) Compose(query string, entities map[string]string, results []search.ScoredEntry) Result {
	if len(results) == 0 {
		return Result{
			Success:    false,
			Text:       "抱歉，我没有找到相关的学习指导信息。请尝试更具体的问题，或者联系教务处咨询。",
			Sources:    []Source{},
			Confidence: 0.0,
			Skill:      string(intent.SkillCourse),
		}
	}

	var b strings.Builder
	b.WriteString("🎓 **课程学习助手**为您服务！\n")

	switch {
	case containsAny(query, "保研", "考研", "留学", "申请"):
		b.WriteString("关于升学规划，我为您整理了以下指导信息：\n")
	case containsAny(query, "选课", "课程", "成绩", "考试"):
		b.WriteString("关于课程学习，我为您整理了以下信息：\n")
	case containsAny(query, "科研", "项目", "实习"):
		b.WriteString("关于科研实践，我为您整理了以下指导：\n")
	case containsAny(query, "学习", "自学", "资源"):
		b.WriteString("关于学习资源，我为您整理了以下推荐：\n")
	default:
		b.WriteString("根据您的问题，我为您整理了以下学习指导：\n")
	}

	for i, r := range results {
		e := r.Entry
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, titleOr(e.Title, "学习指导"))

		if e.Question != "" && e.Answer != "" {
			fmt.Fprintf(&b, "**问题**: %s\n", e.Question)
			fmt.Fprintf(&b, "**回答**: %s\n", e.Answer)
		} else if e.Content != "" {
			b.WriteString(e.Content)
			b.WriteString("\n")
		}

		switch e.Priority() {
		case "high":
			b.WriteString("*🔥 高优先级*\n")
		case "medium":
			b.WriteString("*⭐ 中优先级*\n")
		case "low":
			b.WriteString("*📝 参考*\n")
		}
	}

	b.WriteString("\n💡 **学习建议**\n")
	b.WriteString("- 制定长期学习计划，分阶段实现目标\n")
	b.WriteString("- 注重实践项目，积累可展示的作品\n")
	b.WriteString("- 积极参与科研和竞赛，提升综合能力\n")
	b.WriteString("- 保持英语学习，为国际化发展做准备\n")

	b.WriteString("\n📞 **获取帮助**\n")
	b.WriteString("- 教务处：课程安排、成绩查询\n")
	b.WriteString("- 学生处：学习指导、职业规划\n")
	b.WriteString("- 导师：科研指导、学术发展")

	confidence := baseConfidence(results)
	for _, r := range results {
		if r.Entry.Priority() == "high" {
			confidence = clip(confidence + 0.2)
			break
		}
	}

	return Result{
		Success:    true,
		Text:       b.String(),
		Sources:    sources(results),
		Confidence: confidence,
		Skill:      string(intent.SkillCourse),
	}
}

func (c *CourseComposer) QuickActions() []QuickAction {
	return []QuickAction{
		{Title: "升学规划", Query: "保研考研留学怎么选择？"},
		{Title: "CS方向", Query: "计算机专业有哪些发展方向？"},
		{Title: "学习资源", Query: "有什么好的CS学习资源推荐？"},
		{Title: "科研指导", Query: "如何开始科研项目？"},
		{Title: "申请材料", Query: "升学申请需要准备哪些材料？"},
	}
}
