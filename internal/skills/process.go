package skills

import (
	"fmt"
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// strongEvidenceScore marks a retrieval hit solid enough to raise the
// process answer's confidence: a single keyword on one field scores at
// most 5, so anything at or above it matched more than incidentally.
const strongEvidenceScore = 5.0

// ProcessComposer answers administrative-procedure queries, medical
// reimbursement above all.
type ProcessComposer struct{}

// NewProcessComposer builds the process composer.
func NewProcessComposer() *ProcessComposer { return &ProcessComposer{} }

func (p *ProcessComposer) Skill() intent.Skill { return intent.SkillProcess }

func (p *ProcessComposer) Compose(query string, entities map[string]string, results []search.ScoredEntry) Result {
	if len(results) == 0 {
		return Result{
			Success:    false,
			Text:       "抱歉，我没有找到相关的办事流程信息。请尝试更具体的问题，或者联系相关部门咨询。",
			Sources:    []Source{},
			Confidence: 0.0,
			Skill:      string(intent.SkillProcess),
		}
	}

	var b strings.Builder
	b.WriteString("🏥 **办事流程助手**为您服务！\n")

	switch {
	case containsAny(query, "报销", "医疗", "医药费"):
		b.WriteString("关于医疗报销，我为您整理了以下信息：\n")
	case containsAny(query, "申请", "办理", "手续"):
		b.WriteString("关于申请办理，我为您整理了以下流程：\n")
	case containsAny(query, "材料", "需要", "要求"):
		b.WriteString("关于所需材料，我为您整理了以下清单：\n")
	default:
		b.WriteString("根据您的问题，我为您整理了以下信息：\n")
	}

	for i, r := range results {
		e := r.Entry
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, titleOr(e.Title, "相关信息"))

		switch {
		case e.Question != "" && e.Answer != "":
			fmt.Fprintf(&b, "**问题**: %s\n", e.Question)
			fmt.Fprintf(&b, "**回答**: %s\n", e.Answer)
		case e.Scenario != "":
			fmt.Fprintf(&b, "**场景**: %s\n", e.Scenario)
			if e.Content != "" {
				fmt.Fprintf(&b, "**解决方案**: %s\n", e.Content)
			}
		default:
			if e.Content != "" {
				b.WriteString(e.Content)
				b.WriteString("\n")
			}
		}

		if len(e.Checklist) > 0 {
			b.WriteString("**所需材料**:\n")
			for _, item := range e.Checklist {
				fmt.Fprintf(&b, "- %s\n", item)
			}
		}
		if e.Ratio != "" {
			fmt.Fprintf(&b, "**报销比例**: %s\n", e.Ratio)
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, "**注意事项**: %s\n", e.Notes)
		}
	}

	if containsAny(query, "联系", "电话", "老师", "咨询") {
		b.WriteString("\n📞 **联系方式**\n")
		b.WriteString("- 医保办：常春艳老师，思源东楼812B\n")
		b.WriteString("- 企业微信预约（推荐）\n")
	}

	b.WriteString("\n⚠️ **注意事项**\n")
	b.WriteString("- 请提前预约办理时间\n")
	b.WriteString("- 携带完整材料，避免多次往返\n")
	b.WriteString("- 如有疑问，建议先电话咨询")

	confidence := baseConfidence(results)
	for _, r := range results {
		if r.Score >= strongEvidenceScore {
			confidence = clip(confidence + 0.2)
			break
		}
	}

	return Result{
		Success:    true,
		Text:       b.String(),
		Sources:    sources(results),
		Confidence: confidence,
		Skill:      string(intent.SkillProcess),
	}
}

func (p *ProcessComposer) QuickActions() []QuickAction {
	return []QuickAction{
		{Title: "医疗报销流程", Query: "医疗报销需要什么流程？"},
		{Title: "报销材料清单", Query: "报销需要准备哪些材料？"},
		{Title: "报销比例查询", Query: "门诊和住院的报销比例是多少？"},
		{Title: "联系医保办", Query: "医保办老师的联系方式？"},
		{Title: "办理时间地点", Query: "报销在哪里办理？什么时间？"},
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}
