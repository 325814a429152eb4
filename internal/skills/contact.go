package skills

import (
	"fmt"
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// ContactComposer answers who-do-I-ask queries: teachers, departments
// and service windows.
type ContactComposer struct{}

// NewContactComposer builds the contact composer.
func NewContactComposer() *ContactComposer { return &ContactComposer{} }

func (c *ContactComposer) Skill() intent.Skill { return intent.SkillContact }

func (c *ContactComposer) Compose(query string, entities map[string]string, results []search.ScoredEntry) Result {
	if len(results) == 0 {
		return Result{
			Success:    false,
			Text:       "抱歉，我没有找到相关的联系人信息。请尝试更具体的问题，或者联系学校总机咨询。",
			Sources:    []Source{},
			Confidence: 0.0,
			Skill:      string(intent.SkillContact),
		}
	}

	var b strings.Builder
	b.WriteString("📞 **联系人助手**为您服务！\n")

	switch {
	case containsAny(query, "老师", "教授", "导师"):
		b.WriteString("关于老师信息，我为您整理了以下联系方式：\n")
	case containsAny(query, "部门", "学院", "处"):
		b.WriteString("关于部门信息，我为您整理了以下联系方式：\n")
	case containsAny(query, "窗口", "服务", "办公"):
		b.WriteString("关于服务窗口，我为您整理了以下信息：\n")
	default:
		b.WriteString("根据您的问题，我为您整理了以下联系人信息：\n")
	}

	for i, r := range results {
		e := r.Entry
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, titleOr(e.Title, "联系人信息"))

		if e.Name != "" {
			fmt.Fprintf(&b, "👤 **姓名**: %s\n", e.Name)
		}
		if e.Dept != "" {
			fmt.Fprintf(&b, "🏢 **部门**: %s\n", e.Dept)
		}
		if e.Role != "" {
			fmt.Fprintf(&b, "💼 **职位**: %s\n", e.Role)
		}
		if loc := officeOrAddress(e.OfficeLocation, e.Address); loc != "" {
			fmt.Fprintf(&b, "📍 **办公地点**: %s\n", loc)
		}
		if phone := e.PhoneNumber(); phone != "" {
			fmt.Fprintf(&b, "📱 **联系方式**: %s\n", phone)
		}
		if e.ServiceHours != "" {
			fmt.Fprintf(&b, "🕒 **服务时间**: %s\n", e.ServiceHours)
		}
		if e.Content != "" {
			fmt.Fprintf(&b, "📝 **说明**: %s\n", e.Content)
		}
	}

	b.WriteString("\n📞 **常用联系方式**\n")
	b.WriteString("- 学校总机：0631-3803000\n")
	b.WriteString("- 学生处：0631-3803001\n")
	b.WriteString("- 教务处：0631-3803002\n")
	b.WriteString("- 财务处：0631-3803003\n")

	b.WriteString("\n⚠️ **注意事项**\n")
	b.WriteString("- 建议在工作时间联系\n")
	b.WriteString("- 重要事务请提前预约\n")
	b.WriteString("- 企业微信联系更便捷")

	confidence := baseConfidence(results)
	for _, r := range results {
		if r.Entry.Name != "" && r.Entry.PhoneNumber() != "" {
			confidence = clip(confidence + 0.3)
			break
		}
	}

	return Result{
		Success:    true,
		Text:       b.String(),
		Sources:    sources(results),
		Confidence: confidence,
		Skill:      string(intent.SkillContact),
	}
}

func (c *ContactComposer) QuickActions() []QuickAction {
	return []QuickAction{
		{Title: "医保办联系", Query: "医保办常春艳老师联系方式？"},
		{Title: "学生处查询", Query: "学生处办公地点和电话？"},
		{Title: "教务处联系", Query: "教务处联系方式？"},
		{Title: "图书馆服务", Query: "图书馆开放时间和联系方式？"},
		{Title: "医务室信息", Query: "校医务室地址和电话？"},
	}
}

func officeOrAddress(office, address string) string {
	if office != "" {
		return office
	}
	return address
}
