package skills

import (
	"fmt"
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/intent"
	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// greetingConfidence is fixed: small talk is always answerable.
const greetingConfidence = 0.8

// GreetingComposer handles small talk and anything no other skill
// claimed. Scripted scenario responses from the knowledge base win over
// the canned texts, so the assistant's greetings stay editable without
// a rebuild.
type GreetingComposer struct{}

// NewGreetingComposer builds the greeting composer.
func NewGreetingComposer() *GreetingComposer { return &GreetingComposer{} }

func (g *GreetingComposer) Skill() intent.Skill { return intent.SkillGreeting }

func (g *GreetingComposer) Compose(query string, entities map[string]string, results []search.ScoredEntry) Result {
	text := g.respond(query, results)
	return Result{
		Success:    true,
		Text:       text,
		Sources:    []Source{},
		Confidence: greetingConfidence,
		Skill:      string(intent.SkillGreeting),
	}
}

func (g *GreetingComposer) respond(query string, results []search.ScoredEntry) string {
	lower := strings.ToLower(query)

	if scripted := scriptedResponse(lower, results); scripted != "" {
		return scripted
	}

	switch {
	case containsAny(lower, "你好", "hello", "hi", "嗨"):
		return greetingText
	case containsAny(lower, "谢谢", "感谢", "thank"):
		return thanksText
	case containsAny(lower, "再见", "拜拜", "bye", "goodbye"):
		return goodbyeText
	case containsAny(lower, "帮助", "介绍", "功能", "能做什么"):
		return helpText
	default:
		return fmt.Sprintf(generalChatText, query)
	}
}

// scriptedResponse returns the response of the first greeting scenario
// whose input the query matches exactly or subsumes.
func scriptedResponse(query string, results []search.ScoredEntry) string {
	if query == "" {
		return ""
	}
	for _, r := range results {
		if r.Entry.Category != knowledge.CategoryGreetings || r.IsFallback {
			continue
		}
		for _, sc := range r.Entry.Scenarios {
			input := strings.ToLower(sc.Input)
			if input == "" || sc.Response == "" {
				continue
			}
			if query == input || strings.Contains(query, input) {
				return sc.Response
			}
		}
	}
	return ""
}

func (g *GreetingComposer) QuickActions() []QuickAction {
	return []QuickAction{
		{Title: "问候", Query: "你好"},
		{Title: "帮助", Query: "你能做什么？"},
		{Title: "感谢", Query: "谢谢"},
		{Title: "告别", Query: "再见"},
	}
}

const greetingText = `👋 **通用对话助手**为您服务！

您好！我是校园智能助手，很高兴为您服务！

🎯 **我可以帮您处理**：
- 🏥 **医疗报销** - 报销流程、材料要求、比例标准
- 📞 **联系人查询** - 老师联系方式、部门信息
- 🎓 **学习指导** - 升学规划、专业发展、科研指导
- 💬 **日常对话** - 聊天交流、问题解答

请告诉我您需要什么帮助，我会尽力为您提供准确的信息！`

const thanksText = `😊 **通用对话助手**为您服务！

不客气！很高兴能帮助到您！

如果您还有其他问题，随时可以问我。我会继续为您提供校园生活各方面的帮助。

祝您学习生活愉快！✨`

const goodbyeText = `👋 **通用对话助手**为您服务！

再见！很高兴为您服务！

如果以后有任何校园生活相关的问题，随时欢迎回来咨询。

祝您一切顺利！🌟`

const helpText = `🤖 **通用对话助手**为您服务！

我是北京交通大学威海校区的校园智能助手，可以智能识别您的需求并路由到对应的专业助手。

🎯 **主要功能**：

**🏥 办事流程助手**
- 医疗报销流程和材料要求
- 学籍管理、宿舍申请
- 证明开具、手续办理

**📞 联系人助手**
- 老师联系方式查询
- 部门窗口信息
- 办公地点和时间

**🎓 课程学习助手**
- 升学规划指导（保研/考研/留学）
- CS专业发展方向
- 学习资源推荐

**💬 通用对话**
- 日常聊天交流
- 问题解答
- 校园生活咨询

请直接说出您的问题，我会自动识别并为您提供专业帮助！`

const generalChatText = `💬 **通用对话助手**为您服务！

我理解您的问题："%s"

作为校园智能助手，我主要专注于校园生活相关的服务，包括：
- 医疗报销和办事流程
- 联系人和部门查询
- 学习规划和专业指导

如果您有这些方面的问题，我会为您提供详细帮助。如果是其他话题，我也可以尝试与您交流，但可能无法提供专业建议。

请告诉我您具体需要什么帮助？`
