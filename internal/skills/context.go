package skills

import (
	"fmt"
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/knowledge"
	"github.com/bjtuwh/campus-assistant-go/internal/search"
)

// BuildContext renders retrieval results as the structured Chinese
// context block given to the LLM. Each entry becomes a numbered section
// with its category display name and the fields that matter for its
// category, separated by --- markers. The LLM is instructed to answer
// only from this text, so everything the answer may cite must be here.
func BuildContext(query string, results []search.ScoredEntry) string {
	var b strings.Builder
	lowerQuery := strings.ToLower(query)

	for i, r := range results {
		e := r.Entry

		fmt.Fprintf(&b, "【知识条目 %d】\n", i+1)
		fmt.Fprintf(&b, "分类: %s\n", e.Category.ChineseName())

		// FAQ entries lead with their question as the title.
		if e.Category == knowledge.CategoryCommonQuestions && e.Question != "" {
			fmt.Fprintf(&b, "标题: %s\n", e.Question)
		} else if e.Title != "" {
			fmt.Fprintf(&b, "标题: %s\n", e.Title)
		}

		switch e.Category {
		case knowledge.CategoryCommonQuestions:
			if e.Answer != "" {
				fmt.Fprintf(&b, "回答: %s\n", e.Answer)
			}
		case knowledge.CategoryGreetings:
			for _, sc := range e.Scenarios {
				input := strings.ToLower(sc.Input)
				if input == "" {
					continue
				}
				if lowerQuery == input || strings.Contains(lowerQuery, input) {
					fmt.Fprintf(&b, "问候类型: %s\n", sc.Input)
					fmt.Fprintf(&b, "回复: %s\n", sc.Response)
					break
				}
			}
		case knowledge.CategoryContacts:
			if e.Name != "" {
				fmt.Fprintf(&b, "姓名: %s\n", e.Name)
			}
			if e.Dept != "" {
				fmt.Fprintf(&b, "部门: %s\n", e.Dept)
			}
			if e.Role != "" {
				fmt.Fprintf(&b, "职责: %s\n", e.Role)
			}
			if e.OfficeLocation != "" {
				fmt.Fprintf(&b, "办公地点: %s\n", e.OfficeLocation)
			}
		case knowledge.CategoryHospitals:
			if e.Name != "" {
				fmt.Fprintf(&b, "医院名称: %s\n", e.Name)
			}
			if e.Address != "" {
				fmt.Fprintf(&b, "医院地址: %s\n", e.Address)
			}
			if e.Phone != "" {
				fmt.Fprintf(&b, "联系电话: %s\n", e.Phone)
			}
			if e.ServiceHours != "" {
				fmt.Fprintf(&b, "服务时间: %s\n", e.ServiceHours)
			}
			if e.ComplaintPhone != "" {
				fmt.Fprintf(&b, "投诉电话: %s\n", e.ComplaintPhone)
			}
			if e.AppointmentChannels != "" {
				fmt.Fprintf(&b, "预约渠道: %s\n", e.AppointmentChannels)
			}
			if e.ContractStatus != "" {
				fmt.Fprintf(&b, "合同状态: %s\n", e.ContractStatus)
			}
		case knowledge.CategoryMaterials:
			if len(e.Checklist) > 0 {
				b.WriteString("所需材料清单:\n")
				for _, item := range e.Checklist {
					fmt.Fprintf(&b, "- %s\n", item)
				}
			}
		}

		fmt.Fprintf(&b, "内容: %s\n", e.Content)

		if e.Ratio != "" {
			fmt.Fprintf(&b, "报销比例: %s\n", e.Ratio)
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, "注意事项: %s\n", e.Notes)
		}
		if len(e.Tags) > 0 {
			fmt.Fprintf(&b, "标签: %s\n", strings.Join(e.Tags, ", "))
		}

		b.WriteString("\n---\n\n")
	}

	return b.String()
}
