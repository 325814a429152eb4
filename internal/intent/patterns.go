package intent

import "regexp"

// skillPatterns maps each skill to the trigger phrases counted by the
// classifier. Entries are plain substrings, not regular expressions:
// Chinese has no word boundaries, so containment is the match relation.
//
// Adding a phrase here is the whole work of teaching the classifier a
// new query shape. Order inside a list does not matter; order across
// skills does (see classifierOrder).
var skillPatterns = map[Skill][]string{
	SkillProcess: {
		// medical reimbursement
		"报销", "医疗", "医药费", "看病", "就医", "住院", "门诊",
		"发票", "转诊", "急诊", "寒暑假", "到账", "周期", "截止",

		// administrative procedures
		"学籍", "注册", "休学", "复学", "转学", "退学",
		"宿舍", "住宿", "调换", "退宿",
		"成绩单", "在读证明", "毕业证明", "学位证明",
		"盖章", "审核", "手续",
	},

	SkillCourse: {
		// courses
		"课程", "选课", "退课", "调课", "课表", "上课",
		"学分", "学时", "必修", "选修", "公选", "专业课",

		// grades
		"成绩", "分数", "绩点", "gpa", "排名", "查询",
		"补考", "重修", "缓考", "免修",

		// exams
		"考试", "期末", "期中", "四六级", "计算机", "普通话",
		"报名", "缴费", "准考证", "考场", "时间",

		// study and graduate planning
		"学习", "作业", "实验", "实习", "论文", "答辩",
		"保研", "考研", "留学", "申请", "升学", "规划",
		"phd", "硕士", "博士", "直博", "mphil", "mres",

		// career and research
		"职业", "发展", "方向", "选择", "路径",
		"cs", "软件", "ai", "人工智能",
		"科研", "项目", "大创", "竞赛", "导师", "套磁",
		"会议", "发表", "成果", "展示",

		// self-study resources
		"自学", "资源", "教程", "github", "开源",
		"coursera", "leetcode", "编程", "技能", "提升",
	},

	SkillContact: {
		// people
		"老师", "教授", "导师", "辅导员", "班主任",
		"联系", "电话", "邮箱", "微信", "qq",
		"办公", "办公室", "地点", "地址", "在哪",

		// departments
		"部门", "学院", "教务处", "学生处", "财务处",
		"图书馆", "医务室", "保卫处", "后勤",

		// service windows
		"窗口", "服务", "咨询", "办理", "时间", "开放",
	},

	SkillPolicy: {
		// policy documents
		"政策", "规定", "制度", "条例", "办法", "细则",
		"标准", "要求", "条件", "资格", "限制",

		// rules, awards and aid
		"校规", "纪律", "处分", "奖励", "奖学金", "助学金",
		"勤工助学", "贷款", "减免",

		// ratios and fees
		"比例", "百分比", "金额", "费用", "收费",
	},

	SkillGreeting: {
		"你好", "早上好", "中午好", "下午好", "晚上好",
		"嗨", "hi", "hello", "谢谢", "感谢", "再见", "拜拜",
		"小医", "助手", "帮助", "介绍", "功能",
	},
}

// classifierOrder fixes both the scoring iteration and the tie-break:
// when two skills score the same, the one listed earlier wins. Process
// outranks policy so 报销比例 queries route to the reimbursement skill
// rather than the generic policy skill.
var classifierOrder = []Skill{
	SkillProcess,
	SkillCourse,
	SkillContact,
	SkillPolicy,
	SkillGreeting,
}

// entityPatterns lists the recognized entity types in extraction order.
// Within a type the first matching pattern wins. Patterns are anchored
// nowhere: they find the first occurrence anywhere in the query.
var entityPatterns = []struct {
	Type     string
	Patterns []*regexp.Regexp
}{
	{Type: "hospital", Patterns: compile(
		"中心医院", "市立医院", "南海新区医院", "校医务室",
		"威海中心", "威海市立", "南海医院",
	)},
	{Type: "dept", Patterns: compile(
		"教务处", "学生处", "财务处", "图书馆", "医务室",
		"保卫处", "后勤处", "信息中心", "网络中心",
	)},
	{Type: "type", Patterns: compile(
		"门诊", "住院", "急诊", "体检", "检查", "治疗",
	)},
	{Type: "time", Patterns: compile(
		"寒暑假", "学期", "学年", "周", "月", "年",
		"工作日", "周末", "节假日",
	)},
	{Type: "amount", Patterns: compile(
		`\d+%`, `\d+元`, `\d+块`, `\d+毛`, "几百", "几千",
	)},
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
