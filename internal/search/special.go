package search

import "strings"

// greetingWords are salutations recognized by the special-keyword
// detector. The first one found in the query is tagged together with
// the generic 问候 marker so greeting scenarios outrank topical entries.
var greetingWords = []string{"你好", "您好", "hi", "hello", "嗨", "小医"}

// specialRule maps trigger substrings in the query to canonical keywords
// injected after extraction. Canonical keywords line up with the tags and
// field values used throughout the knowledge base, so colloquial phrasings
// (到账多久, 需要带什么) still hit the entries written in formal register.
type specialRule struct {
	triggers  []string
	canonical []string
}

// hospitalRules are mutually exclusive: the first matching alias wins, so a
// query naming a specific hospital is never tagged with a second hospital's
// canonical name (中心 alone must not also fire for 南海新区医院 queries).
var hospitalRules = []specialRule{
	{triggers: []string{"南海"}, canonical: []string{"南海新区医院"}},
	{triggers: []string{"中心医院", "中心"}, canonical: []string{"威海市中心医院", "中心医院"}},
	{triggers: []string{"市立医院"}, canonical: []string{"威海市立医院"}},
}

// specialRules are additive: every matching rule contributes its canonical
// keywords. Order is fixed so the augmented keyword list is deterministic.
var specialRules = []specialRule{
	{triggers: []string{"哪些医院"}, canonical: []string{"医院列表"}},
	{triggers: []string{"常春艳", "常老师"}, canonical: []string{"常春艳", "医保办"}},
	{triggers: []string{"门诊"}, canonical: []string{"门诊"}},
	{triggers: []string{"住院"}, canonical: []string{"住院"}},
	{triggers: []string{"急诊"}, canonical: []string{"急诊"}},
	{triggers: []string{"寒假", "暑假", "假期"}, canonical: []string{"寒暑假"}},
	{triggers: []string{"转诊"}, canonical: []string{"转诊单"}},
	{triggers: []string{"材料", "资料", "需要带"}, canonical: []string{"材料"}},
	{triggers: []string{"截止", "期限", "时间"}, canonical: []string{"截止日期"}},
	{triggers: []string{"到账", "多久", "周期"}, canonical: []string{"到账", "报销周期"}},
	{triggers: []string{"联系", "咨询", "办理"}, canonical: []string{"联系方式"}},
	{triggers: []string{"在哪", "地点", "地址", "办公"}, canonical: []string{"办公地点"}},
}

// DetectSpecialKeywords scans the normalized query for trigger phrases and
// returns the canonical keywords they map to, in rule order. Duplicates are
// left in: the scorer counts every occurrence.
func DetectSpecialKeywords(query string) []string {
	var special []string

	for _, word := range greetingWords {
		if strings.Contains(query, word) {
			special = append(special, "问候", word)
			break
		}
	}

	for _, rule := range hospitalRules {
		if rule.matches(query) {
			special = append(special, rule.canonical...)
			break
		}
	}

	for _, rule := range specialRules {
		if rule.matches(query) {
			special = append(special, rule.canonical...)
		}
	}

	return special
}

func (r specialRule) matches(query string) bool {
	for _, trigger := range r.triggers {
		if strings.Contains(query, trigger) {
			return true
		}
	}
	return false
}
