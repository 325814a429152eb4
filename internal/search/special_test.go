package search

import (
	"reflect"
	"testing"
)

func TestDetectSpecialKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "greeting tagged with marker",
			query: "你好",
			want:  []string{"问候", "你好"},
		},
		{
			name:  "only first greeting word fires",
			query: "你好小医",
			want:  []string{"问候", "你好"},
		},
		{
			name:  "hospital list question",
			query: "可以去哪些医院",
			want:  []string{"医院列表"},
		},
		{
			name:  "teacher alias expands to name and office",
			query: "常老师怎么联系",
			want:  []string{"常春艳", "医保办", "联系方式"},
		},
		{
			name:  "central hospital alias",
			query: "中心医院在哪",
			want:  []string{"威海市中心医院", "中心医院", "办公地点"},
		},
		{
			name:  "nanhai wins over central when both appear",
			query: "南海那个中心",
			want:  []string{"南海新区医院"},
		},
		{
			name:  "municipal hospital",
			query: "市立医院报销",
			want:  []string{"威海市立医院"},
		},
		{
			name:  "materials phrasing variants collapse",
			query: "需要带什么材料",
			want:  []string{"材料"},
		},
		{
			name:  "arrival time question",
			query: "报销多久到账",
			want:  []string{"到账", "报销周期"},
		},
		{
			name:  "vacation words map to canonical tag",
			query: "寒假生病怎么办",
			want:  []string{"寒暑假"},
		},
		{
			name:  "multiple independent rules accumulate",
			query: "门诊转诊的截止时间",
			want:  []string{"门诊", "转诊单", "截止日期"},
		},
		{
			name:  "no triggers",
			query: "食堂几点开门",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSpecialKeywords(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectSpecialKeywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
