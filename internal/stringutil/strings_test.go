package stringutil

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"chinese question mark stripped", "门诊报销比例是多少？", "门诊报销比例是多少"},
		{"fullwidth folded and lowered", "Ｈｅｌｌｏ，小医!", "hello 小医"},
		{"whitespace collapsed", "你好   小医  ", "你好 小医"},
		{"mixed punctuation", "报销,需要：哪些材料?", "报销 需要 哪些材料"},
		{"empty", "", ""},
		{"only punctuation", "？！。", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripPunct_PreservesSpacing(t *testing.T) {
	t.Parallel()

	got := StripPunct("A,B  C")
	if got != "a b  c" {
		t.Errorf("StripPunct = %q, want %q", got, "a b  c")
	}
}

func TestRuneLen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},
		{"医", 1},
		{"报销", 2},
		{"abc医院", 5},
	}

	for _, tt := range tests {
		if got := RuneLen(tt.input); got != tt.want {
			t.Errorf("RuneLen(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
