package genai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"empty text", "", 12, nil},
		{"non-positive size keeps whole text", "你好世界", 0, []string{"你好世界"}},
		{"ascii even split", "abcdef", 2, []string{"ab", "cd", "ef"}},
		{"ascii uneven split", "abcde", 2, []string{"ab", "cd", "e"}},
		{"cjk split on runes", "报销流程说明", 2, []string{"报销", "流程", "说明"}},
		{"size larger than text", "你好", 12, []string{"你好"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkText(tt.text, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkText() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChunkTextReassembles(t *testing.T) {
	text := "门诊报销比例为80%，住院报销比例为85%。Hello!"
	chunks := ChunkText(text, 5)
	if strings.Join(chunks, "") != text {
		t.Errorf("joined chunks = %q, want %q", strings.Join(chunks, ""), text)
	}
}

func TestStreamTextDeliversAll(t *testing.T) {
	var got []string
	err := StreamText(context.Background(), "报销流程说明", 2, 0, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamText() = %v, want nil", err)
	}
	if strings.Join(got, "") != "报销流程说明" {
		t.Errorf("streamed = %q, want full text", strings.Join(got, ""))
	}
	if len(got) != 3 {
		t.Errorf("chunks = %d, want 3", len(got))
	}
}

func TestStreamTextAbortsOnCallbackError(t *testing.T) {
	abort := errors.New("client gone")
	calls := 0
	err := StreamText(context.Background(), "abcdef", 2, 0, func(string) error {
		calls++
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("StreamText() = %v, want %v", err, abort)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
