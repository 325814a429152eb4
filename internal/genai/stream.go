// Package genai generates natural-language answers from retrieved
// knowledge entries using LLM APIs (DashScope/Qwen and Gemini).
// This file contains simulated streaming for template answers, so
// clients see the same incremental delivery whether or not a model
// produced the text.
package genai

import (
	"context"
	"time"
)

// ChunkText splits text into rune-aware fragments of at most size runes.
// Splitting on bytes would cut multi-byte CJK characters in half.
func ChunkText(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// StreamText delivers text in fixed-size chunks with a delay between
// them, mimicking model streaming for pre-composed answers. onChunk runs
// on the calling goroutine; returning an error aborts the stream.
func StreamText(ctx context.Context, text string, size int, delay time.Duration, onChunk func(chunk string) error) error {
	chunks := ChunkText(text, size)
	for i, chunk := range chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
		// No delay after the final chunk
		if i == len(chunks)-1 {
			break
		}
		if err := Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}
