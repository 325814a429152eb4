// Package search implements the keyword-scoring retrieval pipeline:
// keyword extraction, the weighted field scorer and the retriever that
// ranks knowledge entries for a query.
//
// Tokenization splits on whitespace and punctuation only. Input is
// primarily Chinese, but no dictionary segmenter is used: multi-word
// Chinese phrases survive as single tokens and scoring relies on
// substring containment instead of word boundaries. That is a
// deliberate simplification carried over from the knowledge-base
// authoring conventions, not an oversight.
package search

import (
	"strings"

	"github.com/bjtuwh/campus-assistant-go/internal/stringutil"
)

// stopWords are high-frequency function words (pronouns, particles,
// copulas) excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"的": {}, "了": {}, "是": {}, "在": {}, "我": {}, "有": {}, "和": {},
	"就": {}, "不": {}, "人": {}, "都": {}, "一": {}, "一个": {}, "上": {},
	"也": {}, "很": {}, "到": {}, "说": {}, "要": {}, "去": {}, "你": {},
	"会": {}, "着": {}, "没有": {}, "看": {}, "好": {}, "自己": {}, "这": {},
	"那": {}, "吗": {}, "么": {}, "什么": {}, "怎么": {}, "可以": {},
	"这个": {}, "那个": {}, "能": {}, "为": {}, "吧": {}, "啊": {}, "呢": {},
	"呀": {},
}

// ExtractKeywords turns a raw query into a list of content words.
//
// The input is lower-cased, punctuation is replaced by whitespace and
// the result is split on whitespace runs. Stop-words and single-rune
// tokens are dropped. If nothing survives the filters, all
// whitespace-split tokens are kept instead; if the text has no tokens
// at all, the entire normalized text becomes the single keyword.
//
// Output preserves input order and duplicates: the scorer simply
// iterates the list, so a repeated keyword is worth repeated points.
func ExtractKeywords(text string) []string {
	stripped := stringutil.StripPunct(text)
	tokens := strings.Fields(stripped)

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if stringutil.RuneLen(tok) <= 1 {
			continue
		}
		words = append(words, tok)
	}

	if len(words) > 0 {
		return words
	}

	// Stage one fallback: every whitespace-split token, unfiltered.
	if len(tokens) > 0 {
		return tokens
	}

	// Stage two fallback: the whole normalized text as one token.
	if normalized := stringutil.Normalize(text); normalized != "" {
		return []string{normalized}
	}
	return nil
}

// IsStopWord reports whether the token is in the stop-word set.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
