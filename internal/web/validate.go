package web

import (
	"strings"
	"unicode/utf8"
)

// maxQuestionRunes bounds the length of an incoming question.
const maxQuestionRunes = 500

// Rejection messages are user-facing and therefore Chinese.
const (
	msgEmptyQuestion   = "问题不能为空"
	msgQuestionTooLong = "问题长度不能超过500字符"
	msgUnsafeInput     = "输入包含不安全内容，请重新输入"
)

// dangerousPatterns are substrings that indicate injection attempts.
// Matched case-insensitively against the raw question.
var dangerousPatterns = []string{
	"<script",
	"javascript:",
	"eval(",
	"exec(",
	"import os",
	"subprocess",
}

// validateQuestion trims the question and returns it with an empty
// message, or "" with a user-facing rejection message.
func validateQuestion(raw string) (string, string) {
	question := strings.TrimSpace(raw)
	if question == "" {
		return "", msgEmptyQuestion
	}
	if utf8.RuneCountInString(question) > maxQuestionRunes {
		return "", msgQuestionTooLong
	}
	lowered := strings.ToLower(question)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return "", msgUnsafeInput
		}
	}
	return question, ""
}
