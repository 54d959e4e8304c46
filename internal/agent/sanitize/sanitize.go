// Package sanitize neutralizes instruction-like text in catalog data before
// it is placed inside a prompt.
// Reference: OWASP LLM Prompt Injection Prevention Cheat Sheet
// https://cheatsheetseries.owasp.org/cheatsheets/LLM_Prompt_Injection_Prevention_Cheat_Sheet.html
package sanitize

import (
	"regexp"
	"strings"
)

// instructionPatterns detects instruction-like content in book descriptions.
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+|any\s+)?(the\s+)?(previous|prior|above|earlier)\s+(instructions|rules|prompts?)`),
	regexp.MustCompile(`(?i)(reveal|print|show|repeat)\s+(me\s+)?(your|the)\s+(system\s+prompt|instructions)`),
	regexp.MustCompile(`(?i)system\s+prompt`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\b`),
	regexp.MustCompile(`(?i)(act|pretend|behave)\s+as\s+(if\s+you\s+are\s+)?(a|an|the)\b`),
	regexp.MustCompile(`(?i)(developer|debug|admin)\s+mode`),
	regexp.MustCompile(`(?i)new\s+instructions\s*:`),
	regexp.MustCompile(`(?i)\b(respond|answer|reply)\s+only\s+with\b`),
	regexp.MustCompile(`(?i)</?\s*(system|assistant|book_description)\s*>`),
	regexp.MustCompile(`(?i)\[\s*(SUGGESTIONS|book::)`),
	regexp.MustCompile(`(?im)^\s*(LIBRARY|NEW)\s*:`),
}

// Text neutralizes instruction-like patterns by wrapping them in 【】 brackets.
// The bracketed content signals to the model that this is quoted text, not an instruction.
func Text(s string) string {
	result := s
	for _, pattern := range instructionPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return "【" + match + "】"
		})
	}
	return result
}

// Query trims user-supplied lookup text and collapses internal whitespace.
func Query(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
