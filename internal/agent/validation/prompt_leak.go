package validation

import (
	"context"
	"regexp"
	"strings"

	"home-library/internal/agent/prompt"
	"home-library/internal/logging"
)

var (
	// leakPatterns indicate the answer talks about its own setup.
	leakPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(my|the)\s+system\s+(prompt|instructions?)`),
		regexp.MustCompile(`(?i)my\s+instructions\s+(are|say)`),
		regexp.MustCompile(`(?i)\bAIza[0-9A-Za-z_\-]{20,}`),
		regexp.MustCompile(`(?i)\b(search_books|get_book_details|get_reading_stats)\b`),
		regexp.MustCompile(`(?i)</?book_description>`),
	}

	// leakKeywords are matched case-insensitively.
	leakKeywords = []string{
		"you are libri",
		"gemini_api_key",
		"user_data.json",
		"books_database.json",
		"internal/agent",
	}

	// echoPhrases reject an answer that repeats the user's injection attempt.
	echoPhrases = []string{
		"ignore previous",
		"ignore all previous",
		"disregard the above",
		"jailbreak",
		"developer mode",
		"pretend you are",
	}
)

// LeakCheck rejects answers that reveal the assistant's instructions, tools,
// credentials or files.
type LeakCheck struct{}

func NewLeakCheck() *LeakCheck { return &LeakCheck{} }

func (LeakCheck) Name() string { return "leak" }

func (c LeakCheck) Validate(ctx context.Context, in Input) Verdict {
	log := logging.Ctx(ctx).With().Str("check", c.Name()).Logger()
	lower := strings.ToLower(in.Response)

	for _, p := range leakPatterns {
		if m := p.FindString(in.Response); m != "" {
			log.Warn().Str("match", prompt.Excerpt(m, 50)).Msg("leak detected")
			return reject("possible system prompt leak")
		}
	}
	for _, k := range leakKeywords {
		if strings.Contains(lower, k) {
			log.Warn().Str("keyword", k).Msg("leak detected")
			return reject("possible internal information leak")
		}
	}
	if echoesInjection(in.Question, lower) {
		log.Warn().Msg("injection echoed")
		return reject("injection attempt echoed in answer")
	}
	return accept()
}

func echoesInjection(question, lowerResponse string) bool {
	q := strings.ToLower(question)
	for _, phrase := range echoPhrases {
		if strings.Contains(q, phrase) && strings.Contains(lowerResponse, phrase) {
			return true
		}
	}
	return false
}
