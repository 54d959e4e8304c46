package validation

import (
	"context"

	"home-library/internal/agent/prompt"
	"home-library/internal/logging"
)

// Outcome is the answer to show. FailedCheck is set when the model's answer
// was rejected and replaced.
type Outcome struct {
	Response    string
	FailedCheck string
	Reason      string
}

func (o Outcome) Replaced() bool { return o.FailedCheck != "" }

// Pipeline runs checks in order and stops at the first rejection.
type Pipeline struct {
	checks    []Check
	corrector *ResponseCorrector
}

// NewPipeline builds a pipeline. Without a corrector a rejected answer is
// replaced by the fallback message.
func NewPipeline(corrector *ResponseCorrector, checks ...Check) *Pipeline {
	return &Pipeline{checks: checks, corrector: corrector}
}

// Run returns the answer to show. The error, if any, comes from regenerating
// a rejected answer; the Outcome is usable either way.
func (p *Pipeline) Run(ctx context.Context, in Input) (Outcome, error) {
	log := logging.Ctx(ctx).With().Str("component", "validation").Logger()

	for _, c := range p.checks {
		v := c.Validate(ctx, in)
		if v.Accepted() {
			continue
		}
		log.Info().Str("check", c.Name()).Str("reason", v.Reason).
			Str("response", prompt.Excerpt(in.Response, 100)).Msg("answer rejected")

		out := Outcome{Response: prompt.FallbackMessage, FailedCheck: c.Name(), Reason: v.Reason}
		if p.corrector == nil {
			return out, nil
		}
		text, err := p.corrector.Generate(ctx, in.Question, in.BookID)
		out.Response = text
		return out, err
	}
	return Outcome{Response: in.Response}, nil
}
