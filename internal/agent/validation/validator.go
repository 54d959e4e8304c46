package validation

import (
	"context"
	"fmt"
)

// Input is one chat answer together with the request that produced it.
type Input struct {
	Question      string
	Response      string
	BookID        *int
	PreviousBooks []string // titles recommended earlier in the session
}

// Verdict is a single check's judgement. The zero Verdict accepts the answer.
type Verdict struct {
	Reason string
}

func (v Verdict) Accepted() bool { return v.Reason == "" }

func accept() Verdict { return Verdict{} }

func reject(format string, args ...any) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// Check inspects an answer before it reaches the user.
type Check interface {
	Name() string
	Validate(ctx context.Context, in Input) Verdict
}
