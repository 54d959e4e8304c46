package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/adk/session"

	"home-library/internal/agent/prompt"
	"home-library/internal/logging"
)

const (
	// keepTurns exchanges survive a compaction, as text.
	keepTurns = 3
	// historyKey holds the carried-over turns in session state.
	historyKey = "recent_conversation"
	// maxTurnChars bounds each carried-over turn.
	maxTurnChars = 500
)

// conversations owns the chat sessions. A session that reaches keepTurns
// exchanges is recreated under the same id with its last turns kept in state,
// so the prompt never grows without bound. It also remembers which titles
// were recommended in each session.
type conversations struct {
	svc session.Service

	mu     sync.Mutex
	titles map[string][]string
}

func newConversations(svc session.Service) *conversations {
	return &conversations{svc: svc, titles: map[string][]string{}}
}

// turn is what a new message needs to know about its session.
type turn struct {
	SessionID   string
	History     string
	Recommended []string
}

func (c *conversations) create(ctx context.Context, userID string) (string, error) {
	resp, err := c.svc.Create(ctx, &session.CreateRequest{AppName: AppName, UserID: userID})
	if err != nil {
		return "", err
	}
	return resp.Session.ID(), nil
}

// begin prepares sessionID for the next message. Unknown ids are created.
func (c *conversations) begin(ctx context.Context, userID, sessionID string) (turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := turn{SessionID: sessionID, Recommended: c.titles[sessionID]}

	got, err := c.svc.Get(ctx, &session.GetRequest{AppName: AppName, UserID: userID, SessionID: sessionID})
	if err != nil {
		created, cerr := c.svc.Create(ctx, &session.CreateRequest{AppName: AppName, UserID: userID, SessionID: sessionID})
		if cerr != nil {
			return t, fmt.Errorf("session %s: %w", sessionID, cerr)
		}
		t.SessionID = created.Session.ID()
		return t, nil
	}

	sess := got.Session
	if v, err := sess.State().Get(historyKey); err == nil {
		t.History, _ = v.(string)
	}
	if sess.Events().Len() < keepTurns*2 {
		return t, nil
	}

	logging.Ctx(ctx).Debug().Str("component", "assistant").Str("session_id", sessionID).
		Int("events", sess.Events().Len()).Msg("compacting session")

	t.History = transcript(sess.Events(), keepTurns*2)
	if err := c.svc.Delete(ctx, &session.DeleteRequest{AppName: AppName, UserID: userID, SessionID: sessionID}); err != nil {
		return t, fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	state := map[string]any{}
	if t.History != "" {
		state[historyKey] = t.History
	}
	if _, err := c.svc.Create(ctx, &session.CreateRequest{
		AppName: AppName, UserID: userID, SessionID: sessionID, State: state,
	}); err != nil {
		return t, fmt.Errorf("recreating session %s: %w", sessionID, err)
	}
	return t, nil
}

// remember records titles recommended in sessionID.
func (c *conversations) remember(sessionID string, titles []string) {
	if len(titles) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles[sessionID] = unique(append(c.titles[sessionID], titles...))
}

// transcript renders the last n events as "User:"/"Assistant:" lines.
func transcript(events session.Events, n int) string {
	var lines []string
	for i := max(0, events.Len()-n); i < events.Len(); i++ {
		ev := events.At(i)
		if ev.Content == nil {
			continue
		}
		speaker := "User"
		if ev.Content.Role == "model" {
			speaker = "Assistant"
		}
		for _, part := range ev.Content.Parts {
			if part.Text != "" {
				lines = append(lines, speaker+": "+prompt.Excerpt(part.Text, maxTurnChars))
			}
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "[Recent conversation]\n" + strings.Join(lines, "\n")
}

// unique drops repeated strings, keeping first occurrences in order.
func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
