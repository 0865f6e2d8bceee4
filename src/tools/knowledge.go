package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/square-key-labs/hostline-ai/src/knowledge"
	"github.com/square-key-labs/hostline-ai/src/session"
)

func (r *Registry) searchKnowledgeBase(ctx context.Context, sess *session.CallSession, args json.RawMessage) string {
	var in struct {
		Query string `json:"query"`
	}
	if !decode(args, &in) || in.Query == "" {
		return argsFallback
	}

	entries := sess.EnsureKnowledge(ctx)
	if len(entries) == 0 {
		return "I don't have that information. Please call us directly."
	}

	results := knowledge.Search(entries, in.Query)
	if len(results) == 0 {
		// Always speakable, never empty
		return fmt.Sprintf("I don't have info about '%s'. Anything else I can help with?", in.Query)
	}

	r.log.Debug("Knowledge search '%s': %d matches", in.Query, len(results))
	return knowledge.Format(results)
}

// checkCurrentTime is pure: no session state, never fails. The guidance text
// helps the dialogue manager do relative-time arithmetic ("in 20 minutes",
// "tomorrow at 7 PM") against the business timezone.
func (r *Registry) checkCurrentTime(_ context.Context, _ *session.CallSession, _ json.RawMessage) string {
	now := r.deps.Clock().In(r.deps.Location)

	zone, _ := now.Zone()
	day := now.Format("Monday")
	date := now.Format("2006-01-02")
	time12 := now.Format("03:04 PM")
	time24 := now.Format("15:04")

	return fmt.Sprintf(`Current date and time (%s):
- Day: %s, %s
- Time: %s (24h: %s)

Use this to calculate:
- "in 20 minutes" = add 20 minutes to current time
- "tomorrow" = %s + 1 day
- Validate that order/reservation times are in the future`,
		zone, day, date, time12, time24, date)
}
