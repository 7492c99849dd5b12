package core

import (
	"context"
	"log/slog"
	"strings"

	"hospital-assistant/internal/llm"
	"hospital-assistant/pkg"
)

// DefaultHistoryLimit bounds how many transcript messages are forwarded as
// generation context. Older context is dropped, not summarized.
const DefaultHistoryLimit = 10

// Reply is the generator's result: always a non-empty text, with sources
// empty on every failure path.
type Reply struct {
	Text    string
	Sources []pkg.Source
}

// Generator produces a persona response for a routed query. Every failure
// is absorbed locally and converted into a canned user-facing sentence; no
// error ever escapes this component.
type Generator struct {
	llm          llm.Client
	historyLimit int
	log          *slog.Logger
}

// NewGenerator constructs a Generator. A non-positive historyLimit falls
// back to DefaultHistoryLimit.
func NewGenerator(client llm.Client, historyLimit int, log *slog.Logger) *Generator {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Generator{llm: client, historyLimit: historyLimit, log: log}
}

// Generate answers query as the given agent with the transcript-so-far as
// context. The query itself must not be part of history.
func (g *Generator) Generate(ctx context.Context, agentID pkg.AgentID, query string, history []pkg.Message) Reply {
	profile, ok := AgentByID(agentID)
	if !ok {
		g.log.Error("unknown agent requested", "agent", agentID)
		return Reply{Text: msgAgentNotFound}
	}

	resp, err := g.llm.Complete(ctx, llm.Request{
		Instruction: profile.Instruction,
		History:     toTurns(truncateHistory(history, g.historyLimit)),
		Query:       query,
		Search:      profile.SearchEnabled,
	})
	if err != nil {
		kind := llm.Classify(err)
		g.log.Warn("generation failed",
			"agent", agentID, "fault", kind.String(), "error", err)
		return Reply{Text: faultMessage(kind)}
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		text = MsgNoResponse
	}
	return Reply{Text: text, Sources: dedupSources(resp.Sources)}
}

// truncateHistory keeps the most recent limit messages.
func truncateHistory(history []pkg.Message, limit int) []pkg.Message {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

func toTurns(history []pkg.Message) []llm.Turn {
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Role: m.Role, Text: m.Content})
	}
	return turns
}

// dedupSources drops sources without a URI or title and deduplicates by
// URI, first occurrence wins.
func dedupSources(in []pkg.Source) []pkg.Source {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]pkg.Source, 0, len(in))
	for _, s := range in {
		if s.URI == "" || s.Title == "" {
			continue
		}
		if _, dup := seen[s.URI]; dup {
			continue
		}
		seen[s.URI] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// faultMessage maps a fault kind to its user-facing sentence.
func faultMessage(kind llm.FaultKind) string {
	switch kind {
	case llm.FaultCredential:
		return msgCredential
	case llm.FaultRateLimit:
		return msgRateLimit
	case llm.FaultOverloaded:
		return msgOverloaded
	case llm.FaultTransport:
		return msgTransport
	case llm.FaultSafety:
		return msgSafety
	default:
		return msgGeneric
	}
}
