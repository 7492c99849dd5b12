package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hospital-assistant/internal/llm"
	"hospital-assistant/pkg"
)

// Router classifies a user query into one of the routable agent
// identifiers. It never fails: any error in the capability call, in parsing
// its output, or an ineligible result degrades to the general persona
// rather than blocking the turn.
type Router struct {
	llm llm.Client
	log *slog.Logger
}

// NewRouter constructs a Router backed by the given capability client.
func NewRouter(client llm.Client, log *slog.Logger) *Router {
	return &Router{llm: client, log: log}
}

// Route classifies query. The caller is expected to reject empty queries
// before calling.
func (r *Router) Route(ctx context.Context, query string) pkg.RoutingResult {
	result, err := r.route(ctx, query)
	if err != nil {
		r.log.Warn("routing failed, defaulting to general", "error", err)
		return pkg.RoutingResult{
			TargetAgentID: pkg.AgentGeneral,
			Reasoning:     RoutingFallbackReason,
		}
	}
	return result
}

func (r *Router) route(ctx context.Context, query string) (pkg.RoutingResult, error) {
	raw, err := r.llm.CompleteJSON(ctx, routingPrompt(query), routingSchema())
	if err != nil {
		return pkg.RoutingResult{}, fmt.Errorf("routing call: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return pkg.RoutingResult{}, errors.New("empty routing response")
	}

	var result pkg.RoutingResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return pkg.RoutingResult{}, fmt.Errorf("parse routing response: %w", err)
	}
	if !result.TargetAgentID.IsRoutable() {
		return pkg.RoutingResult{}, fmt.Errorf("ineligible routing target %q", result.TargetAgentID)
	}
	return result, nil
}

// routingSchema constrains the capability's output to the five eligible
// identifiers plus a mandatory rationale.
func routingSchema() llm.Schema {
	targets := pkg.RoutableAgents()
	values := make([]string, len(targets))
	for i, id := range targets {
		values[i] = string(id)
	}
	return llm.Schema{
		Properties: map[string]llm.Property{
			"targetAgentId": {Enum: values},
			"reasoning":     {Description: "A short explanation of the chosen agent."},
		},
		Required: []string{"targetAgentId", "reasoning"},
	}
}
