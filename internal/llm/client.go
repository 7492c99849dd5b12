package llm

import (
	"context"

	"hospital-assistant/pkg"
)

// Turn is one prior conversation exchange forwarded as context.
type Turn struct {
	Role pkg.MessageRole
	Text string
}

// Request describes one free-form call to the text-generation capability.
type Request struct {
	// Instruction is the persona/system prompt. May be empty.
	Instruction string
	// History holds prior turns, oldest first. The active query is not part
	// of the history.
	History []Turn
	// Query is the active user input.
	Query string
	// Search requests web-search grounding. Providers without a search tool
	// ignore it and return no sources.
	Search bool
}

// Response is the capability's answer plus any cited web sources extracted
// from grounding metadata. Sources may contain duplicates; deduplication is
// the caller's concern.
type Response struct {
	Text    string
	Sources []pkg.Source
}

// Schema describes a flat JSON object the capability must return. All
// fields are strings, optionally constrained to an enumeration.
type Schema struct {
	Properties map[string]Property
	Required   []string
}

// Property is one field of a Schema.
type Property struct {
	Description string
	Enum        []string
}

// Client is the hosted text-generation capability. Implementations must be
// treated as fallible, latent and rate-limited; they retry transient
// failures internally but surface everything else to the caller.
type Client interface {
	// Complete generates a persona response over the conversation so far.
	Complete(ctx context.Context, req Request) (*Response, error)

	// CompleteJSON generates a response constrained to the given schema and
	// returns the raw JSON text.
	CompleteJSON(ctx context.Context, prompt string, schema Schema) (string, error)
}
