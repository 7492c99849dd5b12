package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"

	"hospital-assistant/internal/util"
	"hospital-assistant/pkg"
)

// GeminiConfig holds settings for the Gemini-backed client.
type GeminiConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// GeminiClient calls the Gemini API. It is the default capability backend:
// structured routing output via response schemas and web grounding via the
// GoogleSearch built-in tool.
type GeminiClient struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// NewGeminiClient constructs a Gemini-backed client.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		log:        log,
	}, nil
}

// Complete sends the conversation to Gemini with the persona instruction and
// optional GoogleSearch grounding, and extracts cited web sources.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, t := range req.History {
		role := genai.Role(genai.RoleUser)
		if t.Role == pkg.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Query, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{}
	if req.Instruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instruction}},
		}
	}
	if req.Search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := c.generate(ctx, contents, cfg)
	if err != nil {
		return nil, err
	}
	return extractResponse(resp)
}

// CompleteJSON sends a single prompt constrained to the given schema and
// returns the raw JSON text.
func (c *GeminiClient) CompleteJSON(ctx context.Context, prompt string, schema Schema) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(schema),
	}

	resp, err := c.generate(ctx, contents, cfg)
	if err != nil {
		return "", err
	}
	out, err := extractResponse(resp)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// generate performs one GenerateContent call with retries for transient
// faults. Credential and safety faults are surfaced immediately.
func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(util.Backoff(c.retryDelay, attempt)):
			}
		}

		start := time.Now()
		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
		if err == nil {
			c.log.Debug("gemini call completed",
				"model", c.model, "duration", time.Since(start))
			return resp, nil
		}

		lastErr = err
		kind := Classify(err)
		c.log.Warn("gemini call failed",
			"model", c.model, "attempt", attempt+1, "fault", kind.String(), "error", err)
		if !kind.Retryable() {
			return nil, err
		}
	}
	return nil, fmt.Errorf("gemini: retries exhausted: %w", lastErr)
}

// extractResponse pulls text and grounded web sources out of a Gemini
// response. Safety-withheld candidates map to ErrSafetyBlocked.
func extractResponse(resp *genai.GenerateContentResponse) (*Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, ErrSafetyBlocked
		}
		return nil, errors.New("no candidates returned")
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return nil, ErrSafetyBlocked
	}

	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	out := &Response{Text: strings.TrimSpace(sb.String())}
	if cand.GroundingMetadata != nil {
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" && chunk.Web.Title != "" {
				out.Sources = append(out.Sources, pkg.Source{
					URI:   chunk.Web.URI,
					Title: chunk.Web.Title,
				})
			}
		}
	}
	return out, nil
}

// geminiSchema converts the provider-neutral Schema into the Gemini
// response-schema form.
func geminiSchema(s Schema) *genai.Schema {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make(map[string]*genai.Schema, len(s.Properties))
	for _, name := range names {
		p := s.Properties[name]
		ps := &genai.Schema{Type: genai.TypeString, Description: p.Description}
		if len(p.Enum) > 0 {
			ps.Enum = p.Enum
		}
		props[name] = ps
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   s.Required,
	}
}
