package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"hospital-assistant/internal/util"
	"hospital-assistant/pkg"
)

// OpenAIConfig holds settings for the OpenAI-backed client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// OpenAIClient calls the OpenAI chat completion API. It has no web-search
// tool, so grounded sources are never returned; structured routing output
// uses JSON mode with the schema described in the system prompt.
type OpenAIClient struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// NewOpenAIClient constructs an OpenAI-backed client.
func NewOpenAIClient(cfg OpenAIConfig, log *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	return &OpenAIClient{
		client:     openai.NewClient(cfg.APIKey),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		log:        log,
	}, nil
}

// Complete sends the conversation to the chat completion API. The Search
// flag is ignored: this provider has no grounding tool.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.Instruction != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.Instruction,
		})
	}
	for _, t := range req.History {
		role := openai.ChatMessageRoleUser
		if t.Role == pkg.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Text})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Query,
	})

	text, err := c.chat(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, err
	}
	return &Response{Text: text}, nil
}

// CompleteJSON uses JSON mode and describes the expected object in the
// system prompt, since the completion API takes no response schema the way
// Gemini does.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, prompt string, schema Schema) (string, error) {
	return c.chat(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: describeSchema(schema)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
}

// chat performs one completion call with retries for transient faults.
func (c *OpenAIClient) chat(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
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
				return "", ctx.Err()
			case <-time.After(util.Backoff(c.retryDelay, attempt)):
			}
		}

		start := time.Now()
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			kind := Classify(err)
			c.log.Warn("openai call failed",
				"model", c.model, "attempt", attempt+1, "fault", kind.String(), "error", err)
			if !kind.Retryable() {
				return "", err
			}
			continue
		}

		if len(resp.Choices) == 0 {
			return "", errors.New("no completion choices returned")
		}
		choice := resp.Choices[0]
		if choice.FinishReason == openai.FinishReasonContentFilter {
			return "", ErrSafetyBlocked
		}

		c.log.Debug("openai call completed",
			"model", c.model, "duration", time.Since(start))
		return strings.TrimSpace(choice.Message.Content), nil
	}
	return "", fmt.Errorf("openai: retries exhausted: %w", lastErr)
}

// describeSchema renders the schema as instructions for JSON mode.
func describeSchema(s Schema) string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Respond with a single JSON object and no additional text. Fields:\n")
	for _, name := range names {
		p := s.Properties[name]
		sb.WriteString("- ")
		sb.WriteString(name)
		sb.WriteString(" (string")
		if len(p.Enum) > 0 {
			sb.WriteString(", one of: ")
			sb.WriteString(strings.Join(p.Enum, ", "))
		}
		sb.WriteString(")")
		if p.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(p.Description)
		}
		sb.WriteString("\n")
	}
	if len(s.Required) > 0 {
		sb.WriteString("Required fields: ")
		sb.WriteString(strings.Join(s.Required, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}
