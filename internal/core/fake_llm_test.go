package core

import (
	"context"
	"io"
	"log/slog"

	"hospital-assistant/internal/llm"
)

// fakeLLM is a scriptable llm.Client used to test router, generator and
// orchestrator without the network.
type fakeLLM struct {
	completeFn func(ctx context.Context, req llm.Request) (*llm.Response, error)
	jsonFn     func(ctx context.Context, prompt string, schema llm.Schema) (string, error)

	lastRequest *llm.Request
	lastPrompt  string
	lastSchema  llm.Schema
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	r := req
	f.lastRequest = &r
	if f.completeFn != nil {
		return f.completeFn(ctx, req)
	}
	return &llm.Response{Text: "ok"}, nil
}

func (f *fakeLLM) CompleteJSON(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
	f.lastPrompt = prompt
	f.lastSchema = schema
	if f.jsonFn != nil {
		return f.jsonFn(ctx, prompt, schema)
	}
	return `{"targetAgentId":"general","reasoning":"default"}`, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
