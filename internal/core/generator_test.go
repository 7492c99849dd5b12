package core

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-assistant/internal/llm"
	"hospital-assistant/pkg"
)

func userMsg(text string) pkg.Message {
	return pkg.Message{Role: pkg.RoleUser, Content: text}
}

func TestGenerator_ForwardsPersonaAndQuery(t *testing.T) {
	fake := &fakeLLM{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Text: "Your visit is booked."}, nil
		},
	}
	g := NewGenerator(fake, 0, testLogger())

	reply := g.Generate(context.Background(), pkg.AgentAppointment, "Book me in next Tuesday", nil)

	require.NotNil(t, fake.lastRequest)
	assert.Contains(t, fake.lastRequest.Instruction, "Appointment Scheduler")
	assert.Equal(t, "Book me in next Tuesday", fake.lastRequest.Query)
	assert.Equal(t, "Your visit is booked.", reply.Text)
	assert.Empty(t, reply.Sources)
}

func TestGenerator_HistoryIsBounded(t *testing.T) {
	fake := &fakeLLM{}
	g := NewGenerator(fake, 10, testLogger())

	history := make([]pkg.Message, 0, 50)
	for i := 0; i < 50; i++ {
		history = append(history, userMsg(fmt.Sprintf("message %d", i)))
	}

	g.Generate(context.Background(), pkg.AgentGeneral, "q", history)

	require.NotNil(t, fake.lastRequest)
	require.Len(t, fake.lastRequest.History, 10)
	// The window keeps the most recent messages.
	assert.Equal(t, "message 40", fake.lastRequest.History[0].Text)
	assert.Equal(t, "message 49", fake.lastRequest.History[9].Text)
}

func TestGenerator_ShortHistoryPassedWhole(t *testing.T) {
	fake := &fakeLLM{}
	g := NewGenerator(fake, 10, testLogger())

	g.Generate(context.Background(), pkg.AgentGeneral, "q", []pkg.Message{userMsg("only one")})

	require.NotNil(t, fake.lastRequest)
	require.Len(t, fake.lastRequest.History, 1)
	assert.Equal(t, "only one", fake.lastRequest.History[0].Text)
}

func TestGenerator_SearchGating(t *testing.T) {
	tests := []struct {
		agent pkg.AgentID
		want  bool
	}{
		{pkg.AgentMedicalInfo, true},
		{pkg.AgentGeneral, true},
		{pkg.AgentDoctorStaff, true},
		{pkg.AgentPatientMgmt, true},
		{pkg.AgentAppointment, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.agent), func(t *testing.T) {
			fake := &fakeLLM{}
			g := NewGenerator(fake, 10, testLogger())

			g.Generate(context.Background(), tt.agent, "q", nil)

			require.NotNil(t, fake.lastRequest)
			assert.Equal(t, tt.want, fake.lastRequest.Search)
		})
	}
}

func TestGenerator_SourceDedup(t *testing.T) {
	fake := &fakeLLM{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{
				Text: "Influenza symptoms include fever and cough.",
				Sources: []pkg.Source{
					{URI: "https://a.example/flu", Title: "Flu overview"},
					{URI: "https://b.example/symptoms", Title: "Symptoms"},
					{URI: "https://a.example/flu", Title: "Duplicate of first"},
					{URI: "", Title: "No URI"},
					{URI: "https://c.example/untitled", Title: ""},
				},
			}, nil
		},
	}
	g := NewGenerator(fake, 10, testLogger())

	reply := g.Generate(context.Background(), pkg.AgentMedicalInfo, "What are symptoms of influenza?", nil)

	require.Len(t, reply.Sources, 2)
	// First occurrence wins and order is preserved.
	assert.Equal(t, "https://a.example/flu", reply.Sources[0].URI)
	assert.Equal(t, "Flu overview", reply.Sources[0].Title)
	assert.Equal(t, "https://b.example/symptoms", reply.Sources[1].URI)
}

func TestGenerator_EmptyTextGetsFallback(t *testing.T) {
	fake := &fakeLLM{
		completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
			return &llm.Response{Text: "   "}, nil
		},
	}
	g := NewGenerator(fake, 10, testLogger())

	reply := g.Generate(context.Background(), pkg.AgentGeneral, "q", nil)

	assert.Equal(t, MsgNoResponse, reply.Text)
}

func TestGenerator_UnknownAgentIsConfigurationFault(t *testing.T) {
	g := NewGenerator(&fakeLLM{}, 10, testLogger())

	reply := g.Generate(context.Background(), "ghost", "q", nil)

	assert.Equal(t, msgAgentNotFound, reply.Text)
	assert.Empty(t, reply.Sources)
}

func TestGenerator_FaultSentences(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"credential", &openai.APIError{HTTPStatusCode: 401, Message: "invalid api key"}, msgCredential},
		{"rate limit", &openai.APIError{HTTPStatusCode: 429, Message: "rate limit"}, msgRateLimit},
		{"overloaded", &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"}, msgOverloaded},
		{"transport", &url.Error{Op: "Post", URL: "https://api", Err: errors.New("connection refused")}, msgTransport},
		{"safety", llm.ErrSafetyBlocked, msgSafety},
		{"unclassified", errors.New("weird failure"), msgGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{
				completeFn: func(ctx context.Context, req llm.Request) (*llm.Response, error) {
					return nil, tt.err
				},
			}
			g := NewGenerator(fake, 10, testLogger())

			reply := g.Generate(context.Background(), pkg.AgentGeneral, "q", nil)

			assert.Equal(t, tt.want, reply.Text)
			assert.Empty(t, reply.Sources, "sources must be empty on failure")
			assert.NotEmpty(t, reply.Text)
		})
	}
}
