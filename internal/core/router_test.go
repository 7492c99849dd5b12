package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-assistant/internal/llm"
	"hospital-assistant/pkg"
)

func TestRouter_Route_Success(t *testing.T) {
	fake := &fakeLLM{
		jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
			return `{"targetAgentId":"appointment","reasoning":"The user wants to book a visit."}`, nil
		},
	}
	r := NewRouter(fake, testLogger())

	result := r.Route(context.Background(), "Can I book a visit with Dr. Lee next Tuesday?")

	assert.Equal(t, pkg.AgentAppointment, result.TargetAgentID)
	assert.Equal(t, "The user wants to book a visit.", result.Reasoning)
	assert.Contains(t, fake.lastPrompt, "Dr. Lee")
}

func TestRouter_Route_SchemaConstrainsTargets(t *testing.T) {
	fake := &fakeLLM{}
	r := NewRouter(fake, testLogger())

	r.Route(context.Background(), "hello")

	target, ok := fake.lastSchema.Properties["targetAgentId"]
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		"appointment", "patient_mgmt", "doctor_staff", "medical_info", "general",
	}, target.Enum)
	assert.NotContains(t, target.Enum, "orchestrator")
	assert.ElementsMatch(t, []string{"targetAgentId", "reasoning"}, fake.lastSchema.Required)
}

func TestRouter_Route_FallsBackToGeneral(t *testing.T) {
	tests := []struct {
		name   string
		jsonFn func(ctx context.Context, prompt string, schema llm.Schema) (string, error)
	}{
		{
			name: "capability error",
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return "", errors.New("boom")
			},
		},
		{
			name: "empty response",
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return "   ", nil
			},
		},
		{
			name: "malformed json",
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return "not json at all", nil
			},
		},
		{
			name: "orchestrator is not a routing target",
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return `{"targetAgentId":"orchestrator","reasoning":"central"}`, nil
			},
		},
		{
			name: "identifier outside the enumeration",
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return `{"targetAgentId":"billing","reasoning":"?"}`, nil
			},
		},
		{
			name: "missing target field",
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return `{"reasoning":"no target"}`, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(&fakeLLM{jsonFn: tt.jsonFn}, testLogger())

			result := r.Route(context.Background(), "anything")

			assert.Equal(t, pkg.AgentGeneral, result.TargetAgentID)
			assert.Equal(t, RoutingFallbackReason, result.Reasoning)
		})
	}
}

func TestRouter_Route_AlwaysRoutable(t *testing.T) {
	// Whatever the capability answers, the result resolves to an eligible
	// profile.
	answers := []string{
		`{"targetAgentId":"medical_info","reasoning":"symptoms"}`,
		`{"targetAgentId":"nonsense","reasoning":"x"}`,
		``,
	}
	for _, raw := range answers {
		raw := raw
		r := NewRouter(&fakeLLM{
			jsonFn: func(ctx context.Context, prompt string, schema llm.Schema) (string, error) {
				return raw, nil
			},
		}, testLogger())

		result := r.Route(context.Background(), "q")

		assert.True(t, result.TargetAgentID.IsRoutable(), "got %q", result.TargetAgentID)
		_, ok := AgentByID(result.TargetAgentID)
		assert.True(t, ok)
	}
}
