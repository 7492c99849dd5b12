package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hospital-assistant/pkg"
)

var (
	// ErrBusy is returned when a submission arrives while a turn is already
	// in flight. One turn at a time, per session.
	ErrBusy = errors.New("a turn is already in progress")

	// ErrEmptyQuery is returned for empty or whitespace-only input.
	ErrEmptyQuery = errors.New("query must not be empty")
)

// Orchestrator owns the session: the append-only transcript and the
// three-phase turn state. It sequences router then generator for each
// submitted query and guarantees exactly one new model message per turn,
// ending in the idle state no matter what failed along the way.
type Orchestrator struct {
	router    *Router
	generator *Generator
	log       *slog.Logger

	mu          sync.Mutex
	transcript  []pkg.Message
	state       pkg.ProcessingState
	activeAgent pkg.AgentID
}

// NewOrchestrator constructs an Orchestrator with a transcript seeded by
// the greeting message.
func NewOrchestrator(router *Router, generator *Generator, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		router:      router,
		generator:   generator,
		log:         log,
		transcript:  []pkg.Message{newModelMessage(pkg.AgentOrchestrator, GreetingMessage, nil)},
		state:       pkg.StateIdle,
		activeAgent: pkg.AgentOrchestrator,
	}
}

// Submit runs one full turn for query and returns the two messages it
// appended (user, then model). It returns ErrBusy while another turn is in
// flight and ErrEmptyQuery for blank input; it never fails for any other
// reason.
func (o *Orchestrator) Submit(ctx context.Context, query string) ([]pkg.Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	o.mu.Lock()
	if o.state != pkg.StateIdle {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	// Snapshot context before appending, so the generator's history holds
	// the query's predecessors but never the query itself.
	history := make([]pkg.Message, len(o.transcript))
	copy(history, o.transcript)

	userMsg := pkg.Message{
		ID:        uuid.NewString(),
		Role:      pkg.RoleUser,
		Content:   query,
		CreatedAt: time.Now(),
	}
	o.transcript = append(o.transcript, userMsg)
	o.state = pkg.StateRouting
	o.activeAgent = pkg.AgentOrchestrator
	o.mu.Unlock()

	modelMsg := o.runTurn(ctx, query, history)

	o.mu.Lock()
	o.transcript = append(o.transcript, modelMsg)
	o.state = pkg.StateIdle
	o.activeAgent = pkg.AgentOrchestrator
	o.mu.Unlock()

	o.log.Info("turn completed",
		"agent", modelMsg.AgentID, "sources", len(modelMsg.Sources))
	return []pkg.Message{userMsg, modelMsg}, nil
}

// runTurn executes the routing and generating phases. Router and generator
// absorb their own failures; anything that still escapes is converted into
// the generic connectivity message attributed to the orchestrator persona,
// so the turn always yields exactly one model message.
func (o *Orchestrator) runTurn(ctx context.Context, query string, history []pkg.Message) (msg pkg.Message) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("turn failed", "panic", r)
			msg = newModelMessage(pkg.AgentOrchestrator, MsgConnectivity, nil)
		}
	}()

	routed := o.router.Route(ctx, query)
	o.log.Info("query routed",
		"agent", routed.TargetAgentID, "reasoning", routed.Reasoning)

	o.mu.Lock()
	o.state = pkg.StateGenerating
	o.activeAgent = routed.TargetAgentID
	o.mu.Unlock()

	reply := o.generator.Generate(ctx, routed.TargetAgentID, query, history)
	return newModelMessage(routed.TargetAgentID, reply.Text, reply.Sources)
}

// Transcript returns a copy of the transcript in display order.
func (o *Orchestrator) Transcript() []pkg.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]pkg.Message, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// Status returns the current processing state and active agent.
func (o *Orchestrator) Status() (pkg.ProcessingState, pkg.AgentID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.activeAgent
}

func newModelMessage(agent pkg.AgentID, text string, sources []pkg.Source) pkg.Message {
	return pkg.Message{
		ID:        uuid.NewString(),
		Role:      pkg.RoleModel,
		Content:   text,
		AgentID:   agent,
		CreatedAt: time.Now(),
		Sources:   sources,
	}
}
