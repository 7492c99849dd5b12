package pkg

import (
	"net/url"
	"time"
)

// AgentID identifies one of the fixed assistant personas. The set is closed
// and defined at process start; see internal/core for the profile table.
type AgentID string

const (
	AgentOrchestrator AgentID = "orchestrator"
	AgentAppointment  AgentID = "appointment"
	AgentPatientMgmt  AgentID = "patient_mgmt"
	AgentDoctorStaff  AgentID = "doctor_staff"
	AgentMedicalInfo  AgentID = "medical_info"
	AgentGeneral      AgentID = "general"
)

// RoutableAgents returns the identifiers the intent router may choose from.
// The orchestrator identifier is reserved for the idle/system state and is
// never a routing target.
func RoutableAgents() []AgentID {
	return []AgentID{
		AgentAppointment,
		AgentPatientMgmt,
		AgentDoctorStaff,
		AgentMedicalInfo,
		AgentGeneral,
	}
}

// IsValid reports whether id is a member of the closed enumeration.
func (id AgentID) IsValid() bool {
	switch id {
	case AgentOrchestrator, AgentAppointment, AgentPatientMgmt,
		AgentDoctorStaff, AgentMedicalInfo, AgentGeneral:
		return true
	}
	return false
}

// IsRoutable reports whether id is an eligible routing target.
func (id AgentID) IsRoutable() bool {
	return id.IsValid() && id != AgentOrchestrator
}

// AgentProfile is the immutable persona configuration for one agent. Profiles
// are loaded once and shared read-only by the router, generator and the
// presentation layer.
type AgentProfile struct {
	ID          AgentID `json:"id"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Description string  `json:"description"`
	// Instruction is the persona prompt sent to the generation capability.
	Instruction string `json:"-"`
	// SearchEnabled controls whether web-search grounding is attached to
	// generation requests for this agent.
	SearchEnabled bool   `json:"search_enabled"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
}

// MessageRole describes who authored a transcript message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// Source is one cited web source attached to a model message.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// DisplayTitle returns the title, falling back to the URI's host when the
// title is absent.
func (s Source) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if u, err := url.Parse(s.URI); err == nil && u.Host != "" {
		return u.Host
	}
	return s.URI
}

// Message is one transcript entry. Messages are created once and never
// mutated; the transcript is append-only and insertion order is display
// order.
type Message struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	// AgentID is set only on model-role messages and identifies the persona
	// that produced the message.
	AgentID   AgentID   `json:"agent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Sources   []Source  `json:"sources,omitempty"`
}

// RoutingResult is the transient outcome of the routing phase: the chosen
// agent plus a short rationale. It is consumed only within the current turn.
type RoutingResult struct {
	TargetAgentID AgentID `json:"targetAgentId"`
	Reasoning     string  `json:"reasoning"`
}

// ProcessingState is the three-phase turn lifecycle. A new turn may begin
// only while the state is idle.
type ProcessingState string

const (
	StateIdle       ProcessingState = "idle"
	StateRouting    ProcessingState = "routing"
	StateGenerating ProcessingState = "generating"
)
