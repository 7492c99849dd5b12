package core

import "hospital-assistant/pkg"

// agents is the immutable persona table. The six profiles require no
// polymorphic dispatch; plain records keyed by identifier suffice.
var agents = map[pkg.AgentID]pkg.AgentProfile{
	pkg.AgentOrchestrator: {
		ID:          pkg.AgentOrchestrator,
		Name:        "Manage Hospital Operations",
		Role:        "Orchestrator",
		Description: "Interprets user requests and routes them to relevant sub-agents.",
		Instruction: orchestratorInstruction,
		Icon:        "BrainCircuit",
		Color:       "bg-indigo-600",
	},
	pkg.AgentDoctorStaff: {
		ID:            pkg.AgentDoctorStaff,
		Name:          "Doctor & Staff Mgmt",
		Role:          "Staff Specialist",
		Description:   "Deals with doctor schedules and staff allocation.",
		Instruction:   doctorStaffInstruction,
		SearchEnabled: true,
		Icon:          "Stethoscope",
		Color:         "bg-blue-600",
	},
	pkg.AgentMedicalInfo: {
		ID:            pkg.AgentMedicalInfo,
		Name:          "Medical Information",
		Role:          "Medical Knowledge",
		Description:   "Provides information on diseases, symptoms, and treatments.",
		Instruction:   medicalInfoInstruction,
		SearchEnabled: true,
		Icon:          "Activity",
		Color:         "bg-red-500",
	},
	pkg.AgentPatientMgmt: {
		ID:            pkg.AgentPatientMgmt,
		Name:          "Patient Management",
		Role:          "Records Manager",
		Description:   "Manages patient records, admissions, and discharges.",
		Instruction:   patientMgmtInstruction,
		SearchEnabled: true,
		Icon:          "Users",
		Color:         "bg-emerald-600",
	},
	pkg.AgentAppointment: {
		ID:          pkg.AgentAppointment,
		Name:        "Appointment Scheduling",
		Role:        "Scheduler",
		Description: "Handles booking, modification, and cancellation.",
		Instruction: appointmentInstruction,
		// Scheduling answers stay deterministic/internal, so no search.
		Icon:  "CalendarClock",
		Color: "bg-amber-600",
	},
	pkg.AgentGeneral: {
		ID:            pkg.AgentGeneral,
		Name:          "General Assistant",
		Role:          "Assistant",
		Description:   "Handles general queries not specific to other departments.",
		Instruction:   generalInstruction,
		SearchEnabled: true,
		Icon:          "Globe",
		Color:         "bg-slate-500",
	},
}

// agentOrder fixes the display order for the sidebar.
var agentOrder = []pkg.AgentID{
	pkg.AgentOrchestrator,
	pkg.AgentAppointment,
	pkg.AgentPatientMgmt,
	pkg.AgentDoctorStaff,
	pkg.AgentMedicalInfo,
	pkg.AgentGeneral,
}

// AgentByID returns the profile for id. It is total over the closed
// enumeration; ok is false only for identifiers outside it.
func AgentByID(id pkg.AgentID) (pkg.AgentProfile, bool) {
	profile, ok := agents[id]
	return profile, ok
}

// Agents returns all profiles in display order.
func Agents() []pkg.AgentProfile {
	out := make([]pkg.AgentProfile, 0, len(agentOrder))
	for _, id := range agentOrder {
		out = append(out, agents[id])
	}
	return out
}
