// Package clinic holds the clinic domain records the front ends render and
// the appointment status machine that mutates them.
package clinic

// Status is an appointment's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
)

type Appointment struct {
	ID              int    `json:"id"`
	PatientID       int    `json:"patient_id"`
	AppointmentDate string `json:"appointment_date"`
	StartTime       string `json:"start_time"`
	Status          Status `json:"status"`
	SyncStatus      string `json:"sync_status"`
}

type Patient struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	HasInsurance bool   `json:"has_insurance"`
}

// AgentLog is one entry of the backend agent's decision trail.
type AgentLog struct {
	ID              int      `json:"id"`
	PatientID       *int     `json:"patient_id,omitempty"`
	LogContext      string   `json:"log_context"`
	AgentAction     string   `json:"agent_action"`
	SystemDecision  string   `json:"system_decision"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	CreatedAt       string   `json:"created_at"`
}
