package domain

import "time"

// Estados de una corrida de analisis. Completed y failed son terminales.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Tipos de corrida.
const (
	RunTypeScheduled = "scheduled"
	RunTypeManual    = "manual"
)

// AnalysisRun es el registro de procedencia de una pasada batch.
type AnalysisRun struct {
	ID             string     `json:"id"`
	RunType        string     `json:"run_type"`
	Status         string     `json:"status"`
	UsersProcessed int        `json:"users_processed"`
	UsersSkipped   int        `json:"users_skipped"`
	UsersFailed    int        `json:"users_failed"`
	ModelsUsed     []string   `json:"models_used"`
	TokenCost      int        `json:"token_cost"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Terminal indica si la corrida alcanzo un estado final.
func (r *AnalysisRun) Terminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}
