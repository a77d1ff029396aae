package domain

import "time"

// PersonalityProfile es el perfil canonico por (usuario, organizacion).
// Se crea de forma perezosa en la primera corrida que califica.
type PersonalityProfile struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	OrganizationID        string    `json:"organization_id"`
	OverallConfidence     int       `json:"overall_confidence"`
	ConversationsAnalyzed int       `json:"conversations_analyzed"`
	MessagesAnalyzed      int       `json:"messages_analyzed"`
	ConsentGranted        bool      `json:"consent_granted"`
	Degraded              bool      `json:"degraded"`
	LastRunID             *string   `json:"last_run_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UserAccount refleja el lookup externo de usuario: pais declarado y consentimiento.
type UserAccount struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	CountryCode    string `json:"country_code"`
	ConsentGranted bool   `json:"consent_granted"`
}
