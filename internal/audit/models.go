package audit

import (
	"time"

	id "accredit/pkg/domain"
)

type Action string

const (
	ActionCredentialIssued Action = "credential_issued"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp        time.Time       `json:"timestamp"`
	Action           Action          `json:"action"`
	UserID           id.UserID       `json:"user_id"`
	CredentialID     id.CredentialID `json:"credential_id"`
	Tier             string          `json:"tier"`
	CredentialNumber string          `json:"credential_number"`
	RequestID        string          `json:"request_id,omitempty"`
}
