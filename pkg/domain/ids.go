package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "accredit/pkg/domain-errors"
)

// UserID identifies an advocate (the subject of progress and credentials).
type UserID uuid.UUID

// CredentialID identifies an issued credential. It is internal and never
// appears on the public verification surface.
type CredentialID uuid.UUID

func (u UserID) String() string { return uuid.UUID(u).String() }

// IsNil reports whether the id is the zero UUID.
func (u UserID) IsNil() bool { return uuid.UUID(u) == uuid.Nil }

func (c CredentialID) String() string { return uuid.UUID(c).String() }

func (c CredentialID) IsNil() bool { return uuid.UUID(c) == uuid.Nil }

// NewCredentialID returns a fresh random credential id.
func NewCredentialID() CredentialID {
	return CredentialID(uuid.New())
}

// ParseUserID parses an advocate id at a trust boundary.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID(s, "user_id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseCredentialID parses a credential id.
func ParseCredentialID(s string) (CredentialID, error) {
	parsed, err := parseUUID(s, "credential_id")
	if err != nil {
		return CredentialID{}, err
	}
	return CredentialID(parsed), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is too long")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+field)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return parsed, nil
}
