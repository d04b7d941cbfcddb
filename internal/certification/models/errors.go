package models

import (
	"fmt"

	dErrors "accredit/pkg/domain-errors"
	"accredit/pkg/platform/sentinel"
)

// Error kinds surfaced by the certification services.
var (
	ErrNotAuthenticated    = dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	ErrProfileNotFound     = dErrors.New(dErrors.CodeProfileNotFound, "advocate profile not found")
	ErrInvalidTier         = dErrors.New(dErrors.CodeInvalidTier, "unknown certificate level")
	ErrAlreadyIssued       = dErrors.New(dErrors.CodeAlreadyIssued, "Certificate already issued for this level")
	ErrRequirementsNotMet  = dErrors.New(dErrors.CodeRequirementsNotMet, "requirements for this level are not yet met")
	ErrPersistenceConflict = dErrors.New(dErrors.CodePersistenceConflict, "credential identifiers collided")
)

// Storage facts for identifier collisions. Both wrap sentinel.ErrConflict.
var (
	ErrVerificationCodeTaken = fmt.Errorf("verification code taken: %w", sentinel.ErrConflict)
	ErrCredentialNumberTaken = fmt.Errorf("credential number taken: %w", sentinel.ErrConflict)
)
