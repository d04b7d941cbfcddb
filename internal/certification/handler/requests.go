package handler

import (
	"strings"

	"accredit/internal/certification/models"
	dErrors "accredit/pkg/domain-errors"
)

const maxPaymentReferenceLength = 128

// ClaimRequest is the HTTP request body for POST /me/credentials.
type ClaimRequest struct {
	Tier             string `json:"tier"`
	PaymentStatus    string `json:"payment_status"`
	PaymentReference string `json:"payment_reference,omitempty"`

	parsedPayment models.PaymentStatus
}

// Validate implements httputil.Validatable. Tier existence is checked by
// the service against the catalog.
func (r *ClaimRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.PaymentReference) > maxPaymentReferenceLength {
		return dErrors.New(dErrors.CodeValidation, "payment_reference must be at most 128 characters")
	}

	r.Tier = strings.ToLower(strings.TrimSpace(r.Tier))
	if r.Tier == "" {
		return dErrors.New(dErrors.CodeValidation, "tier is required")
	}
	if strings.TrimSpace(r.PaymentStatus) == "" {
		return dErrors.New(dErrors.CodeValidation, "payment_status is required")
	}
	payment, err := models.ParsePaymentStatus(r.PaymentStatus)
	if err != nil {
		return err
	}
	r.parsedPayment = payment
	r.PaymentReference = strings.TrimSpace(r.PaymentReference)
	return nil
}

func (r *ClaimRequest) ParsedPaymentStatus() models.PaymentStatus {
	return r.parsedPayment
}
