package alexa

import (
	apperrors "alexa-skill-backend/internal/common/errors"
)

// Verifier authenticates an inbound webhook call before any processing
// happens. Implementations receive the raw body plus the Signature and
// SignatureCertChainUrl header values.
type Verifier interface {
	Verify(body []byte, signature, certChainURL string) error
}

// AllowAllVerifier accepts every request. Certificate-chain validation of
// Alexa signatures is an external collaborator concern; deployments that need
// it plug in their own Verifier.
type AllowAllVerifier struct{}

func (AllowAllVerifier) Verify(body []byte, signature, certChainURL string) error {
	return nil
}

// CheckApplicationID rejects requests addressed to a different skill. An
// empty configured skillID disables the check.
func CheckApplicationID(req *Request, skillID string) error {
	if skillID == "" {
		return nil
	}
	if req.Session.Application.ApplicationID != skillID {
		return apperrors.NewUnauthorizedRequestError("request not addressed to this skill")
	}
	return nil
}
