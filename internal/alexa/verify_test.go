// internal/alexa/verify_test.go
package alexa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "alexa-skill-backend/internal/common/errors"
)

func TestAllowAllVerifier(t *testing.T) {
	verifier := AllowAllVerifier{}

	assert.NoError(t, verifier.Verify([]byte(`{}`), "", ""))
	assert.NoError(t, verifier.Verify(nil, "sig", "https://s3.amazonaws.com/echo.api/echo-api-cert.pem"))
}

func TestCheckApplicationID(t *testing.T) {
	tests := []struct {
		name        string
		skillID     string
		appID       string
		expectError bool
	}{
		{
			name:    "matching skill id",
			skillID: "amzn1.ask.skill.abc",
			appID:   "amzn1.ask.skill.abc",
		},
		{
			name:        "mismatched skill id",
			skillID:     "amzn1.ask.skill.abc",
			appID:       "amzn1.ask.skill.other",
			expectError: true,
		},
		{
			name:        "missing application id with configured skill",
			skillID:     "amzn1.ask.skill.abc",
			appID:       "",
			expectError: true,
		},
		{
			name:    "empty configured skill id disables the check",
			skillID: "",
			appID:   "amzn1.ask.skill.anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{
				Session: Session{Application: Application{ApplicationID: tt.appID}},
			}

			err := CheckApplicationID(req, tt.skillID)

			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, apperrors.ErrCodeUnauthorizedRequest, apperrors.CodeOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}
