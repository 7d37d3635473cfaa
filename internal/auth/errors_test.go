package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Message(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "user not found", err: newError(CodeUserNotFound, nil), expected: "Aucun compte trouvé avec cet email."},
		{name: "wrong password", err: newError(CodeWrongPassword, nil), expected: "Mot de passe incorrect."},
		{name: "invalid email", err: newError(CodeInvalidEmail, nil), expected: "Email invalide."},
		{name: "invalid credential", err: newError(CodeInvalidCredential, nil), expected: "Email ou mot de passe incorrect."},
		{name: "network", err: newError(CodeNetworkFailed, nil), expected: "Erreur réseau. Vérifiez votre connexion."},
		{name: "email in use", err: newError(CodeEmailAlreadyInUse, nil), expected: "Cet email est déjà utilisé."},
		{name: "weak password", err: newError(CodeWeakPassword, nil), expected: "Le mot de passe doit contenir au moins 6 caractères."},
		{name: "missing fields", err: newError(CodeMissingFields, nil), expected: "Veuillez remplir tous les champs."},
		{name: "password mismatch", err: newError(CodePasswordMismatch, nil), expected: "Les mots de passe ne correspondent pas."},
		{name: "wrapped code", err: fmt.Errorf("login: %w", newError(CodeWrongPassword, nil)), expected: "Mot de passe incorrect."},
		{name: "unknown code", err: newError("auth/quota-exceeded", nil), expected: genericMessage},
		{name: "foreign error", err: errors.New("boom"), expected: genericMessage},
		{name: "nil", err: nil, expected: genericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Message(tt.err))
		})
	}
}

func Test_Error(t *testing.T) {
	cause := errors.New("EMAIL_NOT_FOUND")
	err := newError(CodeUserNotFound, cause)

	assert.Equal(t, "auth/user-not-found: EMAIL_NOT_FOUND", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeUserNotFound, Code(err))
	assert.Equal(t, "auth/weak-password", newError(CodeWeakPassword, nil).Error())
	assert.Empty(t, Code(cause))
}
