package auth

import (
	"errors"
)

// Error codes shared by every provider.
const (
	CodeUserNotFound      = "auth/user-not-found"
	CodeWrongPassword     = "auth/wrong-password"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeInvalidCredential = "auth/invalid-credential"
	CodeNetworkFailed     = "auth/network-request-failed"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeWeakPassword      = "auth/weak-password"
	CodeMissingFields     = "auth/missing-fields"
	CodePasswordMismatch  = "auth/password-mismatch"
	CodeTooManyRequests   = "auth/too-many-requests"
	CodeInternal          = "auth/internal-error"
)

const genericMessage = "Une erreur est survenue."

const minimumPasswordLength = 6

var messages = map[string]string{
	CodeUserNotFound:      "Aucun compte trouvé avec cet email.",
	CodeWrongPassword:     "Mot de passe incorrect.",
	CodeInvalidEmail:      "Email invalide.",
	CodeInvalidCredential: "Email ou mot de passe incorrect.",
	CodeNetworkFailed:     "Erreur réseau. Vérifiez votre connexion.",
	CodeEmailAlreadyInUse: "Cet email est déjà utilisé.",
	CodeWeakPassword:      "Le mot de passe doit contenir au moins 6 caractères.",
	CodeMissingFields:     "Veuillez remplir tous les champs.",
	CodePasswordMismatch:  "Les mots de passe ne correspondent pas.",
}

// Error is an authentication failure carrying a provider-independent code.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Code returns the code of the first *Error in err's chain, or "" if there is none.
func Code(err error) string {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

// Message returns the user-facing message for err. Unknown codes and foreign errors get a generic message.
func Message(err error) string {
	if msg, ok := messages[Code(err)]; ok {
		return msg
	}
	return genericMessage
}
