package auth

import apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"

// Failure kinds reported by the auth subsystem.
const (
	ReasonBadCredentials  = "bad_credentials"
	ReasonRevoked         = "revoked"
	ReasonInvalidToken    = "invalid_token"
	ReasonMissingSubject  = "missing_subject"
	ReasonExpired         = "expired"
	ReasonNoSuchUser      = "no_such_user"
	ReasonInactiveAccount = "inactive_account"
	ReasonUsernameTaken   = "username_taken"
	ReasonEmailTaken      = "email_taken"
)

var messages = map[string]string{
	ReasonBadCredentials:  "invalid username, email or password",
	ReasonRevoked:         "token has been revoked",
	ReasonInvalidToken:    "invalid token",
	ReasonMissingSubject:  "token carries no subject",
	ReasonExpired:         "token has expired",
	ReasonNoSuchUser:      "user not found",
	ReasonInactiveAccount: "account is inactive",
	ReasonUsernameTaken:   "username already taken",
	ReasonEmailTaken:      "email already registered",
}

// Unauthorized builds the authentication failure for reason.
func Unauthorized(reason string) error {
	return apperrors.NewUnauthorized(reason, messages[reason])
}

// Forbidden builds the policy denial for reason.
func Forbidden(reason string) error {
	return apperrors.NewForbidden(reason, messages[reason])
}

// Conflict builds the registration conflict for reason.
func Conflict(reason string) error {
	return apperrors.NewConflict(reason, messages[reason], nil)
}
