package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/diary-service/internal/api/dto"
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	maxEmailLength    = 100
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

func validateRegistration(req *dto.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	details := map[string]any{}
	if n := utf8.RuneCountInString(req.Username); n < minUsernameLength || n > maxUsernameLength {
		details["username"] = "must be between 3 and 50 characters"
	}
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		details["email"] = "must be a valid email address"
	} else if utf8.RuneCountInString(req.Email) > maxEmailLength {
		details["email"] = "must be at most 100 characters"
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength || len(req.Password) > maxPasswordBytes {
		details["password"] = "must be at least 8 characters and at most 72 bytes"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

func requireCredentials(identifier, password string) error {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return apperrors.NewValidationError("credentials required", nil)
	}
	return nil
}
