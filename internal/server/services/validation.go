package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	maxDisplayNameLen = 100
	maxEmailLen       = 254
	// bcrypt only looks at the first 72 bytes
	maxSecretBytes = 72
)

type registration struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Validate checks a self-service signup: name and email only.
func (r registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.RuneLength(1, maxDisplayNameLen)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, maxEmailLen), is.Email),
	)
}

type adminInput struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Secret      string `json:"password"`
}

func (r adminInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Required, validation.RuneLength(1, maxDisplayNameLen)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, maxEmailLen), is.Email),
		validation.Field(&r.Secret, validation.Required, validation.By(secretFits)),
	)
}

var errSecretTooLong = errors.New("must be at most 72 bytes")

func secretFits(value interface{}) error {
	s, _ := value.(string)
	if len(s) > maxSecretBytes {
		return errSecretTooLong
	}
	return nil
}
