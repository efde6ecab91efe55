package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/kynetix/internal/common"
)

const (
	maxPhoneLen    = 32
	maxFullNameLen = 255
	maxEmailLen    = 254
	maxPasswordLen = 1024
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	PhoneNumber string
	FullName    string
	Email       *string
	Password    string
}

// LoginInput is the login payload.
type LoginInput struct {
	PhoneNumber string
	Password    string
}

// ValidateRegistration checks in and returns its normalized form: phone,
// name and email trimmed, email lowercased, blank email dropped. On failure
// the error is a *common.ValidationError listing every rejected field.
func ValidateRegistration(in RegisterInput) (RegisterInput, error) {
	v := common.NewValidationError()
	out := RegisterInput{
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		FullName:    strings.TrimSpace(in.FullName),
		Password:    in.Password,
	}

	switch {
	case out.PhoneNumber == "":
		v.Add("phone_number", "required")
	case len(out.PhoneNumber) > maxPhoneLen:
		v.Add("phone_number", "too long")
	}

	switch {
	case out.FullName == "":
		v.Add("full_name", "required")
	case utf8.RuneCountInString(out.FullName) > maxFullNameLen:
		v.Add("full_name", "too long")
	}

	switch {
	case out.Password == "":
		v.Add("password", "required")
	case len(out.Password) > maxPasswordLen:
		v.Add("password", "too long")
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" {
			if !validEmail(email) {
				v.Add("email", "invalid email")
			}
			out.Email = &email
		}
	}

	if !v.Empty() {
		return RegisterInput{}, v
	}
	return out, nil
}

// validEmail accepts a bare addr-spec whose domain has at least one dot.
// Display-name forms like "Jane <jane@example.com>" are rejected.
func validEmail(email string) bool {
	if len(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	return at > 0 && strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
