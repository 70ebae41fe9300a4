package email

import (
	"errors"
	"net/mail"
	"strings"
)

// ErrInvalidEmail indicates an email address is not valid.
var ErrInvalidEmail = errors.New("invalid email address")

// Address is an email address such as "jane@example.com". Sender
// addresses may carry a display name: "Rokko <noreply@example.com>".
type Address string

// ParseAddress checks that raw is shaped like an email address and returns it
// lower-cased. Display names and comments are rejected.
func ParseAddress(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return Address(""), ErrInvalidEmail
	}

	// mail.ParseAddress accepts "Alice <alice@example.com>(comment)".
	if addr.Address != trimmed {
		return Address(""), ErrInvalidEmail
	}

	return Address(strings.ToLower(addr.Address)), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}

	*a = addr

	return nil
}

// Mask keeps the first character of the local part and the whole domain:
// "jane@example.com" becomes "j***@example.com". Safe for logs and
// diagnostics.
func (a Address) Mask() string {
	s := string(a)
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return "***"
	}
	r := []rune(s[:at])
	return string(r[0]) + "***" + s[at:]
}
