package services

import (
	"fmt"
	"strings"
)

const (
	ghanaCallingCode = "+233"
	// normalizedPhoneLen is the calling code plus nine subscriber digits.
	normalizedPhoneLen = 13
)

// PhoneFormatError reports a number that does not normalize to +233XXXXXXXXX.
type PhoneFormatError struct {
	Length int
}

func (e *PhoneFormatError) Error() string {
	return fmt.Sprintf(msgPhoneFormat, e.Length)
}

// NormalizePhone turns a local Ghanaian number into international form. Only
// digits and a leading + are kept; a local leading zero is dropped before the
// calling code is prepended. Already normalized input comes back unchanged.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	phone := b.String()

	if !strings.HasPrefix(phone, ghanaCallingCode) {
		if strings.HasPrefix(phone, "+") {
			// another country's calling code
			return "", &PhoneFormatError{Length: len(phone)}
		}
		phone = ghanaCallingCode + strings.TrimPrefix(phone, "0")
	}
	if len(phone) != normalizedPhoneLen {
		return "", &PhoneFormatError{Length: len(phone)}
	}
	return phone, nil
}

// LocalPhone strips the calling code for display in a local-number input,
// so +233241000000 becomes 241000000.
func LocalPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if local, ok := strings.CutPrefix(phone, ghanaCallingCode); ok {
		return local
	}
	return strings.TrimPrefix(phone, "0")
}
