package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrorEmptyString      = errors.New("empty_string")
	ErrorInvalidCharacter = errors.New("invalid_character")

	ErrorTooShort = errors.New("too_short")
	ErrorTooLong  = errors.New("too_long")

	allowedSymbolsInName = map[rune]bool{
		'.':  true,
		',':  true,
		'-':  true,
		' ':  true,
		'&':  true,
		'!':  true,
		'(':  true,
		')':  true,
		':':  true,
		'\'': true,
		'/':  true,
		'#':  true,
	}
)

const (
	OrgNameMinLength    = 2
	OrgNameMaxLength    = 120
	VendorNameMinLength = 2
	VendorNameMaxLength = 120
	TimezoneMinLength   = 2
	TimezoneMaxLength   = 100
)

func OrgName(orgName string) error {
	return name(orgName, OrgNameMinLength, OrgNameMaxLength)
}

func VendorName(vendorName string) error {
	return name(vendorName, VendorNameMinLength, VendorNameMaxLength)
}

// Timezone only checks the length, the value is stored for display
// and every computation happens in UTC
func Timezone(timezone string) error {
	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		return ErrorEmptyString
	}
	length := utf8.RuneCountInString(timezone)
	if length < TimezoneMinLength {
		return ErrorTooShort
	}
	if length > TimezoneMaxLength {
		return ErrorTooLong
	}
	return nil
}

func name(input string, minLength, maxLength int) error {
	var errs []error

	input = strings.TrimSpace(input)
	if input == "" {
		return ErrorEmptyString
	}
	length := utf8.RuneCountInString(input)
	if length < minLength {
		errs = append(errs, ErrorTooShort)
	}
	if length > maxLength {
		errs = append(errs, ErrorTooLong)
	}

	invalidCharacters := map[rune]struct{}{}
	for _, r := range input {
		if !isRuneAllowedInName(r) {
			invalidCharacters[r] = struct{}{}
		}
	}
	for invalidCharacter := range invalidCharacters {
		errs = append(errs, fmt.Errorf("%w: character[%q] is not allowed", ErrorInvalidCharacter, invalidCharacter))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func isRuneAllowedInName(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	_, ok := allowedSymbolsInName[r]
	return ok
}
