package validate

import (
	"errors"
	"unicode"
)

var (
	ErrorNoDigit        = errors.New("no_digit")
	ErrorNoLowercase    = errors.New("no_lowercase")
	ErrorNoSymbol       = errors.New("no_symbol")
	ErrorNoUppercase    = errors.New("no_uppercase")
	ErrorNotPrintable   = errors.New("not_printable")
	ErrorStringTooShort = errors.New("string_too_short")
	ErrorStringTooLong  = errors.New("string_too_long")

	ErrorInvalidUuid = errors.New("invalid_uuid")
)

func hasDigit() StringRule {
	return func(s string) error {
		for _, r := range s {
			if unicode.IsDigit(r) {
				return nil
			}
		}
		return ErrorNoDigit
	}
}

func hasMaxLength(l int) StringRule {
	return func(s string) error {
		if len(s) > l {
			return ErrorStringTooLong
		}
		return nil
	}
}

func hasMinLength(l int) StringRule {
	return func(s string) error {
		if len(s) < l {
			return ErrorStringTooShort
		}
		return nil
	}
}

func hasLowercase() StringRule {
	return func(s string) error {
		for _, r := range s {
			if unicode.IsLower(r) {
				return nil
			}
		}
		return ErrorNoLowercase
	}
}

func hasSymbol() StringRule {
	return func(s string) error {
		for _, r := range s {
			if unicode.IsPunct(r) || unicode.IsSymbol(r) {
				return nil
			}
		}
		return ErrorNoSymbol
	}
}

func hasUppercase() StringRule {
	return func(s string) error {
		for _, r := range s {
			if unicode.IsUpper(r) {
				return nil
			}
		}
		return ErrorNoUppercase
	}
}

func isPrintable() RuneRule {
	return func(curr rune, prev rune) error {
		if unicode.IsPrint(curr) {
			return nil
		}
		return ErrorNotPrintable
	}
}
