package validate

import (
	"fmt"

	"github.com/google/uuid"
)

const uuidLength = 36

// Uuid accepts the canonical hyphenated form that ids are stored in, the
// braced, urn and unhyphenated forms uuid.Parse tolerates are refused
func Uuid(input string) error {
	if len(input) != uuidLength {
		return fmt.Errorf("%w: expected %v characters", ErrorInvalidUuid, uuidLength)
	}
	if _, err := uuid.Parse(input); err != nil {
		return fmt.Errorf("%w: %w", ErrorInvalidUuid, err)
	}
	return nil
}
