package contextutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValidUUID checks if s is a UUID using go-playground/validator
func IsValidUUID(s string) bool {
	return validate.Var(s, "uuid") == nil
}

// ValidateStruct runs the `validate` struct tags of v and folds every
// violation into a single ErrValidationFailed.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return WrapError(err, "validation failed")
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return NewAppErrorWithCause(ErrorCodeValidationFailed, SeverityWarn, "Validation failed", strings.Join(problems, "; "), err)
}
