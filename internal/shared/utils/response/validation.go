package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationDetails flattens a binding error into a field -> failed-rule
// map for the envelope's errors slot. Errors that did not come from the
// validator (malformed JSON, wrong types) land under "body".
func ValidationDetails(err error) map[string]string {
	details := make(map[string]string)

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fe := range fieldErrors {
			details[fe.Field()] = fe.Tag()
		}
		return details
	}

	details["body"] = err.Error()
	return details
}
