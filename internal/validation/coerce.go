package validation

import (
	"encoding/json"
	"fmt"
)

// coerce turns loosely-typed input (a map decoded from a document or
// request body, raw JSON, or the typed entity itself) into T. Entity
// defaults are applied by the entities' own UnmarshalJSON methods, so a
// sparse map coerces exactly like a sparse stored document.
func coerce[T any](input any) (T, error) {
	var zero T

	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return zero, fmt.Errorf("nil %T", v)
		}
		return *v, nil
	case json.RawMessage:
		return decodeInto[T](v)
	case []byte:
		return decodeInto[T](v)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return zero, err
	}
	return decodeInto[T](data)
}

func decodeInto[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// coercionFailure is the uniform answer to input that cannot become the
// entity: a single violation, never a Go error, so batch validation
// keeps going.
func coercionFailure(err error) Result {
	return singleViolation(Violation{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("could not interpret input: %v", err),
	})
}
