package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// ParseOptionalGt reads an optional integer query parameter that must be greater than value.
// An absent parameter yields def.
func ParseOptionalGt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, value, def int64) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return int(def), true
	}
	return parseValidate(raw, w, logger, key, gt(value))
}

func parseValidate(raw string, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (int, bool) {
	intValue, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, raw))
		return 0, false
	}
	return int(intValue), true
}
