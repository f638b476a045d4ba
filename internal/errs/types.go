package errs

import (
	"fmt"
	"net/http"
	"strconv"
)

// Codes for the failure kinds of the weight sync pipeline. These stay
// stable even if messages get reworded, so clients can switch on them.
const (
	CodeMissingParameter      = "MISSING_PARAMETER"
	CodeUpstreamFetch         = "UPSTREAM_FETCH_FAILURE"
	CodeMalformedUpstreamData = "MALFORMED_UPSTREAM_DATA"
	CodeInvalidNumericInput   = "INVALID_NUMERIC_INPUT"
	CodeDownstreamAdjustment  = "DOWNSTREAM_ADJUSTMENT_FAILURE"
	CodeNoMatchingItem        = "NO_MATCHING_ITEM"
	CodeAmbiguousMatch        = "AMBIGUOUS_PRINTER_MATCH"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// Extra payload:
//   - code: optional custom code string (nil defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors
//   - action: optional client instruction
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a generic 500 HTTPError. The real
// internal error stays in the logs, not in the client response.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewMissingParameterError reports an absent required request parameter.
func NewMissingParameterError(fieldErrors []FieldError) *HTTPError {
	code := CodeMissingParameter
	return NewBadRequestError("Missing required parameter", true, &code, fieldErrors, nil)
}

// NewUpstreamFetchError reports a network failure or non-OK response
// from the board query API.
func NewUpstreamFetchError(cause error) *HTTPError {
	code := CodeUpstreamFetch
	return NewBadRequestError("Board query failed: "+cause.Error(), false, &code, nil, nil)
}

// NewMalformedUpstreamDataError reports an unexpected JSON shape from
// the board query API.
func NewMalformedUpstreamDataError(detail string) *HTTPError {
	code := CodeMalformedUpstreamData
	return NewBadRequestError("Malformed board response: "+detail, false, &code, nil, nil)
}

// NewInvalidNumericInputError reports a value that failed to parse as a
// number, either from the request or from a board column.
func NewInvalidNumericInputError(field, value string) *HTTPError {
	code := CodeInvalidNumericInput
	return NewBadRequestError("Invalid numeric value", false, &code, []FieldError{
		{Field: field, Error: "must be a number, got " + strconv.Quote(value)},
	}, nil)
}

// NewDownstreamAdjustmentError reports a failed weight adjustment call.
func NewDownstreamAdjustmentError(cause error) *HTTPError {
	code := CodeDownstreamAdjustment
	return NewBadRequestError("Weight adjustment failed: "+cause.Error(), false, &code, nil, nil)
}

// NewNoMatchingItemError reports that no board item matched the
// requested printer.
func NewNoMatchingItemError(printer string) *HTTPError {
	code := CodeNoMatchingItem
	return NewNotFoundError("No board item matches printer "+strconv.Quote(printer), false, &code)
}

// NewAmbiguousMatchError reports that more than one board item matched
// the requested printer. The sync refuses to adjust anything in that
// case, since it cannot tell which running total to decrement.
func NewAmbiguousMatchError(printer string, count int) *HTTPError {
	return &HTTPError{
		Code:     CodeAmbiguousMatch,
		Message:  fmt.Sprintf("%d board items match printer %q, expected exactly one", count, printer),
		Status:   http.StatusConflict,
		Override: false,
	}
}
