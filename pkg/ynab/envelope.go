package ynab

import (
	"bytes"
	"encoding/json"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// maxErrorBody bounds how much of a bad response is kept for diagnostics
const maxErrorBody = 512

// Result is the outcome of one operation. Exactly one of Data, Failure and
// Violation is populated.
type Result[T any] struct {
	data      *T
	failure   *APIError
	violation *ProtocolError
}

// Data returns the payload of a successful response
func (r Result[T]) Data() (*T, bool) {
	return r.data, r.data != nil
}

// Failure returns the API error of a failed response
func (r Result[T]) Failure() (*APIError, bool) {
	return r.failure, r.failure != nil
}

// Violation returns the protocol error of a response that could not be
// understood
func (r Result[T]) Violation() (*ProtocolError, bool) {
	return r.violation, r.violation != nil
}

// Err returns the failure or violation, or nil on success
func (r Result[T]) Err() error {
	switch {
	case r.failure != nil:
		return r.failure
	case r.violation != nil:
		return r.violation
	}
	return nil
}

// Unwrap returns the payload or the error
func (r Result[T]) Unwrap() (*T, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	return r.data, nil
}

// withRequestID stamps the request id on the error arm
func (r Result[T]) withRequestID(id string) Result[T] {
	if r.failure != nil {
		r.failure.RequestID = id
	}
	if r.violation != nil {
		r.violation.RequestID = id
	}
	return r
}

// Decode interprets a complete response for operation. A body with a
// top-level "error" key is a failure whatever the status code. A success
// must carry its payload under "data" and pass validation. Every other body
// is a protocol violation.
func Decode[T any](operation string, statusCode int, body []byte) Result[T] {
	violation := func(err error) Result[T] {
		return Result[T]{violation: &ProtocolError{
			Operation:  operation,
			StatusCode: statusCode,
			Body:       truncateBody(body),
			Err:        err,
		}}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return violation(errors.Wrap(err, "body is not a JSON object"))
	}
	if envelope == nil {
		return violation(errors.New("body is not a JSON object"))
	}

	if raw, ok := envelope["error"]; ok {
		apiErr, err := decodeAPIError(raw)
		if err != nil {
			return violation(err)
		}
		apiErr.StatusCode = statusCode
		apiErr.Operation = operation
		return Result[T]{failure: apiErr}
	}

	if statusCode < 200 || statusCode > 299 {
		return violation(errors.New("error status without an error object"))
	}

	raw, ok := envelope["data"]
	if !ok || isNull(raw) {
		return violation(errors.New("missing data"))
	}

	data := new(T)
	if err := json.Unmarshal(raw, data); err != nil {
		return violation(errors.Wrap(err, "failed to decode data"))
	}
	if err := validateStruct(data); err != nil {
		return violation(errors.Wrap(err, "invalid data"))
	}

	return Result[T]{data: data}
}

type errorBody struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Detail string `json:"detail"`
}

func decodeAPIError(raw json.RawMessage) (*APIError, error) {
	var e errorBody
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, errors.Wrap(err, "failed to decode error object")
	}
	if err := validateStruct(&e); err != nil {
		return nil, errors.Wrap(err, "invalid error object")
	}
	return &APIError{ID: e.ID, Name: e.Name, Detail: e.Detail}, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// truncateBody cuts body at a rune boundary at or before maxErrorBody
func truncateBody(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
