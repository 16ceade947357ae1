package shopapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// RequestError is returned when the collaborator answered with a non-2xx status.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// NotFound reports whether the collaborator answered 404.
func (e *RequestError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError is returned when a request never completed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 answer from the collaborator.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.NotFound()
}

// failureMessage applies the payload convention: error, then detail, then a
// generic "<op> failed (<status>)".
// parseErrorBody reads the error and detail fields independently. A body
// that is not a JSON object counts as empty, and a field that is not a
// string is ignored.
func parseErrorBody(data []byte) ErrorBody {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ErrorBody{}
	}
	return ErrorBody{
		Error:  stringField(fields["error"]),
		Detail: stringField(fields["detail"]),
	}
}

func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func failureMessage(op string, status int, body ErrorBody) string {
	switch {
	case body.Error != "":
		return body.Error
	case body.Detail != "":
		return body.Detail
	default:
		return fmt.Sprintf("%s failed (%d)", op, status)
	}
}
