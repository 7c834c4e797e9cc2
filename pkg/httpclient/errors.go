package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	// MessageNoConnection is the message carried by every NetworkError.
	MessageNoConnection = "no connection to server"
	// MessageServerError is used when an error body carries no error.message.
	MessageServerError = "server error"
)

// NetworkError reports that the request never got an HTTP response
// (DNS, refused connection, TLS, timeout, cancelled context). Its status is 0.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return MessageNoConnection
	}
	return fmt.Sprintf("%s: %v", MessageNoConnection, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ClientError is a non-2xx response below 500. Fields holds error.errors
// from the body, keyed by form field.
type ClientError struct {
	Status  int
	Message string
	Fields  map[string][]string
	Data    json.RawMessage
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// ServerError is a 5xx response.
type ServerError struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// DecodeError reports a success body that does not match the schema an
// endpoint expects.
type DecodeError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *DecodeError) Error() string {
	msg := "decode response"
	if e.Endpoint != "" {
		msg += " " + e.Endpoint
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// errorBody is the error envelope the API returns on failures.
type errorBody struct {
	Error struct {
		Message string                     `json:"message"`
		Errors  map[string]json.RawMessage `json:"errors"`
	} `json:"error"`
}

// newStatusError builds the ClientError or ServerError for a non-2xx status.
func newStatusError(status int, data json.RawMessage) error {
	msg := MessageServerError
	var fields map[string][]string

	if len(data) > 0 {
		var body errorBody
		if err := json.Unmarshal(data, &body); err == nil {
			if body.Error.Message != "" {
				msg = body.Error.Message
			}
			fields = decodeFields(body.Error.Errors)
		}
	}

	if status >= http.StatusInternalServerError {
		return &ServerError{Status: status, Message: msg, Data: data}
	}
	return &ClientError{Status: status, Message: msg, Fields: fields, Data: data}
}

// decodeFields accepts either a list of messages or a single message per field.
func decodeFields(raw map[string]json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string][]string, len(raw))
	for field, v := range raw {
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			out[field] = list
			continue
		}
		var single string
		if err := json.Unmarshal(v, &single); err == nil && single != "" {
			out[field] = []string{single}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StatusOf returns the HTTP status carried by an API error: 0 for a
// NetworkError, the response status for ClientError/ServerError.
// ok is false when err is not an API error.
func StatusOf(err error) (status int, ok bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return 0, true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Status, true
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Status, true
	}
	return 0, false
}

// MessageOf returns the normalized message of an API error, or err.Error().
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return MessageNoConnection
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Message
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	return err.Error()
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsUnauthorized reports a 401 response.
func IsUnauthorized(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusUnauthorized
}

// IsValidation reports a 422 response.
func IsValidation(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusUnprocessableEntity
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusNotFound
}

// FieldErrors returns per-field messages of a ClientError, or nil.
func FieldErrors(err error) map[string][]string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Fields
	}
	return nil
}
