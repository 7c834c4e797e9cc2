package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the normalized result of a successful call.
// Data is the parsed JSON body; it is nil for an empty body.
type Response struct {
	Status int
	Data   json.RawMessage
	OK     bool
}

// envelope is the {"data": {...}} wrapper around every success body.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// normalize turns a raw status/body pair into a Response or an API error.
// A 204 yields (nil, nil) without looking at the body.
func normalize(status int, body []byte) (*Response, error) {
	if status == http.StatusNoContent {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(body)
	valid := len(trimmed) == 0 || json.Valid(trimmed)

	var data json.RawMessage
	if len(trimmed) > 0 && valid {
		data = append(json.RawMessage(nil), trimmed...)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, newStatusError(status, data)
	}
	if !valid {
		return nil, &DecodeError{Reason: fmt.Sprintf("status %d body is not JSON: %s", status, snippet(trimmed))}
	}
	return &Response{Status: status, Data: data, OK: true}, nil
}

// Decode unmarshals the whole body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Data) == 0 {
		return &DecodeError{Reason: "empty body"}
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// DecodeData decodes the "data" object of a success body into T.
func DecodeData[T any](resp *Response, endpoint string) (T, error) {
	var zero T
	raw, err := dataOf(resp, endpoint)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, &DecodeError{Endpoint: endpoint, Reason: "data", Err: err}
	}
	return out, nil
}

// DecodeField decodes data.<field> of a success body into T. A missing
// field is an error, not a zero value.
func DecodeField[T any](resp *Response, endpoint, field string) (T, error) {
	var zero T
	raw, err := dataOf(resp, endpoint)
	if err != nil {
		return zero, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, &DecodeError{Endpoint: endpoint, Reason: "data is not an object", Err: err}
	}
	value, ok := fields[field]
	if !ok || isNull(value) {
		return zero, &DecodeError{Endpoint: endpoint, Reason: "missing data." + field}
	}
	var out T
	if err := json.Unmarshal(value, &out); err != nil {
		return zero, &DecodeError{Endpoint: endpoint, Reason: "data." + field, Err: err}
	}
	return out, nil
}

func dataOf(resp *Response, endpoint string) (json.RawMessage, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, &DecodeError{Endpoint: endpoint, Reason: "empty body"}
	}
	var env envelope
	if err := json.Unmarshal(resp.Data, &env); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Reason: "body is not an object", Err: err}
	}
	if isNull(env.Data) {
		return nil, &DecodeError{Endpoint: endpoint, Reason: "missing data"}
	}
	return env.Data, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func snippet(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
