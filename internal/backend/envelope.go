package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Shape says how an endpoint wraps its payload.
type Shape int

const (
	// ShapeBare is the resource JSON itself.
	ShapeBare Shape = iota
	// ShapeEnvelope is {success, data, message}.
	ShapeEnvelope
	// ShapeEither is used by endpoints seen answering both ways.
	ShapeEither
)

func (s Shape) String() string {
	switch s {
	case ShapeBare:
		return "bare"
	case ShapeEnvelope:
		return "envelope"
	case ShapeEither:
		return "either"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// APIError is a response the backend rejected, either with a non-2xx status
// or an envelope carrying success=false.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Decode reads and closes resp.Body. Non-2xx responses become *APIError;
// successful ones are unwrapped according to shape into out (which may be nil).
func Decode(resp *http.Response, shape Shape, out interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	if shape == ShapeEither {
		shape = detectShape(trimmed)
	}

	if shape == ShapeBare {
		if out == nil {
			return nil
		}
		return errors.Wrap(json.Unmarshal(trimmed, out), "decode backend response")
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return errors.Wrap(err, "decode backend envelope")
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Request failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Body: string(body)}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(env.Data, out), "decode backend envelope data")
}

// detectShape treats an object with a boolean "success" key as an envelope.
func detectShape(body []byte) Shape {
	if body[0] != '{' {
		return ShapeBare
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return ShapeBare
	}
	raw, ok := probe["success"]
	if !ok {
		return ShapeBare
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return ShapeBare
	}
	return ShapeEnvelope
}

func newAPIError(status int, body []byte) *APIError {
	text := strings.TrimSpace(string(body))
	apiErr := &APIError{StatusCode: status, Body: string(body), Message: text}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
