package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Decode parses a JSON request body into an untyped object, keeping numbers
// as json.Number. An empty body decodes to an empty object.
func Decode(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, Errors{"body": "Invalid JSON payload"}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, Errors{"body": "Invalid JSON payload"}
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return nil, Errors{"body": "Expected an object"}
	}
	return object, nil
}
