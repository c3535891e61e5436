package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var errEmptyBody = errors.New("request body must not be empty")

// writeJSON sets the Content-Type header, writes the status code and encodes data.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a single JSON value from r into v, mapping the common
// failures to messages that can be returned to the client.
func decodeJSON(r io.Reader, v any) error {
	err := json.NewDecoder(r).Decode(v)
	if err == nil {
		return nil
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError

	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		return errors.New("request body contains an invalid value for the " + unmarshalTypeError.Field + " field")
	case errors.Is(err, io.EOF):
		return errEmptyBody
	default:
		return err
	}
}
