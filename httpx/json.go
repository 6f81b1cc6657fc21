package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// DecodeJSON decodes a JSON response body into dst and closes it.
// Trailing non-whitespace data after the first value is an error.
func DecodeJSON(resp *http.Response, dst any) error {
	if resp == nil || resp.Body == nil {
		return errors.New("nil response body")
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	var extra any
	if err := dec.Decode(&extra); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if extra != nil {
		return errors.New("unexpected extra JSON value in response body")
	}
	return nil
}
