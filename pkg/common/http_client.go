package common

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// HTTPResponse holds the status code and raw body of an outbound call so
// callers can map non-2xx responses to their own error types.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response status is in the 2xx range.
func (r *HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the response body into v.
func (r *HTTPResponse) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Post sends a JSON POST request to the specified URL with the given payload
// and headers and returns the raw response.
func Post(url string, payload interface{}, headers map[string]string) (*HTTPResponse, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(req)
}

// Get sends a GET request to the specified URL with the given headers and
// returns the raw response.
func Get(url string, headers map[string]string) (*HTTPResponse, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(req)
}

func do(req *http.Request) (*HTTPResponse, error) {
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
