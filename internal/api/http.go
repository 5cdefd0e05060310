package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/courtsideapp/courtside-go/internal/apperrors"
)

const (
	headerInstallID   = "X-Install-ID"
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	contentTypeJSON   = "application/json"
	clientUserAgent   = "courtside-go/1.0.0"
)

// doRequest performs an HTTP request and classifies the outcome into the
// standard error taxonomy: transport failures map to ErrNetwork, failure
// statuses to ErrServer, and unparsable success bodies to
// ErrMalformedResponse. No retries; retry policy belongs to the caller.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	reqURL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build URL: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(headerUserAgent, clientUserAgent)
	if c.installID != "" {
		req.Header.Set(headerInstallID, c.installID)
	}
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", apperrors.ErrNetwork, err)
	}

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
		}
	}

	return nil
}

// parseErrorResponse extracts the backend's {message} body when present.
func parseErrorResponse(statusCode int, body []byte) error {
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		return apperrors.NewServerError(statusCode, errBody.Message)
	}
	return apperrors.NewServerError(statusCode, http.StatusText(statusCode))
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

// delete performs a DELETE request.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
