// Package httpclient carries the single outbound HTTP primitive the
// verification flow needs: a JSON POST that decodes the full response body.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	domainErrors "github.com/rotinafit/entitlement-api/internal/domain/errors"
)

// PostJSON posts body as JSON to url and decodes the response body into out.
// The whole body is read before decoding; a body that is not valid JSON is
// reported as a malformed vendor response. There is no retry and redirects
// are left to the client's default policy.
func PostJSON(ctx context.Context, client *http.Client, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrMalformedVendorResponse, err)
	}
	return nil
}
