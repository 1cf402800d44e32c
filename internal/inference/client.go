// Package inference holds HTTP clients for the external model sidecars:
// translation, summarization, and voice embedding. Each backend is reached
// through a small capability interface so the pipeline never depends on a
// concrete service.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codebuildervaibhav/meeting-pipeline/internal/types"
)

const defaultTimeout = 120 * time.Second

// client wraps a base URL and shared HTTP plumbing for one sidecar.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// postJSON sends a JSON body and decodes a JSON response. Failures are
// mapped to the pipeline error kinds: deadline expiry to ErrTimeout,
// everything else to ErrExternalService.
func (c *client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode %s request: %v", types.ErrExternalService, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrExternalService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapTransportError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		const maxErr = 4096
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErr))
		return fmt.Errorf("%w: %s %s: %s", types.ErrExternalService,
			path, resp.Status, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", types.ErrExternalService, path, err)
	}
	return nil
}

// wrapTransportError classifies a transport failure as a timeout or a
// generic external-service error.
func wrapTransportError(path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", types.ErrTimeout, path, err)
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %s: %v", types.ErrTimeout, path, err)
	}
	return fmt.Errorf("%w: %s: %v", types.ErrExternalService, path, err)
}
