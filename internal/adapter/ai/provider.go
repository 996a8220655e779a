// Package ai contains HTTP adapters for the embedding and chat providers.
// Each adapter fixes a model name and, for embedders, a vector dimension;
// everything else in the service depends only on the port interfaces.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/knowledgeintel/ragserver/internal/port"
)

// ProbeMode selects how a provider health check behaves.
type ProbeMode string

const (
	// ProbeLive performs a cheap round-trip (embed or complete a fixed
	// probe string).
	ProbeLive ProbeMode = "live"
	// ProbeConfig reports configuration-only status without a network call,
	// for quota-sensitive providers.
	ProbeConfig ProbeMode = "config"
)

// healthProbeText is the fixed string embedded by live health checks.
const healthProbeText = "health check"

const defaultTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// validateTexts rejects an empty batch or any empty/whitespace-only item.
// A batch with one invalid item fails whole; there is no partial embedding.
func validateTexts(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no text provided", port.ErrInvalidArgument)
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: empty text at index %d", port.ErrInvalidArgument, i)
		}
	}
	return nil
}

// checkDimension verifies a returned vector has exactly the provider's fixed
// dimension. A mismatch is a hard data-integrity error, never silently
// truncated or padded.
func checkDimension(vec []float32, want, index int) error {
	if len(vec) != want {
		return fmt.Errorf("%w: vector %d has %d components, expected %d",
			port.ErrDimensionMismatch, index, len(vec), want)
	}
	return nil
}

// classifyStatus maps a non-200 HTTP status to a provider error class for
// operator-facing diagnostics. Adapters never retry; retry policy belongs to
// callers that know the cost/latency tradeoff.
func classifyStatus(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}

	var class error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		class = port.ErrProviderUnauthorized
	case status == http.StatusNotFound:
		class = port.ErrProviderNotFound
	case status == http.StatusTooManyRequests:
		class = port.ErrProviderRateLimited
	default:
		class = port.ErrProviderUnavailable
	}
	return fmt.Errorf("%w: status %d: %s", class, status, msg)
}

// postJSON issues a JSON POST with an optional bearer token and returns the
// raw response body. Non-200 responses are classified via classifyStatus.
func postJSON(ctx context.Context, client *http.Client, url, token string, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", port.ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return body, nil
}
