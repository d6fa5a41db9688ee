package transport

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bizdesk/backend/pkg/logger"
)

// RoundTripper propagates the request id of the calling context to outgoing
// requests and logs them.
type RoundTripper struct {
	Transport http.RoundTripper
}

func NewRoundTripper(transport http.RoundTripper) *RoundTripper {
	return &RoundTripper{Transport: transport}
}

func (t *RoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	reqID := logger.RequestIDFromCtx(ctx)
	if reqID != "" {
		r.Header.Set("X-Request-Id", reqID)
	}

	slog.InfoContext(ctx, "outgoing request", "request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()))

	resp, err := t.Transport.RoundTrip(r)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}

	slog.InfoContext(ctx, "incoming response", "status", resp.StatusCode, "request", fmt.Sprintf("%s %s", r.Method, r.URL.Redacted()))

	return resp, nil
}
