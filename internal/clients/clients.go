package clients

import (
	"context"
	"io"
	"net/http"
	"strings"

	"ms-booking/internal/logger"
	"ms-booking/internal/utils"
)

// base holds what every downstream client needs.
type base struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
	name    string
}

func newBase(client *http.Client, baseURL, name string, log *logger.Logger) base {
	if client == nil {
		client = http.DefaultClient
	}
	return base{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
		name:    name,
	}
}

func (b base) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := utils.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(utils.RequestIDHeader, id)
	}
	return req, nil
}

func (b base) closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		b.logger.Error("GATEWAY", "Failed to close "+b.name+" response body: "+err.Error())
	}
}
