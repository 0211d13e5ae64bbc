package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
	"github.com/noah-isme/programme-match-api/pkg/logger"
	"github.com/noah-isme/programme-match-api/pkg/middleware/requestid"
)

const maxUpstreamBody = 4 << 20

type upstreamObserver interface {
	ObserveUpstream(operation string, err error, duration time.Duration)
}

// CatalogClient performs JSON calls against the remote catalog and student service.
type CatalogClient struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer upstreamObserver
}

// NewCatalogClient builds a client rooted at baseURL. A nil httpClient gets one with timeout.
func NewCatalogClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *zap.Logger, observer upstreamObserver) *CatalogClient {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		logger:   logger,
		observer: observer,
	}
}

// call sends body (if any) as JSON and decodes the reply into dest. Non-2xx
// replies are still decoded when they carry JSON, since the service reports
// failures as {"success": false, "error": "..."}.
func (c *CatalogClient) call(ctx context.Context, operation, method, path string, query url.Values, body, dest interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstream(operation, err, time.Since(start))
		}
	}()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("marshal %s payload: %w", operation, marshalErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(requestid.Header, reqID)
	log := logger.WithContext(requestid.NewContext(ctx, reqID), c.logger)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("catalog request failed", zap.String("operation", operation), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "catalog service unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read catalog response")
	}

	if decodeErr := json.Unmarshal(raw, dest); decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("catalog service returned status %d", resp.StatusCode))
		}
		return appErrors.Wrap(decodeErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "malformed catalog response")
	}

	log.Debug("catalog request completed",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))
	return nil
}

// upstreamFailure reports a {"success": false} reply, preferring the service message.
func upstreamFailure(message, fallback string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = fallback
	}
	return appErrors.Clone(appErrors.ErrUpstream, message)
}
