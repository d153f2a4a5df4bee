// Package collector ships diagnostic reports to an optional external
// aggregation endpoint.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sdko-org/callview-api/internal/config"
	"github.com/sdko-org/callview-api/internal/profiling"
	"github.com/sirupsen/logrus"
)

type Client struct {
	httpClient *http.Client
	url        string
	token      string
	log        *logrus.Entry
}

type loggingTransport struct {
	log *logrus.Entry
}

func NewClient(logger *logrus.Logger, cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: &loggingTransport{log: logger.WithField("component", "collector_transport")},
		},
		url:   cfg.CollectorURL,
		token: cfg.CollectorToken,
		log:   logger.WithField("component", "collector_client"),
	}
}

// Enabled reports whether a collector endpoint is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// Report posts one profile to the collector. Failures are returned for
// logging only; callers never fail a request over a report.
func (c *Client) Report(ctx context.Context, profile profiling.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "CallviewAPI/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("report request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("collector rejected report with status %d", resp.StatusCode)
	}

	c.log.WithFields(logrus.Fields{
		"request_id": profile.RequestID,
		"bottleneck": profile.BottleneckLayer,
	}).Debug("Shipped diagnostic report")
	return nil
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	}).Debug("HTTP request completed")
	return resp, nil
}
