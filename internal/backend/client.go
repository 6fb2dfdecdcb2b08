// Package backend talks to the pledge backend REST API on behalf of one
// client session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// ErrUnreachable wraps transport failures (no HTTP response at all).
var ErrUnreachable = errors.New("backend unreachable")

var backendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pledge_backend_request_duration_seconds",
	Help:    "Duration of calls to the pledge backend in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "status_code"})

// Session is the configuration resolved once per inbound request and handed
// to every backend call made while serving it.
type Session struct {
	BaseURL  string
	Token    string
	ClientID string
}

// Client is a thin authenticated HTTP client. It never retries, never
// refreshes tokens and does not interpret status codes.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// NewClientWithHTTP wraps an existing *http.Client.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// URL joins endpoint onto the session base URL with exactly one slash.
// Absolute endpoints are returned unchanged.
func (s Session) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// Do issues one request and returns the raw response. header may be nil;
// a Content-Type set there wins over the JSON default.
func (c *Client) Do(ctx context.Context, sess Session, method, endpoint string, body io.Reader, header http.Header) (*http.Response, error) {
	target := sess.URL(endpoint)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, target)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	requestID := req.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		req.Header.Set("X-Request-ID", requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		backendRequestDuration.WithLabelValues(method, "error").Observe(time.Since(start).Seconds())
		log.WithFields(log.Fields{
			"method":     method,
			"url":        target,
			"request_id": requestID,
		}).WithError(err).Warn("backend request failed")
		return nil, errors.Wrapf(ErrUnreachable, "%s %s: %v", method, target, err)
	}

	backendRequestDuration.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	log.WithFields(log.Fields{
		"method":     method,
		"url":        target,
		"status":     resp.StatusCode,
		"request_id": requestID,
		"duration":   time.Since(start),
	}).Debug("backend request")

	return resp, nil
}

// JSON sends in (when non-nil) as the JSON body and decodes the response
// into out according to shape.
func (c *Client) JSON(ctx context.Context, sess Session, method, endpoint string, in interface{}, shape Shape, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshal request body")
		}
		body = bytes.NewReader(payload)
	}

	resp, err := c.Do(ctx, sess, method, endpoint, body, nil)
	if err != nil {
		return err
	}
	return Decode(resp, shape, out)
}
