// Package fraudapi is the console's client for the decisioning backend REST API.
package fraudapi

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fraudguard/console/internal/infra/metrics"
	"github.com/fraudguard/console/internal/platform/fraud"
	"github.com/fraudguard/console/pkg/logger"
)

const (
	// DefaultTimeout matches the backend's budget for LLM-backed evaluations.
	DefaultTimeout = 300 * time.Second

	requestIDHeader = "X-Request-ID"
	maxBodySize     = 10 << 20
)

// Client is an HTTP client for the decisioning backend. It is immutable after
// construction and safe for concurrent use.
type Client struct {
	baseURL    string
	publicURL  string
	httpClient *http.Client
	logger     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the single client-wide request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client. Its Timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

// WithPublicBaseURL sets the base used for links handed to the browser, which
// may be relative ("/api") while the console itself calls an absolute origin.
func WithPublicBaseURL(u string) Option {
	return func(c *Client) {
		c.publicURL = strings.TrimRight(u, "/")
	}
}

// NewClient creates a new backend client rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:   base,
		publicURL: base,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Component("fraudapi")
	return c
}

// BaseURL returns the base the client calls.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest sends one request and returns the body of a 2xx answer.
func (c *Client) doRequest(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	log := c.logger.WithContext(ctx).WithField("operation", op)
	reqURL := c.baseURL + "/" + path
	start := time.Now()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := logger.RequestID(ctx); reqID != "" {
		req.Header.Set(requestIDHeader, reqID)
	}

	log.Debug("backend request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(op, "transport_error", start)
		log.Warn("backend unreachable", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.observe(op, "transport_error", start)
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(op, "api_error", start)
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		if resp.StatusCode >= 500 {
			log.Error("backend error", "status_code", resp.StatusCode, "message", apiErr.Message)
		} else {
			log.Warn("backend error", "status_code", resp.StatusCode, "message", apiErr.Message)
		}
		return nil, apiErr
	}

	c.observe(op, "ok", start)
	log.Debug("backend response", "status_code", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return respBody, nil
}

func (c *Client) observe(op, outcome string, start time.Time) {
	metrics.BackendRequests.WithLabelValues(op, outcome).Inc()
	metrics.BackendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (c *Client) malformed(op string, err error) error {
	metrics.BackendRequests.WithLabelValues(op, "malformed").Inc()
	c.logger.Warn("malformed backend response", "operation", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// GetStats fetches the dashboard counters.
func (c *Client) GetStats(ctx context.Context) (*fraud.Stats, error) {
	const op = "GetStats"
	body, err := c.doRequest(ctx, op, http.MethodGet, "dashboard/stats/", nil)
	if err != nil {
		return nil, err
	}
	doc, err := parseObject(body)
	if err != nil {
		return nil, c.malformed(op, err)
	}
	return parseStats(doc), nil
}

// ListTransactions fetches every transaction with its decision. An empty
// backend list is an empty slice.
func (c *Client) ListTransactions(ctx context.Context) ([]fraud.TransactionSummary, error) {
	const op = "ListTransactions"
	body, err := c.doRequest(ctx, op, http.MethodGet, "transactions/", nil)
	if err != nil {
		return nil, err
	}
	items, err := parseArray(body)
	if err != nil {
		return nil, c.malformed(op, err)
	}
	out := make([]fraud.TransactionSummary, 0, len(items))
	for _, item := range items {
		out = append(out, parseSummary(item))
	}
	return out, nil
}

// GetTransaction fetches one transaction's full decision record.
func (c *Client) GetTransaction(ctx context.Context, id string) (*fraud.TransactionDetail, error) {
	const op = "GetTransaction"
	body, err := c.doRequest(ctx, op, http.MethodGet, "transactions/"+url.PathEscape(id)+"/", nil)
	if err != nil {
		return nil, err
	}
	doc, err := parseObject(body)
	if err != nil {
		return nil, c.malformed(op, err)
	}
	detail := parseDetail(doc)
	if detail.ID == "" {
		detail.ID = id
	}
	return detail, nil
}

// createRequest is the wire form of a draft.
type createRequest struct {
	TransactionID string  `json:"transaction_id,omitempty"`
	CustomerID    string  `json:"customer_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Country       string  `json:"country"`
	Channel       string  `json:"channel"`
	DeviceID      string  `json:"device_id"`
	MerchantID    string  `json:"merchant_id"`
	Timestamp     string  `json:"timestamp"`
}

// CreateTransaction submits a draft for synchronous evaluation and returns the
// created record. The call may take as long as the client timeout.
func (c *Client) CreateTransaction(ctx context.Context, draft fraud.Draft) (*fraud.TransactionDetail, error) {
	const op = "CreateTransaction"
	payload := createRequest{
		TransactionID: draft.TransactionID.ValueOrZero(),
		CustomerID:    draft.CustomerID,
		Amount:        draft.Amount,
		Currency:      draft.Currency,
		Country:       draft.Country,
		Channel:       draft.Channel,
		DeviceID:      draft.DeviceID,
		MerchantID:    draft.MerchantID,
		Timestamp:     draft.Timestamp,
	}
	body, err := c.doRequest(ctx, op, http.MethodPost, "transactions/create/", payload)
	if err != nil {
		return nil, err
	}
	doc, err := parseObject(body)
	if err != nil {
		return nil, c.malformed(op, err)
	}
	detail := parseDetail(doc)
	if detail.ID == "" {
		return nil, c.malformed(op, fmt.Errorf("%w: missing transaction_id", ErrMalformedResponse))
	}
	return detail, nil
}

// Seed asks the backend to (re)generate synthetic data and returns its status text.
func (c *Client) Seed(ctx context.Context) (string, error) {
	const op = "Seed"
	body, err := c.doRequest(ctx, op, http.MethodPost, "transactions/seed/", nil)
	if err != nil {
		return "", err
	}
	doc, err := parseDocument(body)
	if err != nil {
		return "", c.malformed(op, err)
	}
	return firstScalar(doc, "status", "message"), nil
}

// ListCases fetches the open HITL cases.
func (c *Client) ListCases(ctx context.Context) ([]fraud.Case, error) {
	const op = "ListCases"
	body, err := c.doRequest(ctx, op, http.MethodGet, "hitl/cases/", nil)
	if err != nil {
		return nil, err
	}
	items, err := parseArray(body)
	if err != nil {
		return nil, c.malformed(op, err)
	}
	out := make([]fraud.Case, 0, len(items))
	for _, item := range items {
		out = append(out, parseCase(item))
	}
	return out, nil
}

// ResolveCase posts the analyst's resolution for a case.
func (c *Client) ResolveCase(ctx context.Context, id string, resolution fraud.Resolution) error {
	const op = "ResolveCase"
	if id == "" {
		return fraud.ErrMissingCaseID
	}
	if !resolution.Decision.IsResolution() {
		return fraud.ErrInvalidResolution
	}
	_, err := c.doRequest(ctx, op, http.MethodPost, "hitl/cases/"+url.PathEscape(id)+"/resolve/", resolution)
	return err
}

// ListReports fetches the generated audit reports.
func (c *Client) ListReports(ctx context.Context) ([]fraud.Report, error) {
	const op = "ListReports"
	body, err := c.doRequest(ctx, op, http.MethodGet, "reports/", nil)
	if err != nil {
		return nil, err
	}
	items, err := parseArray(body)
	if err != nil {
		return nil, c.malformed(op, err)
	}
	out := make([]fraud.Report, 0, len(items))
	for _, item := range items {
		out = append(out, parseReport(item))
	}
	return out, nil
}

// ReportPDFURL builds the browser-facing PDF download link. Nothing is fetched.
func (c *Client) ReportPDFURL(transactionID string) string {
	return c.publicURL + "/reports/" + url.PathEscape(transactionID) + "/pdf/"
}

// Ping checks that the backend answers its health route.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, "Ping", http.MethodGet, "health/", nil)
	return err
}
