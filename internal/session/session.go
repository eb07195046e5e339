// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package session is a Go client for the QRadar REST API with the same
// behaviour as the generated Python session: SEC-token or basic auth,
// Version header, retries for idempotent reads and Range-header paging.
package session

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-resty/resty/v2"

	"github.com/api2spec/docs2sdk/internal/config"
)

const (
	// DefaultVersion is the API version sent when none is configured.
	DefaultVersion = "26.0"

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryWait is the initial retry backoff.
	DefaultRetryWait = 500 * time.Millisecond
)

// retryStatuses are retried for GET and HEAD.
var retryStatuses = map[int]bool{
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// Options configures a Session.
type Options struct {
	Host       string // hostname, host:port or a full http(s) URL
	SECToken   string
	Username   string
	Password   string
	Version    string
	VerifyTLS  bool
	CAFile     string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
}

// OptionsFromConfig maps the probe configuration section to Options.
func OptionsFromConfig(p config.ProbeConfig) Options {
	return Options{
		Host:       p.Host,
		SECToken:   p.SECToken,
		Username:   p.Username,
		Password:   p.Password,
		Version:    p.APIVersion,
		VerifyTLS:  p.VerifyTLS,
		CAFile:     p.CAFile,
		Timeout:    time.Duration(p.Timeout) * time.Second,
		MaxRetries: p.MaxRetries,
	}
}

// Session sends requests to one console.
type Session struct {
	client  *resty.Client
	baseURL string
}

// RequestOptions are the per-request knobs of Session.Request.
type RequestOptions struct {
	Params  map[string]string
	Headers map[string]string
	Body    any

	// Range is sent as "Range: items=<Range>", e.g. "0-49".
	Range string

	Fields string
	Filter string
	Sort   string
}

// Response is a successful response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Data is the decoded JSON body, the body text when it is not JSON,
	// or nil for an empty body.
	Data any

	Duration time.Duration
}

// BaseURL derives the API root from a host: https is assumed unless a
// scheme is given, and "/api" is appended.
func BaseURL(host string) string {
	base := strings.TrimRight(host, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return strings.TrimRight(base, "/") + "/api"
}

// New creates a Session. Either a SEC token or both username and password
// are required.
func New(opts Options) (*Session, error) {
	if opts.SECToken == "" && (opts.Username == "" || opts.Password == "") {
		return nil, &AuthError{Message: "provide either a SEC token or both a username and a password"}
	}
	if strings.TrimSpace(opts.Host) == "" {
		return nil, errors.New("host is required")
	}

	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	wait := opts.RetryWait
	if wait <= 0 {
		wait = DefaultRetryWait
	}

	baseURL := BaseURL(opts.Host)
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":       "application/json",
			"Content-Type": "application/json",
			"Version":      version,
		}).
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(8 * wait).
		AddRetryCondition(retryable)

	if opts.SECToken != "" {
		client.SetHeader("SEC", opts.SECToken)
	} else {
		client.SetBasicAuth(opts.Username, opts.Password)
	}

	if !opts.VerifyTLS {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		client.SetRootCertificateFromString(string(pem))
	}

	return &Session{client: client, baseURL: baseURL}, nil
}

// BaseURL returns the API root requests are sent to.
func (s *Session) BaseURL() string {
	return s.baseURL
}

// retryable retries GET and HEAD on transport errors and gateway statuses.
func retryable(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodHead:
	default:
		return false
	}
	return err != nil || retryStatuses[resp.StatusCode()]
}

// Request sends one request. path is relative to /api, e.g. "/siem/offenses".
func (s *Session) Request(ctx context.Context, method, path string, opts RequestOptions) (*Response, error) {
	req := s.client.R().SetContext(ctx)

	query := make(map[string]string, len(opts.Params)+3)
	for k, v := range opts.Params {
		query[k] = v
	}
	if opts.Fields != "" {
		query["fields"] = opts.Fields
	}
	if opts.Filter != "" {
		query["filter"] = opts.Filter
	}
	if opts.Sort != "" {
		query["sort"] = opts.Sort
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	for k, v := range opts.Headers {
		req.SetHeader(k, v)
	}
	if opts.Range != "" {
		req.SetHeader("Range", "items="+opts.Range)
	}
	if opts.Body != nil {
		req.SetBody(opts.Body)
	}

	resp, err := req.Execute(strings.ToUpper(method), path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Data:       decode(resp.Body()),
		Duration:   resp.Time(),
	}, nil
}

// Get is Request with GET.
func (s *Session) Get(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	return s.Request(ctx, http.MethodGet, path, opts)
}

// Paginate fetches path in pages of pageSize items using the Range header
// and calls fn for each page. It stops at an empty or short page, or once
// maxItems items were fetched when maxItems is positive.
func (s *Session) Paginate(ctx context.Context, path string, pageSize, maxItems int, opts RequestOptions, fn func(page []any) error) error {
	if pageSize <= 0 {
		return fmt.Errorf("invalid page size %d", pageSize)
	}

	fetched := 0
	for start := 0; ; start += pageSize {
		opts.Range = fmt.Sprintf("%d-%d", start, start+pageSize-1)
		resp, err := s.Get(ctx, path, opts)
		if err != nil {
			return err
		}
		if resp.Data == nil {
			return nil
		}
		page, ok := resp.Data.([]any)
		if !ok {
			return fmt.Errorf("%s: expected a JSON array, got %T", path, resp.Data)
		}
		if len(page) == 0 {
			return nil
		}
		if err := fn(page); err != nil {
			return err
		}
		fetched += len(page)
		if maxItems > 0 && fetched >= maxItems {
			return nil
		}
		if len(page) < pageSize {
			return nil
		}
	}
}

func decode(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code < http.StatusBadRequest {
		return nil
	}
	msg := errorMessage(code, resp.Body())
	if code == http.StatusUnauthorized {
		return &AuthError{Message: "authentication failed: " + msg}
	}
	return &APIError{StatusCode: code, Message: msg, Body: resp.Body()}
}

// errorMessage prefers the "message" then "description" members of a JSON
// error body, then the raw body, then the status text.
func errorMessage(code int, body []byte) string {
	var detail any
	if len(body) > 0 && json.Unmarshal(body, &detail) == nil {
		if obj, ok := detail.(map[string]any); ok {
			for _, key := range []string{"message", "description"} {
				if s, ok := obj[key].(string); ok && s != "" {
					return s
				}
			}
		}
		return fmt.Sprint(detail)
	}
	if len(body) > 0 {
		return string(body)
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return "Unknown error"
}
