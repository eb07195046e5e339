// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package probe calls the parameterless GET operations of a document
// against a live console and reports what answered.
package probe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/api2spec/docs2sdk/internal/session"
	"github.com/api2spec/docs2sdk/pkg/types"
)

// Outcome classifies a probe result.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeRateLimited Outcome = "rate_limited"
	OutcomeAuthFailed  Outcome = "auth_failed"
	OutcomeHTTPError   Outcome = "http_error"
	OutcomeFailed      Outcome = "failed"
)

// Requester sends one API request.
type Requester interface {
	Request(ctx context.Context, method, path string, opts session.RequestOptions) (*session.Response, error)
}

// Target is an operation that can be called without arguments.
type Target struct {
	Method string
	Path   string
}

// Result is the outcome of one call.
type Result struct {
	Target
	Status   int
	Bytes    int
	Duration time.Duration
	Outcome  Outcome
	Error    string
}

// Targets lists the GET operations with no path parameters and no required
// parameters, in document order.
func Targets(doc *types.OpenAPI) []Target {
	var targets []Target
	for path, item := range doc.Paths.All() {
		if item.Get == nil || strings.Contains(path, "{") {
			continue
		}
		if callable(item.Parameters) && callable(item.Get.Parameters) {
			targets = append(targets, Target{Method: "GET", Path: path})
		}
	}
	return targets
}

func callable(params []types.Parameter) bool {
	for _, p := range params {
		if p.Required || p.In == types.InPath {
			return false
		}
	}
	return true
}

// Prober runs targets one after another.
type Prober struct {
	requester Requester
}

// New creates a Prober.
func New(r Requester) *Prober {
	return &Prober{requester: r}
}

// Run calls every target with "Range: items=0-0" and stops early only when
// ctx is done.
func (p *Prober) Run(ctx context.Context, targets []Target) []Result {
	results := make([]Result, 0, len(targets))
	for _, t := range targets {
		if ctx.Err() != nil {
			break
		}
		results = append(results, p.probe(ctx, t))
	}
	return results
}

func (p *Prober) probe(ctx context.Context, t Target) Result {
	start := time.Now()
	resp, err := p.requester.Request(ctx, t.Method, t.Path, session.RequestOptions{Range: "0-0"})
	r := Result{Target: t, Duration: time.Since(start)}

	if err == nil {
		r.Status = resp.StatusCode
		r.Bytes = len(resp.Body)
		r.Outcome = OutcomeOK
		return r
	}

	r.Error = err.Error()
	var apiErr *session.APIError
	var authErr *session.AuthError
	switch {
	case errors.As(err, &authErr):
		r.Status = 401
		r.Outcome = OutcomeAuthFailed
	case errors.As(err, &apiErr):
		r.Status = apiErr.StatusCode
		r.Bytes = len(apiErr.Body)
		switch {
		case errors.Is(err, session.ErrNotFound):
			r.Outcome = OutcomeNotFound
		case errors.Is(err, session.ErrRateLimited):
			r.Outcome = OutcomeRateLimited
		default:
			r.Outcome = OutcomeHTTPError
		}
	default:
		r.Outcome = OutcomeFailed
	}
	return r
}

// Summary counts results by outcome.
func Summary(results []Result) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, r := range results {
		counts[r.Outcome]++
	}
	return counts
}

var csvHeader = []string{"method", "path", "status", "bytes", "duration_ms", "outcome", "error"}

// WriteCSV writes results as CSV with a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.Method,
			r.Path,
			strconv.Itoa(r.Status),
			strconv.Itoa(r.Bytes),
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
			string(r.Outcome),
			r.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReport writes the CSV report to path.
func WriteReport(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := WriteCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
