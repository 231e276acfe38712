package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"grantsync-backend/internal/components/chrono"
	"grantsync-backend/lib/scrapers/oursg"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// GrantsAPI is the part of the oursg client the scraper depends on.
type GrantsAPI interface {
	GetGrants(ctx context.Context) ([]oursg.Grant, error)
	GetGrantDetails(ctx context.Context, value string) (any, error)
}

type Stage string

const (
	StageFetch  Stage = "fetch"
	StageFilter Stage = "filter"
	StageEnrich Stage = "enrich"
	StageWrite  Stage = "write"
)

// StageError is the error returned by Scrape, it records which stage failed.
// Index is the position of the offending grant in the listing (filter) or in
// the filtered grants (enrich), it is -1 for the other stages.
type StageError struct {
	Stage Stage
	Index int
	Err   error
}

func (e *StageError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("scrape %s: grant %d: %s", e.Stage, e.Index, e.Err.Error())
	}
	return fmt.Sprintf("scrape %s: %s", e.Stage, e.Err.Error())
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Params struct {
	Client GrantsAPI
	// waited on before every detail request, nil means no delay
	Delay chrono.DelayAPI
	// path of the json file the enriched grants are written to
	Output string
	// receives one line per enriched grant, nil means stdout
	Progress io.Writer
}

type Result struct {
	// grants in the listing
	Total int
	// grants that passed the status filter
	Matched int
	// grants that had their details attached
	Enriched int
	Output   string
	Duration time.Duration
}

// Scrape fetches the grant listing, keeps the open grants, attaches the
// details of each one and writes them to params.Output.
//
// The first error aborts the run, the output file is only ever written after
// every grant has been enriched.
func Scrape(ctx context.Context, params Params) (Result, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	start := time.Now()
	result := Result{Output: params.Output}

	fail := func(err error) (Result, error) {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			span.SetStatus(codes.Error, fmt.Sprintf("%s failed", stageErr.Stage))
		}
		span.RecordError(err)
		slog.ErrorContext(ctx, "scrape failed", "err", err)
		result.Duration = time.Since(start)
		return result, err
	}

	grants, err := params.Client.GetGrants(ctx)
	if err != nil {
		return fail(&StageError{Stage: StageFetch, Index: -1, Err: err})
	}
	result.Total = len(grants)

	open, err := FilterOpen(grants)
	if err != nil {
		return fail(err)
	}
	result.Matched = len(open)
	slog.InfoContext(ctx, "fetched grant listing", "total", result.Total, "open", result.Matched)

	delay := params.Delay
	if delay == nil {
		delay = chrono.NoDelay{}
	}
	progress := params.Progress
	if progress == nil {
		progress = os.Stdout
	}

	enriched, err := Enrich(ctx, params.Client, delay, open, progress)
	result.Enriched = enriched
	if err != nil {
		return fail(err)
	}

	err = WriteGrants(params.Output, open)
	if err != nil {
		return fail(&StageError{Stage: StageWrite, Index: -1, Err: err})
	}

	result.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("total", result.Total),
		attribute.Int("enriched", result.Enriched),
	)
	slog.InfoContext(
		ctx, "wrote grants",
		"path", params.Output,
		"count", len(open),
		"seconds", result.Duration.Seconds(),
	)
	return result, nil
}

// FilterOpen returns the open grants in listing order. A grant without a
// status fails the whole filter; any other non-green status is skipped.
func FilterOpen(grants []oursg.Grant) ([]oursg.Grant, error) {
	open := []oursg.Grant{}
	for i, g := range grants {
		isOpen, err := g.IsOpen()
		if err != nil {
			return nil, &StageError{Stage: StageFilter, Index: i, Err: err}
		}
		if isOpen {
			open = append(open, g)
		}
	}
	return open, nil
}

// Enrich attaches the details of every grant in order, it returns the amount
// of grants enriched before it stopped.
func Enrich(ctx context.Context, client GrantsAPI, delay chrono.DelayAPI, grants []oursg.Grant, progress io.Writer) (int, error) {
	ctx, span := tracer.Start(ctx, "Enrich")
	defer span.End()

	for i, g := range grants {
		err := enrichGrant(ctx, client, delay, g, progress)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to enrich grant")
			return i, &StageError{Stage: StageEnrich, Index: i, Err: err}
		}
	}
	return len(grants), nil
}

func enrichGrant(ctx context.Context, client GrantsAPI, delay chrono.DelayAPI, grant oursg.Grant, progress io.Writer) error {
	value, err := grant.Value()
	if err != nil {
		return err
	}

	err = delay.Wait(ctx)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "fetching grant details", "value", value)
	details, err := client.GetGrantDetails(ctx, value)
	if err != nil {
		return fmt.Errorf("grant %s: %w", value, err)
	}

	name, err := grant.Name()
	if err != nil {
		return err
	}
	grant.SetDetails(details)

	_, err = fmt.Fprintf(progress, "Retrieved grant details:%s\n", name)
	return err
}

// WriteGrants replaces the file at `path` with the grants encoded as an
// indented json array.
func WriteGrants(path string, grants []oursg.Grant) error {
	var buff bytes.Buffer
	err := oursg.EncodeGrants(&buff, grants)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buff.Bytes(), 0644)
}
