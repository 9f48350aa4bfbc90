// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest runs one request/parse/write cycle: build the OAI URL,
// fetch it (or read a saved response), extract article records, write
// them, and optionally archive the run.
package harvest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pubmed-search/internal/archive"
	"github.com/pdiddy/pubmed-search/internal/extract"
	"github.com/pdiddy/pubmed-search/internal/httputil"
	"github.com/pdiddy/pubmed-search/internal/oai"
	"github.com/pdiddy/pubmed-search/internal/output"
	"github.com/pdiddy/pubmed-search/pkg/types"
)

// Summary describes a finished run.
type Summary struct {
	Source    string
	Records   int
	Envelope  oai.Envelope
	ArchiveID int64
}

// Runner holds the collaborators of a run. Store may be nil.
type Runner struct {
	Client  httputil.Client
	Store   archive.Store
	Console io.Writer
	Log     *zap.SugaredLogger

	// Now is overridable for tests.
	Now func() time.Time
}

// Run executes a single harvest described by cfg. Network, parse and
// filesystem faults are returned; HTTP status codes and OAI protocol
// errors are logged and the body is processed anyway.
func (r *Runner) Run(ctx context.Context, cfg types.Config) (Summary, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	source, body, err := r.load(ctx, cfg, log)
	summary := Summary{Source: source}
	if err != nil {
		return summary, err
	}

	doc, err := extract.Parse(body)
	if err != nil {
		return summary, fmt.Errorf("parsing response from %s: %w", source, err)
	}

	env := oai.Inspect(doc.Root())
	summary.Envelope = env
	if env.Error != nil {
		log.Warnw("OAI-PMH error in response", "code", env.Error.Code, "message", env.Error.Message)
	}
	if env.Truncated() {
		log.Warnw("result set truncated, only the first page was harvested",
			"cursor", env.Token.Cursor, "completeListSize", env.Token.CompleteListSize)
	}

	records := extract.Records(doc.Root())
	summary.Records = len(records)
	log.Infow("records extracted", "count", len(records), "source", source)

	if err := output.Write(records, output.FieldNames, cfg.Output, r.Console); err != nil {
		return summary, err
	}
	if cfg.Output.Path != "" {
		log.Infow("records written", "path", cfg.Output.Path, "format", cfg.Output.Format)
	}

	if r.Store == nil {
		return summary, nil
	}

	h := archive.Harvest{
		Source:      source,
		HarvestedAt: r.now(),
		Records:     records,
	}
	if env.Token != nil {
		h.ResumptionToken = env.Token.Value
	}
	id, err := r.Store.Save(ctx, h)
	if err != nil {
		return summary, fmt.Errorf("archiving harvest: %w", err)
	}
	summary.ArchiveID = id
	log.Debugw("harvest archived", "id", id)
	return summary, nil
}

// load returns the response body and a description of where it came from.
func (r *Runner) load(ctx context.Context, cfg types.Config, log *zap.SugaredLogger) (string, []byte, error) {
	if cfg.InputPath != "" {
		data, err := os.ReadFile(cfg.InputPath)
		if err != nil {
			return cfg.InputPath, nil, fmt.Errorf("reading input: %w", err)
		}
		return cfg.InputPath, data, nil
	}

	url := oai.BuildURL(cfg.Query)
	log.Infow("fetching", "url", url)

	headers := map[string]string{}
	if cfg.HTTP.UserAgent != "" {
		headers["User-Agent"] = cfg.HTTP.UserAgent
	}
	if cfg.HTTP.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.HTTP.Timeout)
		defer cancel()
	}
	resp, err := r.Client.Get(ctx, url, headers)
	if err != nil {
		return url, nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if !httputil.IsSuccess(resp.StatusCode()) {
		log.Warnw("unexpected HTTP status, parsing body anyway", "status", resp.StatusCode(), "url", url)
	}
	return url, resp.Body(), nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
