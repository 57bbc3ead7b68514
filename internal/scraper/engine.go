package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/swatchbook/pantone-scraper/internal/archive"
	"github.com/swatchbook/pantone-scraper/internal/catalog"
	"github.com/swatchbook/pantone-scraper/internal/export"
	"github.com/swatchbook/pantone-scraper/internal/parser"
	"github.com/swatchbook/pantone-scraper/internal/progress"
	"github.com/swatchbook/pantone-scraper/internal/swatch"
)

// Config controls Engine behavior.
type Config struct {
	// Catalog labels the run in summaries and completion notifications.
	Catalog string
	// CSVPath is where the swatch table lands.
	CSVPath string
	// JSONLPath enables the JSON Lines export when non-empty.
	JSONLPath string
	// ExplicitPages marks a run over caller-listed URLs: nothing is skipped
	// and every page must yield swatch data.
	ExplicitPages bool
	// Headless allows the needs-JS re-fetch when a renderer is wired.
	Headless bool
	// Limit caps the number of pages visited; zero sweeps the whole catalog.
	Limit int
	// ArchivePrefix prefixes archive object keys.
	ArchivePrefix string
	// ContentType is the archive content type for raw page snapshots.
	ContentType string
}

// Engine executes one scrape run over the catalog, strictly one page at a
// time: pace, robots gate, fetch, parse, collect. It owns no goroutines;
// the progress hub and status server run outside it.
type Engine struct {
	parser   PageParser
	archiver Archiver
	store    RecordStore
	notifier Notifier
	hasher   Hasher
	clock    Clock
	ids      IDGenerator
	probe    Fetcher
	headless Fetcher
	detector Detector
	robots   RobotsPolicy
	pacer    Pacer
	emitter  progress.Emitter
	cfg      Config
	logger   *zap.Logger
}

// New constructs an Engine. The probe fetcher, parser, clock and id
// generator are required; the remaining collaborators may be nil, which
// disables the concern they serve.
func New(
	pageParser PageParser,
	archiver Archiver,
	store RecordStore,
	notifier Notifier,
	hasher Hasher,
	clock Clock,
	ids IDGenerator,
	probe Fetcher,
	headless Fetcher,
	detector Detector,
	robots RobotsPolicy,
	pacer Pacer,
	emitter progress.Emitter,
	cfg Config,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "text/html; charset=utf-8"
	}
	return &Engine{
		parser:   pageParser,
		archiver: archiver,
		store:    store,
		notifier: notifier,
		hasher:   hasher,
		clock:    clock,
		ids:      ids,
		probe:    probe,
		headless: headless,
		detector: detector,
		robots:   robots,
		pacer:    pacer,
		emitter:  emitter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run sweeps the catalog entries in order, writes the CSV (and optional
// JSONL) artifact, and publishes the completion notification. Every failure
// is fatal; the only non-fatal path is the sweep-mode skip of pages the
// numbered range over-covers. The returned summary reflects progress up to
// the failure point when err is non-nil.
func (e *Engine) Run(ctx context.Context, entries []catalog.Entry) (RunSummary, error) {
	if e.probe == nil || e.parser == nil || e.clock == nil || e.ids == nil {
		return RunSummary{}, errors.New("engine needs a fetcher, a parser, a clock and an id generator")
	}

	runID, err := e.ids.NewID()
	if err != nil {
		return RunSummary{}, fmt.Errorf("new run id: %w", err)
	}

	summary := RunSummary{
		RunID:     runID,
		Catalog:   e.cfg.Catalog,
		StartedAt: e.clock.Now().UTC(),
	}
	e.logger.Info("run started",
		zap.String("run_id", runID),
		zap.String("catalog", e.cfg.Catalog),
		zap.Int("entries", len(entries)),
	)
	e.emit(progress.Event{
		RunID: runID,
		TS:    summary.StartedAt,
		Stage: progress.StageRunStart,
		Note:  e.cfg.Catalog,
	})

	records, err := e.sweep(ctx, runID, entries, &summary)
	if err != nil {
		return summary, e.failRun(runID, &summary, err)
	}

	if err := e.writeArtifacts(ctx, runID, records, &summary); err != nil {
		return summary, e.failRun(runID, &summary, err)
	}

	summary.FinishedAt = e.clock.Now().UTC()

	if err := e.publishSummary(ctx, summary); err != nil {
		return summary, e.failRun(runID, &summary, err)
	}

	e.emit(progress.Event{
		RunID: runID,
		TS:    summary.FinishedAt,
		Stage: progress.StageRunDone,
		Dur:   summary.FinishedAt.Sub(summary.StartedAt),
		Note:  fmt.Sprintf("%d swatches from %d pages", summary.Extracted, summary.Visited),
	})
	e.logger.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("visited", summary.Visited),
		zap.Int("extracted", summary.Extracted),
		zap.Int("skipped", summary.Skipped),
		zap.String("csv_path", summary.CSVPath),
	)
	return summary, nil
}

// sweep visits every catalog entry once, in order, honoring the visit limit
// and context cancellation between pages.
func (e *Engine) sweep(
	ctx context.Context,
	runID string,
	entries []catalog.Entry,
	summary *RunSummary,
) ([]swatch.Record, error) {
	records := make([]swatch.Record, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled: %w", err)
		}
		if _, dup := seen[ent.URL]; dup {
			continue
		}
		seen[ent.URL] = struct{}{}

		if e.cfg.Limit > 0 && summary.Visited >= e.cfg.Limit {
			e.logger.Info("page limit reached",
				zap.String("run_id", runID),
				zap.Int("limit", e.cfg.Limit),
			)
			break
		}

		extracted, err := e.processEntry(ctx, runID, ent, len(records), summary)
		if err != nil {
			return nil, err
		}
		records = append(records, extracted...)
	}
	return records, nil
}

// processEntry runs the full pipeline for one entry. A nil slice with a nil
// error means the entry was skipped.
func (e *Engine) processEntry(
	ctx context.Context,
	runID string,
	ent catalog.Entry,
	position int,
	summary *RunSummary,
) ([]swatch.Record, error) {
	resp, err := e.fetchPage(ctx, runID, ent)
	if err != nil {
		return nil, err
	}
	summary.Visited++

	if resp.StatusCode == http.StatusNotFound && !e.cfg.ExplicitPages {
		summary.Skipped++
		e.skipPage(runID, ent, fmt.Sprintf("http %d", resp.StatusCode))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", ent.URL, resp.StatusCode)
	}

	records, err := e.parseBody(resp, ent)
	switch {
	case errors.Is(err, parser.ErrNoSwatch) && !e.cfg.ExplicitPages:
		summary.Skipped++
		e.skipPage(runID, ent, "no swatch data")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("parse %s: %w", ent.URL, err)
	}

	if err := e.archivePage(ctx, runID, resp); err != nil {
		return nil, err
	}

	for i, rec := range records {
		if e.store != nil {
			if err := e.store.SaveSwatch(ctx, runID, position+i, rec); err != nil {
				return nil, fmt.Errorf("store swatch %q: %w", rec.Code, err)
			}
		}
		e.emit(progress.Event{
			RunID: runID,
			TS:    e.clock.Now().UTC(),
			Stage: progress.StagePageParsed,
			URL:   ent.URL,
			Code:  rec.Code,
		})
	}
	summary.Extracted += len(records)
	e.logger.Debug("page processed",
		zap.String("run_id", runID),
		zap.String("url", ent.URL),
		zap.Int("swatches", len(records)),
	)
	return records, nil
}

// fetchPage paces, checks robots, fetches statically and promotes to the
// headless renderer when the body looks like an unrendered app shell.
func (e *Engine) fetchPage(ctx context.Context, runID string, ent catalog.Entry) (FetchResponse, error) {
	if e.pacer != nil {
		if err := e.pacer.Wait(ctx); err != nil {
			return FetchResponse{}, fmt.Errorf("pace fetch: %w", err)
		}
	}
	if e.robots != nil && !e.robots.Allowed(ctx, ent.URL) {
		return FetchResponse{}, fmt.Errorf("robots.txt disallows %s", ent.URL)
	}

	resp, err := e.probe.Fetch(ctx, FetchRequest{URL: ent.URL})
	if err != nil {
		return FetchResponse{}, fmt.Errorf("fetch %s: %w", ent.URL, err)
	}
	e.emitFetched(runID, ent.URL, resp)

	return e.maybePromote(ctx, runID, ent, resp)
}

// maybePromote re-fetches with the headless renderer when the static body
// needs JS to show swatch data. A renderer failure is fatal: falling back to
// the shell body would let the sweep silently skip a page that exists.
func (e *Engine) maybePromote(
	ctx context.Context,
	runID string,
	ent catalog.Entry,
	resp FetchResponse,
) (FetchResponse, error) {
	if !e.cfg.Headless || e.headless == nil || e.detector == nil {
		return resp, nil
	}
	if resp.StatusCode != http.StatusOK || !e.detector.NeedsJS(resp.Body) {
		return resp, nil
	}

	rendered, err := e.headless.Fetch(ctx, FetchRequest{URL: ent.URL})
	if err != nil {
		return FetchResponse{}, fmt.Errorf("headless fetch %s: %w", ent.URL, err)
	}
	rendered.UsedHeadless = true
	e.emitFetched(runID, ent.URL, rendered)
	e.logger.Debug("headless re-fetch applied",
		zap.String("run_id", runID),
		zap.String("url", ent.URL),
	)
	return rendered, nil
}

// parseBody picks the payload shape: detail pages are HTML, but a book
// endpoint in an explicit page list answers with a JSON array of swatches.
func (e *Engine) parseBody(resp FetchResponse, ent catalog.Entry) ([]swatch.Record, error) {
	if isBookPayload(resp) {
		return e.parser.ParseBook(resp.Body)
	}
	rec, err := e.parser.ParsePage(resp.Body, ent.Name)
	if err != nil {
		return nil, err
	}
	return []swatch.Record{rec}, nil
}

func isBookPayload(resp FetchResponse) bool {
	if ct := resp.Headers.Get("Content-Type"); strings.Contains(ct, "json") {
		return true
	}
	trimmed := bytes.TrimSpace(resp.Body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func (e *Engine) archivePage(ctx context.Context, runID string, resp FetchResponse) error {
	if e.archiver == nil {
		return nil
	}
	if e.hasher == nil {
		return errors.New("page archiving needs a hasher")
	}
	digest, err := e.hasher.Hash(resp.Body)
	if err != nil {
		return fmt.Errorf("hash page body: %w", err)
	}
	key := archive.PageKey(e.cfg.ArchivePrefix, runID, digest)
	uri, err := e.archiver.PutObject(ctx, key, e.cfg.ContentType, bytes.NewReader(resp.Body))
	if err != nil {
		return fmt.Errorf("archive page: %w", err)
	}
	e.logger.Debug("page archived", zap.String("run_id", runID), zap.String("uri", uri))
	return nil
}

// writeArtifacts writes the CSV (and optional JSONL) and mirrors both into
// the archive when one is configured.
func (e *Engine) writeArtifacts(
	ctx context.Context,
	runID string,
	records []swatch.Record,
	summary *RunSummary,
) error {
	if err := export.WriteCSV(e.cfg.CSVPath, records); err != nil {
		return err
	}
	summary.CSVPath = e.cfg.CSVPath
	e.logger.Info("csv written",
		zap.String("run_id", runID),
		zap.String("path", e.cfg.CSVPath),
		zap.Int("rows", len(records)),
	)

	if e.cfg.JSONLPath != "" {
		if err := export.WriteJSONL(e.cfg.JSONLPath, records); err != nil {
			return err
		}
	}
	return e.archiveArtifacts(ctx, runID, records)
}

func (e *Engine) archiveArtifacts(ctx context.Context, runID string, records []swatch.Record) error {
	if e.archiver == nil {
		return nil
	}

	payload, err := export.EncodeCSV(records)
	if err != nil {
		return fmt.Errorf("encode csv artifact: %w", err)
	}
	key := archive.ArtifactKey(e.cfg.ArchivePrefix, runID, filepath.Base(e.cfg.CSVPath))
	if _, err := e.archiver.PutObject(ctx, key, "text/csv; charset=utf-8", bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("archive csv artifact: %w", err)
	}

	if e.cfg.JSONLPath == "" {
		return nil
	}
	payload, err = export.EncodeJSONL(records)
	if err != nil {
		return fmt.Errorf("encode jsonl artifact: %w", err)
	}
	key = archive.ArtifactKey(e.cfg.ArchivePrefix, runID, filepath.Base(e.cfg.JSONLPath))
	if _, err := e.archiver.PutObject(ctx, key, "application/x-ndjson", bytes.NewReader(payload)); err != nil {
		return fmt.Errorf("archive jsonl artifact: %w", err)
	}
	return nil
}

func (e *Engine) publishSummary(ctx context.Context, summary RunSummary) error {
	if e.notifier == nil {
		return nil
	}
	id, err := e.notifier.Publish(ctx, summary)
	if err != nil {
		return fmt.Errorf("publish run summary: %w", err)
	}
	e.logger.Info("run summary published",
		zap.String("run_id", summary.RunID),
		zap.String("message_id", id),
	)
	return nil
}

func (e *Engine) skipPage(runID string, ent catalog.Entry, note string) {
	e.logger.Warn("page skipped",
		zap.String("run_id", runID),
		zap.String("url", ent.URL),
		zap.String("reason", note),
	)
	e.emit(progress.Event{
		RunID: runID,
		TS:    e.clock.Now().UTC(),
		Stage: progress.StagePageSkipped,
		URL:   ent.URL,
		Note:  note,
	})
}

func (e *Engine) emitFetched(runID, url string, resp FetchResponse) {
	e.emit(progress.Event{
		RunID:       runID,
		TS:          e.clock.Now().UTC(),
		Stage:       progress.StagePageFetched,
		URL:         url,
		StatusClass: progress.ClassifyStatus(resp.StatusCode),
		Bytes:       int64(len(resp.Body)),
		Dur:         resp.Duration,
		Headless:    resp.UsedHeadless,
	})
}

func (e *Engine) failRun(runID string, summary *RunSummary, err error) error {
	summary.FinishedAt = e.clock.Now().UTC()
	e.emit(progress.Event{
		RunID: runID,
		TS:    summary.FinishedAt,
		Stage: progress.StageRunError,
		Dur:   summary.FinishedAt.Sub(summary.StartedAt),
		Note:  err.Error(),
	})
	e.logger.Error("run failed", zap.String("run_id", runID), zap.Error(err))
	return err
}

func (e *Engine) emit(evt progress.Event) {
	if e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}
