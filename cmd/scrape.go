package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swatchbook/pantone-scraper/internal/api"
	archivegcs "github.com/swatchbook/pantone-scraper/internal/archive/gcs"
	archivelocal "github.com/swatchbook/pantone-scraper/internal/archive/local"
	archivemem "github.com/swatchbook/pantone-scraper/internal/archive/memory"
	"github.com/swatchbook/pantone-scraper/internal/catalog"
	"github.com/swatchbook/pantone-scraper/internal/clock/system"
	"github.com/swatchbook/pantone-scraper/internal/config"
	"github.com/swatchbook/pantone-scraper/internal/detector"
	collyfetcher "github.com/swatchbook/pantone-scraper/internal/fetcher/colly"
	headlessfetcher "github.com/swatchbook/pantone-scraper/internal/fetcher/headless"
	"github.com/swatchbook/pantone-scraper/internal/hash/sha256"
	"github.com/swatchbook/pantone-scraper/internal/id/uuid"
	"github.com/swatchbook/pantone-scraper/internal/logging"
	notifypubsub "github.com/swatchbook/pantone-scraper/internal/notify/pubsub"
	"github.com/swatchbook/pantone-scraper/internal/parser"
	"github.com/swatchbook/pantone-scraper/internal/progress"
	"github.com/swatchbook/pantone-scraper/internal/progress/sinks"
	"github.com/swatchbook/pantone-scraper/internal/ratelimit"
	"github.com/swatchbook/pantone-scraper/internal/robots"
	"github.com/swatchbook/pantone-scraper/internal/scraper"
	pgstore "github.com/swatchbook/pantone-scraper/internal/store/postgres"
)

// scrapeOptions carries flag overrides layered on top of the loaded config.
type scrapeOptions struct {
	output   string
	baseURL  string
	delay    time.Duration
	limit    int
	pages    []string
	headless bool
	serve    bool
}

// newScrapeCmd creates and configures the 'scrape' subcommand, which runs
// one full scrape of the coated swatch catalog.
func newScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one scrape of the coated swatch catalog",
		Long: `Sweeps the colour finder catalog (or an explicit page list), extracts
colour records, and writes the CSV artifact. The run is strictly
sequential; any failure beyond the catalog's deliberate over-coverage of
the numbered range is fatal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runScrape(cmd.Context(), cfg)
		},
	}
	opts.bind(cmd)

	return cmd
}

func (o *scrapeOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.output, "output", "o", "", "CSV output path")
	flags.StringVar(&o.baseURL, "base-url", "", "colour finder base URL")
	flags.DurationVar(&o.delay, "delay", 0, "pause between page fetches")
	flags.IntVar(&o.limit, "limit", 0, "cap on pages visited (smoke runs)")
	flags.StringSliceVar(&o.pages, "page", nil, "explicit page URL; repeatable, replaces the catalog sweep")
	flags.BoolVar(&o.headless, "headless", false, "allow headless re-fetch of app-shell pages")
	flags.BoolVar(&o.serve, "serve", false, "serve /metrics and /v1/progress while the run is active")
}

// apply layers explicit flags over the file/env config. Changed() guards the
// numeric and bool flags so config values survive when the flag is absent.
func (o *scrapeOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if o.output != "" {
		cfg.Output.CSVPath = o.output
	}
	if o.baseURL != "" {
		cfg.Site.BaseURL = o.baseURL
	}
	if cmd.Flags().Changed("delay") {
		cfg.Site.DelayMs = int(o.delay.Milliseconds())
	}
	if cmd.Flags().Changed("limit") {
		cfg.Catalog.Limit = o.limit
	}
	if len(o.pages) > 0 {
		cfg.Catalog.Pages = o.pages
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless.Enabled = o.headless
	}
	if cmd.Flags().Changed("serve") {
		cfg.Server.Enabled = o.serve
	}
}

func runScrape(parent context.Context, cfg config.Config) error {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	entries, explicit, err := buildEntries(cfg)
	if err != nil {
		return err
	}
	label := "formula-guide-coated"
	if explicit {
		label = "explicit-pages"
	}

	archiver, closeArchiver, err := buildArchiver(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeArchiver()

	recordStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier, closeNotifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()

	probe := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Site.UserAgent,
		Timeout:   cfg.Timeout(),
	})

	var headless scraper.Fetcher
	if cfg.Headless.Enabled {
		hf := headlessfetcher.NewChromedp(headlessfetcher.Config{
			UserAgent:         cfg.Site.UserAgent,
			NavigationTimeout: cfg.NavTimeout(),
		})
		defer hf.Close()
		headless = hf
	}

	sel := parser.Selectors{
		Name: cfg.Parser.NameSelector,
		Code: cfg.Parser.CodeSelector,
		Hex:  cfg.Parser.HexSelector,
		RGB:  cfg.Parser.RGBSelector,
		CMYK: cfg.Parser.CMYKSelector,
	}
	needsJS := detector.NewHeuristic(0, []string{sel.Code, sel.Hex, sel.RGB})

	registry := prometheus.NewRegistry()
	snapshot := sinks.NewSnapshotSink()
	hub, err := buildProgress(visitTotal(cfg, len(entries)), logger, registry, snapshot)
	if err != nil {
		return err
	}

	var serverDone chan error
	if cfg.Server.Enabled {
		srv := api.NewServer(snapshot, registry, logger.Named("api"))
		serverDone = make(chan error, 1)
		go func() {
			err := srv.Run(ctx, cfg.Server.Addr)
			if err != nil {
				logger.Error("status server failed", zap.Error(err))
				stop()
			}
			serverDone <- err
		}()
	}

	eng := scraper.New(
		parser.New(sel),
		archiver,
		recordStore,
		notifier,
		sha256.New(),
		system.New(),
		uuid.New(),
		probe,
		headless,
		needsJS,
		robots.NewPolicy(cfg.Site.RespectRobots, cfg.Site.UserAgent, logger.Named("robots")),
		ratelimit.New(cfg.Delay()),
		hub,
		scraper.Config{
			Catalog:       label,
			CSVPath:       cfg.Output.CSVPath,
			JSONLPath:     cfg.Output.JSONLPath,
			ExplicitPages: explicit,
			Headless:      cfg.Headless.Enabled,
			Limit:         cfg.Catalog.Limit,
			ArchivePrefix: cfg.Archive.Prefix,
			ContentType:   cfg.Archive.ContentType,
		},
		logger.Named("engine"),
	)

	summary, runErr := eng.Run(ctx, entries)

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hub.Close(flushCtx); err != nil {
		logger.Warn("progress flush incomplete", zap.Error(err))
	}

	if serverDone != nil {
		stop()
		if err := <-serverDone; err != nil {
			logger.Warn("status server exited with error", zap.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("scrape complete",
		zap.String("run_id", summary.RunID),
		zap.Int("swatches", summary.Extracted),
		zap.String("csv", summary.CSVPath),
	)
	return nil
}

// buildEntries enumerates the pages the run visits: the full coated catalog,
// or the explicit page list when one is configured.
func buildEntries(cfg config.Config) ([]catalog.Entry, bool, error) {
	if len(cfg.Catalog.Pages) > 0 {
		entries := make([]catalog.Entry, 0, len(cfg.Catalog.Pages))
		for _, page := range cfg.Catalog.Pages {
			entries = append(entries, catalog.Entry{URL: page})
		}
		return entries, true, nil
	}
	book, err := catalog.New(cfg.Site.BaseURL, cfg.Catalog.FirstNumber, cfg.Catalog.LastNumber)
	if err != nil {
		return nil, false, err
	}
	return book.Entries(), false, nil
}

// visitTotal is the number of pages the run will actually visit, which sizes
// the terminal progress bar.
func visitTotal(cfg config.Config, entries int) int {
	if cfg.Catalog.Limit > 0 && cfg.Catalog.Limit < entries {
		return cfg.Catalog.Limit
	}
	return entries
}

func buildProgress(
	total int,
	logger *zap.Logger,
	registry *prometheus.Registry,
	snapshot *sinks.SnapshotSink,
) (*progress.Hub, error) {
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return nil, err
	}
	sinkList := []progress.Sink{
		sinks.NewLogSink(logger.Named("progress")),
		promSink,
		snapshot,
		sinks.NewBarSink(total, os.Stderr),
	}
	return progress.NewHub(progress.Config{Logger: logger.Named("progress")}, sinkList...), nil
}

// buildArchiver picks the raw-page archive backend. The cleanup function
// releases backend resources and is non-nil whenever err is nil.
func buildArchiver(ctx context.Context, cfg config.Config) (scraper.Archiver, func(), error) {
	noop := func() {}
	switch cfg.Archive.Backend {
	case config.ArchiveNone, "":
		return nil, noop, nil
	case config.ArchiveLocal:
		st, err := archivelocal.New(archivelocal.Config{BaseDir: cfg.Archive.Dir})
		if err != nil {
			return nil, nil, fmt.Errorf("init local archive: %w", err)
		}
		return st, noop, nil
	case config.ArchiveMemory:
		return archivemem.New(), noop, nil
	case config.ArchiveGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("init gcs client: %w", err)
		}
		st, err := archivegcs.New(client, archivegcs.Config{Bucket: cfg.Archive.GCSBucket})
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("init gcs archive: %w", err)
		}
		return st, func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("archive backend %q is not supported", cfg.Archive.Backend)
	}
}

func buildStore(ctx context.Context, cfg config.Config) (scraper.RecordStore, func(), error) {
	if !cfg.Store.Enabled {
		return nil, func() {}, nil
	}
	st, err := pgstore.New(ctx, pgstore.Config{
		DSN:      cfg.Store.DSN,
		Table:    cfg.Store.Table,
		MaxConns: int32(cfg.Store.MaxConns),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init swatch store: %w", err)
	}
	return st, st.Close, nil
}

// buildNotifier wires the Pub/Sub completion notifier. The topic must
// already exist; a one-shot scrape has no business creating infrastructure.
func buildNotifier(ctx context.Context, cfg config.Config) (scraper.Notifier, func(), error) {
	if !cfg.PubSub.Enabled {
		return nil, func() {}, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("init pubsub client: %w", err)
	}
	topic := client.Topic(cfg.PubSub.TopicName)
	ok, err := topic.Exists(ctx)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("check pubsub topic: %w", err)
	}
	if !ok {
		_ = client.Close()
		return nil, nil, fmt.Errorf("pubsub topic %q does not exist", cfg.PubSub.TopicName)
	}
	pub := notifypubsub.New(topic)
	cleanup := func() {
		pub.Stop()
		_ = client.Close()
	}
	return pub, cleanup, nil
}
