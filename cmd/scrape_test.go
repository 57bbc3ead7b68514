package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/swatchbook/pantone-scraper/internal/catalog"
	"github.com/swatchbook/pantone-scraper/internal/config"
)

func parseScrapeFlags(t *testing.T, args ...string) (*scrapeOptions, *cobra.Command) {
	t.Helper()
	opts := &scrapeOptions{}
	cmd := &cobra.Command{Use: "scrape"}
	opts.bind(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return opts, cmd
}

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestScrapeFlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	opts, cmd := parseScrapeFlags(t,
		"--output", "out/swatches.csv",
		"--base-url", "https://mirror.test/finder",
		"--delay", "250ms",
		"--limit", "12",
		"--page", "https://mirror.test/finder/Black-C",
		"--page", "https://mirror.test/finder/2995-C",
		"--headless",
		"--serve",
	)

	cfg := baseConfig(t)
	opts.apply(cmd, &cfg)

	require.Equal(t, "out/swatches.csv", cfg.Output.CSVPath)
	require.Equal(t, "https://mirror.test/finder", cfg.Site.BaseURL)
	require.Equal(t, 250, cfg.Site.DelayMs)
	require.Equal(t, 12, cfg.Catalog.Limit)
	require.Equal(t, []string{
		"https://mirror.test/finder/Black-C",
		"https://mirror.test/finder/2995-C",
	}, cfg.Catalog.Pages)
	require.True(t, cfg.Headless.Enabled)
	require.True(t, cfg.Server.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestScrapeFlagsAbsentKeepConfig(t *testing.T) {
	t.Parallel()

	opts, cmd := parseScrapeFlags(t)

	cfg := baseConfig(t)
	cfg.Site.DelayMs = 750
	cfg.Catalog.Limit = 40
	cfg.Catalog.Pages = []string{"https://finder.test/Violet-C"}
	cfg.Headless.Enabled = true
	cfg.Server.Enabled = true

	opts.apply(cmd, &cfg)

	require.Equal(t, 750, cfg.Site.DelayMs)
	require.Equal(t, 40, cfg.Catalog.Limit)
	require.Equal(t, []string{"https://finder.test/Violet-C"}, cfg.Catalog.Pages)
	require.True(t, cfg.Headless.Enabled)
	require.True(t, cfg.Server.Enabled)
}

func TestScrapeFlagsExplicitZeroWins(t *testing.T) {
	t.Parallel()

	opts, cmd := parseScrapeFlags(t, "--delay", "0s", "--limit", "0", "--headless=false")

	cfg := baseConfig(t)
	cfg.Site.DelayMs = 750
	cfg.Catalog.Limit = 40
	cfg.Headless.Enabled = true

	opts.apply(cmd, &cfg)

	require.Zero(t, cfg.Site.DelayMs)
	require.Zero(t, cfg.Catalog.Limit)
	require.False(t, cfg.Headless.Enabled)
}

func TestBuildEntriesSweep(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Site.BaseURL = "https://finder.test/colors"
	cfg.Catalog.FirstNumber = 100
	cfg.Catalog.LastNumber = 102

	entries, explicit, err := buildEntries(cfg)
	require.NoError(t, err)
	require.False(t, explicit)

	named := len(catalog.NamedColours())
	require.Len(t, entries, named+3)
	require.Equal(t, "Black C", entries[0].Name)
	require.Equal(t, "https://finder.test/colors/Black-C", entries[0].URL)
	require.Equal(t, "102 C", entries[len(entries)-1].Name)
	require.Equal(t, "https://finder.test/colors/102-C", entries[len(entries)-1].URL)
}

func TestBuildEntriesExplicitPages(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Catalog.Pages = []string{
		"https://finder.test/colors/Green-C",
		"https://finder.test/colors/354-C",
	}

	entries, explicit, err := buildEntries(cfg)
	require.NoError(t, err)
	require.True(t, explicit)
	require.Len(t, entries, 2)
	require.Equal(t, "https://finder.test/colors/Green-C", entries[0].URL)
	require.Empty(t, entries[0].Name)
	require.Equal(t, "https://finder.test/colors/354-C", entries[1].URL)
}

func TestBuildEntriesRejectsBadRange(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(t)
	cfg.Catalog.FirstNumber = 500
	cfg.Catalog.LastNumber = 100

	_, _, err := buildEntries(cfg)
	require.Error(t, err)
}

func TestVisitTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limit   int
		entries int
		want    int
	}{
		{name: "no limit", limit: 0, entries: 54, want: 54},
		{name: "limit below entries", limit: 10, entries: 54, want: 10},
		{name: "limit above entries", limit: 100, entries: 54, want: 54},
		{name: "limit equals entries", limit: 54, entries: 54, want: 54},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Config{Catalog: config.CatalogConfig{Limit: tc.limit}}
			require.Equal(t, tc.want, visitTotal(cfg, tc.entries))
		})
	}
}
