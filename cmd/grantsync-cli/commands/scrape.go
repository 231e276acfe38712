package commands

import (
	"grantsync-backend/lib/restyutil"
	"grantsync-backend/lib/scrapers/oursg"
	"grantsync-backend/lib/telemetry"
	"grantsync-backend/services/grants/scraper"
	"log/slog"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var scrapeOutput string

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "The file to write open grants to. (default from config, grants.json)")
	rootCmd.AddCommand(scrapeCmd)
}

func createClient(cfg Config) (*oursg.Client, error) {
	opts := oursg.ClientOptions{
		BaseUrl: cfg.BaseUrl,
		Timeout: seconds(cfg.TimeoutSeconds),
	}
	if cfg.CloudflareBypass {
		opts.WrapTransport = func(rt http.RoundTripper) http.RoundTripper {
			return cloudflarebp.AddCloudFlareByPass(rt)
		}
	}
	if verbose {
		output, err := restyutil.NewFilesystemOutput(cfg.RestyOutput)
		if err != nil {
			return nil, err
		}
		slog.Debug("dumping http messages", "dir", output.Directory())
		opts.InstrumentOutput = output
	}
	return oursg.NewClient(opts), nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--output <path/to/grants.json>]",
	Short: "Fetches the open grants and their details and writes them to a json file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := readConfig()
		if err != nil {
			return err
		}
		if scrapeOutput != "" {
			cfg.Output = scrapeOutput
		}

		runId, err := random.String(8)
		if err != nil {
			return err
		}
		logger := slog.Default().With("run", runId)

		client, err := createClient(cfg)
		if err != nil {
			return err
		}
		delay, err := cfg.Delay.build(time.Now().UnixNano())
		if err != nil {
			return err
		}

		telemetry.InstrumentPerfStats(ctx, time.Second*5)

		logger.InfoContext(ctx, "scraping grants", "base_url", client.BaseUrl, "output", cfg.Output)
		result, err := scraper.Scrape(ctx, scraper.Params{
			Client:   client,
			Delay:    delay,
			Output:   cfg.Output,
			Progress: cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}

		logger.InfoContext(
			ctx, "scraping time",
			"seconds", result.Duration.Seconds(),
			"total", result.Total,
			"open", result.Matched,
		)
		return nil
	},
}
