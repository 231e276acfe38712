package commands

import (
	"context"
	"errors"
	"grantsync-backend/internal/components/chrono"
	"grantsync-backend/lib/telemetry"
	"grantsync-backend/lib/util/serviceutil"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	dbPath  string
)

// the clock every command reads the current time from
var clock chrono.TimeAPI = chrono.NewStandardTime()

var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "grantsync-cli",
	Short: "grantsync-cli scrapes open grants from OurSG and keeps track of their deadlines.",
	// errors are printed once by ExecuteContext
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "grantsync-cli")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no telemetry.json5 found, telemetry is disabled")
			return
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages and dump http messages.")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "The grant database, a file path or a libsql url. (default from config, grants.db)")
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// cobra skips post-run hooks when a command fails, so telemetry is flushed
// here instead.
func execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	flushCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if flushErr := tel.Shutdown(flushCtx); flushErr != nil {
		slog.Warn("failed to flush telemetry", "err", flushErr)
	}
	return err
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx, os.Args[1:]); err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
