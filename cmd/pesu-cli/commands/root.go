package commands

import (
	"context"
	"fmt"
	"os"

	"pesuslides/lib/restyutil"
	"pesuslides/lib/scrapers/pesu"
	"pesuslides/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "pesu-cli",
	Short: "pesu-cli downloads lecture slides from the PESU Academy portal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *verbose {
			telemetry.InitSlog(true)
			pesu.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/pesu"))
		}
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false,
		"Enable debug logging and request/response transcript dumps.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
