package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/slowgate/internal/application"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

// exitCodeError carries a specific process exit code up through cobra.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return "exit"
}

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "slowgate",
	Short: "CI slow-test gate and pipeline driver",
	Long: `slowgate decides whether the expensive "slow" test subset runs for the
change under test, invokes the test command accordingly, and maps the
combined outcome to an exit code.

Trunk builds always run slow tests. Pending reviews run them only once
the change has gathered enough approvals; otherwise the slow subset is
skipped and, when slow tests are required, the build fails even if the
fast subset passed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "pipeline descriptor path (default .slowgate.yml or $SLOWGATE_CONFIG)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(decideCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ec *exitCodeError
		if errors.As(err, &ec) {
			os.Exit(ec.code)
		}

		slog.Error("fatal error", "error", err)
		os.Exit(application.ExitConfigError)
	}
}
