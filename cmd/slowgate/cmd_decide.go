package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/slowgate/internal/application"
	"github.com/ericfisherdev/slowgate/internal/config"
)

// decideCmd evaluates the gate without running any tests. Shell pipelines
// use its exit code to branch on the decision.
var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Evaluate the slow-test gate and report the decision",
	Long: `Evaluates the slow-test gate for the change under test and prints the
decision without running any tests.

Exit codes: 0 when slow tests are enabled, 1 when they are disabled,
2 when the approval lookup or configuration failed.`,
	RunE: runDecide,
}

func runDecide(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	gate := newGateService(cfg)

	store, db, err := openDecisionStore(cfg)
	if err != nil {
		slog.Warn("audit store unavailable", "error", err)
	} else {
		defer closeDB(db)
	}

	decision, err := gate.Evaluate(cmd.Context(), cfg.ChangeRequest())
	if err != nil {
		slog.Error("gate evaluation aborted", "error", err)
		return &exitCodeError{code: application.ExitConfigError}
	}

	if store != nil {
		if recordErr := store.Record(cmd.Context(), decision); recordErr != nil {
			slog.Warn("recording gate decision failed", "error", recordErr)
		}
	}

	if decision.Enabled {
		fmt.Printf("slow tests enabled: %s\n", decision.Reason)
		return nil
	}

	fmt.Printf("slow tests disabled: %s\n", decision.Reason)
	return &exitCodeError{code: application.ExitGateFailure}
}
