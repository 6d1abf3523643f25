package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/slowgate/internal/config"
)

var auditLimit int

// auditCmd prints recent gate decisions from the audit log.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent gate decisions",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "maximum number of decisions to list")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, db, err := openDecisionStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	decisions, err := store.ListRecent(cmd.Context(), auditLimit)
	if err != nil {
		return err
	}

	if len(decisions) == 0 {
		fmt.Println("no recorded decisions")
		return nil
	}

	for _, d := range decisions {
		change := "trunk"
		if d.PRNumber != nil {
			change = fmt.Sprintf("#%d", *d.PRNumber)
		}

		state := "disabled"
		if d.Enabled {
			state = "enabled"
		}

		fmt.Printf("%s  %s %s  approvals=%d/%d  slow=%s  %s\n",
			d.EvaluatedAt.Format("2006-01-02 15:04:05"),
			d.Repo, change, d.Approvals, d.Threshold, state, d.Reason,
		)
	}

	return nil
}
