package main

import (
	"log/slog"

	githubadapter "github.com/ericfisherdev/slowgate/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/slowgate/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/slowgate/internal/application"
	"github.com/ericfisherdev/slowgate/internal/config"
)

// newGateService wires the GitHub review client into a GateService.
func newGateService(cfg *config.Config) *application.GateService {
	client := githubadapter.NewClient(cfg.GitHubToken)
	return application.NewGateService(client, cfg.Threshold, cfg.LookupTimeout)
}

// openDecisionStore opens the audit database and runs migrations. Callers
// must close the returned DB when the repo is no longer needed.
func openDecisionStore(cfg *config.Config) (*sqliteadapter.DecisionRepo, *sqliteadapter.DB, error) {
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return sqliteadapter.NewDecisionRepo(db), db, nil
}

func closeDB(db *sqliteadapter.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing audit database", "error", err)
	}
}
