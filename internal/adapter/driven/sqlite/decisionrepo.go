package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/slowgate/internal/domain/model"
	"github.com/ericfisherdev/slowgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DecisionStore = (*DecisionRepo)(nil)

// DecisionRepo is the SQLite implementation of the DecisionStore port interface.
type DecisionRepo struct {
	db *DB
}

// NewDecisionRepo creates a new DecisionRepo backed by the given DB.
func NewDecisionRepo(db *DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

// Record inserts one gate decision into the audit log.
func (r *DecisionRepo) Record(ctx context.Context, decision model.Decision) error {
	const query = `
		INSERT INTO decisions (repo, pr_number, approvals, threshold, enabled, reason, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	enabled := 0
	if decision.Enabled {
		enabled = 1
	}

	var prNumber any
	if decision.PRNumber != nil {
		prNumber = *decision.PRNumber
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		decision.Repo, prNumber, decision.Approvals, decision.Threshold,
		enabled, decision.Reason, decision.EvaluatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record decision for %s: %w", decision.Repo, err)
	}

	return nil
}

// ListRecent returns up to limit decisions, newest first.
func (r *DecisionRepo) ListRecent(ctx context.Context, limit int) ([]model.Decision, error) {
	const query = `
		SELECT id, repo, pr_number, approvals, threshold, enabled, reason, evaluated_at
		FROM decisions
		ORDER BY evaluated_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent decisions: %w", err)
	}
	defer rows.Close()

	var decisions []model.Decision
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, *decision)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}

	return decisions, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(s scanner) (*model.Decision, error) {
	var decision model.Decision
	var prNumber sql.NullInt64
	var enabled int
	var evaluatedAt string

	err := s.Scan(
		&decision.ID, &decision.Repo, &prNumber, &decision.Approvals,
		&decision.Threshold, &enabled, &decision.Reason, &evaluatedAt,
	)
	if err != nil {
		return nil, err
	}

	decision.Enabled = enabled != 0

	if prNumber.Valid {
		n := int(prNumber.Int64)
		decision.PRNumber = &n
	}

	decision.EvaluatedAt, err = parseTime(evaluatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse evaluated_at: %w", err)
	}

	return &decision, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
