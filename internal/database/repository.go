package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/insights"
)

// ErrNotFound is returned when a user has no stored report
var ErrNotFound = errors.New("no stored report")

// Repository handles report persistence
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveReport stores report as userID's newest
func (r *Repository) SaveReport(ctx context.Context, userID string, report insights.Report) (*InsightRecord, error) {
	record := NewInsightRecord(userID, report)

	payload, err := json.Marshal(record.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	stmt, err := r.db.GetPreparedStatement(stmtInsertInsight)
	if err != nil {
		return nil, err
	}

	if _, err := stmt.ExecContext(ctx, record.ID, record.UserID, string(payload), record.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return record, nil
}

// LatestReport returns the newest report stored for userID
func (r *Repository) LatestReport(ctx context.Context, userID string) (*InsightRecord, error) {
	stmt, err := r.db.GetPreparedStatement(stmtLatestInsight)
	if err != nil {
		return nil, err
	}

	var (
		record  InsightRecord
		payload string
	)
	err = stmt.QueryRowContext(ctx, userID).Scan(&record.ID, &record.UserID, &payload, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &record.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", record.ID, err)
	}
	return &record, nil
}

// CountReports returns how many reports are stored for userID
func (r *Repository) CountReports(ctx context.Context, userID string) (int, error) {
	stmt, err := r.db.GetPreparedStatement(stmtCountInsights)
	if err != nil {
		return 0, err
	}

	var count int
	if err := stmt.QueryRowContext(ctx, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
