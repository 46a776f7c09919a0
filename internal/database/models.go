package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/insights"
)

// InsightRecord is one stored insights report
type InsightRecord struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Report    insights.Report `json:"report" db:"report_json"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// NewInsightRecord stamps report with a fresh id and the current time
func NewInsightRecord(userID string, report insights.Report) *InsightRecord {
	return &InsightRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
}
