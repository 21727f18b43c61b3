package model

import (
	"time"
)

const (
	ProgressMin = 0
	ProgressMax = 100
)

// ProgressRecord is one immutable observation of a goal's progress.
type ProgressRecord struct {
	ID         string    `db:"id" json:"id"`
	GoalID     string    `db:"goal_id" json:"goal_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Percentage int       `db:"percentage" json:"percentage"`
	Note       string    `db:"note" json:"note"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
