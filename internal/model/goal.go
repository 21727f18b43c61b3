package model

import (
	"time"
)

const (
	GoalStateOpen      = "open"
	GoalStateCompleted = "completed"
)

type Goal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	TargetDate  time.Time  `db:"target_date" json:"target_date"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"` // nil while the goal is open
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// State returns GoalStateCompleted once a completion date is recorded.
func (g *Goal) State() string {
	if g.CompletedAt != nil {
		return GoalStateCompleted
	}
	return GoalStateOpen
}

func (g *Goal) IsOpen() bool {
	return g.State() == GoalStateOpen
}
