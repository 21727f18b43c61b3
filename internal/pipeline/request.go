// Package pipeline runs goal mutation requests through an ordered chain of
// handlers before the caller is allowed to touch the store.
package pipeline

import (
	"github.com/templui/goaltracker/internal/model"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
	ActionList   Action = "list"
)

// GoalRequest describes one intended operation on a goal. For create the goal
// has no ID yet; for update and delete Goal.ID names the persisted goal.
type GoalRequest struct {
	Goal   *model.Goal
	UserID string
	Action Action
}

func (r GoalRequest) goalID() string {
	if r.Goal == nil {
		return ""
	}
	return r.Goal.ID
}
