package pipeline

import (
	"errors"
	"fmt"

	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/repository"
)

const MsgNotAuthorized = "You are not authorized to modify this goal"

// GoalFinder looks a persisted goal up by id, regardless of owner.
type GoalFinder interface {
	ByID(goalID string) (*model.Goal, error)
}

// Authorizer checks that the acting user owns the goal an update or delete
// targets. The owner is read from the store, never from the request payload.
type Authorizer struct {
	goals GoalFinder
}

func NewAuthorizer(goals GoalFinder) *Authorizer {
	return &Authorizer{goals: goals}
}

func (a *Authorizer) Handle(req GoalRequest) (Outcome, error) {
	if req.Action != ActionUpdate && req.Action != ActionDelete {
		return Continue(), nil
	}

	denied := Stop(Failed(StageAuthorization, MsgNotAuthorized))

	goalID := req.goalID()
	if goalID == "" {
		return denied, nil
	}

	persisted, err := a.goals.ByID(goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return denied, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load goal %s: %w", goalID, err)
	}

	if persisted.UserID != req.UserID {
		return denied, nil
	}

	return Continue(), nil
}
