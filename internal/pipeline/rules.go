package pipeline

import (
	"fmt"
)

const DefaultMaxActiveGoals = 10

// OpenGoalCounter counts a user's goals that have no completion date.
type OpenGoalCounter interface {
	CountOpenGoals(userID string) (int, error)
}

// BusinessRuleChecker caps the number of open goals a user may hold. Only
// create requests are checked.
//
// The count and the later insert are not atomic: two concurrent creates at
// the boundary can both pass.
type BusinessRuleChecker struct {
	goals          OpenGoalCounter
	maxActiveGoals int
}

func NewBusinessRuleChecker(goals OpenGoalCounter, maxActiveGoals int) *BusinessRuleChecker {
	if maxActiveGoals <= 0 {
		maxActiveGoals = DefaultMaxActiveGoals
	}
	return &BusinessRuleChecker{goals: goals, maxActiveGoals: maxActiveGoals}
}

func (c *BusinessRuleChecker) Handle(req GoalRequest) (Outcome, error) {
	if req.Action != ActionCreate {
		return Continue(), nil
	}

	count, err := c.goals.CountOpenGoals(req.UserID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to count open goals: %w", err)
	}

	if count >= c.maxActiveGoals {
		msg := fmt.Sprintf("You cannot have more than %d active goals", c.maxActiveGoals)
		return Stop(Failed(StageBusinessRule, msg)), nil
	}

	return Continue(), nil
}
