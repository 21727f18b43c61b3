package pipeline

import (
	"time"

	"github.com/templui/goaltracker/internal/validation"
)

const (
	MsgValidationFailed     = "Validation failed"
	MsgGoalRequired         = "Goal is required"
	MsgTargetDateInPast     = "Target date must be in the future"
	MsgStartNotBeforeTarget = "Start date must be before target date"
)

// Validator checks the goal payload of create and update requests. Every
// violation is collected before the chain is stopped.
type Validator struct {
	now func() time.Time
}

func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

func (v *Validator) Handle(req GoalRequest) (Outcome, error) {
	if req.Action != ActionCreate && req.Action != ActionUpdate {
		return Continue(), nil
	}

	if req.Goal == nil {
		return Stop(Failed(StageValidation, MsgValidationFailed, MsgGoalRequired)), nil
	}

	goal := req.Goal
	var errs []string

	err := validation.ValidateGoalName(goal.Name)
	if err != nil {
		errs = append(errs, err.Error())
	}

	if !goal.TargetDate.After(v.now()) {
		errs = append(errs, MsgTargetDateInPast)
	}

	if !goal.StartDate.Before(goal.TargetDate) {
		errs = append(errs, MsgStartNotBeforeTarget)
	}

	if len(errs) > 0 {
		return Stop(Failed(StageValidation, MsgValidationFailed, errs...)), nil
	}

	return Continue(), nil
}
