package pipeline

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goaltracker/internal/model"
	"github.com/templui/goaltracker/internal/validation"
)

func TestValidatorPassesValidGoal(t *testing.T) {
	v := NewValidator(clock)

	for _, action := range []Action{ActionCreate, ActionUpdate} {
		outcome, err := v.Handle(GoalRequest{Goal: validGoal(), UserID: "u1", Action: action})
		require.NoError(t, err)

		_, stopped := outcome.Stopped()
		assert.False(t, stopped, action)
	}
}

func TestValidatorFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *model.Goal)
		errs   []string
	}{
		{
			name:   "empty name",
			mutate: func(g *model.Goal) { g.Name = "" },
			errs:   []string{validation.ErrGoalNameRequired.Error()},
		},
		{
			name:   "whitespace name",
			mutate: func(g *model.Goal) { g.Name = "   \t" },
			errs:   []string{validation.ErrGoalNameRequired.Error()},
		},
		{
			name:   "name too long",
			mutate: func(g *model.Goal) { g.Name = strings.Repeat("A", 151) },
			errs:   []string{validation.ErrGoalNameTooLong.Error()},
		},
		{
			name:   "target is now",
			mutate: func(g *model.Goal) { g.TargetDate = fixedNow },
			errs:   []string{MsgTargetDateInPast},
		},
		{
			name: "start equals target",
			mutate: func(g *model.Goal) {
				g.StartDate = g.TargetDate
			},
			errs: []string{MsgStartNotBeforeTarget},
		},
		{
			name: "everything wrong",
			mutate: func(g *model.Goal) {
				g.Name = ""
				g.TargetDate = fixedNow.Add(-time.Hour)
				g.StartDate = fixedNow
			},
			errs: []string{
				validation.ErrGoalNameRequired.Error(),
				MsgTargetDateInPast,
				MsgStartNotBeforeTarget,
			},
		},
	}

	v := NewValidator(clock)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := validGoal()
			tt.mutate(goal)

			outcome, err := v.Handle(GoalRequest{Goal: goal, UserID: "u1", Action: ActionCreate})
			require.NoError(t, err)

			result, stopped := outcome.Stopped()
			require.True(t, stopped)
			assert.False(t, result.Success)
			assert.Equal(t, MsgValidationFailed, result.Message)
			assert.Equal(t, StageValidation, result.Stage)
			assert.Equal(t, tt.errs, result.Errors)
		})
	}
}

func TestValidatorNameAtLimit(t *testing.T) {
	goal := validGoal()
	goal.Name = strings.Repeat("A", 150)

	outcome, err := NewValidator(clock).Handle(GoalRequest{Goal: goal, Action: ActionUpdate})
	require.NoError(t, err)

	_, stopped := outcome.Stopped()
	assert.False(t, stopped)
}

func TestValidatorNilGoal(t *testing.T) {
	outcome, err := NewValidator(clock).Handle(GoalRequest{UserID: "u1", Action: ActionCreate})
	require.NoError(t, err)

	result, stopped := outcome.Stopped()
	require.True(t, stopped)
	assert.Equal(t, []string{MsgGoalRequired}, result.Errors)
}

func TestValidatorSkipsOtherActions(t *testing.T) {
	v := NewValidator(clock)
	bad := &model.Goal{Name: "", TargetDate: fixedNow.Add(-time.Hour)}

	for _, action := range []Action{ActionDelete, ActionView, ActionList} {
		for _, goal := range []*model.Goal{nil, bad} {
			outcome, err := v.Handle(GoalRequest{Goal: goal, UserID: "u1", Action: action})
			require.NoError(t, err)

			_, stopped := outcome.Stopped()
			assert.False(t, stopped, action)
		}
	}
}
