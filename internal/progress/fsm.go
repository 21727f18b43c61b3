package progress

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
	"github.com/templui/goaltracker/internal/model"
)

// Machine states mirror model.GoalState* and must stay untyped for statekit.StateID.
const (
	StateOpen      = model.GoalStateOpen
	StateCompleted = model.GoalStateCompleted

	EventComplete = "complete"
)

// CompletionContext is the data the completion guard sees.
type CompletionContext struct {
	GoalID     string
	Percentage int
}

// CompletionMachine models a goal's lifecycle: open until a progress update
// lands on exactly 100%, then completed for good.
type CompletionMachine struct {
	interpreter *statekit.Interpreter[CompletionContext]
}

func NewCompletionMachine(goal *model.Goal, percentage int) (*CompletionMachine, error) {
	builder := statekit.NewMachine[CompletionContext]("goal-completion").
		WithInitial(statekit.StateID(goal.State())).
		WithContext(CompletionContext{
			GoalID:     goal.ID,
			Percentage: percentage,
		}).
		WithGuard("reachedFull", func(ctx CompletionContext, _ statekit.Event) bool {
			return ctx.Percentage == model.ProgressMax
		})

	builder.State(StateOpen).
		On(EventComplete).Target(StateCompleted).Guard("reachedFull").
		Done()

	// No transition leaves Completed
	builder.State(StateCompleted).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build completion machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &CompletionMachine{interpreter: interpreter}, nil
}

// Complete sends the complete event and reports whether the goal moved from
// open to completed. An already completed goal or a guard rejection is a no-op.
func (m *CompletionMachine) Complete() bool {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: EventComplete})
	return before == StateOpen && m.Current() == StateCompleted
}

func (m *CompletionMachine) Current() string {
	return string(m.interpreter.State().Value)
}
