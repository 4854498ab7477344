package taskreg

import "context"

// FuncStep adapts a description and function pair into a Step.
type FuncStep struct {
	Description string
	Action      func(executionContext context.Context) error
}

// Describe returns the human-readable step description.
func (step FuncStep) Describe() string {
	return step.Description
}

// Execute invokes the wrapped function.
func (step FuncStep) Execute(executionContext context.Context) error {
	if step.Action == nil {
		return nil
	}
	return step.Action(executionContext)
}

type toleratedStep struct {
	delegate Step
}

// Tolerated wraps a step so its failure does not abort the chain. Used for
// removal of possibly-absent artifacts where a failure carries no signal.
func Tolerated(delegate Step) Step {
	return toleratedStep{delegate: delegate}
}

func (step toleratedStep) Describe() string {
	return step.delegate.Describe()
}

func (step toleratedStep) Execute(executionContext context.Context) error {
	_ = step.delegate.Execute(executionContext)
	return nil
}
