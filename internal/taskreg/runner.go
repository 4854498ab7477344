package taskreg

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	taskStartMessageConstant             = "task starting"
	taskCompletedMessageConstant         = "task completed"
	taskStepFailedMessageConstant        = "task step failed"
	taskFailureMessageTemplateConstant   = "task %q failed at step %q"
	taskNameFieldNameConstant            = "task"
	stepDescriptionFieldNameConstant     = "step"
	resolvedChainLengthFieldNameConstant = "chain_length"
)

// TaskFailedError identifies the task and step where a chain stopped.
type TaskFailedError struct {
	TaskName        string
	StepDescription string
	Cause           error
}

// Error implements the error interface.
func (failure TaskFailedError) Error() string {
	return fmt.Sprintf(taskFailureMessageTemplateConstant, failure.TaskName, failure.StepDescription)
}

// Unwrap exposes the underlying step error.
func (failure TaskFailedError) Unwrap() error {
	return failure.Cause
}

// Runner executes registered tasks sequentially with fail-fast semantics.
type Runner struct {
	registry *Registry
	logger   *zap.Logger
}

// NewRunner constructs a Runner for the provided registry.
func NewRunner(registry *Registry, logger *zap.Logger) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Runner{registry: registry, logger: logger}
}

// Run resolves the prerequisite closure of the named task and executes every
// step in order. The first failing step aborts the remainder of the chain.
func (runner Runner) Run(executionContext context.Context, taskName string) error {
	executionOrder, planError := runner.registry.ResolveExecutionOrder(taskName)
	if planError != nil {
		return planError
	}

	runner.logger.Debug(taskStartMessageConstant,
		zap.String(taskNameFieldNameConstant, taskName),
		zap.Int(resolvedChainLengthFieldNameConstant, len(executionOrder)),
	)

	for _, task := range executionOrder {
		for _, step := range task.Steps {
			if contextError := executionContext.Err(); contextError != nil {
				return TaskFailedError{TaskName: task.Name, StepDescription: step.Describe(), Cause: contextError}
			}
			if stepError := step.Execute(executionContext); stepError != nil {
				runner.logger.Warn(taskStepFailedMessageConstant,
					zap.String(taskNameFieldNameConstant, task.Name),
					zap.String(stepDescriptionFieldNameConstant, step.Describe()),
				)
				return TaskFailedError{TaskName: task.Name, StepDescription: step.Describe(), Cause: stepError}
			}
		}
		runner.logger.Debug(taskCompletedMessageConstant, zap.String(taskNameFieldNameConstant, task.Name))
	}

	return nil
}
