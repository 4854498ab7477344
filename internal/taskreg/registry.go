// Package taskreg holds the declarative task registry and its runner.
package taskreg

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	taskNameMissingMessageConstant       = "task name not provided"
	duplicateTaskMessageTemplateConstant = "task %q registered multiple times"
	unknownTaskMessageTemplateConstant   = "unknown task %q (available: %s)"
)

// ErrTaskNameMissing indicates a task was declared without a name.
var ErrTaskNameMissing = errors.New(taskNameMissingMessageConstant)

// Step is a single unit of work executed as part of a task action.
type Step interface {
	Describe() string
	Execute(executionContext context.Context) error
}

// Task is a named unit of build or verification work with declared
// prerequisites and an ordered action.
type Task struct {
	Name          string
	Description   string
	Prerequisites []string
	Steps         []Step
}

// Hidden reports whether the task is omitted from help listings.
func (task Task) Hidden() bool {
	return len(strings.TrimSpace(task.Description)) == 0
}

// TaskSummary pairs a task name with its help description.
type TaskSummary struct {
	Name        string
	Description string
}

// DuplicateTaskError indicates a registration collision.
type DuplicateTaskError struct {
	TaskName string
}

// Error implements the error interface.
func (registrationError DuplicateTaskError) Error() string {
	return fmt.Sprintf(duplicateTaskMessageTemplateConstant, registrationError.TaskName)
}

// UnknownTaskError indicates a requested task name is not registered.
type UnknownTaskError struct {
	TaskName       string
	AvailableTasks []string
}

// Error implements the error interface.
func (lookupError UnknownTaskError) Error() string {
	return fmt.Sprintf(unknownTaskMessageTemplateConstant, lookupError.TaskName, strings.Join(lookupError.AvailableTasks, ", "))
}

// Registry stores tasks keyed by name, preserving registration order for
// deterministic help listings. The registry is built once at process start
// and treated as immutable afterwards.
type Registry struct {
	orderedNames []string
	tasksByName  map[string]Task
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tasksByName: map[string]Task{}}
}

// Register adds a task, failing when the name is empty or already present.
func (registry *Registry) Register(task Task) error {
	trimmedName := strings.TrimSpace(task.Name)
	if len(trimmedName) == 0 {
		return ErrTaskNameMissing
	}
	if _, exists := registry.tasksByName[trimmedName]; exists {
		return DuplicateTaskError{TaskName: trimmedName}
	}
	task.Name = trimmedName
	registry.tasksByName[trimmedName] = task
	registry.orderedNames = append(registry.orderedNames, trimmedName)
	return nil
}

// Lookup resolves a task by name.
func (registry *Registry) Lookup(taskName string) (Task, error) {
	task, exists := registry.tasksByName[strings.TrimSpace(taskName)]
	if !exists {
		return Task{}, UnknownTaskError{TaskName: strings.TrimSpace(taskName), AvailableTasks: registry.DocumentedNames()}
	}
	return task, nil
}

// TaskNames returns every registered name in registration order.
func (registry *Registry) TaskNames() []string {
	names := make([]string, len(registry.orderedNames))
	copy(names, registry.orderedNames)
	return names
}

// DocumentedNames returns the names of documented tasks in registration order.
func (registry *Registry) DocumentedNames() []string {
	names := make([]string, 0, len(registry.orderedNames))
	for _, taskName := range registry.orderedNames {
		if registry.tasksByName[taskName].Hidden() {
			continue
		}
		names = append(names, taskName)
	}
	return names
}

// DocumentedTasks returns (name, description) pairs for documented tasks in
// registration order; hidden tasks are omitted.
func (registry *Registry) DocumentedTasks() []TaskSummary {
	summaries := make([]TaskSummary, 0, len(registry.orderedNames))
	for _, taskName := range registry.orderedNames {
		task := registry.tasksByName[taskName]
		if task.Hidden() {
			continue
		}
		summaries = append(summaries, TaskSummary{Name: task.Name, Description: strings.TrimSpace(task.Description)})
	}
	return summaries
}
