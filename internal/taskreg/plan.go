package taskreg

import (
	"errors"
	"fmt"
	"strings"
)

const (
	dependencyCycleMessageConstant               = "task dependencies contain cycle"
	selfDependencyMessageTemplateConstant        = "task %q cannot depend on itself"
	unknownPrerequisiteMessageTemplateConstant   = "task %q depends on unknown task %q"
	dependencyCycleMemberMessageTemplateConstant = "%w involving task %q"
)

// ErrDependencyCycle indicates the prerequisite relation is not acyclic.
var ErrDependencyCycle = errors.New(dependencyCycleMessageConstant)

// ResolveExecutionOrder expands the named task into its prerequisite closure:
// a depth-first traversal in declared order, deduplicated by name so every
// reachable task appears exactly once, prerequisites before dependents.
func (registry *Registry) ResolveExecutionOrder(taskName string) ([]Task, error) {
	rootTask, lookupError := registry.Lookup(taskName)
	if lookupError != nil {
		return nil, lookupError
	}

	resolvedOrder := make([]Task, 0)
	visitedNames := make(map[string]struct{})
	activeNames := make(map[string]struct{})

	var visit func(task Task) error
	visit = func(task Task) error {
		if _, alreadyVisited := visitedNames[task.Name]; alreadyVisited {
			return nil
		}
		activeNames[task.Name] = struct{}{}

		for _, prerequisiteName := range task.Prerequisites {
			trimmedPrerequisite := strings.TrimSpace(prerequisiteName)
			if len(trimmedPrerequisite) == 0 {
				continue
			}
			if trimmedPrerequisite == task.Name {
				return fmt.Errorf(selfDependencyMessageTemplateConstant, task.Name)
			}
			prerequisiteTask, prerequisiteExists := registry.tasksByName[trimmedPrerequisite]
			if !prerequisiteExists {
				return fmt.Errorf(unknownPrerequisiteMessageTemplateConstant, task.Name, trimmedPrerequisite)
			}
			if _, onActivePath := activeNames[trimmedPrerequisite]; onActivePath {
				return fmt.Errorf(dependencyCycleMemberMessageTemplateConstant, ErrDependencyCycle, trimmedPrerequisite)
			}
			if visitError := visit(prerequisiteTask); visitError != nil {
				return visitError
			}
		}

		delete(activeNames, task.Name)
		visitedNames[task.Name] = struct{}{}
		resolvedOrder = append(resolvedOrder, task)
		return nil
	}

	if visitError := visit(rootTask); visitError != nil {
		return nil, visitError
	}

	return resolvedOrder, nil
}
