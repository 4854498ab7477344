package tasks

import (
	"errors"
	"strings"

	"github.com/tyemirov/makex/internal/execshell"
	"github.com/tyemirov/makex/internal/taskreg"
)

const (
	extraStepCommandMissingMessageConstant = "extra task step command not provided"
)

// ErrExtraStepCommandMissing indicates a configured step had no command.
var ErrExtraStepCommandMissing = errors.New(extraStepCommandMissingMessageConstant)

// ExtraStepDefinition is one configured command invocation.
type ExtraStepDefinition struct {
	Command         string
	Arguments       []string
	TolerateFailure bool
}

// ExtraTaskDefinition is a user-declared task merged in after the built-ins.
type ExtraTaskDefinition struct {
	Name          string
	Description   string
	Prerequisites []string
	Steps         []ExtraStepDefinition
}

// RegisterExtraTasks adds configured tasks to the registry. Name collisions
// with built-in or earlier extra tasks surface as DuplicateTaskError.
func RegisterExtraTasks(registry *taskreg.Registry, configuration ProjectConfiguration, dependencies Dependencies, definitions []ExtraTaskDefinition) error {
	if registry == nil {
		return ErrRegistryNotConfigured
	}
	if dependencies.Executor == nil {
		return ErrExecutorNotConfigured
	}
	configuration = configuration.Sanitize()

	for _, definition := range definitions {
		steps := make([]taskreg.Step, 0, len(definition.Steps))
		for _, stepDefinition := range definition.Steps {
			trimmedCommand := strings.TrimSpace(stepDefinition.Command)
			if len(trimmedCommand) == 0 {
				return ErrExtraStepCommandMissing
			}
			var step taskreg.Step = CommandStep{
				Executor:         dependencies.Executor,
				CommandName:      execshell.CommandName(trimmedCommand),
				Arguments:        stepDefinition.Arguments,
				WorkingDirectory: configuration.ProjectRoot,
				Environment:      pythonPathEnvironment(configuration.ProjectRoot),
			}
			if stepDefinition.TolerateFailure {
				step = taskreg.Tolerated(step)
			}
			steps = append(steps, step)
		}

		registrationError := registry.Register(taskreg.Task{
			Name:          definition.Name,
			Description:   definition.Description,
			Prerequisites: definition.Prerequisites,
			Steps:         steps,
		})
		if registrationError != nil {
			return registrationError
		}
	}
	return nil
}
