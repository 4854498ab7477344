package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tyemirov/makex/internal/execshell"
)

const (
	pythonPathEnvironmentVariableConstant  = "PYTHONPATH"
	commandStepDescriptionTemplateConstant = "run %s %s"
)

// CommandStep executes one external tool invocation through the executor.
type CommandStep struct {
	Executor         *execshell.ToolExecutor
	CommandName      execshell.CommandName
	Arguments        []string
	WorkingDirectory string
	Environment      map[string]string
}

// Describe renders the invocation for failure reporting.
func (step CommandStep) Describe() string {
	return strings.TrimSpace(fmt.Sprintf(commandStepDescriptionTemplateConstant, step.CommandName, strings.Join(step.Arguments, " ")))
}

// Execute runs the command, treating a non-zero exit as failure.
func (step CommandStep) Execute(executionContext context.Context) error {
	_, executionError := step.Executor.Execute(executionContext, execshell.ToolCommand{
		Name: step.CommandName,
		Details: execshell.CommandDetails{
			Arguments:            step.Arguments,
			WorkingDirectory:     step.WorkingDirectory,
			EnvironmentVariables: step.Environment,
		},
	})
	return executionError
}

// pythonPathEnvironment extends the module search path with the project root
// for one child process instead of mutating the runner's own environment.
func pythonPathEnvironment(projectRoot string) map[string]string {
	trimmedRoot := strings.TrimSpace(projectRoot)
	if len(trimmedRoot) == 0 {
		return nil
	}
	existingSearchPath := os.Getenv(pythonPathEnvironmentVariableConstant)
	if len(existingSearchPath) == 0 {
		return map[string]string{pythonPathEnvironmentVariableConstant: trimmedRoot}
	}
	return map[string]string{
		pythonPathEnvironmentVariableConstant: trimmedRoot + string(filepath.ListSeparator) + existingSearchPath,
	}
}
