package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

const environmentEntryTemplateConstant = "%s=%s"

// OSCommandRunner executes tool commands against the host operating system.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs an OSCommandRunner instance.
func NewOSCommandRunner() OSCommandRunner {
	return OSCommandRunner{}
}

// Run executes the command, capturing standard output, standard error, and the
// exit code. A non-zero exit status is reported through the result rather than
// the error return so callers can decide whether it constitutes a failure.
func (runner OSCommandRunner) Run(executionContext context.Context, command ToolCommand) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	executable := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = mergeEnvironment(command.Details.EnvironmentVariables)

	standardOutputBuffer := &bytes.Buffer{}
	standardErrorBuffer := &bytes.Buffer{}
	executable.Stdout = standardOutputBuffer
	executable.Stderr = standardErrorBuffer

	runError := executable.Run()
	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}

	if runError != nil {
		var exitError *exec.ExitError
		if errors.As(runError, &exitError) {
			executionResult.ExitCode = exitError.ExitCode()
			return executionResult, nil
		}
		return executionResult, runError
	}

	return executionResult, nil
}

func mergeEnvironment(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return os.Environ()
	}

	merged := os.Environ()
	overrideKeys := make([]string, 0, len(overrides))
	for overrideKey := range overrides {
		overrideKeys = append(overrideKeys, overrideKey)
	}
	sort.Strings(overrideKeys)
	for _, overrideKey := range overrideKeys {
		merged = append(merged, fmt.Sprintf(environmentEntryTemplateConstant, overrideKey, overrides[overrideKey]))
	}
	return merged
}
