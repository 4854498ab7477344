package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tyemirov/makex/cmd/cli"
	"github.com/tyemirov/makex/internal/execshell"
)

const (
	exitErrorTemplateConstant = "%v\n"
	defaultFailureExitCode    = 1
)

// main executes the makex command-line application, propagating the failing
// tool's exit code when a task chain stops on a command failure.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)

	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) && commandFailure.Result.ExitCode > 0 {
		os.Exit(commandFailure.Result.ExitCode)
	}
	os.Exit(defaultFailureExitCode)
}
