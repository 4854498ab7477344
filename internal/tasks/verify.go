package tasks

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tyemirov/makex/internal/execshell"
	"github.com/tyemirov/makex/internal/terminal"
)

const (
	verificationStepDescriptionTemplateConstant = "verify %s responds to -h"
	verificationFailureMessageTemplateConstant  = "%s was installed but its command-line entry point is not invokable"
	verificationHelpArgumentConstant            = "-h"
)

// VerificationFailedError reports an installed entry point that did not
// answer a help invocation even though installation itself succeeded.
type VerificationFailedError struct {
	EntryPoint string
	Cause      error
}

// Error implements the error interface.
func (verificationError VerificationFailedError) Error() string {
	return fmt.Sprintf(verificationFailureMessageTemplateConstant, verificationError.EntryPoint)
}

// Unwrap exposes the underlying invocation failure.
func (verificationError VerificationFailedError) Unwrap() error {
	return verificationError.Cause
}

// verificationStep re-invokes the freshly installed CLI with -h. A failure is
// printed as a colored error distinct from ordinary tool failures and still
// fails the overall run.
type verificationStep struct {
	executor   *execshell.ToolExecutor
	entryPoint string
	output     io.Writer
	palette    terminal.Palette
}

func (step verificationStep) Describe() string {
	return fmt.Sprintf(verificationStepDescriptionTemplateConstant, step.entryPoint)
}

func (step verificationStep) Execute(executionContext context.Context) error {
	_, invocationError := step.executor.Execute(executionContext, execshell.ToolCommand{
		Name:    execshell.CommandName(step.entryPoint),
		Details: execshell.CommandDetails{Arguments: []string{verificationHelpArgumentConstant}},
	})
	if invocationError == nil {
		return nil
	}

	failure := VerificationFailedError{EntryPoint: step.entryPoint, Cause: invocationError}
	if step.output != nil {
		fmt.Fprintln(step.output, step.palette.Errorf(strings.TrimSpace(failure.Error())))
	}
	return failure
}
