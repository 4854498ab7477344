// Package execshell runs external developer tools with structured logging.
package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	pipCommandNameStringConstant              = "pip3"
	pythonCommandNameStringConstant           = "python3"
	pytestCommandNameStringConstant           = "pytest"
	blackCommandNameStringConstant            = "black"
	pycodestyleCommandNameStringConstant      = "pycodestyle"
	pylintCommandNameStringConstant           = "pylint"
	reuseCommandNameStringConstant            = "reuse"
	loggerNotConfiguredMessageConstant        = "tool executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "tool executor command runner not configured"
	commandNameMissingMessageConstant         = "tool command name not provided"
	commandStartMessageConstant               = "command execution starting"
	commandSuccessMessageConstant             = "command execution completed"
	commandFailureMessageConstant             = "command returned non-zero status"
	commandRunnerErrorMessageConstant         = "command execution error"
	commandSkippedMessageConstant             = "command execution skipped (dry run)"
	commandNameFieldNameConstant              = "command"
	commandArgumentsFieldNameConstant         = "arguments"
	workingDirectoryFieldNameConstant         = "working_directory"
	exitCodeFieldNameConstant                 = "exit_code"
	standardErrorFieldNameConstant            = "stderr"
)

// CommandName identifies a supported executable name.
type CommandName string

// Supported command names.
const (
	CommandPip         CommandName = CommandName(pipCommandNameStringConstant)
	CommandPython      CommandName = CommandName(pythonCommandNameStringConstant)
	CommandPytest      CommandName = CommandName(pytestCommandNameStringConstant)
	CommandBlack       CommandName = CommandName(blackCommandNameStringConstant)
	CommandPycodestyle CommandName = CommandName(pycodestyleCommandNameStringConstant)
	CommandPylint      CommandName = CommandName(pylintCommandNameStringConstant)
	CommandReuse       CommandName = CommandName(reuseCommandNameStringConstant)
)

// CommandDetails describes command invocation properties.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ToolCommand represents a fully qualified command invocation.
type ToolCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures observable command results.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes tool commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ToolCommand) (ExecutionResult, error)
}

// ToolExecutor orchestrates running developer tools with logging.
type ToolExecutor struct {
	commandRunner CommandRunner
	logger        *zap.Logger
	dryRun        bool
}

var (
	// ErrLoggerNotConfigured indicates the logger dependency was missing.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the command runner dependency was missing.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
	// ErrCommandNameMissing indicates the command name was not provided.
	ErrCommandNameMissing = errors.New(commandNameMissingMessageConstant)
)

// CommandFailedError provides details about commands exiting with a non-zero code.
type CommandFailedError struct {
	Command ToolCommand
	Result  ExecutionResult
}

const commandFailureErrorMessageTemplateConstant = "%s command exited with code %d"

// Error describes the failure in a readable format.
func (commandError CommandFailedError) Error() string {
	baseMessage := fmt.Sprintf(commandFailureErrorMessageTemplateConstant, commandError.Command.Name, commandError.Result.ExitCode)

	if len(commandError.Command.Details.Arguments) > 0 {
		baseMessage = fmt.Sprintf("%s (%s)", baseMessage, strings.Join(commandError.Command.Details.Arguments, " "))
	}

	detail := strings.TrimSpace(commandError.Result.StandardError)
	if len(detail) == 0 {
		detail = strings.TrimSpace(commandError.Result.StandardOutput)
	}
	if len(detail) > 0 {
		lines := strings.Split(detail, "\n")
		maxLines := 3
		if len(lines) > maxLines {
			lines = lines[:maxLines]
		}
		normalized := make([]string, 0, len(lines))
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			normalized = append(normalized, trimmed)
		}
		if len(normalized) > 0 {
			baseMessage = fmt.Sprintf("%s: %s", baseMessage, strings.Join(normalized, " | "))
		}
	}

	return baseMessage
}

// CommandExecutionError wraps unexpected execution failures from the runner.
type CommandExecutionError struct {
	Command ToolCommand
	Cause   error
}

const commandExecutionErrorMessageTemplateConstant = "%s command execution failed"

// Error describes the underlying runner failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorMessageTemplateConstant, executionError.Command.Name)
}

// Unwrap exposes the underlying error.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// NewToolExecutor builds an executor for the provided runner and logger.
func NewToolExecutor(logger *zap.Logger, commandRunner CommandRunner, dryRun bool) (*ToolExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ToolExecutor{
		commandRunner: commandRunner,
		logger:        logger,
		dryRun:        dryRun,
	}, nil
}

// Execute runs the provided tool command and logs lifecycle events.
func (executor *ToolExecutor) Execute(executionContext context.Context, command ToolCommand) (ExecutionResult, error) {
	if len(command.Name) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	if executor.dryRun {
		executor.logger.Info(commandSkippedMessageConstant,
			zap.String(commandNameFieldNameConstant, string(command.Name)),
			zap.Strings(commandArgumentsFieldNameConstant, command.Details.Arguments),
		)
		return ExecutionResult{}, nil
	}

	executor.logger.Info(commandStartMessageConstant,
		zap.String(commandNameFieldNameConstant, string(command.Name)),
		zap.Strings(commandArgumentsFieldNameConstant, command.Details.Arguments),
		zap.String(workingDirectoryFieldNameConstant, command.Details.WorkingDirectory),
	)

	executionResult, runnerError := executor.commandRunner.Run(executionContext, command)
	if runnerError != nil {
		executor.logger.Error(commandRunnerErrorMessageConstant,
			zap.String(commandNameFieldNameConstant, string(command.Name)),
			zap.Error(runnerError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runnerError}
	}

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(commandFailureMessageConstant,
			zap.String(commandNameFieldNameConstant, string(command.Name)),
			zap.Int(exitCodeFieldNameConstant, executionResult.ExitCode),
			zap.String(standardErrorFieldNameConstant, executionResult.StandardError),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Info(commandSuccessMessageConstant,
		zap.String(commandNameFieldNameConstant, string(command.Name)),
		zap.Int(exitCodeFieldNameConstant, executionResult.ExitCode),
	)
	return executionResult, nil
}

// ExecutePip runs the pip executable with the provided details.
func (executor *ToolExecutor) ExecutePip(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ToolCommand{Name: CommandPip, Details: details})
}

// ExecutePytest runs the pytest executable with the provided details.
func (executor *ToolExecutor) ExecutePytest(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ToolCommand{Name: CommandPytest, Details: details})
}
