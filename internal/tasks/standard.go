// Package tasks declares the built-in developer workflow task set.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tyemirov/makex/internal/execshell"
	"github.com/tyemirov/makex/internal/taskreg"
	"github.com/tyemirov/makex/internal/terminal"
	"github.com/tyemirov/makex/internal/workspace"
)

const (
	helpTaskNameConstant                = "help"
	installTaskNameConstant             = "install"
	uninstallTaskNameConstant           = "uninstall"
	installRequirementsTaskNameConstant = "install-requirements"
	prePushTaskNameConstant             = "pre-push"
	testTaskNameConstant                = "test"
	blackTaskNameConstant               = "black"
	styleTaskNameConstant               = "style"
	pylintTaskNameConstant              = "pylint"
	reuseLintTaskNameConstant           = "reuse-lint"
	cleanTaskNameConstant               = "clean"
	cleanPycTaskNameConstant            = "clean-pyc"

	helpTaskDescriptionConstant                = "List available tasks"
	installTaskDescriptionConstant             = "Install the package and verify its CLI entry point"
	uninstallTaskDescriptionConstant           = "Uninstall the package"
	installRequirementsTaskDescriptionConstant = "Install pinned requirements"
	prePushTaskDescriptionConstant             = "Run the full local CI chain"
	testTaskDescriptionConstant                = "Run the test suite"
	blackTaskDescriptionConstant               = "Reformat Python sources"
	styleTaskDescriptionConstant               = "Check code style"
	pylintTaskDescriptionConstant              = "Lint every Python source"
	reuseLintTaskDescriptionConstant           = "Check license-header compliance"
	cleanTaskDescriptionConstant               = "Remove build artifacts"

	executorNotConfiguredMessageConstant = "standard tasks require a tool executor"
	registryNotConfiguredMessageConstant = "standard tasks require a registry"

	defaultVenvDirectoryNameConstant = "venv"
	defaultRequirementsFileConstant  = "requirements.txt"
	defaultMaxLineLengthConstant     = 90
	pythonSourcePatternConstant      = "*.py"

	printHelpStepDescriptionConstant      = "print task listing"
	cleanArtifactsStepDescriptionConstant = "remove compiled artifacts and caches"
	formatSourcesStepDescriptionConstant  = "format Python sources with black"
	lintSourcesStepDescriptionConstant    = "lint Python sources with pylint"
	noSourcesSkippedMessageConstant       = "no Python sources found"

	maxLineLengthArgumentTemplateConstant = "--max-line-length=%d"
)

// Sentinel errors for missing collaborators.
var (
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	ErrRegistryNotConfigured = errors.New(registryNotConfiguredMessageConstant)
)

// ProjectConfiguration describes the Python project the tasks operate on.
type ProjectConfiguration struct {
	ProjectRoot       string
	PackageName       string
	EntryPoint        string
	VenvDirectoryName string
	RequirementsFile  string
	MaxLineLength     int
}

// Sanitize fills defaults for omitted fields.
func (configuration ProjectConfiguration) Sanitize() ProjectConfiguration {
	configuration.ProjectRoot = strings.TrimSpace(configuration.ProjectRoot)
	if len(configuration.ProjectRoot) == 0 {
		configuration.ProjectRoot = "."
	}
	configuration.PackageName = strings.TrimSpace(configuration.PackageName)
	configuration.EntryPoint = strings.TrimSpace(configuration.EntryPoint)
	if len(configuration.EntryPoint) == 0 {
		configuration.EntryPoint = configuration.PackageName
	}
	if len(strings.TrimSpace(configuration.VenvDirectoryName)) == 0 {
		configuration.VenvDirectoryName = defaultVenvDirectoryNameConstant
	}
	if len(strings.TrimSpace(configuration.RequirementsFile)) == 0 {
		configuration.RequirementsFile = defaultRequirementsFileConstant
	}
	if configuration.MaxLineLength <= 0 {
		configuration.MaxLineLength = defaultMaxLineLengthConstant
	}
	return configuration
}

// Dependencies carries the collaborators required by the standard tasks.
type Dependencies struct {
	Executor *execshell.ToolExecutor
	Cleaner  workspace.Cleaner
	Walker   workspace.Walker
	Output   io.Writer
	Palette  terminal.Palette
	Logger   *zap.Logger
}

// RegisterStandardTasks populates the registry with the built-in workflow.
func RegisterStandardTasks(registry *taskreg.Registry, configuration ProjectConfiguration, dependencies Dependencies) error {
	if registry == nil {
		return ErrRegistryNotConfigured
	}
	if dependencies.Executor == nil {
		return ErrExecutorNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	configuration = configuration.Sanitize()

	builder := standardTaskBuilder{
		registry:      registry,
		configuration: configuration,
		dependencies:  dependencies,
	}
	return builder.registerAll()
}

type standardTaskBuilder struct {
	registry      *taskreg.Registry
	configuration ProjectConfiguration
	dependencies  Dependencies
}

func (builder standardTaskBuilder) registerAll() error {
	declaredTasks := []taskreg.Task{
		builder.helpTask(),
		builder.installTask(),
		builder.uninstallTask(),
		builder.installRequirementsTask(),
		builder.prePushTask(),
		builder.testTask(),
		builder.blackTask(),
		builder.styleTask(),
		builder.pylintTask(),
		builder.reuseLintTask(),
		builder.cleanTask(),
		builder.cleanPycTask(),
	}
	for _, declaredTask := range declaredTasks {
		if registrationError := builder.registry.Register(declaredTask); registrationError != nil {
			return registrationError
		}
	}
	return nil
}

func (builder standardTaskBuilder) commandStep(commandName execshell.CommandName, arguments ...string) taskreg.Step {
	return CommandStep{
		Executor:         builder.dependencies.Executor,
		CommandName:      commandName,
		Arguments:        arguments,
		WorkingDirectory: builder.configuration.ProjectRoot,
		Environment:      pythonPathEnvironment(builder.configuration.ProjectRoot),
	}
}

func (builder standardTaskBuilder) helpTask() taskreg.Task {
	return taskreg.Task{
		Name:        helpTaskNameConstant,
		Description: helpTaskDescriptionConstant,
		Steps: []taskreg.Step{taskreg.FuncStep{
			Description: printHelpStepDescriptionConstant,
			Action: func(context.Context) error {
				if builder.dependencies.Output == nil {
					return nil
				}
				_, writeError := fmt.Fprint(builder.dependencies.Output, taskreg.RenderListing(builder.registry.DocumentedTasks()))
				return writeError
			},
		}},
	}
}

func (builder standardTaskBuilder) installTask() taskreg.Task {
	steps := []taskreg.Step{builder.commandStep(execshell.CommandPip, "install", builder.configuration.ProjectRoot)}
	if len(builder.configuration.EntryPoint) > 0 {
		steps = append(steps, verificationStep{
			executor:   builder.dependencies.Executor,
			entryPoint: builder.configuration.EntryPoint,
			output:     builder.dependencies.Output,
			palette:    builder.dependencies.Palette,
		})
	}
	return taskreg.Task{
		Name:          installTaskNameConstant,
		Description:   installTaskDescriptionConstant,
		Prerequisites: []string{installRequirementsTaskNameConstant},
		Steps:         steps,
	}
}

func (builder standardTaskBuilder) uninstallTask() taskreg.Task {
	packageName := builder.configuration.PackageName
	if len(packageName) == 0 {
		packageName = builder.configuration.EntryPoint
	}
	return taskreg.Task{
		Name:          uninstallTaskNameConstant,
		Description:   uninstallTaskDescriptionConstant,
		Prerequisites: []string{cleanTaskNameConstant},
		Steps: []taskreg.Step{
			builder.commandStep(execshell.CommandPip, "uninstall", "--yes", packageName),
		},
	}
}

func (builder standardTaskBuilder) installRequirementsTask() taskreg.Task {
	return taskreg.Task{
		Name:        installRequirementsTaskNameConstant,
		Description: installRequirementsTaskDescriptionConstant,
		Steps: []taskreg.Step{
			builder.commandStep(execshell.CommandPip, "install", "--no-cache-dir", "-r", builder.configuration.RequirementsFile),
		},
	}
}

func (builder standardTaskBuilder) prePushTask() taskreg.Task {
	return taskreg.Task{
		Name:        prePushTaskNameConstant,
		Description: prePushTaskDescriptionConstant,
		Prerequisites: []string{
			testTaskNameConstant,
			blackTaskNameConstant,
			styleTaskNameConstant,
			pylintTaskNameConstant,
			reuseLintTaskNameConstant,
		},
	}
}

func (builder standardTaskBuilder) testTask() taskreg.Task {
	return taskreg.Task{
		Name:          testTaskNameConstant,
		Description:   testTaskDescriptionConstant,
		Prerequisites: []string{installRequirementsTaskNameConstant},
		Steps: []taskreg.Step{
			builder.commandStep(execshell.CommandPytest, "-vx"),
		},
	}
}

func (builder standardTaskBuilder) discoverPythonSources() ([]string, error) {
	return builder.dependencies.Walker.Walk(workspace.WalkRequest{
		Root:                builder.configuration.ProjectRoot,
		IncludePatterns:     []string{pythonSourcePatternConstant},
		ExcludedDirectories: []string{builder.configuration.VenvDirectoryName},
	})
}

func (builder standardTaskBuilder) blackTask() taskreg.Task {
	return taskreg.Task{
		Name:          blackTaskNameConstant,
		Description:   blackTaskDescriptionConstant,
		Prerequisites: []string{cleanTaskNameConstant},
		Steps: []taskreg.Step{taskreg.FuncStep{
			Description: formatSourcesStepDescriptionConstant,
			Action: func(executionContext context.Context) error {
				sourcePaths, discoveryError := builder.discoverPythonSources()
				if discoveryError != nil {
					return discoveryError
				}
				if len(sourcePaths) == 0 {
					builder.dependencies.Logger.Debug(noSourcesSkippedMessageConstant)
					return nil
				}
				return builder.commandStep(execshell.CommandBlack, sourcePaths...).Execute(executionContext)
			},
		}},
	}
}

func (builder standardTaskBuilder) styleTask() taskreg.Task {
	maxLineLengthArgument := fmt.Sprintf(maxLineLengthArgumentTemplateConstant, builder.configuration.MaxLineLength)
	return taskreg.Task{
		Name:          styleTaskNameConstant,
		Description:   styleTaskDescriptionConstant,
		Prerequisites: []string{cleanTaskNameConstant},
		Steps: []taskreg.Step{taskreg.FuncStep{
			Description: fmt.Sprintf("check style with pycodestyle %s", maxLineLengthArgument),
			Action: func(executionContext context.Context) error {
				sourcePaths, discoveryError := builder.discoverPythonSources()
				if discoveryError != nil {
					return discoveryError
				}
				if len(sourcePaths) == 0 {
					builder.dependencies.Logger.Debug(noSourcesSkippedMessageConstant)
					return nil
				}
				arguments := append([]string{maxLineLengthArgument}, sourcePaths...)
				return builder.commandStep(execshell.CommandPycodestyle, arguments...).Execute(executionContext)
			},
		}},
	}
}

func (builder standardTaskBuilder) pylintTask() taskreg.Task {
	return taskreg.Task{
		Name:          pylintTaskNameConstant,
		Description:   pylintTaskDescriptionConstant,
		Prerequisites: []string{cleanTaskNameConstant},
		Steps: []taskreg.Step{taskreg.FuncStep{
			Description: lintSourcesStepDescriptionConstant,
			Action: func(executionContext context.Context) error {
				sourcePaths, discoveryError := builder.discoverPythonSources()
				if discoveryError != nil {
					return discoveryError
				}
				// One invocation per file, stopping at the first failing file.
				for _, sourcePath := range sourcePaths {
					if lintError := builder.commandStep(execshell.CommandPylint, "--disable=duplicate-code", sourcePath).Execute(executionContext); lintError != nil {
						return lintError
					}
				}
				return nil
			},
		}},
	}
}

func (builder standardTaskBuilder) reuseLintTask() taskreg.Task {
	return taskreg.Task{
		Name:          reuseLintTaskNameConstant,
		Description:   reuseLintTaskDescriptionConstant,
		Prerequisites: []string{cleanTaskNameConstant},
		Steps: []taskreg.Step{
			builder.commandStep(execshell.CommandReuse, "lint"),
		},
	}
}

// cleanTask intentionally adds nothing beyond its prerequisite today; it stays
// a separate task so future cleanup steps have a place to land.
func (builder standardTaskBuilder) cleanTask() taskreg.Task {
	return taskreg.Task{
		Name:          cleanTaskNameConstant,
		Description:   cleanTaskDescriptionConstant,
		Prerequisites: []string{cleanPycTaskNameConstant},
	}
}

func (builder standardTaskBuilder) cleanPycTask() taskreg.Task {
	return taskreg.Task{
		Name: cleanPycTaskNameConstant,
		Steps: []taskreg.Step{taskreg.Tolerated(taskreg.FuncStep{
			Description: cleanArtifactsStepDescriptionConstant,
			Action: func(context.Context) error {
				_, cleanError := builder.dependencies.Cleaner.Clean(workspace.CleanRequest{Root: builder.configuration.ProjectRoot})
				return cleanError
			},
		})},
	}
}
