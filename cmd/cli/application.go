// Package cli assembles the makex command-line application.
package cli

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyemirov/makex/internal/execshell"
	"github.com/tyemirov/makex/internal/taskreg"
	"github.com/tyemirov/makex/internal/tasks"
	"github.com/tyemirov/makex/internal/terminal"
	"github.com/tyemirov/makex/internal/utils"
	"github.com/tyemirov/makex/internal/workspace"
)

const (
	applicationNameConstant             = "makex"
	applicationUseTemplateConstant      = "%s [task...]"
	applicationShortDescriptionConstant = "Self-documenting task runner for Python developer workflows"
	applicationLongDescriptionConstant  = "makex runs named developer tasks (install, test, lint, cleanup) with declared prerequisites, replacing a hand-maintained Makefile."

	configFileFlagNameConstant   = "config"
	configFileFlagUsageConstant  = "Optional path to a configuration file (YAML)."
	logLevelFlagNameConstant     = "log-level"
	logLevelFlagUsageConstant    = "Override the configured log level."
	logFormatFlagNameConstant    = "log-format"
	logFormatFlagUsageConstant   = "Override the configured log format (structured or console)."
	dryRunFlagNameConstant       = "dry-run"
	dryRunFlagUsageConstant      = "Log external commands without executing them."
	initFlagNameConstant         = "init"
	initFlagUsageConstant        = "Write the embedded default configuration to LOCAL (./config.yaml) or user ($XDG_CONFIG_HOME/makex/config.yaml, falling back to $HOME/.makex/config.yaml)."
	initFlagDefaultScopeConstant = "local"
	forceFlagNameConstant        = "force"
	forceFlagUsageConstant       = "Overwrite an existing configuration file when initializing."

	configurationInitializedTemplateConstant = "configuration file created at %s\n"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"

	defaultTaskNameConstant = "help"
)

//go:embed default_config.yaml
var defaultConfigurationContent []byte

// Application wires configuration, logging, and the task registry behind a
// cobra command.
type Application struct {
	rootCommand   *cobra.Command
	configuration ApplicationConfiguration
	logger        *zap.Logger
	registry      *taskreg.Registry
	runner        taskreg.Runner
}

// NewApplication constructs the makex application.
func NewApplication() *Application {
	application := &Application{}

	rootCommand := &cobra.Command{
		Use:           fmt.Sprintf(applicationUseTemplateConstant, applicationNameConstant),
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          application.run,
	}

	rootCommand.PersistentFlags().String(configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().String(logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().String(logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	rootCommand.PersistentFlags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	rootCommand.Flags().String(initFlagNameConstant, "", initFlagUsageConstant)
	rootCommand.Flags().Lookup(initFlagNameConstant).NoOptDefVal = initFlagDefaultScopeConstant
	rootCommand.Flags().Bool(forceFlagNameConstant, false, forceFlagUsageConstant)

	application.rootCommand = rootCommand
	return application
}

// Execute parses arguments and runs the requested tasks.
func Execute() error {
	return NewApplication().rootCommand.Execute()
}

func (application *Application) run(command *cobra.Command, arguments []string) error {
	if command.Flags().Changed(initFlagNameConstant) {
		scope, scopeError := command.Flags().GetString(initFlagNameConstant)
		if scopeError != nil {
			return scopeError
		}
		force, forceError := command.Flags().GetBool(forceFlagNameConstant)
		if forceError != nil {
			return forceError
		}
		writtenPath, initializationError := initializeConfigurationFile(scope, force)
		if initializationError != nil {
			return initializationError
		}
		fmt.Fprintf(command.OutOrStdout(), configurationInitializedTemplateConstant, writtenPath)
		return nil
	}

	if bootstrapError := application.bootstrap(command); bootstrapError != nil {
		return bootstrapError
	}
	defer func() {
		_ = application.logger.Sync()
	}()

	if len(arguments) == 0 {
		return application.runner.Run(command.Context(), defaultTaskNameConstant)
	}

	for _, requestedTaskName := range arguments {
		if runError := application.runner.Run(command.Context(), requestedTaskName); runError != nil {
			return runError
		}
	}
	return nil
}

// bootstrap loads configuration, creates the logger, and builds the registry.
func (application *Application) bootstrap(command *cobra.Command) error {
	configurationFilePath, configurationFlagError := command.Flags().GetString(configFileFlagNameConstant)
	if configurationFlagError != nil {
		return configurationFlagError
	}

	configuration, configurationError := loadApplicationConfiguration(configurationFilePath)
	if configurationError != nil {
		return configurationError
	}

	if logLevelOverride, flagError := command.Flags().GetString(logLevelFlagNameConstant); flagError == nil && command.Flags().Changed(logLevelFlagNameConstant) {
		configuration.Common.LogLevel = strings.TrimSpace(logLevelOverride)
	}
	if logFormatOverride, flagError := command.Flags().GetString(logFormatFlagNameConstant); flagError == nil && command.Flags().Changed(logFormatFlagNameConstant) {
		configuration.Common.LogFormat = strings.TrimSpace(logFormatOverride)
	}
	if dryRunOverride, flagError := command.Flags().GetBool(dryRunFlagNameConstant); flagError == nil && command.Flags().Changed(dryRunFlagNameConstant) {
		configuration.Common.DryRun = dryRunOverride
	}
	application.configuration = configuration

	createdLogger, loggerError := utils.NewLoggerFactory().CreateLogger(
		utils.LogLevel(configuration.Common.LogLevel),
		utils.LogFormat(configuration.Common.LogFormat),
	)
	if loggerError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
	}
	application.logger = createdLogger

	toolExecutor, executorError := execshell.NewToolExecutor(createdLogger, execshell.NewOSCommandRunner(), configuration.Common.DryRun)
	if executorError != nil {
		return executorError
	}

	outputWriter := command.OutOrStdout()
	registry := taskreg.NewRegistry()
	dependencies := tasks.Dependencies{
		Executor: toolExecutor,
		Cleaner:  workspace.NewCleaner(createdLogger),
		Walker:   workspace.NewWalker(),
		Output:   outputWriter,
		Palette:  terminal.NewPalette(command.ErrOrStderr()),
		Logger:   createdLogger,
	}

	projectConfiguration := configuration.ProjectConfiguration()
	if registrationError := tasks.RegisterStandardTasks(registry, projectConfiguration, dependencies); registrationError != nil {
		return registrationError
	}
	if registrationError := tasks.RegisterExtraTasks(registry, projectConfiguration, dependencies, configuration.ExtraTaskDefinitions()); registrationError != nil {
		return registrationError
	}

	application.registry = registry
	application.runner = taskreg.NewRunner(registry, createdLogger)
	return nil
}
