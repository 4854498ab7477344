package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/tyemirov/makex/internal/tasks"
	"github.com/tyemirov/makex/internal/utils"
)

const (
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationFileNameConstant            = configurationNameConstant + "." + configurationTypeConstant
	environmentPrefixConstant                = "MAKEX"
	defaultConfigurationSearchPathConstant   = "."
	userConfigurationDirectoryNameConstant   = ".makex"
	xdgConfigHomeEnvironmentVariableConstant = "XDG_CONFIG_HOME"
	configurationDirectoryPermissionConstant = 0o755
	configurationFilePermissionConstant      = 0o600

	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	configurationDecodeErrorTemplateConstant = "unable to decode configuration: %w"

	initializationScopeLocalConstant                 = "local"
	initializationScopeUserConstant                  = "user"
	initializationUnsupportedScopeTemplateConstant   = "unsupported initialization scope %q"
	initializationExistingFileTemplateConstant       = "configuration file already exists at %s (use --force to overwrite)"
	initializationDirectoryErrorTemplateConstant     = "unable to ensure configuration directory %s: %w"
	initializationWriteErrorTemplateConstant         = "unable to write configuration file %s: %w"
	initializationHomeDirectoryErrorTemplateConstant = "unable to determine user home directory: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration  `mapstructure:"common"`
	Project ApplicationProjectConfiguration `mapstructure:"project"`
	Tasks   []ApplicationTaskConfiguration  `mapstructure:"tasks"`
}

// ApplicationCommonConfiguration stores logging and execution defaults.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	DryRun    bool   `mapstructure:"dry_run"`
}

// ApplicationProjectConfiguration describes the wrapped Python project.
type ApplicationProjectConfiguration struct {
	Root             string `mapstructure:"root"`
	Package          string `mapstructure:"package"`
	EntryPoint       string `mapstructure:"entry_point"`
	VenvDirectory    string `mapstructure:"venv_directory"`
	RequirementsFile string `mapstructure:"requirements_file"`
	MaxLineLength    int    `mapstructure:"max_line_length"`
}

// ApplicationTaskConfiguration declares a user-defined task.
type ApplicationTaskConfiguration struct {
	Name          string                         `mapstructure:"name"`
	Description   string                         `mapstructure:"description"`
	Prerequisites []string                       `mapstructure:"prerequisites"`
	Steps         []ApplicationStepConfiguration `mapstructure:"steps"`
}

// ApplicationStepConfiguration declares one command invocation of a user-defined task.
type ApplicationStepConfiguration struct {
	Command         string   `mapstructure:"command"`
	Arguments       []string `mapstructure:"arguments"`
	TolerateFailure bool     `mapstructure:"tolerate_failure"`
}

// DefaultApplicationConfiguration returns the built-in configuration values.
func DefaultApplicationConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Common: ApplicationCommonConfiguration{
			LogLevel:  string(utils.LogLevelInfo),
			LogFormat: string(utils.LogFormatConsole),
		},
	}
}

// ProjectConfiguration converts the project section into task collaborator form.
func (configuration ApplicationConfiguration) ProjectConfiguration() tasks.ProjectConfiguration {
	return tasks.ProjectConfiguration{
		ProjectRoot:       configuration.Project.Root,
		PackageName:       configuration.Project.Package,
		EntryPoint:        configuration.Project.EntryPoint,
		VenvDirectoryName: configuration.Project.VenvDirectory,
		RequirementsFile:  configuration.Project.RequirementsFile,
		MaxLineLength:     configuration.Project.MaxLineLength,
	}
}

// ExtraTaskDefinitions converts configured tasks into registry definitions.
func (configuration ApplicationConfiguration) ExtraTaskDefinitions() []tasks.ExtraTaskDefinition {
	definitions := make([]tasks.ExtraTaskDefinition, 0, len(configuration.Tasks))
	for _, taskConfiguration := range configuration.Tasks {
		steps := make([]tasks.ExtraStepDefinition, 0, len(taskConfiguration.Steps))
		for _, stepConfiguration := range taskConfiguration.Steps {
			steps = append(steps, tasks.ExtraStepDefinition{
				Command:         stepConfiguration.Command,
				Arguments:       stepConfiguration.Arguments,
				TolerateFailure: stepConfiguration.TolerateFailure,
			})
		}
		definitions = append(definitions, tasks.ExtraTaskDefinition{
			Name:          taskConfiguration.Name,
			Description:   taskConfiguration.Description,
			Prerequisites: taskConfiguration.Prerequisites,
			Steps:         steps,
		})
	}
	return definitions
}

// loadApplicationConfiguration resolves configuration from defaults, an
// optional file, and MAKEX-prefixed environment variables.
func loadApplicationConfiguration(configurationFilePath string) (ApplicationConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(configurationNameConstant)
	viperInstance.SetConfigType(configurationTypeConstant)
	viperInstance.SetEnvPrefix(environmentPrefixConstant)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	trimmedFilePath := strings.TrimSpace(configurationFilePath)
	if len(trimmedFilePath) > 0 {
		viperInstance.SetConfigFile(trimmedFilePath)
		if readError := viperInstance.ReadInConfig(); readError != nil {
			return ApplicationConfiguration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
		}
	} else {
		viperInstance.AddConfigPath(defaultConfigurationSearchPathConstant)
		if userDirectory, userDirectoryError := userConfigurationDirectory(); userDirectoryError == nil {
			viperInstance.AddConfigPath(userDirectory)
		}
		if readError := viperInstance.ReadInConfig(); readError != nil {
			var notFoundError viper.ConfigFileNotFoundError
			if !errors.As(readError, &notFoundError) {
				return ApplicationConfiguration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
			}
		}
	}

	configuration := DefaultApplicationConfiguration()
	decodeError := viperInstance.Unmarshal(&configuration, func(decoderConfiguration *mapstructure.DecoderConfig) {
		decoderConfiguration.ErrorUnused = false
	})
	if decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(configurationDecodeErrorTemplateConstant, decodeError)
	}
	return configuration, nil
}

func userConfigurationDirectory() (string, error) {
	xdgConfigHome := strings.TrimSpace(os.Getenv(xdgConfigHomeEnvironmentVariableConstant))
	if len(xdgConfigHome) > 0 {
		return filepath.Join(xdgConfigHome, applicationNameConstant), nil
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", fmt.Errorf(initializationHomeDirectoryErrorTemplateConstant, homeError)
	}
	return filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant), nil
}

// initializeConfigurationFile writes the embedded default configuration to the
// requested scope, refusing to overwrite an existing file unless forced.
func initializeConfigurationFile(scope string, force bool) (string, error) {
	var targetDirectory string
	switch strings.TrimSpace(scope) {
	case initializationScopeLocalConstant, "":
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return "", workingDirectoryError
		}
		targetDirectory = workingDirectory
	case initializationScopeUserConstant:
		userDirectory, userDirectoryError := userConfigurationDirectory()
		if userDirectoryError != nil {
			return "", userDirectoryError
		}
		targetDirectory = userDirectory
	default:
		return "", fmt.Errorf(initializationUnsupportedScopeTemplateConstant, scope)
	}

	if directoryError := os.MkdirAll(targetDirectory, configurationDirectoryPermissionConstant); directoryError != nil {
		return "", fmt.Errorf(initializationDirectoryErrorTemplateConstant, targetDirectory, directoryError)
	}

	targetPath := filepath.Join(targetDirectory, configurationFileNameConstant)
	if _, statError := os.Stat(targetPath); statError == nil && !force {
		return "", fmt.Errorf(initializationExistingFileTemplateConstant, targetPath)
	}

	if writeError := os.WriteFile(targetPath, defaultConfigurationContent, configurationFilePermissionConstant); writeError != nil {
		return "", fmt.Errorf(initializationWriteErrorTemplateConstant, targetPath, writeError)
	}
	return targetPath, nil
}
