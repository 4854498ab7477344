package taskreg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tyemirov/makex/internal/taskreg"
)

func TestRunnerExecutesPrerequisiteClosureExactlyOnce(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	executionLog := make([]string, 0)

	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:  "clean-pyc",
		Steps: []taskreg.Step{recordingStep("clean-pyc", &executionLog, nil)},
	}))
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:          "clean",
		Prerequisites: []string{"clean-pyc"},
	}))
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:          "black",
		Prerequisites: []string{"clean"},
		Steps:         []taskreg.Step{recordingStep("black", &executionLog, nil)},
	}))
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:          "style",
		Prerequisites: []string{"clean"},
		Steps:         []taskreg.Step{recordingStep("style", &executionLog, nil)},
	}))
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:          "pre-push",
		Prerequisites: []string{"black", "style"},
		Steps:         []taskreg.Step{recordingStep("pre-push", &executionLog, nil)},
	}))

	runner := taskreg.NewRunner(registry, zap.NewNop())
	require.NoError(testInstance, runner.Run(context.Background(), "pre-push"))
	require.Equal(testInstance, []string{"clean-pyc", "black", "style", "pre-push"}, executionLog)
}

func TestRunnerStopsChainAtFirstFailingStep(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	executionLog := make([]string, 0)
	testFailure := errors.New("2 tests failed")

	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:  "test",
		Steps: []taskreg.Step{recordingStep("run pytest", &executionLog, testFailure)},
	}))
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:  "black",
		Steps: []taskreg.Step{recordingStep("run black", &executionLog, nil)},
	}))
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:          "pre-push",
		Prerequisites: []string{"test", "black"},
	}))

	runner := taskreg.NewRunner(registry, zap.NewNop())
	runError := runner.Run(context.Background(), "pre-push")

	var failure taskreg.TaskFailedError
	require.ErrorAs(testInstance, runError, &failure)
	require.Equal(testInstance, "test", failure.TaskName)
	require.Equal(testInstance, "run pytest", failure.StepDescription)
	require.ErrorIs(testInstance, runError, testFailure)
	require.Equal(testInstance, []string{"run pytest"}, executionLog)
}

func TestRunnerExecutesNothingForUnknownTasks(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	executionLog := make([]string, 0)
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:  "clean",
		Steps: []taskreg.Step{recordingStep("clean", &executionLog, nil)},
	}))

	runner := taskreg.NewRunner(registry, zap.NewNop())
	runError := runner.Run(context.Background(), "deploy")

	var unknownError taskreg.UnknownTaskError
	require.ErrorAs(testInstance, runError, &unknownError)
	require.Empty(testInstance, executionLog)
}

func TestRunnerHonorsCanceledContexts(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	executionLog := make([]string, 0)
	require.NoError(testInstance, registry.Register(taskreg.Task{
		Name:  "test",
		Steps: []taskreg.Step{recordingStep("run pytest", &executionLog, nil)},
	}))

	canceledContext, cancelFunction := context.WithCancel(context.Background())
	cancelFunction()

	runner := taskreg.NewRunner(registry, zap.NewNop())
	runError := runner.Run(canceledContext, "test")

	require.ErrorIs(testInstance, runError, context.Canceled)
	require.Empty(testInstance, executionLog)
}
