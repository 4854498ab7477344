package taskreg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/makex/internal/taskreg"
)

func recordingStep(label string, executionLog *[]string, stepError error) taskreg.Step {
	return taskreg.FuncStep{
		Description: label,
		Action: func(context.Context) error {
			*executionLog = append(*executionLog, label)
			return stepError
		},
	}
}

func TestRegisterRejectsEmptyNames(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.Error(testInstance, registry.Register(taskreg.Task{Name: "   "}))
}

func TestRegisterRejectsDuplicateNames(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "clean", Description: "Remove artifacts"}))

	registrationError := registry.Register(taskreg.Task{Name: "clean"})
	var duplicateError taskreg.DuplicateTaskError
	require.ErrorAs(testInstance, registrationError, &duplicateError)
	require.Equal(testInstance, "clean", duplicateError.TaskName)
}

func TestLookupReportsUnknownTasksWithAvailableNames(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "help", Description: "Show this help"}))
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "internal-only"}))

	_, lookupError := registry.Lookup("deploy")
	var unknownError taskreg.UnknownTaskError
	require.ErrorAs(testInstance, lookupError, &unknownError)
	require.Equal(testInstance, "deploy", unknownError.TaskName)
	require.Equal(testInstance, []string{"help"}, unknownError.AvailableTasks)
}

func TestDocumentedTasksPreserveRegistrationOrderAndOmitHiddenTasks(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "help", Description: "Show this help"}))
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "install-requirements"}))
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "install", Description: "Install the package"}))
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "test", Description: "Run the test suite"}))

	summaries := registry.DocumentedTasks()
	require.Equal(testInstance, []taskreg.TaskSummary{
		{Name: "help", Description: "Show this help"},
		{Name: "install", Description: "Install the package"},
		{Name: "test", Description: "Run the test suite"},
	}, summaries)
}

func TestHiddenReportsTasksWithoutDescriptions(testInstance *testing.T) {
	require.True(testInstance, taskreg.Task{Name: "clean-pyc"}.Hidden())
	require.True(testInstance, taskreg.Task{Name: "clean-pyc", Description: "  "}.Hidden())
	require.False(testInstance, taskreg.Task{Name: "clean", Description: "Remove artifacts"}.Hidden())
}

func TestToleratedStepsSuppressFailures(testInstance *testing.T) {
	executionLog := make([]string, 0)
	step := taskreg.Tolerated(recordingStep("remove build dir", &executionLog, errors.New("missing")))
	require.Equal(testInstance, "remove build dir", step.Describe())
	require.NoError(testInstance, step.Execute(context.Background()))
	require.Equal(testInstance, []string{"remove build dir"}, executionLog)
}
