package taskreg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/makex/internal/taskreg"
)

func registerChainFixture(testInstance *testing.T) *taskreg.Registry {
	testInstance.Helper()
	registry := taskreg.NewRegistry()
	fixtureTasks := []taskreg.Task{
		{Name: "clean-pyc"},
		{Name: "clean", Prerequisites: []string{"clean-pyc"}},
		{Name: "install-requirements"},
		{Name: "test", Prerequisites: []string{"install-requirements"}},
		{Name: "black", Prerequisites: []string{"clean"}},
		{Name: "style", Prerequisites: []string{"clean"}},
		{Name: "pylint", Prerequisites: []string{"clean"}},
		{Name: "reuse-lint", Prerequisites: []string{"clean"}},
		{Name: "pre-push", Prerequisites: []string{"test", "black", "style", "pylint", "reuse-lint"}},
	}
	for _, fixtureTask := range fixtureTasks {
		require.NoError(testInstance, registry.Register(fixtureTask))
	}
	return registry
}

func taskNamesOf(executionOrder []taskreg.Task) []string {
	names := make([]string, 0, len(executionOrder))
	for _, task := range executionOrder {
		names = append(names, task.Name)
	}
	return names
}

func TestResolveExecutionOrderDeduplicatesSharedPrerequisites(testInstance *testing.T) {
	registry := registerChainFixture(testInstance)

	executionOrder, planError := registry.ResolveExecutionOrder("pre-push")
	require.NoError(testInstance, planError)
	require.Equal(testInstance, []string{
		"install-requirements",
		"test",
		"clean-pyc",
		"clean",
		"black",
		"style",
		"pylint",
		"reuse-lint",
		"pre-push",
	}, taskNamesOf(executionOrder))
}

func TestResolveExecutionOrderForLeafTask(testInstance *testing.T) {
	registry := registerChainFixture(testInstance)

	executionOrder, planError := registry.ResolveExecutionOrder("clean-pyc")
	require.NoError(testInstance, planError)
	require.Equal(testInstance, []string{"clean-pyc"}, taskNamesOf(executionOrder))
}

func TestResolveExecutionOrderRejectsUnknownRoot(testInstance *testing.T) {
	registry := registerChainFixture(testInstance)

	_, planError := registry.ResolveExecutionOrder("deploy")
	var unknownError taskreg.UnknownTaskError
	require.ErrorAs(testInstance, planError, &unknownError)
}

func TestResolveExecutionOrderRejectsUnknownPrerequisite(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "release", Prerequisites: []string{"sign"}}))

	_, planError := registry.ResolveExecutionOrder("release")
	require.ErrorContains(testInstance, planError, `depends on unknown task "sign"`)
}

func TestResolveExecutionOrderRejectsSelfDependency(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "loop", Prerequisites: []string{"loop"}}))

	_, planError := registry.ResolveExecutionOrder("loop")
	require.ErrorContains(testInstance, planError, "cannot depend on itself")
}

func TestResolveExecutionOrderDetectsCycles(testInstance *testing.T) {
	registry := taskreg.NewRegistry()
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "first", Prerequisites: []string{"second"}}))
	require.NoError(testInstance, registry.Register(taskreg.Task{Name: "second", Prerequisites: []string{"first"}}))

	_, planError := registry.ResolveExecutionOrder("first")
	require.ErrorIs(testInstance, planError, taskreg.ErrDependencyCycle)
}
