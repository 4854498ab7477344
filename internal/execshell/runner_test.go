package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeEnvironmentAppendsOverridesInStableOrder(testInstance *testing.T) {
	merged := mergeEnvironment(map[string]string{
		"PYTHONPATH": "/tmp/project",
		"LC_ALL":     "C",
	})

	require.GreaterOrEqual(testInstance, len(merged), 2)
	require.Equal(testInstance, "LC_ALL=C", merged[len(merged)-2])
	require.Equal(testInstance, "PYTHONPATH=/tmp/project", merged[len(merged)-1])
}

func TestMergeEnvironmentWithoutOverridesUsesProcessEnvironment(testInstance *testing.T) {
	merged := mergeEnvironment(nil)
	require.NotEmpty(testInstance, merged)
}
