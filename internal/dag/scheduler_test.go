package dag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduler_PlanEveryDependencyPrecedesDependent(t *testing.T) {
	g, err := NewGraph(map[string][]string{
		"clean": nil,
		"lint":  nil,
		"build": {"clean", "lint"},
		"test":  {"build"},
	})
	require.NoError(t, err)

	sched := NewScheduler(g, 4)
	plan, err := sched.Plan("test")
	require.NoError(t, err)
	require.Len(t, plan.Levels, 3)
	require.Equal(t, []string{"clean", "lint", "build", "test"}, plan.AllBeams())
}

func TestScheduler_MaxParallelismClamped(t *testing.T) {
	g, err := NewGraph(map[string][]string{"a": nil})
	require.NoError(t, err)

	require.GreaterOrEqual(t, NewScheduler(g, 0).MaxParallelism(), 1)
	require.GreaterOrEqual(t, NewScheduler(g, -5).MaxParallelism(), 1)
	require.Equal(t, 3, NewScheduler(g, 3).MaxParallelism())
}
