package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghstub/ghstub/pkg/models"
)

func TestCallCountMatchesDispatches(t *testing.T) {
	session, _, _ := newTestSession(t)
	require.NoError(t, session.Register("fetchThing", models.GraphQL, models.FromInline([]byte(`{}`))))

	for i := 0; i < 3; i++ {
		_, err := session.Dispatch(context.Background(), models.GraphQL, `query fetchThing { x }`)
		require.NoError(t, err)
	}

	count, err := session.CallCount("fetchThing")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	called, err := session.WasCalled("fetch.*")
	require.NoError(t, err)
	assert.True(t, called)

	called, err = session.WasCalled("neverDispatched")
	require.NoError(t, err)
	assert.False(t, called)
}

func TestCallCountRejectsInvalidPattern(t *testing.T) {
	session, _, _ := newTestSession(t)
	_, err := session.CallCount("([")
	assert.Error(t, err)
}

func TestAssertCalledAtLeastListsCallLog(t *testing.T) {
	session, _, _ := newTestSession(t)
	_, _ = session.Dispatch(context.Background(), models.CLI, "issue list")
	_, _ = session.Dispatch(context.Background(), models.CLI, "pr list")

	err := session.AssertCalledAtLeast("release", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue list")
	assert.Contains(t, err.Error(), "pr list")
}

func TestAssertCalledAtLeastEmptyLog(t *testing.T) {
	session, _, _ := newTestSession(t)
	err := session.AssertCalledAtLeast("anything", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no calls recorded")
}
