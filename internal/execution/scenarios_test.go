package execution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tat/internal/domain"
)

func TestScenarios(t *testing.T) {
	scenarios := Scenarios()
	require.Len(t, scenarios, 3)

	ids := []string{"Pos_UI_01", "Pos_UI_0002", "Neg_UI_0001"}
	for i, sc := range scenarios {
		assert.Equal(t, ids[i], sc.ID())
	}
}

func TestScenarios_AgainstWorkingApp(t *testing.T) {
	r := NewRunnerWithTiming(testTiming(), nil)

	for _, sc := range Scenarios() {
		t.Run(sc.ID(), func(t *testing.T) {
			res := r.RunScenario(context.Background(), &fakeSurface{}, sc)
			assert.NoError(t, res.Err)
			assert.Equal(t, domain.StatusPass, res.Status)
		})
	}
}

func TestScenarios_StaleOutputAfterDeletion(t *testing.T) {
	r := NewRunnerWithTiming(testTiming(), nil)
	sc := Scenarios()[2]

	res := r.RunScenario(context.Background(), &fakeSurface{stale: true}, sc)

	assert.Equal(t, domain.StatusFail, res.Status)
	var ae *AssertionError
	require.ErrorAs(t, res.Err, &ae)
	assert.Equal(t, "toHaveText", ae.Matcher)
	assert.Equal(t, "මම ගෙදර යනවා සහ පස්සෙ කෑම කනවා", ae.Received)
}

func TestScenarios_ClearLeavesInputAndOutputEmpty(t *testing.T) {
	r := NewRunnerWithTiming(testTiming(), nil)
	s := &fakeSurface{}

	res := r.RunScenario(context.Background(), s, Scenarios()[1])

	require.NoError(t, res.Err)
	assert.Empty(t, s.input)
	assert.Empty(t, s.output)
}
