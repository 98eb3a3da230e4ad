package filter_test

import (
	"testing"

	"github.com/cey0225/kon/assert"
	"github.com/cey0225/kon/filter"
)

var view = filter.EntityView{
	Components: []string{"Position", "Velocity"},
	Tags:       []string{"enemy"},
}

func TestContains(t *testing.T) {
	t.Parallel()
	assert.True(t, filter.Contains("Position").Matches(view))
	assert.True(t, filter.Contains("Position", "Velocity").Matches(view))
	assert.False(t, filter.Contains("Position", "Health").Matches(view))
	assert.True(t, filter.Contains().Matches(view))
}

func TestExact(t *testing.T) {
	t.Parallel()
	assert.True(t, filter.Exact("Position", "Velocity").Matches(view))
	assert.True(t, filter.Exact("Velocity", "Position").Matches(view))
	assert.False(t, filter.Exact("Position").Matches(view))
	assert.False(t, filter.Exact("Position", "Velocity", "Health").Matches(view))
}

func TestTagged(t *testing.T) {
	t.Parallel()
	assert.True(t, filter.Tagged("enemy").Matches(view))
	assert.False(t, filter.Tagged("enemy", "frozen").Matches(view))
	assert.False(t, filter.Tagged("boss").Matches(view))
}

func TestCombinators(t *testing.T) {
	t.Parallel()
	assert.True(t, filter.And(filter.Contains("Position"), filter.Tagged("enemy")).Matches(view))
	assert.False(t, filter.And(filter.Contains("Position"), filter.Tagged("boss")).Matches(view))
	assert.True(t, filter.Or(filter.Tagged("boss"), filter.Contains("Velocity")).Matches(view))
	assert.False(t, filter.Or(filter.Tagged("boss"), filter.Contains("Health")).Matches(view))
	assert.True(t, filter.Not(filter.Tagged("boss")).Matches(view))
	assert.False(t, filter.Not(filter.All()).Matches(view))
	assert.True(t, filter.All().Matches(filter.EntityView{}))
}
