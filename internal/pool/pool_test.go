package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgraph/internal/pool"
)

func TestNewRejectsEmptyID(t *testing.T) {
	_, err := pool.New("", 4)
	assert.Error(t, err)
}

func TestNewRejectsNonPositiveMaxParallelism(t *testing.T) {
	_, err := pool.New("db", 0)
	assert.Error(t, err)
}

func TestNewBuildsNamedPool(t *testing.T) {
	p, err := pool.New("db", 2)
	require.NoError(t, err)
	assert.Equal(t, "db", p.ID())
	assert.False(t, p.IsDefault())
	assert.Equal(t, 2, p.EffectiveCap(10))
}

func TestNilPoolIsDefault(t *testing.T) {
	var p *pool.Pool
	assert.True(t, p.IsDefault())
	assert.Equal(t, "", p.ID())
	assert.Equal(t, 5, p.EffectiveCap(5))
}

func TestDefaultPoolUsesGlobalCap(t *testing.T) {
	assert.True(t, pool.Default.IsDefault())
	assert.Equal(t, 7, pool.Default.EffectiveCap(7))
}

func TestSame(t *testing.T) {
	a, err := pool.New("db", 2)
	require.NoError(t, err)
	b, err := pool.New("db", 9)
	require.NoError(t, err)
	c, err := pool.New("cache", 2)
	require.NoError(t, err)

	assert.True(t, pool.Same(a, b))
	assert.False(t, pool.Same(a, c))
	assert.True(t, pool.Same(nil, pool.Default))
}
