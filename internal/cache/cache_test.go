package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	var c Noop
	require.NoError(t, c.Set(t.Context(), "k", map[string]int{"a": 1}, time.Minute))

	var dest map[string]int
	hit, err := c.Get(t.Context(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, dest)
	assert.NoError(t, c.Delete(t.Context(), "k"))
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(t.Context(), "http://not-redis", "fb:")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := &RedisCache{prefix: "fb:"}
	assert.Equal(t, "fb:dashboard:u1:2026", c.key("dashboard:u1:2026"))
}
