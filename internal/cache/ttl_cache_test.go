package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheOverwrite(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Set("a", 2, time.Minute)

	v, _ := c.Get("a")
	assert.Equal(t, 2, v)
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestTTLCacheZeroTTLIsNoop(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, 0)

	_, ok := c.Get("a")
	assert.False(t, ok)
}
