package stash

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	s := NewMemory(time.Minute)

	require.NoError(t, s.Put(context.Background(), "sess-1", []byte("payload")))

	data, ok, err := s.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
}

func TestMemoryOverwriteLastWriteWins(t *testing.T) {
	s := NewMemory(time.Minute)

	require.NoError(t, s.Put(context.Background(), "sess-1", []byte("first")))
	require.NoError(t, s.Put(context.Background(), "sess-1", []byte("second")))

	data, ok, err := s.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("second"), data)
}

func TestMemoryExpiry(t *testing.T) {
	s := NewMemory(10 * time.Millisecond)

	require.NoError(t, s.Put(context.Background(), "sess-1", []byte("payload")))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryIsolatedPerKey(t *testing.T) {
	s := NewMemory(time.Minute)

	require.NoError(t, s.Put(context.Background(), "sess-1", []byte("a")))

	_, ok, err := s.Get(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
