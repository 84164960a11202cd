package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/pixomat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) Store {
	st, err := New(Params{
		Config: config.Config{
			MediaRoot:    t.TempDir(),
			MediaBaseURL: "http://localhost:8080/media/",
		},
		Log: zap.NewNop(),
	})
	require.NoError(t, err)
	return st
}

func TestSaveAndURL(t *testing.T) {
	st := newTestStore(t)

	rel, err := st.Save("images/out.jpg", []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "images/out.jpg", rel)
	assert.Equal(t, "http://localhost:8080/media/images/out.jpg", st.URL(rel))

	data, err := os.ReadFile(filepath.Join(st.(*localStore).root, "images", "out.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestSaveRejectsTraversal(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Save("../escape.txt", []byte("x"))
	assert.Error(t, err)
}

func TestRemoveMissingIsNil(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.Remove("does/not/exist.bin"))
}
