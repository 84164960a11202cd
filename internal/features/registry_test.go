package features

import (
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/smallbiznis/pixomat/internal/config"
	"github.com/smallbiznis/pixomat/internal/stash"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRegistryCoversEveryCatalogKey(t *testing.T) {
	registry := NewRegistry(Params{
		Config: config.Config{MockGeneration: true},
		Log:    zap.NewNop(),
		Stash:  stash.NewMemory(time.Minute),
	})

	for _, key := range catalogdomain.AllFeatureKeys() {
		_, ok := registry[key]
		assert.True(t, ok, "no handler bound for %s", key)
	}
	assert.Len(t, registry, len(catalogdomain.AllFeatureKeys()))
}
