package seed

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.Feature{}, &catalogdomain.Plan{}))
	return db
}

func TestEnsureCatalogSeedsEverything(t *testing.T) {
	db := seedDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	require.NoError(t, EnsureCatalog(db, node))

	var featureCount int64
	require.NoError(t, db.Model(&catalogdomain.Feature{}).Count(&featureCount).Error)
	assert.Equal(t, int64(len(catalogdomain.AllFeatureKeys())), featureCount)

	var pro catalogdomain.Plan
	require.NoError(t, db.Preload("Features").Where("key = ?", "pro").First(&pro).Error)
	assert.Len(t, pro.Features, len(catalogdomain.AllFeatureKeys()))

	var advanced catalogdomain.Plan
	require.NoError(t, db.Preload("Features").Where("key = ?", "advanced").First(&advanced).Error)
	expected := len(catalogdomain.Groups[catalogdomain.GroupImage]) + len(catalogdomain.Groups[catalogdomain.GroupData])
	assert.Len(t, advanced.Features, expected)
}

func TestEnsureCatalogIsIdempotent(t *testing.T) {
	db := seedDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	require.NoError(t, EnsureCatalog(db, node))

	var before []catalogdomain.Feature
	require.NoError(t, db.Order("key").Find(&before).Error)

	require.NoError(t, EnsureCatalog(db, node))

	var after []catalogdomain.Feature
	require.NoError(t, db.Order("key").Find(&after).Error)
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID, before[i].Key)
	}

	var planCount int64
	require.NoError(t, db.Model(&catalogdomain.Plan{}).Count(&planCount).Error)
	assert.Equal(t, int64(3), planCount)
}
