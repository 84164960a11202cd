// Package seed populates the feature catalog and plans at startup. All
// inserts are idempotent on the stable keys, so restarts are safe and a
// key added to the group table shows up on the next boot.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/pixomat/internal/catalog/domain"
	"gorm.io/gorm"
)

// planGroups defines which feature groups each plan bundles. Trial and
// pro both cover everything; trial only differs in how subscriptions to
// it are issued.
var planGroups = map[string][]string{
	"advanced": {catalogdomain.GroupImage, catalogdomain.GroupData},
	"pro":      {catalogdomain.GroupImage, catalogdomain.GroupData, catalogdomain.GroupText, catalogdomain.GroupImageAI},
	"trial":    {catalogdomain.GroupImage, catalogdomain.GroupData, catalogdomain.GroupText, catalogdomain.GroupImageAI},
}

// EnsureCatalog seeds features and plans.
func EnsureCatalog(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		features, err := ensureFeatures(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensurePlans(ctx, tx, node, features)
	})
}

func ensureFeatures(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (map[string]catalogdomain.Feature, error) {
	features := make(map[string]catalogdomain.Feature)
	for _, key := range catalogdomain.AllFeatureKeys() {
		var feature catalogdomain.Feature
		err := tx.WithContext(ctx).Where("key = ?", key).First(&feature).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			feature = catalogdomain.Feature{ID: node.Generate(), Key: key}
			err = tx.WithContext(ctx).Create(&feature).Error
		}
		if err != nil {
			return nil, err
		}
		features[key] = feature
	}
	return features, nil
}

func ensurePlans(ctx context.Context, tx *gorm.DB, node *snowflake.Node, features map[string]catalogdomain.Feature) error {
	for planKey, groups := range planGroups {
		var plan catalogdomain.Plan
		err := tx.WithContext(ctx).Where("key = ?", planKey).First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			plan = catalogdomain.Plan{ID: node.Generate(), Key: planKey}
			err = tx.WithContext(ctx).Create(&plan).Error
		}
		if err != nil {
			return err
		}

		var members []catalogdomain.Feature
		for _, group := range groups {
			for _, key := range catalogdomain.Groups[group] {
				members = append(members, features[key])
			}
		}
		if err := tx.WithContext(ctx).Model(&plan).Association("Features").Replace(members); err != nil {
			return err
		}
	}
	return nil
}
