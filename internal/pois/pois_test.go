package pois

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildCatalogFilter(t *testing.T) {
	t.Run("destination only", func(t *testing.T) {
		f := BuildCatalogFilter(Query{Destination: "Hanoi"})
		assert.Equal(t, bson.M{"city": "Hanoi"}, f)
	})

	t.Run("budget tier includes untiered entries", func(t *testing.T) {
		f := BuildCatalogFilter(Query{Destination: "Hanoi", BudgetTier: "mid"})
		assert.Equal(t, bson.M{"$in": []string{"mid", ""}}, f["budget_tier"])
	})

	t.Run("mood tags match any overlap", func(t *testing.T) {
		f := BuildCatalogFilter(Query{Destination: "Hanoi", MoodTags: []string{"food", "history"}})
		assert.Equal(t, bson.M{"$in": []string{"food", "history"}}, f["mood_tags"])
	})
}

func TestCacheKey(t *testing.T) {
	base := Query{Destination: "Hanoi", BudgetTier: "mid", MoodTags: []string{"history", "food"}, Limit: 6}

	t.Run("tag order does not matter", func(t *testing.T) {
		swapped := base
		swapped.MoodTags = []string{"food", "history"}
		assert.Equal(t, CacheKey(base), CacheKey(swapped))
	})

	t.Run("duplicate tags collapse", func(t *testing.T) {
		duped := base
		duped.MoodTags = []string{"food", "food", "history"}
		assert.Equal(t, CacheKey(base), CacheKey(duped))
	})

	t.Run("destination is case-insensitive", func(t *testing.T) {
		upper := base
		upper.Destination = "HANOI"
		assert.Equal(t, CacheKey(base), CacheKey(upper))
	})

	t.Run("different constraints get different keys", func(t *testing.T) {
		other := base
		other.BudgetTier = "luxury"
		assert.NotEqual(t, CacheKey(base), CacheKey(other))
	})
}
