// Package pois queries the POI catalog for candidates matching trip
// constraints. The catalog lives in MongoDB; an optional Redis read-through
// cache sits in front of it.
package pois

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

const collectionName = "pois"

// Query describes one catalog lookup.
type Query struct {
	Destination string
	BudgetTier  string
	MoodTags    []string
	Limit       int
}

// Filter finds POI candidates for a generation run.
type Filter interface {
	FindCandidates(ctx context.Context, q Query) ([]model.POI, error)
}

// Catalog is the Mongo-backed Filter.
type Catalog struct {
	col *mongo.Collection
	log zerolog.Logger
}

// Connect dials MongoDB and verifies connectivity.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// NewCatalog wraps the pois collection of the given database.
func NewCatalog(client *mongo.Client, database string, log zerolog.Logger) *Catalog {
	return &Catalog{col: client.Database(database).Collection(collectionName), log: log}
}

// poiDoc is the stored catalog document.
type poiDoc struct {
	PlaceID    string   `bson:"place_id"`
	Name       string   `bson:"name"`
	City       string   `bson:"city"`
	Location   geoPoint `bson:"location"`
	BudgetTier string   `bson:"budget_tier"`
	MoodTags   []string `bson:"mood_tags"`
	Rating     float64  `bson:"rating"`
}

type geoPoint struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// FindCandidates returns catalog entries matching the query, best-rated
// first. An empty result is not an error here; the pipeline decides that.
func (c *Catalog) FindCandidates(ctx context.Context, q Query) ([]model.POI, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	if q.Limit > 0 {
		opts = opts.SetLimit(int64(q.Limit))
	}

	cursor, err := c.col.Find(ctx, BuildCatalogFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("poi catalog query: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var out []model.POI
	for cursor.Next(ctx) {
		var doc poiDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("poi catalog decode: %w", err)
		}
		out = append(out, model.POI{
			PlaceID:    doc.PlaceID,
			Name:       doc.Name,
			City:       doc.City,
			Location:   model.LatLng{Lat: doc.Location.Lat, Lng: doc.Location.Lng},
			BudgetTier: doc.BudgetTier,
			MoodTags:   doc.MoodTags,
			Rating:     doc.Rating,
		})
	}
	return out, cursor.Err()
}

// BuildCatalogFilter translates a Query into the Mongo filter document.
// Destination matches the city exactly; budget matches the tier or entries
// without one; mood tags match any overlap.
func BuildCatalogFilter(q Query) bson.M {
	filter := bson.M{"city": q.Destination}
	if q.BudgetTier != "" {
		filter["budget_tier"] = bson.M{"$in": []string{q.BudgetTier, ""}}
	}
	if len(q.MoodTags) > 0 {
		filter["mood_tags"] = bson.M{"$in": q.MoodTags}
	}
	return filter
}

// HealthPing implements health.HealthPinger against the catalog database.
func (c *Catalog) HealthPing(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.col.Database().Client().Ping(ctx, nil)
}
