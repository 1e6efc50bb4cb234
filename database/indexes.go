package database

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

// IndexGuard creates the unique natural-key index of a collection once per
// process. Concurrent first callers share a single CreateOne; a failed
// attempt is retried on the next call.
type IndexGuard struct {
	group singleflight.Group
	done  sync.Map
}

func NewIndexGuard() *IndexGuard {
	return &IndexGuard{}
}

// Ensure creates a unique ascending index on keyField if this guard has not
// already done so for the collection.
func (g *IndexGuard) Ensure(ctx context.Context, coll *mongo.Collection, keyField string) error {
	id := coll.Name() + "." + keyField
	if _, ok := g.done.Load(id); ok {
		return nil
	}

	_, err, _ := g.group.Do(id, func() (interface{}, error) {
		if _, ok := g.done.Load(id); ok {
			return nil, nil
		}
		if err := CreateUniqueIndex(ctx, coll, keyField); err != nil {
			return nil, err
		}
		g.done.Store(id, struct{}{})
		return nil, nil
	})
	return err
}

// CreateUniqueIndex is idempotent on the server side: creating an identical
// index again is a no-op.
func CreateUniqueIndex(ctx context.Context, coll *mongo.Collection, keys ...string) error {
	doc := bson.D{}
	name := "uniq"
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: 1})
		name += "_" + k
	}

	index := mongo.IndexModel{
		Keys:    doc,
		Options: options.Index().SetUnique(true).SetName(name),
	}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create index %s on %s: %w", name, coll.Name(), err)
	}
	return nil
}

// CreateBaselineIndexes makes (capability, careerLevel) unique on the
// required-skills collection.
func CreateBaselineIndexes(ctx context.Context, db *mongo.Database) error {
	return CreateUniqueIndex(ctx, db.Collection(RequiredSkillsCollection), "capability", "careerLevel")
}
