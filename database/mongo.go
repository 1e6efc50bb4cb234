package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// RequiredSkillsCollection is shared by every namespace.
const RequiredSkillsCollection = "capabilityRequiredSkills"

// NamingPolicy resolves a logical namespace and collection kind to a
// physical collection name.
type NamingPolicy func(namespace, kind string) string

// PrefixNaming is the default policy: "<namespace>_<kind>".
func PrefixNaming(namespace, kind string) string {
	return namespace + "_" + kind
}

// Connect opens a client and pings the primary before returning it.
func Connect(ctx context.Context, uri string, log *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("connected to MongoDB")
	return client, nil
}

// CheckIfReplicaSet reports whether the deployment is a replica set.
func CheckIfReplicaSet(ctx context.Context, client *mongo.Client, log *zap.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result bson.M
	err := client.Database("admin").RunCommand(ctx, bson.M{"hello": 1}).Decode(&result)
	if err != nil {
		log.Warn("error checking replica set", zap.Error(err))
		return false
	}

	if setName, exists := result["setName"]; exists {
		log.Info("part of replica set", zap.Any("set_name", setName))
		return true
	}

	log.Info("not part of a replica set")
	return false
}
