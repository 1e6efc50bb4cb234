package repository

import (
	"context"
	"errors"

	"skillsmatrix/database"
	"skillsmatrix/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequiredSkillsRepository interface {
	FindBaseline(ctx context.Context, capability, careerLevel string) (*models.RequiredSkillBaseline, error)
	ListByCapability(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error)
	ListAll(ctx context.Context) ([]models.RequiredSkillBaseline, error)
}

type requiredSkillsRepository struct {
	collection *mongo.Collection
}

func NewRequiredSkillsRepository(db *mongo.Database) RequiredSkillsRepository {
	return &requiredSkillsRepository{
		collection: db.Collection(database.RequiredSkillsCollection),
	}
}

func (r *requiredSkillsRepository) FindBaseline(ctx context.Context, capability, careerLevel string) (*models.RequiredSkillBaseline, error) {
	var baseline models.RequiredSkillBaseline
	err := r.collection.FindOne(ctx, bson.M{"capability": capability, "careerLevel": careerLevel}).Decode(&baseline)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &baseline, nil
}

func (r *requiredSkillsRepository) find(ctx context.Context, filter bson.M) ([]models.RequiredSkillBaseline, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "capability", Value: 1},
		{Key: "careerLevel", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	baselines := []models.RequiredSkillBaseline{}
	if err = cursor.All(ctx, &baselines); err != nil {
		return nil, err
	}
	return baselines, nil
}

// ListByCapability returns every career level of one capability, matched
// exactly.
func (r *requiredSkillsRepository) ListByCapability(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error) {
	return r.find(ctx, bson.M{"capability": capability})
}

func (r *requiredSkillsRepository) ListAll(ctx context.Context) ([]models.RequiredSkillBaseline, error) {
	return r.find(ctx, bson.M{})
}
