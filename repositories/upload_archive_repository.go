package repository

import (
	"bytes"
	"context"
	"fmt"

	"skillsmatrix/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UploadBucket is the GridFS bucket holding raw ingestion payloads.
const UploadBucket = "assessmentUploads"

type UploadArchiveRepository interface {
	Archive(ctx context.Context, meta models.UploadMetadata, payload []byte) (primitive.ObjectID, error)
}

type uploadArchiveRepository struct {
	db *mongo.Database
}

func NewUploadArchiveRepository(db *mongo.Database) UploadArchiveRepository {
	return &uploadArchiveRepository{db: db}
}

// Archive stores payload as one GridFS file named after the namespace,
// assessment type and upload time.
func (r *uploadArchiveRepository) Archive(ctx context.Context, meta models.UploadMetadata, payload []byte) (primitive.ObjectID, error) {
	// Buckets carry their own deadline, so one is built per upload.
	bucket, err := gridfs.NewBucket(r.db, options.GridFSBucket().SetName(UploadBucket))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to open GridFS bucket: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return primitive.NilObjectID, err
		}
	}

	filename := fmt.Sprintf("%s_%s_%s.json", meta.Namespace, meta.AssessmentType, meta.UploadedAt.UTC().Format("20060102T150405Z"))
	uploadOpts := options.GridFSUpload().SetMetadata(meta)

	fileID, err := bucket.UploadFromStream(filename, bytes.NewReader(payload), uploadOpts)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to upload file to GridFS: %w", err)
	}
	return fileID, nil
}
