package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"skillsmatrix/database"
	"skillsmatrix/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a keyed lookup matches no document.
var ErrNotFound = errors.New("document not found")

type AssessmentRepository interface {
	CollectionName(namespace string, t models.AssessmentType) string
	EnsureUniqueIndex(ctx context.Context, namespace string, t models.AssessmentType) error
	// UpsertBatch replaces every record by its natural key in one unordered
	// bulk write, inserting when absent.
	UpsertBatch(ctx context.Context, namespace string, t models.AssessmentType, records []models.Record) (models.BatchWriteResult, error)

	FindGapRecord(ctx context.Context, namespace, email string) (*models.GapRecord, error)
	FindSelfAssessment(ctx context.Context, namespace, email string) (*models.SelfAssessment, error)
	FindManagerAssessment(ctx context.Context, namespace, email string) (*models.ManagerAssessment, error)

	ListGapRecords(ctx context.Context, namespace string) ([]models.GapRecord, error)
	ListSelfAssessments(ctx context.Context, namespace string) ([]models.SelfAssessment, error)
	ListManagerAssessments(ctx context.Context, namespace string) ([]models.ManagerAssessment, error)
	ListReportsByManager(ctx context.Context, namespace, managerName string) ([]models.Report, error)
}

type assessmentRepository struct {
	db      *mongo.Database
	naming  database.NamingPolicy
	indexes *database.IndexGuard
}

func NewAssessmentRepository(db *mongo.Database, naming database.NamingPolicy, indexes *database.IndexGuard) AssessmentRepository {
	if naming == nil {
		naming = database.PrefixNaming
	}
	if indexes == nil {
		indexes = database.NewIndexGuard()
	}
	return &assessmentRepository{
		db:      db,
		naming:  naming,
		indexes: indexes,
	}
}

func (r *assessmentRepository) CollectionName(namespace string, t models.AssessmentType) string {
	return r.naming(namespace, t.CollectionKind())
}

func (r *assessmentRepository) collection(namespace string, t models.AssessmentType) *mongo.Collection {
	return r.db.Collection(r.CollectionName(namespace, t))
}

func (r *assessmentRepository) EnsureUniqueIndex(ctx context.Context, namespace string, t models.AssessmentType) error {
	return r.indexes.Ensure(ctx, r.collection(namespace, t), t.KeyField())
}

func (r *assessmentRepository) UpsertBatch(ctx context.Context, namespace string, t models.AssessmentType, records []models.Record) (models.BatchWriteResult, error) {
	var out models.BatchWriteResult
	if len(records) == 0 {
		return out, nil
	}

	keyField := t.KeyField()
	writes := make([]mongo.WriteModel, 0, len(records))
	for _, rec := range records {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{keyField: rec.NaturalKey()}).
			SetReplacement(rec).
			SetUpsert(true))
	}

	res, err := r.collection(namespace, t).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if res != nil {
		out.Modified = res.ModifiedCount
		out.Upserted = res.UpsertedCount
	}
	if err == nil {
		return out, nil
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && len(bwe.WriteErrors) > 0 {
		for _, we := range bwe.WriteErrors {
			out.Failures = append(out.Failures, models.WriteFailure{
				Index:   we.Index,
				Code:    we.Code,
				Message: we.Message,
			})
		}
		return out, nil
	}
	return out, err
}

func (r *assessmentRepository) findOne(ctx context.Context, coll *mongo.Collection, filter bson.M, v interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (r *assessmentRepository) FindGapRecord(ctx context.Context, namespace, email string) (*models.GapRecord, error) {
	var rec models.GapRecord
	if err := r.findOne(ctx, r.collection(namespace, models.AssessmentGap), bson.M{"emailAddress": email}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *assessmentRepository) FindSelfAssessment(ctx context.Context, namespace, email string) (*models.SelfAssessment, error) {
	var rec models.SelfAssessment
	if err := r.findOne(ctx, r.collection(namespace, models.AssessmentSelf), bson.M{"emailAddress": email}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *assessmentRepository) FindManagerAssessment(ctx context.Context, namespace, email string) (*models.ManagerAssessment, error) {
	var rec models.ManagerAssessment
	if err := r.findOne(ctx, r.collection(namespace, models.AssessmentManager), bson.M{"emailOfResource": email}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func listAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sortField string) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListGapRecords returns every gap record of the namespace ordered by email,
// which is the input order the organization reductions rely on.
func (r *assessmentRepository) ListGapRecords(ctx context.Context, namespace string) ([]models.GapRecord, error) {
	return listAll[models.GapRecord](ctx, r.collection(namespace, models.AssessmentGap), bson.M{}, "emailAddress")
}

func (r *assessmentRepository) ListSelfAssessments(ctx context.Context, namespace string) ([]models.SelfAssessment, error) {
	return listAll[models.SelfAssessment](ctx, r.collection(namespace, models.AssessmentSelf), bson.M{}, "emailAddress")
}

func (r *assessmentRepository) ListManagerAssessments(ctx context.Context, namespace string) ([]models.ManagerAssessment, error) {
	return listAll[models.ManagerAssessment](ctx, r.collection(namespace, models.AssessmentManager), bson.M{}, "emailOfResource")
}

// ListReportsByManager resolves a manager's direct reports from the manager
// assessments they submitted.
func (r *assessmentRepository) ListReportsByManager(ctx context.Context, namespace, managerName string) ([]models.Report, error) {
	assessments, err := listAll[models.ManagerAssessment](ctx,
		r.collection(namespace, models.AssessmentManager),
		bson.M{"nameOfRespondent": managerName},
		"emailOfResource")
	if err != nil {
		return nil, fmt.Errorf("list reports of %q: %w", managerName, err)
	}

	seen := make(map[string]struct{}, len(assessments))
	reports := make([]models.Report, 0, len(assessments))
	for _, a := range assessments {
		email := a.EmailOfResource
		if email == "" {
			email = a.EmailAddress
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		reports = append(reports, models.Report{
			Email:       email,
			Name:        a.NameOfResource,
			CareerLevel: a.CareerLevelOfResource,
			Capability:  a.Capability,
		})
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Email < reports[j].Email })
	return reports, nil
}
