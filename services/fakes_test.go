package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"skillsmatrix/database"
	"skillsmatrix/models"
	repository "skillsmatrix/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAssessmentRepo keeps records in memory keyed by collection and
// natural key, replacing on upsert.
type fakeAssessmentRepo struct {
	mu sync.Mutex

	stored     map[string]map[string]models.Record
	batchSizes []int

	// upsertErr, when set, decides the outcome of the n-th batch (0-based).
	upsertErr func(batch int) error
	failures  func(batch int) []models.WriteFailure
	indexErr  error

	gaps     map[string]*models.GapRecord
	selfs    map[string]*models.SelfAssessment
	managers map[string]*models.ManagerAssessment

	gapErr     error
	selfErr    error
	managerErr error
	listErr    error

	reports []models.Report

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	block       chan struct{}
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		stored:   make(map[string]map[string]models.Record),
		gaps:     make(map[string]*models.GapRecord),
		selfs:    make(map[string]*models.SelfAssessment),
		managers: make(map[string]*models.ManagerAssessment),
	}
}

func (f *fakeAssessmentRepo) CollectionName(namespace string, t models.AssessmentType) string {
	return database.PrefixNaming(namespace, t.CollectionKind())
}

func (f *fakeAssessmentRepo) EnsureUniqueIndex(ctx context.Context, namespace string, t models.AssessmentType) error {
	return f.indexErr
}

func (f *fakeAssessmentRepo) UpsertBatch(ctx context.Context, namespace string, t models.AssessmentType, records []models.Record) (models.BatchWriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := len(f.batchSizes)
	f.batchSizes = append(f.batchSizes, len(records))

	var res models.BatchWriteResult
	if f.upsertErr != nil {
		if err := f.upsertErr(batch); err != nil {
			return res, err
		}
	}

	rejected := map[int]bool{}
	if f.failures != nil {
		res.Failures = f.failures(batch)
		for _, wf := range res.Failures {
			rejected[wf.Index] = true
		}
	}

	coll := f.CollectionName(namespace, t)
	if f.stored[coll] == nil {
		f.stored[coll] = make(map[string]models.Record)
	}
	for i, rec := range records {
		if rejected[i] {
			continue
		}
		if _, ok := f.stored[coll][rec.NaturalKey()]; ok {
			res.Modified++
		} else {
			res.Upserted++
		}
		f.stored[coll][rec.NaturalKey()] = rec
	}
	return res, nil
}

func (f *fakeAssessmentRepo) track() func() {
	n := f.inFlight.Add(1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeAssessmentRepo) FindGapRecord(ctx context.Context, namespace, email string) (*models.GapRecord, error) {
	defer f.track()()
	if f.block != nil {
		<-f.block
	}
	if f.gapErr != nil {
		return nil, f.gapErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.gaps[email]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssessmentRepo) FindSelfAssessment(ctx context.Context, namespace, email string) (*models.SelfAssessment, error) {
	if f.selfErr != nil {
		return nil, f.selfErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.selfs[email]; ok {
		return rec, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssessmentRepo) FindManagerAssessment(ctx context.Context, namespace, email string) (*models.ManagerAssessment, error) {
	if f.managerErr != nil {
		return nil, f.managerErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.managers[email]; ok {
		return rec, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssessmentRepo) ListGapRecords(ctx context.Context, namespace string) ([]models.GapRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.GapRecord{}
	for _, email := range sortedKeys(f.gaps) {
		out = append(out, *f.gaps[email])
	}
	return out, nil
}

func (f *fakeAssessmentRepo) ListSelfAssessments(ctx context.Context, namespace string) ([]models.SelfAssessment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.SelfAssessment{}
	for _, email := range sortedKeys(f.selfs) {
		out = append(out, *f.selfs[email])
	}
	return out, nil
}

func (f *fakeAssessmentRepo) ListManagerAssessments(ctx context.Context, namespace string) ([]models.ManagerAssessment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.ManagerAssessment{}
	for _, email := range sortedKeys(f.managers) {
		out = append(out, *f.managers[email])
	}
	return out, nil
}

func (f *fakeAssessmentRepo) ListReportsByManager(ctx context.Context, namespace, managerName string) ([]models.Report, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reports, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fakeRequiredRepo struct {
	baselines []models.RequiredSkillBaseline
	err       error
}

func (f *fakeRequiredRepo) FindBaseline(ctx context.Context, capability, careerLevel string) (*models.RequiredSkillBaseline, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.baselines {
		if b.Capability == capability && b.CareerLevel == careerLevel {
			b := b
			return &b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRequiredRepo) ListByCapability(ctx context.Context, capability string) ([]models.RequiredSkillBaseline, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.RequiredSkillBaseline{}
	for _, b := range f.baselines {
		if b.Capability == capability {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRequiredRepo) ListAll(ctx context.Context) ([]models.RequiredSkillBaseline, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.baselines, nil
}

type fakeArchive struct {
	calls []models.UploadMetadata
	err   error
}

func (f *fakeArchive) Archive(ctx context.Context, meta models.UploadMetadata, payload []byte) (primitive.ObjectID, error) {
	f.calls = append(f.calls, meta)
	if f.err != nil {
		return primitive.NilObjectID, f.err
	}
	return primitive.NewObjectID(), nil
}

type fakeInvalidator struct {
	namespaces []string
	err        error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, namespace string) error {
	f.namespaces = append(f.namespaces, namespace)
	return f.err
}

func selfJSON(i int) string {
	return fmt.Sprintf(`{
		"timestamp": "2024-03-01T10:00:00Z",
		"emailAddress": "user%d@example.com",
		"nameOfResource": "User %d",
		"careerLevelOfResource": "Professional I",
		"nameOfRespondent": "User %d",
		"capability": "QA",
		"skills": {"softwareTesting": 4, "communication": 3}
	}`, i, i, i)
}
