package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"skillsmatrix/config"
	"skillsmatrix/matrix"
	"skillsmatrix/metrics"
	"skillsmatrix/models"
	repository "skillsmatrix/repositories"
	"skillsmatrix/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BatchSize is the number of records sent in one unordered bulk write.
const BatchSize = 1000

// CacheInvalidator drops cached aggregates of a namespace.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, namespace string) error
}

type AssessmentService interface {
	BulkUpsert(ctx context.Context, req models.BulkUpdateRequest, uploadedBy string) (*models.BulkUpsertResult, error)
	RecomputeGaps(ctx context.Context, namespace string) (*models.BulkUpsertResult, error)
}

type assessmentService struct {
	repo     repository.AssessmentRepository
	required repository.RequiredSkillsRepository
	archive  repository.UploadArchiveRepository
	cache    CacheInvalidator

	defaultNamespace string
	archiveUploads   bool

	log *zap.Logger
	now func() time.Time
}

// NewAssessmentService wires the ingestion pipeline. archive and cache may
// be nil.
func NewAssessmentService(
	repo repository.AssessmentRepository,
	required repository.RequiredSkillsRepository,
	archive repository.UploadArchiveRepository,
	cache CacheInvalidator,
	cfg config.Config,
	log *zap.Logger,
) AssessmentService {
	return &assessmentService{
		repo:             repo,
		required:         required,
		archive:          archive,
		cache:            cache,
		defaultNamespace: cfg.DefaultNamespace,
		archiveUploads:   cfg.ArchiveUploads,
		log:              log,
		now:              time.Now,
	}
}

func (s *assessmentService) namespace(prefix string) string {
	if prefix != "" {
		return prefix
	}
	return s.defaultNamespace
}

func (s *assessmentService) BulkUpsert(ctx context.Context, req models.BulkUpdateRequest, uploadedBy string) (*models.BulkUpsertResult, error) {
	if !req.AssessmentType.Valid() {
		return nil, newValidationError("invalid assessment type", map[string]string{"assessmentType": string(req.AssessmentType)})
	}
	if req.Data == nil {
		return nil, newValidationError("data must be a list of records", nil)
	}

	records, err := decodeRecords(req.AssessmentType, req.Data)
	if err != nil {
		return nil, err
	}

	ns := s.namespace(req.Prefix)
	s.archivePayload(ctx, ns, req, uploadedBy)

	result := s.upsert(ctx, ns, req.AssessmentType, records)

	s.log.Info("bulk upsert finished",
		zap.String("collection", s.repo.CollectionName(ns, req.AssessmentType)),
		zap.Int("records", len(records)),
		zap.Int64("updated", result.UpdatedCount),
		zap.Int("failed_batches", len(result.Errors)),
		zap.String("uploaded_by", uploadedBy))
	return result, nil
}

// RecomputeGaps derives a gap record for every employee with a self or
// manager assessment and writes them through the batch pipeline.
func (s *assessmentService) RecomputeGaps(ctx context.Context, namespace string) (*models.BulkUpsertResult, error) {
	ns := s.namespace(namespace)

	selfs, err := s.repo.ListSelfAssessments(ctx, ns)
	if err != nil {
		return nil, unknown("list self assessments", err)
	}
	managers, err := s.repo.ListManagerAssessments(ctx, ns)
	if err != nil {
		return nil, unknown("list manager assessments", err)
	}
	baselines, err := s.required.ListAll(ctx)
	if err != nil {
		return nil, unknown("list required skills", err)
	}

	required := make(map[string]models.SkillRatings, len(baselines))
	for _, b := range baselines {
		required[b.Capability+"|"+b.CareerLevel] = b.RequiredSkills
	}
	byReport := make(map[string]models.ManagerAssessment, len(managers))
	for _, m := range managers {
		byReport[m.EmailOfResource] = m
	}

	records := make([]models.Record, 0, len(selfs)+len(managers))
	seen := make(map[string]struct{}, len(selfs))
	for _, self := range selfs {
		seen[self.EmailAddress] = struct{}{}
		rec := matrix.DeriveGapRecord(self, byReport[self.EmailAddress].Skills,
			required[self.Capability+"|"+self.CareerLevelOfResource])
		records = append(records, &rec)
	}
	for _, m := range managers {
		if _, ok := seen[m.EmailOfResource]; ok {
			continue
		}
		identity := models.SelfAssessment{Assessment: models.Assessment{
			EmailAddress:          m.EmailOfResource,
			NameOfResource:        m.NameOfResource,
			CareerLevelOfResource: m.CareerLevelOfResource,
			Capability:            m.Capability,
		}}
		rec := matrix.DeriveGapRecord(identity, m.Skills, required[m.Capability+"|"+m.CareerLevelOfResource])
		records = append(records, &rec)
	}

	result := s.upsert(ctx, ns, models.AssessmentGap, records)
	s.log.Info("gap recompute finished",
		zap.String("namespace", ns),
		zap.Int("records", len(records)),
		zap.Int64("updated", result.UpdatedCount),
		zap.Int("failed_batches", len(result.Errors)))
	return result, nil
}

// upsert ensures the natural-key index, runs the batches and purges cached
// aggregates when anything changed.
func (s *assessmentService) upsert(ctx context.Context, ns string, t models.AssessmentType, records []models.Record) *models.BulkUpsertResult {
	if len(records) > 0 {
		if err := s.repo.EnsureUniqueIndex(ctx, ns, t); err != nil {
			s.log.Warn("unique index not ensured",
				zap.String("collection", s.repo.CollectionName(ns, t)),
				zap.Error(err))
		}
	}

	result := s.upsertInBatches(ctx, ns, t, records)

	if result.UpdatedCount > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx, ns); err != nil {
			s.log.Warn("cache invalidation failed", zap.String("namespace", ns), zap.Error(err))
		}
	}
	return result
}

// upsertInBatches writes records in sequential batches of BatchSize. A
// failed batch is recorded and the next one still runs.
func (s *assessmentService) upsertInBatches(ctx context.Context, ns string, t models.AssessmentType, records []models.Record) *models.BulkUpsertResult {
	result := &models.BulkUpsertResult{Errors: []models.BatchError{}}
	collection := s.repo.CollectionName(ns, t)

	for index, start := 0, 0; start < len(records); index, start = index+1, start+BatchSize {
		end := min(start+BatchSize, len(records))
		batch := records[start:end]

		now := s.now()
		for _, rec := range batch {
			rec.Touch(now)
		}

		began := time.Now()
		res, err := s.repo.UpsertBatch(ctx, ns, t, batch)
		took := time.Since(began)

		updated := res.Modified + res.Upserted
		result.UpdatedCount += updated

		fields := []zap.Field{
			zap.String("collection", collection),
			zap.Int("batch_index", index),
			zap.Int("first_record", start),
			zap.Int("records", len(batch)),
		}

		switch {
		case err != nil:
			s.log.Error("batch upsert failed", append(fields, zap.Error(err))...)
			result.Errors = append(result.Errors, models.BatchError{
				BatchIndex:  index,
				FirstRecord: start,
				Records:     len(batch),
				Error:       batchErrorMessage(err),
				Retryable:   isRetryable(err),
			})
			metrics.ObserveBatch(string(t), metrics.OutcomeFailed, updated, took)

		case len(res.Failures) > 0:
			failed := make([]int, 0, len(res.Failures))
			for _, f := range res.Failures {
				failed = append(failed, f.Index)
			}
			s.log.Warn("batch upsert rejected records",
				append(fields, zap.Ints("failed_records", failed), zap.String("first_error", res.Failures[0].Message))...)
			result.Errors = append(result.Errors, models.BatchError{
				BatchIndex:    index,
				FirstRecord:   start,
				Records:       len(batch),
				Error:         fmt.Sprintf("%d of %d records rejected: %s", len(failed), len(batch), rejectionMessage(res.Failures[0].Code)),
				FailedRecords: failed,
			})
			metrics.ObserveBatch(string(t), metrics.OutcomePartial, updated, took)

		default:
			s.log.Debug("batch upserted", append(fields, zap.Int64("updated", updated))...)
			metrics.ObserveBatch(string(t), metrics.OutcomeOK, updated, took)
		}
	}
	return result
}

func (s *assessmentService) archivePayload(ctx context.Context, ns string, req models.BulkUpdateRequest, uploadedBy string) {
	if !s.archiveUploads || s.archive == nil {
		return
	}

	payload, err := json.Marshal(req.Data)
	if err != nil {
		s.log.Warn("upload not archived", zap.Error(err))
		return
	}

	meta := models.UploadMetadata{
		UploadedBy:     uploadedBy,
		AssessmentType: req.AssessmentType,
		Namespace:      ns,
		Records:        len(req.Data),
		UploadedAt:     s.now(),
	}
	fileID, err := s.archive.Archive(ctx, meta, payload)
	if err != nil {
		s.log.Warn("upload not archived", zap.String("namespace", ns), zap.Error(err))
		return
	}
	s.log.Debug("upload archived", zap.String("file_id", fileID.Hex()))
}

// decodeRecords turns the raw payload into typed records, rejecting the
// whole call on the first malformed record.
func decodeRecords(t models.AssessmentType, data []json.RawMessage) ([]models.Record, error) {
	records := make([]models.Record, 0, len(data))
	for i, raw := range data {
		rec, err := decodeRecord(t, raw)
		if err != nil {
			return nil, newValidationError(fmt.Sprintf("record %d is malformed", i), map[string]string{
				fmt.Sprintf("data[%d]", i): "json",
			})
		}

		if err := utils.Validate.Struct(rec); err != nil {
			fields := make(map[string]string)
			for k, v := range utils.ValidationMessages(err) {
				fields[fmt.Sprintf("data[%d].%s", i, k)] = v
			}
			return nil, newValidationError(fmt.Sprintf("record %d is invalid", i), fields)
		}
		if rec.NaturalKey() == "" {
			return nil, newValidationError(fmt.Sprintf("record %d has no %s", i, t.KeyField()), map[string]string{
				fmt.Sprintf("data[%d].%s", i, t.KeyField()): "required",
			})
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(t models.AssessmentType, raw json.RawMessage) (models.Record, error) {
	var rec models.Record
	switch t {
	case models.AssessmentSelf:
		rec = &models.SelfAssessment{}
	case models.AssessmentManager:
		rec = &models.ManagerAssessment{}
	case models.AssessmentGap:
		rec = &models.GapRecord{}
	case models.AssessmentTaxonomy:
		rec = &models.TaxonomyRecord{}
	default:
		return nil, fmt.Errorf("unknown assessment type %q", t)
	}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func isRetryable(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// batchErrorMessage is what the caller sees; the underlying error is only
// logged.
func batchErrorMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err):
		return "batch write timed out"
	case errors.Is(err, context.Canceled):
		return "batch write cancelled"
	case mongo.IsNetworkError(err):
		return "document store unreachable"
	}
	return "batch write failed"
}

// rejectionMessage names a per-record write failure without the driver's
// text, which carries index and collection names.
func rejectionMessage(code int) string {
	switch code {
	case 11000, 11001:
		return "duplicate natural key"
	case 121:
		return "document failed validation"
	}
	return "record rejected"
}
