package models

import (
	"encoding/json"
	"time"
)

// BulkUpdateRequest is the ingestion payload. Data stays raw until the
// assessment type is known.
type BulkUpdateRequest struct {
	AssessmentType AssessmentType    `json:"assessmentType" validate:"required,oneof=self manager gap taxonomy"`
	Prefix         string            `json:"prefix"`
	Data           []json.RawMessage `json:"data" validate:"required"`
}

type RecomputeGapsRequest struct {
	Prefix string `json:"prefix"`
}

// BatchError records one failed batch of a bulk upsert. FailedRecords holds
// positions within the batch when only some records were rejected.
type BatchError struct {
	BatchIndex    int    `json:"batchIndex"`
	FirstRecord   int    `json:"firstRecord"`
	Records       int    `json:"records"`
	Error         string `json:"error"`
	Retryable     bool   `json:"retryable"`
	FailedRecords []int  `json:"failedRecords,omitempty"`
}

type BulkUpsertResult struct {
	UpdatedCount int64        `json:"updatedCount"`
	Errors       []BatchError `json:"errors"`
}

// WriteFailure is a single rejected record inside an otherwise applied batch.
type WriteFailure struct {
	Index   int
	Code    int
	Message string
}

// BatchWriteResult is what the store reports for one unordered bulk write.
type BatchWriteResult struct {
	Modified int64
	Upserted int64
	Failures []WriteFailure
}

// UploadMetadata is stored alongside an archived ingestion payload.
type UploadMetadata struct {
	UploadedBy     string         `json:"uploadedBy" bson:"uploadedBy"`
	AssessmentType AssessmentType `json:"assessmentType" bson:"assessmentType"`
	Namespace      string         `json:"namespace" bson:"namespace"`
	Records        int            `json:"records" bson:"records"`
	UploadedAt     time.Time      `json:"uploadedAt" bson:"uploadedAt"`
}
