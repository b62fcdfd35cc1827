package models

import (
	// Go Internal Packages
	"time"

	// External Packages
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// DisbursementJob is one fiat payout owed to a recipient, tracked through
// pending -> processing -> completed/failed. The external settlement worker
// owns the processing transitions; this service only enqueues, retries and
// reads.
type DisbursementJob struct {
	ID                  primitive.ObjectID  `json:"jobId" bson:"_id,omitempty"`
	RecipientAddress    string              `json:"recipientAddress" bson:"recipientAddress"`
	AmountKES           float64             `json:"amountKES" bson:"amountKES"`
	TransactionCode     string              `json:"transactionCode" bson:"transactionCode"`
	Status              JobStatus           `json:"status" bson:"status"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	ProcessingStartedAt *time.Time          `json:"processingStartedAt,omitempty" bson:"processingStartedAt,omitempty"`
	CompletedAt         *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	FailedAt            *time.Time          `json:"failedAt,omitempty" bson:"failedAt,omitempty"`
	RetryCount          int                 `json:"retryCount" bson:"retryCount"`
	MaxRetries          int                 `json:"maxRetries" bson:"maxRetries"`
	Result              *DisbursementResult `json:"result,omitempty" bson:"result,omitempty"`
	Error               string              `json:"error,omitempty" bson:"error,omitempty"`
}

// DisbursementResult is written exactly once by the worker when a job
// completes and is immutable afterwards.
type DisbursementResult struct {
	TransferHash string  `json:"transferHash" bson:"transferHash"`
	USDCAmount   float64 `json:"usdcAmount" bson:"usdcAmount"`
	KESAmount    float64 `json:"kesAmount" bson:"kesAmount"`
	Recipient    string  `json:"recipient" bson:"recipient"`
}

// JobSummary is the projection of a job used in dashboard listings.
type JobSummary struct {
	ID               primitive.ObjectID `json:"jobId" bson:"_id"`
	RecipientAddress string             `json:"recipientAddress" bson:"recipientAddress"`
	AmountKES        float64            `json:"amountKES" bson:"amountKES"`
	TransactionCode  string             `json:"transactionCode" bson:"transactionCode"`
	Status           JobStatus          `json:"status" bson:"status"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// EnqueueRequest is a validated payout request ready for insertion.
type EnqueueRequest struct {
	RecipientAddress string  `json:"recipientAddress"`
	AmountKES        float64 `json:"amountKES"`
	TransactionCode  string  `json:"transactionCode"`
}
