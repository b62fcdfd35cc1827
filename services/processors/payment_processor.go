package processors

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	errors "minilend-disburser/errors"
	models "minilend-disburser/models"

	// External Packages
	"go.uber.org/zap"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, req models.EnqueueRequest) (string, error)
}

type DeadLetter interface {
	Send(ctx context.Context, records []models.Record) error
}

// PaymentProcessor turns confirmed payment events into disbursement jobs.
// Records that cannot be enqueued for a transient reason are dead-lettered
// so the batch can still be committed; duplicate and malformed events are
// dropped since redelivering them would never succeed.
type PaymentProcessor struct {
	Logger        *zap.Logger
	Disbursements Enqueuer
	DLQueue       DeadLetter
}

func NewPaymentProcessor(logger *zap.Logger, disbursements Enqueuer, dlQueue DeadLetter) *PaymentProcessor {
	return &PaymentProcessor{Logger: logger, Disbursements: disbursements, DLQueue: dlQueue}
}

func (p *PaymentProcessor) ProcessRecords(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	var failed []models.Record
	for _, record := range records {
		var event models.PaymentEvent
		err := json.Unmarshal(record.Value, &event)
		if err != nil {
			p.Logger.Error("failed to unmarshal payment event", zap.Error(err))
			continue
		}

		if event.Status != models.PaymentComplete {
			p.Logger.Debug("skipping non-complete payment",
				zap.String("transactionCode", event.TransactionCode),
				zap.String("status", event.Status))
			continue
		}

		jobID, err := p.Disbursements.Enqueue(ctx, event.Transform())
		switch {
		case err == nil:
			p.Logger.Info("payment enqueued for disbursement",
				zap.String("jobId", jobID),
				zap.String("transactionCode", event.TransactionCode))
		case errors.IsKind(err, errors.Conflict):
			// Redelivered payment, the job already exists.
			p.Logger.Debug("disbursement already enqueued",
				zap.String("transactionCode", event.TransactionCode))
		case errors.IsKind(err, errors.Invalid):
			p.Logger.Warn("dropping invalid payment event",
				zap.String("transactionCode", event.TransactionCode),
				zap.Error(err))
		default:
			p.Logger.Error("failed to enqueue disbursement",
				zap.String("transactionCode", event.TransactionCode),
				zap.Error(err))
			failed = append(failed, record)
		}
	}

	if len(failed) > 0 {
		if err := p.DLQueue.Send(ctx, failed); err != nil {
			return fmt.Errorf("failed to dead-letter records: %v", err)
		}
	}
	return nil
}
