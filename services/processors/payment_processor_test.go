package processors

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	goerrors "errors"
	"testing"

	// Local Packages
	errors "minilend-disburser/errors"
	models "minilend-disburser/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEnqueuer struct {
	enqueued []models.EnqueueRequest
	errByTx  map[string]error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, req models.EnqueueRequest) (string, error) {
	if err := f.errByTx[req.TransactionCode]; err != nil {
		return "", err
	}
	f.enqueued = append(f.enqueued, req)
	return "job-id", nil
}

type fakeDLQ struct {
	sent []models.Record
	err  error
}

func (f *fakeDLQ) Send(_ context.Context, records []models.Record) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, records...)
	return nil
}

func paymentRecord(t *testing.T, event models.PaymentEvent) models.Record {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return models.Record{Key: []byte(event.TransactionCode), Value: value, Topic: "payment-events"}
}

func TestProcessRecordsEnqueuesCompletePayments(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	dlq := &fakeDLQ{}
	p := NewPaymentProcessor(zap.NewNop(), enqueuer, dlq)

	records := []models.Record{
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX1", RecipientAddress: "0xabc", AmountKES: 1000, Status: models.PaymentComplete}),
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX2", RecipientAddress: "0xdef", AmountKES: 250, Status: "PENDING"}),
	}

	require.NoError(t, p.ProcessRecords(context.Background(), records))
	require.Len(t, enqueuer.enqueued, 1)
	assert.Equal(t, models.EnqueueRequest{RecipientAddress: "0xabc", AmountKES: 1000, TransactionCode: "TX1"}, enqueuer.enqueued[0])
	assert.Empty(t, dlq.sent)
}

func TestProcessRecordsSkipsMalformedRecords(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	dlq := &fakeDLQ{}
	p := NewPaymentProcessor(zap.NewNop(), enqueuer, dlq)

	records := []models.Record{{Key: []byte("TX1"), Value: []byte("not json")}}
	require.NoError(t, p.ProcessRecords(context.Background(), records))
	assert.Empty(t, enqueuer.enqueued)
	assert.Empty(t, dlq.sent)
}

func TestProcessRecordsSwallowsDuplicates(t *testing.T) {
	enqueuer := &fakeEnqueuer{errByTx: map[string]error{
		"TX1": errors.DuplicateJobErr("TX1", nil),
	}}
	dlq := &fakeDLQ{}
	p := NewPaymentProcessor(zap.NewNop(), enqueuer, dlq)

	records := []models.Record{
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX1", RecipientAddress: "0xabc", AmountKES: 1000, Status: models.PaymentComplete}),
	}

	require.NoError(t, p.ProcessRecords(context.Background(), records))
	assert.Empty(t, dlq.sent)
}

func TestProcessRecordsDropsInvalidEvents(t *testing.T) {
	enqueuer := &fakeEnqueuer{errByTx: map[string]error{
		"TX1": errors.ValidationFailedErr(goerrors.New("amountKES must be a positive number")),
	}}
	dlq := &fakeDLQ{}
	p := NewPaymentProcessor(zap.NewNop(), enqueuer, dlq)

	records := []models.Record{
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX1", RecipientAddress: "0xabc", AmountKES: -1, Status: models.PaymentComplete}),
	}

	require.NoError(t, p.ProcessRecords(context.Background(), records))
	assert.Empty(t, dlq.sent)
}

func TestProcessRecordsDeadLettersTransientFailures(t *testing.T) {
	enqueuer := &fakeEnqueuer{errByTx: map[string]error{
		"TX2": goerrors.New("mongo: connection reset"),
	}}
	dlq := &fakeDLQ{}
	p := NewPaymentProcessor(zap.NewNop(), enqueuer, dlq)

	records := []models.Record{
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX1", RecipientAddress: "0xabc", AmountKES: 1000, Status: models.PaymentComplete}),
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX2", RecipientAddress: "0xdef", AmountKES: 500, Status: models.PaymentComplete}),
	}

	require.NoError(t, p.ProcessRecords(context.Background(), records))
	require.Len(t, enqueuer.enqueued, 1)
	require.Len(t, dlq.sent, 1)
	assert.Equal(t, []byte("TX2"), dlq.sent[0].Key)
}

func TestProcessRecordsReturnsErrorWhenDLQFails(t *testing.T) {
	enqueuer := &fakeEnqueuer{errByTx: map[string]error{
		"TX1": goerrors.New("mongo: connection reset"),
	}}
	dlq := &fakeDLQ{err: goerrors.New("redis down")}
	p := NewPaymentProcessor(zap.NewNop(), enqueuer, dlq)

	records := []models.Record{
		paymentRecord(t, models.PaymentEvent{TransactionCode: "TX1", RecipientAddress: "0xabc", AmountKES: 1000, Status: models.PaymentComplete}),
	}

	assert.Error(t, p.ProcessRecords(context.Background(), records))
}
