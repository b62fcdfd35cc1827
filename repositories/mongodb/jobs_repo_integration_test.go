package mongodb

import (
	// Go Internal Packages
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	// Local Packages
	models "minilend-disburser/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Integration tests run only against a real server, e.g.
// MONGO_TEST_URI=mongodb://localhost:27017 go test ./repositories/mongodb/
func testClient(t *testing.T) (*mongo.Client, string) {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Connect(ctx, uri)
	require.NoError(t, err)

	database := fmt.Sprintf("disburser_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_ = client.Database(database).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return client, database
}

func TestEnqueueStatusDashboardFlow(t *testing.T) {
	client, database := testClient(t)
	ctx := context.Background()

	jobs := NewJobsRepository(client, database)
	alerts := NewAlertsRepository(client, database)
	require.NoError(t, jobs.EnsureIndexes(ctx))

	job := models.DisbursementJob{
		RecipientAddress: "0xabc",
		AmountKES:        1000,
		TransactionCode:  "TX1",
		Status:           models.JobPending,
		CreatedAt:        time.Now().UTC(),
		RetryCount:       0,
		MaxRetries:       3,
	}
	id, err := jobs.Insert(ctx, job)
	require.NoError(t, err)

	// Duplicate enqueue for the same transaction code is rejected by the index.
	_, err = jobs.Insert(ctx, job)
	assert.ErrorIs(t, err, ErrDuplicateTransactionCode)

	got, err := jobs.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.JobPending, got.Status)

	live, err := jobs.FindLiveByTransactionCode(ctx, "TX1")
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.Equal(t, id, live.ID)

	// Simulate the external worker completing the job.
	now := time.Now().UTC()
	_, err = client.Database(database).Collection("disbursement_jobs").UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.JobCompleted},
			{Key: "completedAt", Value: now},
			{Key: "result", Value: models.DisbursementResult{
				TransferHash: "0xhash",
				USDCAmount:   7.5,
				KESAmount:    1000,
				Recipient:    "0xabc",
			}},
		}}})
	require.NoError(t, err)

	total, err := jobs.TotalUSDCDisbursed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.5, total)

	completed, err := jobs.CountCompletedSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)

	count, err := jobs.CountByStatus(ctx, models.JobCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	recent, err := jobs.RecentJobs(ctx, 20)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "TX1", recent[0].TransactionCode)

	stats, err := alerts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStats{}, stats)
}

func TestStuckAndRetryableQueries(t *testing.T) {
	client, database := testClient(t)
	ctx := context.Background()

	jobs := NewJobsRepository(client, database)
	require.NoError(t, jobs.EnsureIndexes(ctx))
	coll := client.Database(database).Collection("disbursement_jobs")

	now := time.Now().UTC()
	stale := now.Add(-10 * time.Minute)
	fresh := now.Add(-1 * time.Minute)

	docs := []interface{}{
		models.DisbursementJob{TransactionCode: "TX1", Status: models.JobProcessing, CreatedAt: now, ProcessingStartedAt: &stale, MaxRetries: 3},
		models.DisbursementJob{TransactionCode: "TX2", Status: models.JobProcessing, CreatedAt: now, ProcessingStartedAt: &fresh, MaxRetries: 3},
		models.DisbursementJob{TransactionCode: "TX3", Status: models.JobFailed, CreatedAt: now, FailedAt: &now, RetryCount: 1, MaxRetries: 3, Error: "transfer reverted"},
		models.DisbursementJob{TransactionCode: "TX4", Status: models.JobFailed, CreatedAt: now, FailedAt: &now, RetryCount: 3, MaxRetries: 3, Error: "transfer reverted"},
	}
	_, err := coll.InsertMany(ctx, docs)
	require.NoError(t, err)

	stuck, err := jobs.StuckJobs(ctx, now.Add(-5*time.Minute))
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, "TX1", stuck[0].TransactionCode)

	retryable, err := jobs.RetryableJobs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, "TX3", retryable[0].TransactionCode)

	// Retry moves TX3 back to pending and clears the failure fields.
	ok, err := jobs.MarkRetry(ctx, retryable[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := jobs.FindByID(ctx, retryable[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.JobPending, got.Status)
	assert.Empty(t, got.Error)
	assert.Nil(t, got.FailedAt)

	// Exhausted retries cannot be re-enqueued.
	var exhausted models.DisbursementJob
	require.NoError(t, coll.FindOne(ctx, bson.D{{Key: "transactionCode", Value: "TX4"}}).Decode(&exhausted))
	ok, err = jobs.MarkRetry(ctx, exhausted.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAlertsAcknowledgement(t *testing.T) {
	client, database := testClient(t)
	ctx := context.Background()

	alerts := NewAlertsRepository(client, database)
	coll := client.Database(database).Collection("system_alerts")

	now := time.Now().UTC()
	docs := []interface{}{
		models.SystemAlert{Severity: models.SeverityCritical, Title: "settlement wallet low", Timestamp: now},
		models.SystemAlert{Severity: models.SeverityWarning, Title: "worker lag", Timestamp: now.Add(-time.Hour)},
	}
	_, err := coll.InsertMany(ctx, docs)
	require.NoError(t, err)

	stats, err := alerts.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStats{Total: 2, Unacknowledged: 2, UnacknowledgedCritical: 1}, stats)

	listed, err := alerts.List(ctx, 10, true)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "settlement wallet low", listed[0].Title)

	// Acknowledging one alert is idempotent.
	require.NoError(t, alerts.Acknowledge(ctx, listed[0].ID))
	require.NoError(t, alerts.Acknowledge(ctx, listed[0].ID))

	count, err := alerts.AcknowledgeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = alerts.AcknowledgeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
