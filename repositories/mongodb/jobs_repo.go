package mongodb

import (
	// Go Internal Packages
	"context"
	"errors"
	"time"

	// Local Packages
	models "minilend-disburser/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateTransactionCode is returned when an insert hits the unique
// live-transaction-code index.
var ErrDuplicateTransactionCode = errors.New("duplicate transaction code")

// liveStatuses are the statuses covered by the duplicate-enqueue guard:
// at most one job per transaction code may be in any of these at once.
var liveStatuses = bson.A{models.JobPending, models.JobProcessing, models.JobCompleted}

type JobsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewJobsRepository(client *mongo.Client, database string) *JobsRepository {
	return &JobsRepository{client: client, database: database, collection: "disbursement_jobs"}
}

func (r *JobsRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// EnsureIndexes creates the partial unique index that makes duplicate
// enqueue prevention atomic instead of check-then-insert. Requires
// MongoDB >= 6.0 ($in inside a partial filter expression).
func (r *JobsRepository) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys: bson.D{{Key: "transactionCode", Value: 1}},
		Options: options.Index().
			SetName("uniq_live_transaction_code").
			SetUnique(true).
			SetPartialFilterExpression(bson.D{
				{Key: "status", Value: bson.D{{Key: "$in", Value: liveStatuses}}},
			}),
	}
	_, err := r.coll().Indexes().CreateOne(ctx, idx)
	return err
}

// Insert inserts a single disbursement job and returns the assigned id.
func (r *JobsRepository) Insert(ctx context.Context, job models.DisbursementJob) (primitive.ObjectID, error) {
	res, err := r.coll().InsertOne(ctx, job)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateTransactionCode
		}
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// FindByID returns the job or nil when no document matches.
func (r *JobsRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DisbursementJob, error) {
	var job models.DisbursementJob
	err := r.coll().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// FindLiveByTransactionCode returns the most recent pending, processing or
// completed job for the transaction code, or nil when none exists.
func (r *JobsRepository) FindLiveByTransactionCode(ctx context.Context, code string) (*models.DisbursementJob, error) {
	filter := bson.D{
		{Key: "transactionCode", Value: code},
		{Key: "status", Value: bson.D{{Key: "$in", Value: liveStatuses}}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var job models.DisbursementJob
	err := r.coll().FindOne(ctx, filter, opts).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// CountByStatus counts jobs currently in the given status.
func (r *JobsRepository) CountByStatus(ctx context.Context, status models.JobStatus) (int64, error) {
	return r.coll().CountDocuments(ctx, bson.D{{Key: "status", Value: status}})
}

// RecentJobs returns the most recently created jobs, newest first,
// projected down to the summary fields.
func (r *JobsRepository) RecentJobs(ctx context.Context, limit int) ([]models.JobSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.D{
			{Key: "recipientAddress", Value: 1},
			{Key: "amountKES", Value: 1},
			{Key: "transactionCode", Value: 1},
			{Key: "status", Value: 1},
			{Key: "createdAt", Value: 1},
		})

	cursor, err := r.coll().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	jobs := []models.JobSummary{}
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// StuckJobs returns processing jobs whose processingStartedAt is older
// than the cutoff, oldest first.
func (r *JobsRepository) StuckJobs(ctx context.Context, cutoff time.Time) ([]models.DisbursementJob, error) {
	filter := bson.D{
		{Key: "status", Value: models.JobProcessing},
		{Key: "processingStartedAt", Value: bson.D{{Key: "$lt", Value: cutoff}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "processingStartedAt", Value: 1}})

	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	jobs := []models.DisbursementJob{}
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// RetryableJobs returns failed jobs that still have retries left,
// most recently failed first.
func (r *JobsRepository) RetryableJobs(ctx context.Context, limit int) ([]models.DisbursementJob, error) {
	filter := bson.D{
		{Key: "status", Value: models.JobFailed},
		{Key: "$expr", Value: bson.D{{Key: "$lt", Value: bson.A{"$retryCount", "$maxRetries"}}}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "failedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	jobs := []models.DisbursementJob{}
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountCompletedSince counts jobs completed at or after the given time.
func (r *JobsRepository) CountCompletedSince(ctx context.Context, since time.Time) (int64, error) {
	filter := bson.D{
		{Key: "status", Value: models.JobCompleted},
		{Key: "completedAt", Value: bson.D{{Key: "$gte", Value: since}}},
	}
	return r.coll().CountDocuments(ctx, filter)
}

// CountFailedSince counts jobs failed at or after the given time.
func (r *JobsRepository) CountFailedSince(ctx context.Context, since time.Time) (int64, error) {
	filter := bson.D{
		{Key: "status", Value: models.JobFailed},
		{Key: "failedAt", Value: bson.D{{Key: "$gte", Value: since}}},
	}
	return r.coll().CountDocuments(ctx, filter)
}

// TotalUSDCDisbursed sums result.usdcAmount across completed jobs with a
// store-side aggregation pipeline rather than loading every document.
func (r *JobsRepository) TotalUSDCDisbursed(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: models.JobCompleted}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$result.usdcAmount"}}},
		}}},
	}

	cursor, err := r.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var out []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// MarkRetry moves a failed job with retries left back to pending. The
// filter re-checks status and the retry budget so the update is a no-op
// when the worker already picked the job up again. Returns false when
// nothing matched.
func (r *JobsRepository) MarkRetry(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: models.JobFailed},
		{Key: "$expr", Value: bson.D{{Key: "$lt", Value: bson.A{"$retryCount", "$maxRetries"}}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "status", Value: models.JobPending}}},
		{Key: "$unset", Value: bson.D{{Key: "error", Value: ""}, {Key: "failedAt", Value: ""}}},
	}

	res, err := r.coll().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
