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

// ErrAlertNotFound is returned when an acknowledgement targets a missing alert.
var ErrAlertNotFound = errors.New("alert not found")

type AlertsRepository struct {
	client     *mongo.Client
	database   string
	collection string
}

func NewAlertsRepository(client *mongo.Client, database string) *AlertsRepository {
	return &AlertsRepository{client: client, database: database, collection: "system_alerts"}
}

func (r *AlertsRepository) coll() *mongo.Collection {
	return r.client.Database(r.database).Collection(r.collection)
}

// List returns alerts newest first, optionally only unacknowledged ones.
func (r *AlertsRepository) List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]models.SystemAlert, error) {
	filter := bson.D{}
	if unacknowledgedOnly {
		filter = bson.D{{Key: "acknowledged", Value: false}}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	alerts := []models.SystemAlert{}
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Stats counts total, unacknowledged, and unacknowledged CRITICAL alerts.
func (r *AlertsRepository) Stats(ctx context.Context) (models.AlertStats, error) {
	var stats models.AlertStats
	var err error

	if stats.Total, err = r.coll().CountDocuments(ctx, bson.D{}); err != nil {
		return models.AlertStats{}, err
	}

	unacked := bson.D{{Key: "acknowledged", Value: false}}
	if stats.Unacknowledged, err = r.coll().CountDocuments(ctx, unacked); err != nil {
		return models.AlertStats{}, err
	}

	critical := bson.D{
		{Key: "acknowledged", Value: false},
		{Key: "severity", Value: models.SeverityCritical},
	}
	if stats.UnacknowledgedCritical, err = r.coll().CountDocuments(ctx, critical); err != nil {
		return models.AlertStats{}, err
	}

	return stats, nil
}

// Acknowledge marks one alert acknowledged. The filter matches by id only,
// so re-acknowledging an already-acknowledged alert succeeds (idempotent set).
func (r *AlertsRepository) Acknowledge(ctx context.Context, id primitive.ObjectID) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "acknowledged", Value: true},
		{Key: "acknowledgedAt", Value: time.Now().UTC()},
	}}}

	res, err := r.coll().UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// AcknowledgeAll marks every unacknowledged alert acknowledged and returns
// the number of alerts actually modified.
func (r *AlertsRepository) AcknowledgeAll(ctx context.Context) (int64, error) {
	filter := bson.D{{Key: "acknowledged", Value: false}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "acknowledged", Value: true},
		{Key: "acknowledgedAt", Value: time.Now().UTC()},
	}}}

	res, err := r.coll().UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
