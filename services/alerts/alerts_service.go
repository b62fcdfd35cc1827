package alerts

import (
	// Go Internal Packages
	"context"
	goerrors "errors"

	// Local Packages
	errors "minilend-disburser/errors"
	models "minilend-disburser/models"
	mongodb "minilend-disburser/repositories/mongodb"

	// External Packages
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultListLimit = 50

type AlertsRepository interface {
	List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]models.SystemAlert, error)
	Stats(ctx context.Context) (models.AlertStats, error)
	Acknowledge(ctx context.Context, id primitive.ObjectID) error
	AcknowledgeAll(ctx context.Context) (int64, error)
}

type Service struct {
	Logger *zap.Logger
	Repo   AlertsRepository
}

func NewService(logger *zap.Logger, repo AlertsRepository) *Service {
	return &Service{Logger: logger, Repo: repo}
}

// List returns alerts newest first together with the current counts.
func (s *Service) List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]models.SystemAlert, models.AlertStats, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	alerts, err := s.Repo.List(ctx, limit, unacknowledgedOnly)
	if err != nil {
		return nil, models.AlertStats{}, err
	}
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, models.AlertStats{}, err
	}
	return alerts, stats, nil
}

// Acknowledge marks a single alert acknowledged.
func (s *Service) Acknowledge(ctx context.Context, alertID string) error {
	id, err := primitive.ObjectIDFromHex(alertID)
	if err != nil {
		return errors.InvalidParamsErr(err)
	}

	err = s.Repo.Acknowledge(ctx, id)
	if goerrors.Is(err, mongodb.ErrAlertNotFound) {
		return errors.AlertNotFoundErr(alertID)
	}
	if err != nil {
		return err
	}

	s.Logger.Info("alert acknowledged", zap.String("alertId", alertID))
	return nil
}

// AcknowledgeAll marks every unacknowledged alert acknowledged and
// returns the exact count changed.
func (s *Service) AcknowledgeAll(ctx context.Context) (int64, error) {
	count, err := s.Repo.AcknowledgeAll(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.Logger.Info("alerts acknowledged in bulk", zap.Int64("count", count))
	}
	return count, nil
}
