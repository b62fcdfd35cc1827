package disbursements

import (
	// Go Internal Packages
	"context"
	goerrors "errors"
	"time"

	// Local Packages
	config "minilend-disburser/config"
	errors "minilend-disburser/errors"
	models "minilend-disburser/models"
	mongodb "minilend-disburser/repositories/mongodb"
	utils "minilend-disburser/utils"

	// External Packages
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type JobsRepository interface {
	Insert(ctx context.Context, job models.DisbursementJob) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DisbursementJob, error)
	FindLiveByTransactionCode(ctx context.Context, code string) (*models.DisbursementJob, error)
	CountByStatus(ctx context.Context, status models.JobStatus) (int64, error)
	RecentJobs(ctx context.Context, limit int) ([]models.JobSummary, error)
	StuckJobs(ctx context.Context, cutoff time.Time) ([]models.DisbursementJob, error)
	RetryableJobs(ctx context.Context, limit int) ([]models.DisbursementJob, error)
	CountCompletedSince(ctx context.Context, since time.Time) (int64, error)
	CountFailedSince(ctx context.Context, since time.Time) (int64, error)
	TotalUSDCDisbursed(ctx context.Context) (float64, error)
	MarkRetry(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type AlertsRepository interface {
	Stats(ctx context.Context) (models.AlertStats, error)
}

type Service struct {
	Logger     *zap.Logger
	JobsRepo   JobsRepository
	AlertsRepo AlertsRepository
	Conf       config.Disbursement
	Now        func() time.Time
}

func NewService(logger *zap.Logger, jobsRepo JobsRepository, alertsRepo AlertsRepository, conf config.Disbursement) *Service {
	return &Service{
		Logger:     logger,
		JobsRepo:   jobsRepo,
		AlertsRepo: alertsRepo,
		Conf:       conf,
		Now:        time.Now,
	}
}

// Enqueue validates a payout request and inserts a pending job. A live
// or completed job for the same transaction code yields a Conflict error.
func (s *Service) Enqueue(ctx context.Context, req models.EnqueueRequest) (string, error) {
	ve := errors.ValidationErrs()
	if req.RecipientAddress == "" {
		ve.Add("recipientAddress", "cannot be empty")
	}
	if req.TransactionCode == "" {
		ve.Add("transactionCode", "cannot be empty")
	}
	if req.AmountKES <= 0 {
		ve.Add("amountKES", "must be a positive number")
	}
	if err := ve.Err(); err != nil {
		return "", errors.ValidationFailedErr(err)
	}

	job := models.DisbursementJob{
		RecipientAddress: req.RecipientAddress,
		AmountKES:        req.AmountKES,
		TransactionCode:  req.TransactionCode,
		Status:           models.JobPending,
		CreatedAt:        s.Now().UTC(),
		RetryCount:       0,
		MaxRetries:       s.Conf.MaxRetries,
	}

	id, err := s.JobsRepo.Insert(ctx, job)
	if err != nil {
		if goerrors.Is(err, mongodb.ErrDuplicateTransactionCode) {
			return "", errors.DuplicateJobErr(req.TransactionCode, nil)
		}
		return "", err
	}

	s.Logger.Info("disbursement enqueued",
		zap.String("jobId", id.Hex()),
		zap.String("transactionCode", req.TransactionCode),
		zap.Float64("amountKES", req.AmountKES))
	return id.Hex(), nil
}

// CheckExisting returns the most recent live or completed job for the
// transaction code, or nil. Advisory only; the unique index is what
// actually prevents duplicates.
func (s *Service) CheckExisting(ctx context.Context, transactionCode string) (*models.DisbursementJob, error) {
	if transactionCode == "" {
		return nil, errors.EmptyParamErr("transactionCode")
	}
	return s.JobsRepo.FindLiveByTransactionCode(ctx, transactionCode)
}

// Status returns the job for the given id, or nil when it does not exist.
func (s *Service) Status(ctx context.Context, jobID string) (*models.DisbursementJob, error) {
	id, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, errors.InvalidParamsErr(err)
	}
	return s.JobsRepo.FindByID(ctx, id)
}

// Dashboard aggregates queue health as of call time. Sub-queries run
// concurrently and are each consistent only at their own read time.
func (s *Service) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	now := s.Now().UTC()
	stuckCutoff := now.Add(-s.Conf.StuckAfter)
	windowStart := now.Add(-s.Conf.SuccessRateWindow)

	dashboard := &models.Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	countInto := func(status models.JobStatus, dst *int64) {
		g.Go(func() error {
			n, err := s.JobsRepo.CountByStatus(gctx, status)
			*dst = n
			return err
		})
	}
	countInto(models.JobPending, &dashboard.Stats.Jobs.Pending)
	countInto(models.JobProcessing, &dashboard.Stats.Jobs.Processing)
	countInto(models.JobCompleted, &dashboard.Stats.Jobs.Completed)
	countInto(models.JobFailed, &dashboard.Stats.Jobs.Failed)

	g.Go(func() error {
		jobs, err := s.JobsRepo.RecentJobs(gctx, s.Conf.RecentJobsLimit)
		dashboard.RecentJobs = jobs
		return err
	})
	g.Go(func() error {
		jobs, err := s.JobsRepo.StuckJobs(gctx, stuckCutoff)
		dashboard.StuckJobs = jobs
		return err
	})
	g.Go(func() error {
		jobs, err := s.JobsRepo.RetryableJobs(gctx, s.Conf.RetryableJobsLimit)
		dashboard.RetryableJobs = jobs
		return err
	})
	g.Go(func() error {
		n, err := s.JobsRepo.CountCompletedSince(gctx, windowStart)
		dashboard.Stats.Completed24h = n
		return err
	})
	g.Go(func() error {
		n, err := s.JobsRepo.CountFailedSince(gctx, windowStart)
		dashboard.Stats.Failed24h = n
		return err
	})
	g.Go(func() error {
		total, err := s.JobsRepo.TotalUSDCDisbursed(gctx)
		dashboard.Stats.TotalUSDCDisbursed = total
		return err
	})
	g.Go(func() error {
		stats, err := s.AlertsRepo.Stats(gctx)
		dashboard.Stats.Alerts = stats
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dashboard.Stats.Jobs.Total = dashboard.Stats.Jobs.Pending +
		dashboard.Stats.Jobs.Processing +
		dashboard.Stats.Jobs.Completed +
		dashboard.Stats.Jobs.Failed
	dashboard.Stats.SuccessRate24h = utils.SuccessRate(dashboard.Stats.Completed24h, dashboard.Stats.Failed24h)
	return dashboard, nil
}

// Retry moves a failed job with retries left back to pending. This is the
// manual operator action surfaced by the dashboard's retryable list; the
// external worker picks the job up again from there.
func (s *Service) Retry(ctx context.Context, jobID string) error {
	id, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return errors.InvalidParamsErr(err)
	}

	retried, err := s.JobsRepo.MarkRetry(ctx, id)
	if err != nil {
		return err
	}
	if retried {
		s.Logger.Info("disbursement re-enqueued", zap.String("jobId", jobID))
		return nil
	}

	// Nothing matched: report whether the job is missing or just not retryable.
	job, err := s.JobsRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return errors.JobNotFoundErr(jobID)
	}
	return errors.E(errors.Invalid, "job is not retryable", nil)
}
