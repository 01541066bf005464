package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/traintrackhq/traintrack-api/internal/models"
	appErrors "github.com/traintrackhq/traintrack-api/pkg/errors"
)

type dashboardTrainerRepository interface {
	List(ctx context.Context) ([]models.Trainer, error)
	FindByUserID(ctx context.Context, userID string) (*models.Trainer, error)
}

type dashboardBatchRepository interface {
	ListByTrainer(ctx context.Context, trainerID string) ([]models.Batch, error)
}

type dashboardLogRepository interface {
	ListForTrainerOnDate(ctx context.Context, trainerID string, date time.Time) ([]models.DailyClassLog, error)
}

// TrainerDashboard is one trainer's card on the dashboard: the profile,
// today's progress against the daily target and the trainer's batches.
type TrainerDashboard struct {
	Trainer  models.Trainer         `json:"trainer"`
	Progress models.DailyProgress   `json:"progress"`
	Batches  []BatchView            `json:"batches"`
	Logs     []models.DailyClassLog `json:"todays_logs"`
}

// Dashboard is the role-scoped landing view. Admins and read-only users
// see every trainer; writers see only their own card. A writer with no
// trainer profile yet gets SetupRequired instead of cards.
type Dashboard struct {
	Date          string             `json:"date"`
	SetupRequired bool               `json:"setup_required"`
	Trainers      []TrainerDashboard `json:"trainers"`
}

// DashboardService assembles the landing view, with an optional Redis
// cache in front of the per-trainer aggregation.
type DashboardService struct {
	trainers dashboardTrainerRepository
	batches  dashboardBatchRepository
	logs     dashboardLogRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService. Cache may be nil.
func NewDashboardService(
	trainers dashboardTrainerRepository,
	batches dashboardBatchRepository,
	logs dashboardLogRepository,
	cache *CacheService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		trainers: trainers,
		batches:  batches,
		logs:     logs,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// View returns the dashboard scoped to the caller's role.
func (s *DashboardService) View(ctx context.Context, userID string, role models.Role) (*Dashboard, error) {
	key := s.cacheKey(userID, role)
	if s.cache != nil && s.cache.Enabled() {
		var cached Dashboard
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	dashboard, err := s.build(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.Enabled() {
		if err := s.cache.Set(ctx, key, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard", zap.String("key", key), zap.Error(err))
		}
	}
	return dashboard, nil
}

// InvalidateDashboards drops every cached dashboard. Write paths call
// this so the next view reflects the mutation.
func (s *DashboardService) InvalidateDashboards(ctx context.Context) {
	if s.cache == nil || !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboards", zap.Error(err))
	}
}

func (s *DashboardService) build(ctx context.Context, userID string, role models.Role) (*Dashboard, error) {
	today := models.DateOf(s.now())
	dashboard := &Dashboard{
		Date:     today.Format(models.DateLayout),
		Trainers: []TrainerDashboard{},
	}

	var trainers []models.Trainer
	if role == models.RoleReadWrite {
		own, err := s.trainers.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				dashboard.SetupRequired = true
				return dashboard, nil
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load trainer")
		}
		trainers = []models.Trainer{*own}
	} else {
		all, err := s.trainers.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trainers")
		}
		trainers = all
	}

	for _, trainer := range trainers {
		card, err := s.card(ctx, trainer, today)
		if err != nil {
			return nil, err
		}
		dashboard.Trainers = append(dashboard.Trainers, card)
	}
	return dashboard, nil
}

func (s *DashboardService) card(ctx context.Context, trainer models.Trainer, today time.Time) (TrainerDashboard, error) {
	logs, err := s.logs.ListForTrainerOnDate(ctx, trainer.ID, today)
	if err != nil {
		return TrainerDashboard{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class logs")
	}

	batches, err := s.batches.ListByTrainer(ctx, trainer.ID)
	if err != nil {
		return TrainerDashboard{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}

	views := make([]BatchView, 0, len(batches))
	for _, batch := range batches {
		views = append(views, BatchView{
			Batch:     batch,
			Status:    batch.Status(today),
			DaysTaken: batch.DaysTaken(today),
		})
	}

	return TrainerDashboard{
		Trainer:  trainer,
		Progress: models.ComputeProgress(logs, trainer.ExpectedDailyHours),
		Batches:  views,
		Logs:     logs,
	}, nil
}

func (s *DashboardService) cacheKey(userID string, role models.Role) string {
	if role == models.RoleReadWrite {
		return fmt.Sprintf("dashboard:user:%s", userID)
	}
	return "dashboard:all"
}
