package usecase

import (
	"context"
	"time"

	"detection-service/internal/domain"
)

// HistoryUseCase reads and amends the persisted detection history.
// All operations fail with ErrDatabaseUnavailable when the service
// runs without a database.
type HistoryUseCase struct {
	repo domain.DetectionRepository
}

func NewHistoryUseCase(repo domain.DetectionRepository) *HistoryUseCase {
	return &HistoryUseCase{repo: repo}
}

func (uc *HistoryUseCase) Recent(ctx context.Context, filter domain.RecentFilter) ([]*domain.DetectionRecord, error) {
	if uc.repo == nil {
		return nil, domain.ErrDatabaseUnavailable
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Window <= 0 {
		filter.Window = 24 * time.Hour
	}
	return uc.repo.Recent(ctx, filter)
}

func (uc *HistoryUseCase) Statistics(ctx context.Context, window time.Duration) (*domain.Statistics, error) {
	if uc.repo == nil {
		return nil, domain.ErrDatabaseUnavailable
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return uc.repo.Statistics(ctx, window)
}

func (uc *HistoryUseCase) UpdateStatus(ctx context.Context, id int64, status, notes string) error {
	if uc.repo == nil {
		return domain.ErrDatabaseUnavailable
	}
	if status == "" {
		return domain.ErrInvalidStatus
	}
	return uc.repo.UpdateStatus(ctx, id, status, notes)
}
