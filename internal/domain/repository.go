package domain

import (
	"context"
	"time"
)

// DetectionRepository persists and queries detection history.
type DetectionRepository interface {
	Save(ctx context.Context, rec *DetectionRecord) (int64, error)
	Recent(ctx context.Context, filter RecentFilter) ([]*DetectionRecord, error)
	Statistics(ctx context.Context, window time.Duration) (*Statistics, error)
	UpdateStatus(ctx context.Context, id int64, status, notes string) error
}
