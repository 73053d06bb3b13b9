package testutil

import (
	"context"
	"image"
	"time"

	"github.com/stretchr/testify/mock"

	"detection-service/internal/domain"
)

// MockDetectionRepo is a mock of DetectionRepository.
type MockDetectionRepo struct {
	mock.Mock
}

func (m *MockDetectionRepo) Save(ctx context.Context, rec *domain.DetectionRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDetectionRepo) Recent(ctx context.Context, filter domain.RecentFilter) ([]*domain.DetectionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DetectionRecord), args.Error(1)
}

func (m *MockDetectionRepo) Statistics(ctx context.Context, window time.Duration) (*domain.Statistics, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockDetectionRepo) UpdateStatus(ctx context.Context, id int64, status, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

// FakeDetector returns canned detections without touching a model.
type FakeDetector struct {
	Detections []domain.Detection
	Err        error
	Labels     []string
	Calls      int
}

func (f *FakeDetector) Detect(_ context.Context, _ image.Image) ([]domain.Detection, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Detections, nil
}

func (f *FakeDetector) Classes() []string {
	return f.Labels
}
