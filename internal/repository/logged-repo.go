package repository

import (
	"context"
	"fmt"
	"time"

	"detection-service/internal/activity"
	"detection-service/internal/domain"
)

// loggedRepo wraps a DetectionRepository and records every call as an
// activity entry, which is what the database monitor panel displays.
type loggedRepo struct {
	inner domain.DetectionRepository
	log   *activity.Log
}

// WithActivityLog decorates repo so each operation is timed and
// appended to log.
func WithActivityLog(repo domain.DetectionRepository, log *activity.Log) domain.DetectionRepository {
	return &loggedRepo{inner: repo, log: log}
}

func (r *loggedRepo) record(opType, action string, data map[string]interface{}, start time.Time, err error) {
	status := domain.ActivityStatusSuccess
	if err != nil {
		status = domain.ActivityStatusError
		if data == nil {
			data = map[string]interface{}{}
		}
		data["error"] = err.Error()
	}
	r.log.Add(domain.ActivityEntry{
		Timestamp:  time.Now(),
		Type:       opType,
		Table:      "detections",
		Action:     action,
		Data:       data,
		Status:     status,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

func (r *loggedRepo) Save(ctx context.Context, rec *domain.DetectionRecord) (int64, error) {
	start := time.Now()
	id, err := r.inner.Save(ctx, rec)

	data := map[string]interface{}{
		"camera_id":    rec.CameraID,
		"object_label": rec.Label,
		"confidence":   rec.Confidence,
	}
	if err == nil {
		data["detection_id"] = id
	}
	r.record("INSERT", fmt.Sprintf("INSERT INTO detections (id=%d)", id), data, start, err)
	return id, err
}

func (r *loggedRepo) Recent(ctx context.Context, filter domain.RecentFilter) ([]*domain.DetectionRecord, error) {
	start := time.Now()
	recs, err := r.inner.Recent(ctx, filter)

	data := map[string]interface{}{"count": len(recs)}
	if filter.Label != "" {
		data["object_label"] = filter.Label
	}
	r.record("SELECT", fmt.Sprintf("SELECT * FROM detections (LIMIT %d)", filter.Limit), data, start, err)
	return recs, err
}

func (r *loggedRepo) Statistics(ctx context.Context, window time.Duration) (*domain.Statistics, error) {
	start := time.Now()
	stats, err := r.inner.Statistics(ctx, window)

	var data map[string]interface{}
	if stats != nil {
		data = map[string]interface{}{"total": stats.Total}
	}
	r.record("SELECT", "SELECT statistics FROM detections", data, start, err)
	return stats, err
}

func (r *loggedRepo) UpdateStatus(ctx context.Context, id int64, status, notes string) error {
	start := time.Now()
	err := r.inner.UpdateStatus(ctx, id, status, notes)

	r.record("UPDATE", fmt.Sprintf("UPDATE detections SET status=%q (id=%d)", status, id),
		map[string]interface{}{"detection_id": id, "status": status}, start, err)
	return err
}
