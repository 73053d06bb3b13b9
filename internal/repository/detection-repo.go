package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"detection-service/internal/domain"
)

type detectionRepo struct {
	pool *pgxpool.Pool
}

func NewDetectionRepository(pool *pgxpool.Pool) domain.DetectionRepository {
	return &detectionRepo{pool: pool}
}

// CreateSchema creates the detections table if it does not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS detections (
			id BIGSERIAL PRIMARY KEY,
			camera_id VARCHAR(100),
			timestamp TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			object_label VARCHAR(100),
			confidence FLOAT,
			image_path VARCHAR(500),
			bbox_coordinates JSONB,
			model_name VARCHAR(100),
			status VARCHAR(50) DEFAULT 'active',
			notes TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("create detections table: %w", err)
	}
	return nil
}

func (r *detectionRepo) Save(ctx context.Context, rec *domain.DetectionRecord) (int64, error) {
	boxJSON, err := json.Marshal(rec.Box)
	if err != nil {
		return 0, fmt.Errorf("marshal bbox: %w", err)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	status := rec.Status
	if status == "" {
		status = "active"
	}

	query := `
		INSERT INTO detections
			(camera_id, timestamp, object_label, confidence, image_path,
			 bbox_coordinates, model_name, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		rec.CameraID, ts, rec.Label, rec.Confidence,
		rec.ImagePath, boxJSON, rec.ModelName, status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert detection: %w", err)
	}
	return id, nil
}

func (r *detectionRepo) Recent(ctx context.Context, filter domain.RecentFilter) ([]*domain.DetectionRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	window := filter.Window
	if window <= 0 {
		window = 24 * time.Hour
	}
	since := time.Now().Add(-window)

	var (
		rows pgx.Rows
		err  error
	)
	if filter.Label != "" {
		rows, err = r.pool.Query(ctx, `
			SELECT id, camera_id, timestamp, object_label, confidence,
			       COALESCE(image_path, ''), bbox_coordinates, model_name, status,
			       COALESCE(notes, '')
			FROM detections
			WHERE timestamp >= $1 AND object_label = $2
			ORDER BY timestamp DESC
			LIMIT $3
		`, since, filter.Label, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, camera_id, timestamp, object_label, confidence,
			       COALESCE(image_path, ''), bbox_coordinates, model_name, status,
			       COALESCE(notes, '')
			FROM detections
			WHERE timestamp >= $1
			ORDER BY timestamp DESC
			LIMIT $2
		`, since, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query recent detections: %w", err)
	}
	defer rows.Close()

	var out []*domain.DetectionRecord
	for rows.Next() {
		rec := &domain.DetectionRecord{}
		var boxJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.CameraID, &rec.Timestamp, &rec.Label, &rec.Confidence,
			&rec.ImagePath, &boxJSON, &rec.ModelName, &rec.Status, &rec.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan detection row: %w", err)
		}
		if len(boxJSON) > 0 {
			if err := json.Unmarshal(boxJSON, &rec.Box); err != nil {
				return nil, fmt.Errorf("unmarshal bbox: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *detectionRepo) Statistics(ctx context.Context, window time.Duration) (*domain.Statistics, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}
	since := time.Now().Add(-window)

	rows, err := r.pool.Query(ctx, `
		SELECT object_label, COUNT(*), AVG(confidence)
		FROM detections
		WHERE timestamp >= $1
		GROUP BY object_label
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	stats := &domain.Statistics{ByLabel: make(map[string]int)}
	var confSum float64
	for rows.Next() {
		var label string
		var count int
		var avg float64
		if err := rows.Scan(&label, &count, &avg); err != nil {
			return nil, fmt.Errorf("scan statistics row: %w", err)
		}
		stats.ByLabel[label] = count
		stats.Total += count
		confSum += avg * float64(count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.AvgConfidence = confSum / float64(stats.Total)
	}
	return stats, nil
}

func (r *detectionRepo) UpdateStatus(ctx context.Context, id int64, status, notes string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE detections
		SET status = $1, notes = COALESCE(NULLIF($2, ''), notes)
		WHERE id = $3
	`, status, notes, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("update detection status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
