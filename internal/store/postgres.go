package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argos-av/scorecard/internal/perception"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const frameColumns = `frame_id, scene, captured_at, match_records, ground_truths, created_at`

func (s *PostgresStore) CreateFrame(ctx context.Context, frame *Frame) error {
	recordsJSON, err := json.Marshal(frame.MatchRecords)
	if err != nil {
		return fmt.Errorf("marshal match records: %w", err)
	}
	truthsJSON, err := json.Marshal(frame.GroundTruths)
	if err != nil {
		return fmt.Errorf("marshal ground truths: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO perception_frames (scene, captured_at, match_records, ground_truths)
		VALUES ($1, $2, $3, $4)
		RETURNING frame_id, created_at`,
		frame.Scene, frame.CapturedAt, recordsJSON, truthsJSON,
	).Scan(&frame.ID, &frame.CreatedAt)
}

func (s *PostgresStore) GetFrame(ctx context.Context, id uuid.UUID) (*Frame, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+frameColumns+`
		FROM perception_frames WHERE frame_id = $1`, id)
	frame, err := scanFrame(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return frame, nil
}

func (s *PostgresStore) ListFrames(ctx context.Context, filter FrameFilter) ([]*Frame, error) {
	query := `SELECT ` + frameColumns + ` FROM perception_frames`
	args := []interface{}{}
	if filter.Scene != "" {
		query += ` WHERE scene = $1`
		args = append(args, filter.Scene)
	}
	query += ` ORDER BY captured_at ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*Frame
	for rows.Next() {
		frame, err := scanFrame(rows)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

func (s *PostgresStore) DeleteFrame(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM perception_frames WHERE frame_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("frame %s not found", id)
	}
	return nil
}

func (s *PostgresStore) SceneCounts(ctx context.Context) ([]SceneCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT scene, COUNT(*) FROM perception_frames
		GROUP BY scene ORDER BY scene`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []SceneCount
	for rows.Next() {
		var c SceneCount
		if err := rows.Scan(&c.Scene, &c.Frames); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFrame(row rowScanner) (*Frame, error) {
	f := &Frame{}
	var recordsJSON, truthsJSON []byte
	if err := row.Scan(&f.ID, &f.Scene, &f.CapturedAt, &recordsJSON, &truthsJSON, &f.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recordsJSON, &f.MatchRecords); err != nil {
		return nil, fmt.Errorf("unmarshal match records: %w", err)
	}
	if err := json.Unmarshal(truthsJSON, &f.GroundTruths); err != nil {
		return nil, fmt.Errorf("unmarshal ground truths: %w", err)
	}
	if f.MatchRecords == nil {
		f.MatchRecords = []perception.MatchRecord{}
	}
	if f.GroundTruths == nil {
		f.GroundTruths = []perception.GroundTruth{}
	}
	return f, nil
}
