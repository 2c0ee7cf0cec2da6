package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit bounds List when no limit is given.
const DefaultHistoryLimit = 50

// Recognition is one evaluated stroke. GestureName is empty when nothing
// matched.
type Recognition struct {
	ID          string    `json:"id"`
	GestureName string    `json:"gesture_name,omitempty"`
	Score       float64   `json:"score"`
	Distance    float64   `json:"distance"`
	Points      int       `json:"points"`
	Matched     bool      `json:"matched"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryRepository records and lists recognitions.
type HistoryRepository struct {
	db *sql.DB
}

// History returns the recognition history repository for this store.
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{db: s.db}
}

// Record inserts a recognition. ID and CreatedAt are filled when empty.
func (r *HistoryRepository) Record(rec *Recognition) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var name sql.NullString
	if rec.GestureName != "" {
		name = sql.NullString{String: rec.GestureName, Valid: true}
	}

	_, err := r.db.Exec(
		`INSERT INTO recognitions (id, gesture_name, score, distance, points, matched, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, name, rec.Score, rec.Distance, rec.Points, rec.Matched, rec.CreatedAt,
	)
	return err
}

// List returns the most recent recognitions, newest first.
func (r *HistoryRepository) List(limit int) ([]*Recognition, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := r.db.Query(
		`SELECT id, gesture_name, score, distance, points, matched, created_at
		 FROM recognitions ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*Recognition
	for rows.Next() {
		rec := &Recognition{}
		var name sql.NullString
		var matched int

		if err := rows.Scan(&rec.ID, &name, &rec.Score, &rec.Distance, &rec.Points, &matched, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.GestureName = name.String
		rec.Matched = matched != 0
		history = append(history, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

// Stats is a per-gesture count of matched recognitions.
type Stats struct {
	GestureName string  `json:"gesture_name"`
	Count       int     `json:"count"`
	MeanScore   float64 `json:"mean_score"`
}

// Stats aggregates matched recognitions by gesture name.
func (r *HistoryRepository) Stats() ([]Stats, error) {
	rows, err := r.db.Query(
		`SELECT gesture_name, COUNT(*), AVG(score) FROM recognitions
		 WHERE matched = 1 GROUP BY gesture_name ORDER BY COUNT(*) DESC, gesture_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stats
	for rows.Next() {
		var s Stats
		if err := rows.Scan(&s.GestureName, &s.Count, &s.MeanScore); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Prune deletes recognitions older than the cutoff.
func (r *HistoryRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM recognitions WHERE created_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
