package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Stroke is one recorded training stroke of a gesture.
type Stroke struct {
	ID          int64           `json:"id"`
	GestureID   string          `json:"gesture_id"`
	StrokeIndex int             `json:"stroke_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StrokeRepository reads training strokes. They are written by
// GestureRepository.SaveTemplate.
type StrokeRepository struct {
	db *sql.DB
}

// Strokes returns the training stroke repository for this store.
func (s *Store) Strokes() *StrokeRepository {
	return &StrokeRepository{db: s.db}
}

func insertStrokes(tx *sql.Tx, gestureID string, strokes []json.RawMessage) error {
	stmt, err := tx.Prepare(`INSERT INTO training_strokes (gesture_id, stroke_index, data) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, data := range strokes {
		if _, err := stmt.Exec(gestureID, i, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// GetByGestureID returns the strokes of a gesture in recording order.
func (r *StrokeRepository) GetByGestureID(gestureID string) ([]Stroke, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, stroke_index, data, created_at
		 FROM training_strokes
		 WHERE gesture_id = ?
		 ORDER BY stroke_index`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var strokes []Stroke
	for rows.Next() {
		var s Stroke
		var data string
		if err := rows.Scan(&s.ID, &s.GestureID, &s.StrokeIndex, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Data = json.RawMessage(data)
		strokes = append(strokes, s)
	}
	return strokes, rows.Err()
}
