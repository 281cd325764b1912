package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/pathsense/internal/geom"
	"github.com/ayusman/pathsense/internal/gesture"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Gesture is the stored header of a template.
type Gesture struct {
	ID        string
	Name      string
	Type      gesture.Type
	Samples   int // training strokes kept for the template
	CreatedAt time.Time
	UpdatedAt time.Time
}

const gestureColumns = `id, name, type, samples, created_at, updated_at`

// GestureRepository reads and writes templates.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the template repository for this store.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGesture(row rowScanner) (*Gesture, error) {
	g := &Gesture{}
	var typ string
	if err := row.Scan(&g.ID, &g.Name, &typ, &g.Samples, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Type = gesture.Type(typ)
	return g, nil
}

// GetByName returns the gesture called name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	g, err := scanGesture(r.db.QueryRow(
		`SELECT `+gestureColumns+` FROM gestures WHERE name = ?`, name,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

// List returns every gesture in the order it was saved.
func (r *GestureRepository) List() ([]*Gesture, error) {
	rows, err := r.db.Query(`SELECT ` + gestureColumns + ` FROM gestures ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Gesture
	for rows.Next() {
		g, err := scanGesture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Delete removes a gesture by ID. Its points and training strokes go with
// it.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Points returns the template points of a gesture in sequence order.
func (r *GestureRepository) Points(gestureID string) ([]geom.Sample, error) {
	rows, err := r.db.Query(
		`SELECT x, y, timestamp_ms FROM template_points
		 WHERE gesture_id = ? ORDER BY sequence`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []geom.Sample
	for rows.Next() {
		var x, y float64
		var p geom.Sample
		if err := rows.Scan(&x, &y, &p.TimestampMs); err != nil {
			return nil, err
		}
		p.X, p.Y = float32(x), float32(y)
		points = append(points, p)
	}
	return points, rows.Err()
}

// SaveTemplate stores t and the strokes it was trained from under t.Name,
// replacing any gesture of that name. The old gesture survives untouched
// when any part of the write fails. An empty t.ID is filled with a fresh
// UUID.
func (r *GestureRepository) SaveTemplate(t *gesture.Template, strokes []json.RawMessage) (*Gesture, error) {
	id := t.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	g := &Gesture{ID: id, Name: t.Name, Type: t.Type, Samples: len(strokes), CreatedAt: now, UpdatedAt: now}

	err := withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM gestures WHERE name = ?`, g.Name); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO gestures (`+gestureColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.Name, string(g.Type), g.Samples, g.CreatedAt, g.UpdatedAt,
		); err != nil {
			return err
		}
		if err := insertPoints(tx, g.ID, t.Points); err != nil {
			return fmt.Errorf("points: %w", err)
		}
		if err := insertStrokes(tx, g.ID, strokes); err != nil {
			return fmt.Errorf("strokes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save template %q: %w", t.Name, err)
	}

	t.ID = g.ID
	return g, nil
}

func insertPoints(tx *sql.Tx, gestureID string, points []geom.Sample) error {
	stmt, err := tx.Prepare(
		`INSERT INTO template_points (gesture_id, sequence, x, y, timestamp_ms) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(gestureID, i, p.X, p.Y, p.TimestampMs); err != nil {
			return err
		}
	}
	return nil
}

// LoadTemplates rebuilds every stored gesture that has points, in the
// order they were saved.
func (r *GestureRepository) LoadTemplates() ([]*gesture.Template, error) {
	gestures, err := r.List()
	if err != nil {
		return nil, err
	}

	templates := make([]*gesture.Template, 0, len(gestures))
	for _, g := range gestures {
		points, err := r.Points(g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load points for %q: %w", g.Name, err)
		}
		if len(points) == 0 {
			continue
		}
		templates = append(templates, gesture.RestoreTemplate(g.ID, g.Name, g.Type, points))
	}
	return templates, nil
}
