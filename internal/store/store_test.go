package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/pathsense/internal/gesture"
)

// newTestStore opens a Store in a temp dir and closes it on cleanup.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "templates.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_CreatesParentDirs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "templates.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	if s.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", s.Path(), dbPath)
	}
}

func TestNew_Schema(t *testing.T) {
	s := newTestStore(t)

	objects := []struct{ kind, name string }{
		{"table", "gestures"},
		{"table", "template_points"},
		{"table", "training_strokes"},
		{"index", "idx_template_points_gesture_id"},
		{"index", "idx_training_strokes_gesture_id"},
	}
	for _, o := range objects {
		var n int
		if err := s.DB().QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", o.kind, o.name,
		).Scan(&n); err != nil {
			t.Fatalf("query %s %s: %v", o.kind, o.name, err)
		}
		if n != 1 {
			t.Errorf("%s %q not created", o.kind, o.name)
		}
	}
}

func TestNew_MigrationsAreRepeatable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "templates.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tmpl := gesture.NewTemplate("g1", "swoosh", gesture.TypeCustom, gesture.LineStroke())
	if _, err := s.Gestures().SaveTemplate(tmpl, nil); err != nil {
		t.Fatalf("SaveTemplate() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	g, err := s.Gestures().GetByName("swoosh")
	if err != nil {
		t.Fatalf("GetByName() after reopen error = %v", err)
	}
	if g.ID != "g1" {
		t.Errorf("ID = %q, want g1", g.ID)
	}
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	s := newTestStore(t)

	// Checked twice: the setting must hold for every pooled query.
	for i := 0; i < 2; i++ {
		var on int
		if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&on); err != nil {
			t.Fatalf("PRAGMA foreign_keys: %v", err)
		}
		if on != 1 {
			t.Fatalf("foreign_keys = %d on query %d, want 1", on, i)
		}
	}
}

func TestStore_RejectsUnknownType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DB().Exec(`INSERT INTO gestures (id, name, type) VALUES ('g1', 'blob', 'BLOB')`)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject type BLOB")
	}
}

func TestStore_Close(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "templates.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.DB().Ping(); err == nil {
		t.Error("Ping() after Close() should fail")
	}
}
