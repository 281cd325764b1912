package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/pathsense/internal/gesture"
)

// writeManifest creates <root>/<dir>/plugin.json.
func writeManifest(t *testing.T, root, dir string, m Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(root, dir)
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	pluginDir := writeManifest(t, tmpDir, "notify", Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "Desktop notification on gesture",
		Executable:  "notify.sh",
		Gestures:    []string{"check", "CIRCLE"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "notify" {
		t.Errorf("expected plugin name 'notify', got %q", plugin.Manifest.Name)
	}
	if plugin.Manifest.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", plugin.Manifest.Version)
	}
	if len(plugin.Manifest.Gestures) != 2 {
		t.Errorf("expected 2 gestures, got %d", len(plugin.Manifest.Gestures))
	}
	if plugin.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, plugin.Path)
	}
	if plugin.Executable != filepath.Join(pluginDir, "notify.sh") {
		t.Errorf("unexpected executable %q", plugin.Executable)
	}
}

func TestManager_Discover_MultiplePluginsSorted(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		writeManifest(t, tmpDir, name, Manifest{Name: name, Executable: name, Gestures: []string{AnyGesture}})
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(plugins) != len(want) {
		t.Fatalf("expected %d plugins, got %d", len(want), len(plugins))
	}
	for i, p := range plugins {
		if p.Manifest.Name != want[i] {
			t.Errorf("plugins[%d] = %q, want %q", i, p.Manifest.Name, want[i])
		}
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	// Invalid JSON
	badDir := filepath.Join(tmpDir, "bad")
	if err := os.MkdirAll(badDir, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	// Missing executable
	writeManifest(t, tmpDir, "noexec", Manifest{Name: "noexec"})

	// Directory without manifest
	if err := os.MkdirAll(filepath.Join(tmpDir, "empty"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	// Stray file at the root
	if err := os.WriteFile(filepath.Join(tmpDir, "README"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	writeManifest(t, tmpDir, "good", Manifest{Name: "good", Executable: "run"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 || plugins[0].Manifest.Name != "good" {
		t.Errorf("expected only the valid plugin, got %d", len(plugins))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() should tolerate a missing dir: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no plugins")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "my-plugin", Manifest{Name: "my-plugin", Executable: "my-plugin-bin"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("my-plugin")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if plugin.Manifest.Executable != "my-plugin-bin" {
		t.Errorf("unexpected executable %q", plugin.Manifest.Executable)
	}

	if _, err := manager.Get("nope"); err != ErrPluginNotFound {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
	if manager.PluginDir() != tmpDir {
		t.Errorf("PluginDir() = %q, want %q", manager.PluginDir(), tmpDir)
	}
}

func TestPlugin_Handles(t *testing.T) {
	byName := &Plugin{Manifest: Manifest{Gestures: []string{"check"}}}
	byType := &Plugin{Manifest: Manifest{Gestures: []string{"CIRCLE"}}}
	wildcard := &Plugin{Manifest: Manifest{Gestures: []string{AnyGesture}}}

	check := gesture.Match{Type: gesture.TypeCustom, Name: "check"}
	circle := gesture.Match{Type: gesture.TypeCircle, Name: "circle"}
	unknown := gesture.Match{Type: gesture.TypeUnknown}

	tests := []struct {
		name   string
		plugin *Plugin
		match  gesture.Match
		want   bool
	}{
		{"name matches", byName, check, true},
		{"name misses", byName, circle, false},
		{"type matches", byType, circle, true},
		{"type misses", byType, check, false},
		{"any matches custom", wildcard, check, true},
		{"any skips unknown", wildcard, unknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plugin.Handles(tt.match); got != tt.want {
				t.Errorf("Handles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager_Subscribers(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, "b", Manifest{Name: "b", Executable: "b", Gestures: []string{"check"}})
	writeManifest(t, tmpDir, "a", Manifest{Name: "a", Executable: "a", Gestures: []string{AnyGesture}})
	writeManifest(t, tmpDir, "c", Manifest{Name: "c", Executable: "c", Gestures: []string{"LINE"}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	subs := manager.Subscribers(gesture.Match{Type: gesture.TypeCustom, Name: "check"})
	if len(subs) != 2 || subs[0].Manifest.Name != "a" || subs[1].Manifest.Name != "b" {
		t.Errorf("unexpected subscribers: %d", len(subs))
	}
}
