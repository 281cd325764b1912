package plugin

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ayusman/pathsense/internal/geom"
	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/metrics"
	"github.com/ayusman/pathsense/internal/tracker"
)

// recordingPlugin installs a plugin under root that appends each request
// it receives as one line to requests.jsonl in its own directory.
func recordingPlugin(t *testing.T, root, name string, gestures []string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := writeManifest(t, root, name, Manifest{
		Name:       name,
		Version:    "0.1.0",
		Executable: "run.sh",
		Gestures:   gestures,
	})
	script := "#!/bin/sh\ncat >> requests.jsonl\necho >> requests.jsonl\necho '{\"success\":true,\"message\":\"recorded\"}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return filepath.Join(dir, "requests.jsonl")
}

func readRequests(t *testing.T, path string) []Request {
	t.Helper()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("failed to read requests: %v", err)
	}

	var reqs []Request
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var r Request
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("bad request line %q: %v", line, err)
		}
		reqs = append(reqs, r)
	}
	return reqs
}

func newTestHooks(t *testing.T, root string, logs *bytes.Buffer) *Hooks {
	t.Helper()

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewHooks(manager, NewExecutor(5000), logger)
}

func TestHooks_RunsSubscribedPlugins(t *testing.T) {
	root := t.TempDir()
	checkLog := recordingPlugin(t, root, "on-check", []string{"check"})
	lineLog := recordingPlugin(t, root, "on-line", []string{string(gesture.TypeLine)})

	var logs bytes.Buffer
	hooks := newTestHooks(t, root, &logs)

	m := metrics.PathMetrics{Length: 123.5, DeltaX: 40, DeltaY: -12}
	match := gesture.Match{Type: gesture.TypeCustom, Name: "check", Score: 0.91, Algorithm: gesture.AlgorithmDollarOne}

	hooks.HandleEvent(tracker.Started{SessionID: "s1"})
	hooks.HandleEvent(tracker.MetricsEnded{SessionID: "s1", Metrics: m})
	hooks.HandleEvent(tracker.GestureRecognized{SessionID: "s1", Match: match})

	reqs := readRequests(t, checkLog)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request to on-check, got %d", len(reqs))
	}
	if reqs[0].SessionID != "s1" {
		t.Errorf("session = %q, want s1", reqs[0].SessionID)
	}
	if reqs[0].Gesture != match {
		t.Errorf("gesture = %+v, want %+v", reqs[0].Gesture, match)
	}
	if reqs[0].Metrics == nil || reqs[0].Metrics.Length != m.Length || reqs[0].Metrics.DeltaY != m.DeltaY {
		t.Errorf("metrics not forwarded: %+v", reqs[0].Metrics)
	}

	if got := readRequests(t, lineLog); len(got) != 0 {
		t.Errorf("on-line should not run for a check, got %d requests", len(got))
	}
	if hooks.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", hooks.Runs())
	}
	if !strings.Contains(logs.String(), "plugin ran") {
		t.Errorf("expected success log, got:\n%s", logs.String())
	}
}

func TestHooks_SkipsUnknown(t *testing.T) {
	root := t.TempDir()
	requestsLog := recordingPlugin(t, root, "all", []string{AnyGesture})

	var logs bytes.Buffer
	hooks := newTestHooks(t, root, &logs)

	hooks.HandleEvent(tracker.GestureRecognized{
		SessionID: "s2",
		Match:     gesture.Match{Type: gesture.TypeUnknown, Score: 0.2, Algorithm: gesture.AlgorithmDollarOne},
	})

	if got := readRequests(t, requestsLog); len(got) != 0 {
		t.Errorf("expected no requests for UNKNOWN, got %d", len(got))
	}
	if hooks.Runs() != 0 {
		t.Errorf("Runs() = %d, want 0", hooks.Runs())
	}
}

func TestHooks_WithoutMetrics(t *testing.T) {
	root := t.TempDir()
	requestsLog := recordingPlugin(t, root, "all", []string{AnyGesture})

	var logs bytes.Buffer
	hooks := newTestHooks(t, root, &logs)

	// Metrics of a different session must not leak.
	hooks.HandleEvent(tracker.MetricsEnded{SessionID: "other", Metrics: metrics.PathMetrics{Length: 9}})
	hooks.HandleEvent(tracker.GestureRecognized{
		SessionID: "s3",
		Match:     gesture.Match{Type: gesture.TypeCircle, Name: "circle", Score: 0.88, Algorithm: gesture.AlgorithmDollarOne},
	})

	reqs := readRequests(t, requestsLog)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Metrics != nil {
		t.Errorf("expected nil metrics, got %+v", reqs[0].Metrics)
	}
}

func TestHooks_LogsFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}
	root := t.TempDir()
	dir := writeManifest(t, root, "broken", Manifest{Name: "broken", Executable: "run.sh", Gestures: []string{AnyGesture}})
	script := "#!/bin/sh\necho '{\"success\":false,\"error\":\"no display\"}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	var logs bytes.Buffer
	hooks := newTestHooks(t, root, &logs)
	hooks.HandleEvent(tracker.GestureRecognized{
		SessionID: "s4",
		Match:     gesture.Match{Type: gesture.TypeLine, Name: "line", Score: 0.95, Algorithm: gesture.AlgorithmDollarOne},
	})

	out := logs.String()
	if !strings.Contains(out, "plugin reported failure") || !strings.Contains(out, "no display") {
		t.Errorf("expected failure log, got:\n%s", out)
	}
	if hooks.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", hooks.Runs())
	}
}

func TestHooks_TapsDoNotAccumulate(t *testing.T) {
	root := t.TempDir()
	requestsLog := recordingPlugin(t, root, "lines", []string{string(gesture.TypeLine)})

	var logs bytes.Buffer
	hooks := newTestHooks(t, root, &logs)
	tr := tracker.New(tracker.DefaultConfig(), tracker.WithListener(hooks))

	// Single-point strokes end with metrics but are never recognized.
	for i := 0; i < 1000; i++ {
		p := geom.Sample{X: 50, Y: 50, TimestampMs: int64(i * 100)}
		tr.OnDown(p)
		p.TimestampMs++
		tr.OnUp(p)
	}

	tr.OnDown(geom.Sample{X: 0, Y: 200, TimestampMs: 200_000})
	for i := 1; i < 11; i++ {
		tr.OnMove(geom.Sample{X: float32(10 * i), Y: 200, TimestampMs: int64(200_000 + 10*i)})
	}
	tr.OnUp(geom.Sample{X: 110, Y: 200, TimestampMs: 200_110})
	tr.Close()

	reqs := readRequests(t, requestsLog)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Metrics == nil || reqs[0].Metrics.Length < 50 {
		t.Errorf("expected the line's metrics, got %+v", reqs[0].Metrics)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.lastSession != "" {
		t.Errorf("metrics of %q still held after recognition", hooks.lastSession)
	}
}
