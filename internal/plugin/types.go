// Package plugin runs external executables when a gesture is recognized.
//
// A plugin lives in its own directory under the plugin root with a
// plugin.json manifest naming its executable and the gestures it handles.
// For each recognized gesture the executable receives a Request as JSON on
// stdin and answers with a Response as JSON on stdout.
package plugin

import (
	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/metrics"
)

// AnyGesture subscribes a plugin to every recognized gesture.
const AnyGesture = "*"

// Manifest describes a plugin's metadata and subscriptions.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Gestures lists template names (e.g. "check") or types (e.g. "CIRCLE")
	// the plugin handles. AnyGesture matches everything except UNKNOWN.
	Gestures []string `json:"gestures"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	SessionID string               `json:"session_id"`
	Gesture   gesture.Match        `json:"gesture"`
	Metrics   *metrics.PathMetrics `json:"metrics,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin subscribes to m. UNKNOWN results are
// never handled.
func (p *Plugin) Handles(m gesture.Match) bool {
	if m.Type == gesture.TypeUnknown {
		return false
	}
	for _, g := range p.Manifest.Gestures {
		if g == AnyGesture || g == string(m.Type) || (m.Name != "" && g == m.Name) {
			return true
		}
	}
	return false
}
