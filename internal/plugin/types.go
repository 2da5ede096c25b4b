// Package plugin discovers and runs out-of-process plugins. SignSpeak uses
// them for output channels such as speech.
package plugin

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Supports reports whether the manifest lists action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Validate checks that the manifest names the plugin and an executable
// inside the plugin directory.
func (m Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("manifest has no name")
	}
	if m.Executable == "" {
		return errors.New("manifest has no executable")
	}
	if filepath.IsAbs(m.Executable) || !filepath.IsLocal(m.Executable) {
		return errors.New("manifest executable must be inside the plugin directory")
	}
	return nil
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action string          `json:"action"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
