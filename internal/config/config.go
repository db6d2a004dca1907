// Package config handles inspector configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all inspector settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Scene      SceneConfig      `yaml:"scene"`
	UI         UIConfig         `yaml:"ui"`
	Logging    LoggingConfig    `yaml:"logging"`
	Automation AutomationConfig `yaml:"automation"`
	Watch      WatchConfig      `yaml:"watch"`
}

// WindowConfig holds window and font settings.
type WindowConfig struct {
	Title    string  `yaml:"title"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	FontPath string  `yaml:"font_path"` // empty uses the ImGui default font
	FontSize float32 `yaml:"font_size"`
}

// SceneConfig holds the files loaded at startup.
type SceneConfig struct {
	File        string   `yaml:"file"`        // .gltf or .glb scene
	Environment string   `yaml:"environment"` // HDR environment map
	SearchPaths []string `yaml:"search_paths"`
}

// UIConfig holds inspector behavior settings.
type UIConfig struct {
	// RevealAllScenes makes node selection expand ancestors in every scene,
	// not only the first one.
	RevealAllScenes bool `yaml:"reveal_all_scenes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// AutomationConfig holds settings of the file-based command interface used
// by scripted GUI tests.
type AutomationConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // command.json, state.json and screenshots
}

// WatchConfig holds scene hot-reload settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:    "glTF Inspector",
			Width:    1280,
			Height:   800,
			FontSize: 16,
		},
		Scene: SceneConfig{
			File:        "FlightHelmet/FlightHelmet.gltf",
			Environment: "environment.hdr",
			SearchPaths: []string{".", "media", "resources"},
		},
		UI: UIConfig{
			RevealAllScenes: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Automation: AutomationConfig{
			Enabled: true,
			Dir:     filepath.Join(os.TempDir(), "gltfinspector"),
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 200 * time.Millisecond,
		},
	}
}

// FindFile resolves name against the scene search paths. Absolute or
// directly reachable paths are returned unchanged; "" means not found.
func (c *SceneConfig) FindFile(name string) string {
	if name == "" {
		return ""
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	if filepath.IsAbs(name) {
		return ""
	}
	for _, dir := range c.SearchPaths {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
