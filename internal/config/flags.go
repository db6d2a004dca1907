package config

import (
	"flag"
	"path/filepath"
	"strings"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagScene       = flag.String("f", "", "glTF scene to load (.gltf or .glb)")
	flagEnvironment = flag.String("e", "", "HDR environment map")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagWatch       = flag.Bool("watch", false, "Reload the scene when the file changes")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// IsSceneFile reports whether path names a glTF scene.
func IsSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

// applyFlags applies CLI flag overrides to the config. A single positional
// scene argument, as passed when a file is dropped on the executable, is
// used when -f is absent.
func applyFlags(cfg *Config, args []string) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	switch {
	case *flagScene != "":
		cfg.Scene.File = *flagScene
	case len(args) == 1 && IsSceneFile(args[0]):
		cfg.Scene.File = args[0]
	}
	if *flagEnvironment != "" {
		cfg.Scene.Environment = *flagEnvironment
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
}
