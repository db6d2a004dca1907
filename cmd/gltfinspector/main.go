// glTF Inspector - browse and edit the scene graph, materials and lights of
// a glTF scene.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/gltf-inspector/internal/config"
	"github.com/Faultbox/gltf-inspector/internal/logger"
	"github.com/Faultbox/gltf-inspector/internal/ui"
)

func main() {
	// SDL and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== glTF Inspector ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app := NewApp(cfg, logger.Named("app"))
	defer app.Close()

	b, err := ui.NewBackend(ui.BackendOptions{
		Title:    cfg.Window.Title,
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		FontPath: cfg.Window.FontPath,
		FontSize: cfg.Window.FontSize,
		Logger:   logger.Named("ui"),
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		os.Exit(1)
	}
	app.AttachBackend(b)

	app.OpenStartupFiles()
	app.Run()

	logger.Info("inspector closed normally")
}
