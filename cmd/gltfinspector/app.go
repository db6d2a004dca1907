package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/gltf-inspector/internal/capture"
	"github.com/Faultbox/gltf-inspector/internal/config"
	"github.com/Faultbox/gltf-inspector/internal/inspector"
	"github.com/Faultbox/gltf-inspector/internal/logger"
	"github.com/Faultbox/gltf-inspector/internal/ui"
	"github.com/Faultbox/gltf-inspector/internal/watch"
	"github.com/Faultbox/gltf-inspector/pkg/gltf"
)

// Layout dimensions.
const (
	inspectorPanelWidth = float32(420)
	statusBarHeight     = float32(30)
	notifyDuration      = 2 * time.Second
)

// App is the inspector program state.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	backend *ui.Backend
	widgets ui.Widgets

	inspector *inspector.Inspector
	dirty     inspector.DirtySet
	edited    inspector.Dirty // every flag consumed since the scene was loaded

	scenePath       string
	environmentPath string
	watcher         *watch.Watcher

	capturer            *capture.Capturer
	screenshotRequested bool // deferred to the start of the next frame

	// File dialog and drop results, opened on the main thread.
	pendingOpen chan string

	notifyMsg  string
	notifyTime time.Time

	lastRenderErr string
}

// NewApp creates the program state. No window is created until
// AttachBackend is called.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		cfg:         cfg,
		log:         log,
		pendingOpen: make(chan string, 1),
	}
	app.inspector = inspector.New(nil, &app.dirty,
		inspector.WithLogger(logger.Named("inspector")),
		inspector.WithRevealAllScenes(cfg.UI.RevealAllScenes),
	)

	if cfg.Automation.Enabled {
		if err := os.MkdirAll(cfg.Automation.Dir, 0755); err != nil {
			log.Warn("could not create automation dir", zap.String("dir", cfg.Automation.Dir), zap.Error(err))
		}
		app.capturer = capture.New(cfg.Automation.Dir, "gltfinspector")
	} else {
		app.capturer = capture.New(".", "gltfinspector")
	}
	return app
}

// AttachBackend connects the window to the program.
func (app *App) AttachBackend(b *ui.Backend) {
	app.backend = b
	b.OnDrop(func(paths []string) {
		for _, p := range paths {
			if config.IsSceneFile(p) {
				app.requestOpen(p)
				return
			}
		}
		app.log.Debug("ignored dropped files", zap.Strings("paths", paths))
	})
	app.updateTitle()
}

// OpenStartupFiles loads the configured scene and resolves the environment.
func (app *App) OpenStartupFiles() {
	scene := app.cfg.Scene
	if path := scene.FindFile(scene.File); path != "" {
		if err := app.OpenScene(path); err != nil {
			app.log.Error("failed to open scene", zap.String("path", path), zap.Error(err))
		}
	} else if scene.File != "" {
		app.log.Warn("scene not found", zap.String("file", scene.File), zap.Strings("searchPaths", scene.SearchPaths))
	}

	if path := scene.FindFile(scene.Environment); path != "" {
		app.environmentPath = path
		app.log.Info("environment", zap.String("path", path))
	} else if scene.Environment != "" {
		app.log.Warn("environment not found", zap.String("file", scene.Environment))
	}
}

// Close releases the file watcher.
func (app *App) Close() {
	if app.watcher != nil {
		app.watcher.Close()
		app.watcher = nil
	}
}

// Run starts the main loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// OpenScene loads a scene and makes it the edited document. The previous
// document is kept if loading fails.
func (app *App) OpenScene(path string) error {
	doc, err := gltf.Load(path)
	if err != nil {
		return err
	}
	for _, w := range doc.Warnings {
		app.log.Warn("scene repaired", zap.String("path", path), zap.String("issue", w))
	}

	app.inspector.SetDocument(doc)
	app.dirty.Take()
	app.edited = 0
	app.lastRenderErr = ""
	if app.scenePath != path {
		app.scenePath = path
		app.restartWatcher()
	}

	app.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("scenes", len(doc.Scenes)),
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("materials", len(doc.Materials)),
		zap.Int("lights", len(doc.Lights)),
	)
	app.updateTitle()
	return nil
}

func (app *App) restartWatcher() {
	if app.watcher != nil {
		app.watcher.Close()
		app.watcher = nil
	}
	if !app.cfg.Watch.Enabled || app.scenePath == "" {
		return
	}
	w, err := watch.New(app.scenePath, app.cfg.Watch.Debounce, logger.Named("watch"))
	if err != nil {
		app.log.Warn("hot reload disabled", zap.Error(err))
		return
	}
	app.watcher = w
}

// pollWatcher reloads the scene when the watcher reports a change.
func (app *App) pollWatcher() {
	if app.watcher == nil {
		return
	}
	select {
	case <-app.watcher.Changes():
		app.log.Info("scene changed on disk, reloading", zap.String("path", app.scenePath))
		if err := app.OpenScene(app.scenePath); err != nil {
			app.log.Error("reload failed", zap.Error(err))
			app.showNotification("Reload failed")
			return
		}
		app.showNotification("Reloaded: " + filepath.Base(app.scenePath))
	default:
	}
}

func (app *App) requestOpen(path string) {
	select {
	case app.pendingOpen <- path:
	default:
		app.log.Debug("open already pending", zap.String("path", path))
	}
}

// openFileDialog shows a native file dialog without blocking the frame loop.
func (app *App) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("glTF Scenes", "gltf", "glb").
			Filter("All Files", "*").
			Title("Open glTF Scene").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Error("file dialog error", zap.Error(err))
			}
			return
		}
		app.requestOpen(filename)
	}()
}

func (app *App) processPendingOpen() {
	select {
	case path := <-app.pendingOpen:
		if err := app.OpenScene(path); err != nil {
			app.log.Error("failed to open scene", zap.String("path", path), zap.Error(err))
			app.showNotification("Open failed: " + filepath.Base(path))
		}
	default:
	}
}

// consumeDirty takes the edits of this frame. Transform and visibility
// edits move the scene bounds, which scale the translation drag speed.
func (app *App) consumeDirty() inspector.Dirty {
	flags := app.dirty.Take()
	if flags == 0 {
		return 0
	}
	first := app.edited == 0
	app.edited |= flags
	app.log.Debug("scene edited",
		zap.Stringer("dirty", flags),
		zap.Stringer("selection", app.inspector.Selection()),
	)

	if flags&(inspector.DirtyNodeTransform|inspector.DirtyNodeVisibility) != 0 {
		if doc := app.inspector.Document(); doc != nil {
			if radius, err := doc.Radius(); err == nil {
				app.inspector.SetSceneRadius(radius)
			}
		}
	}
	if first {
		app.updateTitle()
	}
	return flags
}

// reportRenderError logs a malformed scene graph once rather than every frame.
func (app *App) reportRenderError(err error) {
	if err == nil {
		app.lastRenderErr = ""
		return
	}
	if msg := err.Error(); msg != app.lastRenderErr {
		app.lastRenderErr = msg
		app.log.Error("scene graph not fully drawn", zap.Error(err), zap.Bool("structural", inspector.IsStructural(err)))
	}
}

func (app *App) windowTitle() string {
	title := app.cfg.Window.Title
	if app.scenePath != "" {
		title = fmt.Sprintf("%s - %s", title, filepath.Base(app.scenePath))
	}
	if app.edited != 0 {
		title += " *"
	}
	return title
}

func (app *App) updateTitle() {
	if app.backend != nil {
		app.backend.SetWindowTitle(app.windowTitle())
	}
}

func (app *App) showNotification(msg string) {
	app.notifyMsg = msg
	app.notifyTime = time.Now()
}

// render is called each frame to draw the UI.
func (app *App) render() {
	// Capture at the start of the frame to get the previous frame's content.
	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureScreenshot()
	}

	if app.cfg.Automation.Enabled {
		app.checkAndExecuteCommand()
	}
	app.processPendingOpen()
	app.pollWatcher()

	if ui.IsKeyPressed(imgui.KeyChord(imgui.KeyF12)) {
		app.screenshotRequested = true
	}
	if ui.IsKeyPressed(ui.Ctrl(imgui.KeyD)) {
		app.dumpStateAndNotify()
	}
	if ui.IsKeyPressed(ui.Ctrl(imgui.KeyO)) {
		app.openFileDialog()
	}
	if ui.IsKeyPressed(imgui.KeyChord(imgui.KeyEscape)) && !imgui.IsAnyItemActive() {
		app.inspector.ClearSelection()
	}

	app.renderMenuBar()

	workPos, workSize := ui.Viewport()
	contentHeight := workSize.Y - statusBarHeight
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(inspectorPanelWidth, contentHeight))
	if imgui.BeginV("Scene", nil, flags) {
		if app.inspector.Document() == nil {
			imgui.TextDisabled("No scene loaded. Use File > Open or drop a .gltf file.")
		} else {
			app.reportRenderError(app.inspector.Render(app.widgets))
		}
	}
	imgui.End()

	app.consumeDirty()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		imgui.Text(app.statusText())
	}
	imgui.End()

	app.renderNotification(workPos)
}

func (app *App) renderMenuBar() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBoolV("Open Scene...", "Ctrl+O", false, true) {
			app.openFileDialog()
		}
		if imgui.MenuItemBoolV("Reload", "", false, app.scenePath != "") {
			app.requestOpen(app.scenePath)
		}
		imgui.Separator()
		if imgui.MenuItemBoolV("Screenshot", "F12", false, true) {
			app.screenshotRequested = true
		}
		if imgui.MenuItemBoolV("Dump State", "Ctrl+D", false, true) {
			app.dumpStateAndNotify()
		}
		imgui.Separator()
		if imgui.MenuItemBool("Exit") {
			app.Close()
			logger.Sync()
			os.Exit(0)
		}
		imgui.EndMenu()
	}
	if imgui.BeginMenu("Selection") {
		if imgui.MenuItemBoolV("Clear", "Esc", false, !app.inspector.Selection().IsNone()) {
			app.inspector.ClearSelection()
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

func (app *App) statusText() string {
	if app.scenePath == "" {
		return "No scene loaded"
	}
	text := fmt.Sprintf("%s | Selected: %s", app.scenePath, app.inspector.Selection())
	if app.environmentPath != "" {
		text += " | Environment: " + filepath.Base(app.environmentPath)
	}
	if app.edited != 0 {
		text += " | Edited: " + app.edited.String()
	}
	return text
}

func (app *App) renderNotification(workPos imgui.Vec2) {
	if app.notifyMsg == "" {
		return
	}
	if time.Since(app.notifyTime) >= notifyDuration {
		app.notifyMsg = ""
		return
	}
	notifyFlags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+inspectorPanelWidth+10, workPos.Y+10))
	imgui.SetNextWindowBgAlpha(0.85)
	if imgui.BeginV("##Notify", nil, notifyFlags) {
		imgui.Text(app.notifyMsg)
	}
	imgui.End()
}
