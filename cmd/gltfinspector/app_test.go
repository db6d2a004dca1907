package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/gltf-inspector/internal/config"
	"github.com/Faultbox/gltf-inspector/internal/inspector"
)

const chainScene = `{
  "asset": {"version": "2.0"},
  "scenes": [{"name": "Main", "nodes": [0, 3]}],
  "nodes": [
    {"name": "A", "children": [1]},
    {"name": "B", "children": [2]},
    {"name": "C", "extensions": {"KHR_lights_punctual": {"light": 0}}},
    {"name": "D", "camera": 0}
  ],
  "materials": [{"name": "Red"}, {"name": "Blue"}],
  "cameras": [{"type": "perspective", "perspective": {"yfov": 0.8, "znear": 0.1}}],
  "extensions": {"KHR_lights_punctual": {"lights": [{"type": "point"}]}}
}`

func writeScene(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}
}

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Automation.Dir = dir

	app := NewApp(cfg, nil)
	t.Cleanup(app.Close)

	scene := filepath.Join(dir, "chain.gltf")
	writeScene(t, scene, chainScene)
	if err := app.OpenScene(scene); err != nil {
		t.Fatalf("OpenScene failed: %v", err)
	}
	return app, scene
}

func intPtr(i int) *int { return &i }

func TestOpenScene(t *testing.T) {
	app, scene := newTestApp(t)

	doc := app.inspector.Document()
	if doc == nil || len(doc.Nodes) != 4 {
		t.Fatalf("document not loaded: %+v", doc)
	}
	if app.scenePath != scene {
		t.Errorf("scenePath = %q, want %q", app.scenePath, scene)
	}
	if got := app.windowTitle(); got != "glTF Inspector - chain.gltf" {
		t.Errorf("windowTitle = %q", got)
	}
}

func TestOpenSceneFailureKeepsDocument(t *testing.T) {
	app, scene := newTestApp(t)
	doc := app.inspector.Document()

	bad := filepath.Join(t.TempDir(), "bad.gltf")
	writeScene(t, bad, "{not json")
	if err := app.OpenScene(bad); err == nil {
		t.Fatal("expected error for malformed scene")
	}
	if app.inspector.Document() != doc || app.scenePath != scene {
		t.Error("failed open replaced the current scene")
	}
}

func TestOpenSceneResetsState(t *testing.T) {
	app, scene := newTestApp(t)

	if err := app.inspector.SelectNode(2); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}
	app.dirty.Set(inspector.DirtyLight)
	app.consumeDirty()

	if err := app.OpenScene(scene); err != nil {
		t.Fatalf("OpenScene failed: %v", err)
	}
	if !app.inspector.Selection().IsNone() {
		t.Errorf("selection survived reload: %v", app.inspector.Selection())
	}
	if len(app.inspector.OpenNodes()) != 0 {
		t.Errorf("open nodes survived reload: %v", app.inspector.OpenNodes())
	}
	if app.edited != 0 {
		t.Errorf("edited flags survived reload: %v", app.edited)
	}
}

func TestExecuteCommand(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		want    string
		open    []int
		wantErr error
	}{
		{name: "select node reveals ancestors", cmd: Command{Action: "select_node", Index: intPtr(2)}, want: "node 2", open: []int{0, 1}},
		{name: "negative node clears", cmd: Command{Action: "select_node", Index: intPtr(-1)}, want: "none"},
		{name: "node out of range", cmd: Command{Action: "select_node", Index: intPtr(9)}, want: "none", wantErr: inspector.ErrIndexOutOfRange},
		{name: "material", cmd: Command{Action: "select_material", Index: intPtr(1)}, want: "material 1"},
		{name: "material out of range", cmd: Command{Action: "select_material", Index: intPtr(2)}, want: "none", wantErr: inspector.ErrIndexOutOfRange},
		{name: "light", cmd: Command{Action: "select_light", Index: intPtr(0)}, want: "light 0"},
		{name: "camera", cmd: Command{Action: "select_camera", Index: intPtr(0)}, want: "camera 0"},
		{name: "missing index", cmd: Command{Action: "select_light"}, want: "none", wantErr: errMissingIndex},
		{name: "clear", cmd: Command{Action: "clear_selection"}, want: "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)

			err := app.executeCommand(tt.cmd)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := app.inspector.Selection().String(); got != tt.want {
				t.Errorf("selection = %q, want %q", got, tt.want)
			}
			open := app.inspector.OpenNodes()
			if len(open) != len(tt.open) {
				t.Fatalf("open nodes = %v, want %v", open, tt.open)
			}
			for i := range open {
				if open[i] != tt.open[i] {
					t.Errorf("open nodes = %v, want %v", open, tt.open)
				}
			}
		})
	}
}

func TestExecuteCommandMisc(t *testing.T) {
	app, _ := newTestApp(t)

	if err := app.executeCommand(Command{Action: "fly"}); err == nil {
		t.Error("expected error for unknown command")
	}
	if err := app.executeCommand(Command{Action: "open_scene"}); err == nil {
		t.Error("expected error for open_scene without path")
	}
	if err := app.executeCommand(Command{Action: "screenshot"}); err != nil || !app.screenshotRequested {
		t.Errorf("screenshot not requested: err=%v", err)
	}
}

func TestCheckAndExecuteCommand(t *testing.T) {
	app, _ := newTestApp(t)
	cmdPath := filepath.Join(app.cfg.Automation.Dir, commandFile)

	writeScene(t, cmdPath, `{"action": "select_node", "index": 1}`)
	app.checkAndExecuteCommand()

	if _, err := os.Stat(cmdPath); !os.IsNotExist(err) {
		t.Error("command file should be removed after execution")
	}
	if !app.inspector.Selection().Is(inspector.KindNode, 1) {
		t.Errorf("selection = %v, want node 1", app.inspector.Selection())
	}

	// Invalid JSON is consumed and ignored.
	writeScene(t, cmdPath, `{"action":`)
	app.checkAndExecuteCommand()
	if _, err := os.Stat(cmdPath); !os.IsNotExist(err) {
		t.Error("invalid command file should be removed")
	}
	if !app.inspector.Selection().Is(inspector.KindNode, 1) {
		t.Error("invalid command changed the selection")
	}
}

func TestDumpState(t *testing.T) {
	app, scene := newTestApp(t)
	if err := app.inspector.SelectNode(2); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}
	app.dirty.Set(inspector.DirtyNodeTransform | inspector.DirtyMaterial)
	app.consumeDirty()

	path, err := app.dumpState()
	if err != nil {
		t.Fatalf("dumpState failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read state: %v", err)
	}

	var state GUIState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("invalid state JSON: %v", err)
	}
	if state.ScenePath != scene {
		t.Errorf("ScenePath = %q", state.ScenePath)
	}
	if state.Selection.Kind != "node" || state.Selection.Index != 2 {
		t.Errorf("Selection = %+v", state.Selection)
	}
	if len(state.OpenNodes) != 2 || state.OpenNodes[0] != 0 || state.OpenNodes[1] != 1 {
		t.Errorf("OpenNodes = %v", state.OpenNodes)
	}
	if strings.Join(state.Edited, ",") != "node-transform,material" {
		t.Errorf("Edited = %v", state.Edited)
	}
	if state.Stats.Nodes != 4 || state.Stats.Materials != 2 || state.Stats.Lights != 1 || state.Stats.Cameras != 1 {
		t.Errorf("Stats = %+v", state.Stats)
	}
}

func TestDumpStateNoSelection(t *testing.T) {
	app, _ := newTestApp(t)
	state := app.state()
	if state.Selection.Kind != "none" || state.Selection.Index != -1 {
		t.Errorf("Selection = %+v", state.Selection)
	}
	if state.OpenNodes == nil || state.Edited == nil {
		t.Error("empty lists should marshal as []")
	}
}

func TestConsumeDirty(t *testing.T) {
	app, _ := newTestApp(t)

	if got := app.consumeDirty(); got != 0 {
		t.Errorf("consumeDirty on clean set = %v", got)
	}

	app.dirty.Set(inspector.DirtyMaterial)
	if got := app.consumeDirty(); got != inspector.DirtyMaterial {
		t.Errorf("consumeDirty = %v, want material", got)
	}
	if app.dirty.Flags() != 0 {
		t.Error("flags should be cleared once consumed")
	}
	if !strings.HasSuffix(app.windowTitle(), " *") {
		t.Errorf("title should mark edits: %q", app.windowTitle())
	}

	app.dirty.Set(inspector.DirtyNodeTransform)
	app.consumeDirty()
	if !app.edited.Has(inspector.DirtyMaterial | inspector.DirtyNodeTransform) {
		t.Errorf("edited = %v", app.edited)
	}
}

func TestReportRenderErrorOnce(t *testing.T) {
	app, _ := newTestApp(t)
	core, logs := observer.New(zap.ErrorLevel)
	app.log = zap.New(core)

	err := inspector.ErrCycle
	app.reportRenderError(err)
	app.reportRenderError(err)
	if logs.Len() != 1 {
		t.Fatalf("logged %d times, want 1", logs.Len())
	}

	app.reportRenderError(nil)
	app.reportRenderError(err)
	if logs.Len() != 2 {
		t.Errorf("error after recovery logged %d times, want 2", logs.Len())
	}
}

func TestHotReload(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Automation.Dir = dir
	cfg.Watch.Enabled = true
	cfg.Watch.Debounce = 50 * time.Millisecond

	app := NewApp(cfg, nil)
	defer app.Close()

	scene := filepath.Join(dir, "chain.gltf")
	writeScene(t, scene, chainScene)
	if err := app.OpenScene(scene); err != nil {
		t.Fatalf("OpenScene failed: %v", err)
	}
	if app.watcher == nil {
		t.Fatal("watcher not started")
	}

	writeScene(t, scene, `{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"name":"Only"}]}`)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		app.pollWatcher()
		if doc := app.inspector.Document(); doc != nil && len(doc.Nodes) == 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("scene was not reloaded")
}
