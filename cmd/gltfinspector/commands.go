// Automation commands and screenshots for scripted GUI tests.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gltf-inspector/internal/inspector"
	"github.com/Faultbox/gltf-inspector/internal/ui"
)

// Automation file names inside the automation directory.
const (
	commandFile = "command.json"
	stateFile   = "state.json"
)

var errMissingIndex = errors.New("missing index")

// GUIState is the inspector state exported as JSON.
type GUIState struct {
	Timestamp   string `json:"timestamp"`
	ScenePath   string `json:"scenePath"`
	Environment string `json:"environment"`
	Selection   struct {
		Kind  string `json:"kind"`
		Index int    `json:"index"`
	} `json:"selection"`
	OpenNodes []int    `json:"openNodes"`
	Edited    []string `json:"edited"`
	Stats     struct {
		Scenes    int `json:"scenes"`
		Nodes     int `json:"nodes"`
		Meshes    int `json:"meshes"`
		Materials int `json:"materials"`
		Lights    int `json:"lights"`
		Cameras   int `json:"cameras"`
	} `json:"stats"`
}

// Command is a single-shot automation request read from command.json.
type Command struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
	Path   string `json:"path,omitempty"`
}

// checkAndExecuteCommand polls for a command file and executes it.
// The file is deleted before execution so a command runs only once.
func (app *App) checkAndExecuteCommand() {
	cmdPath := filepath.Join(app.cfg.Automation.Dir, commandFile)

	data, err := os.ReadFile(cmdPath)
	if err != nil {
		return // no command, normal case
	}
	os.Remove(cmdPath)

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		app.log.Warn("invalid command", zap.Error(err))
		return
	}

	if err := app.executeCommand(cmd); err != nil {
		app.log.Warn("command failed", zap.String("action", cmd.Action), zap.Error(err))
		app.showNotification(fmt.Sprintf("%s failed: %v", cmd.Action, err))
		return
	}
	app.log.Info("command executed", zap.String("action", cmd.Action))
}

// executeCommand runs a single command. select_node is the entry point used
// by viewport picking: it reveals the node in the scene graph.
func (app *App) executeCommand(cmd Command) error {
	switch cmd.Action {
	case "select_node":
		i, err := cmd.index()
		if err != nil {
			return err
		}
		if err := app.inspector.SelectNode(i); err != nil {
			return err
		}
	case "select_material":
		return app.selectIndexed(cmd, inspector.SelectMaterial)
	case "select_light":
		return app.selectIndexed(cmd, inspector.SelectLight)
	case "select_camera":
		return app.selectIndexed(cmd, inspector.SelectCamera)
	case "clear_selection":
		app.inspector.ClearSelection()
	case "open_scene":
		if cmd.Path == "" {
			return errors.New("missing path")
		}
		return app.OpenScene(cmd.Path)
	case "screenshot":
		app.screenshotRequested = true
		return nil // the capture shows its own notification
	case "dump_state":
		_, err := app.dumpState()
		return err
	default:
		return fmt.Errorf("unknown command %q", cmd.Action)
	}
	app.showNotification("Selected: " + app.inspector.Selection().String())
	return nil
}

func (app *App) selectIndexed(cmd Command, sel func(int) inspector.Selection) error {
	i, err := cmd.index()
	if err != nil {
		return err
	}
	if err := app.inspector.Select(sel(i)); err != nil {
		return err
	}
	app.showNotification("Selected: " + app.inspector.Selection().String())
	return nil
}

func (c Command) index() (int, error) {
	if c.Index == nil {
		return 0, errMissingIndex
	}
	return *c.Index, nil
}

// state builds the exported GUI state.
func (app *App) state() GUIState {
	state := GUIState{
		Timestamp:   time.Now().Format(time.RFC3339),
		ScenePath:   app.scenePath,
		Environment: app.environmentPath,
		OpenNodes:   app.inspector.OpenNodes(),
		Edited:      app.edited.Names(),
	}
	if state.OpenNodes == nil {
		state.OpenNodes = []int{}
	}
	if state.Edited == nil {
		state.Edited = []string{}
	}

	sel := app.inspector.Selection()
	state.Selection.Kind = sel.Kind().String()
	state.Selection.Index = -1
	if i, ok := sel.Index(sel.Kind()); ok {
		state.Selection.Index = i
	}

	if doc := app.inspector.Document(); doc != nil {
		state.Stats.Scenes = len(doc.Scenes)
		state.Stats.Nodes = len(doc.Nodes)
		state.Stats.Meshes = len(doc.Meshes)
		state.Stats.Materials = len(doc.Materials)
		state.Stats.Lights = len(doc.Lights)
		state.Stats.Cameras = len(doc.Cameras)
	}
	return state
}

// dumpState writes the GUI state to state.json and returns its path.
func (app *App) dumpState() (string, error) {
	data, err := json.MarshalIndent(app.state(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	statePath := filepath.Join(app.capturer.Dir(), stateFile)
	if err := os.WriteFile(statePath, data, 0644); err != nil {
		return "", fmt.Errorf("write state: %w", err)
	}
	app.log.Info("state saved", zap.String("path", statePath))
	return statePath, nil
}

func (app *App) dumpStateAndNotify() {
	if _, err := app.dumpState(); err != nil {
		app.log.Error("state dump failed", zap.Error(err))
		app.showNotification(fmt.Sprintf("State dump failed: %v", err))
		return
	}
	app.showNotification("State saved: " + stateFile)
}

// captureScreenshot saves the previous frame to a PNG file.
func (app *App) captureScreenshot() {
	pixels, width, height := ui.ReadFramebuffer()
	if pixels == nil {
		app.showNotification("Screenshot failed: invalid viewport")
		return
	}
	path, err := app.capturer.CaptureFromPixels(pixels, width, height)
	if err != nil {
		app.log.Error("screenshot failed", zap.Error(err))
		app.showNotification(fmt.Sprintf("Screenshot failed: %v", err))
		return
	}
	app.log.Info("screenshot saved", zap.String("path", path))
	app.showNotification("Saved: " + filepath.Base(path))
}
