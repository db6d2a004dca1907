// Package ui hosts the Dear ImGui window and widget adapter.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// fallbackFonts are tried in order when no font is configured.
var fallbackFonts = []string{
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf", // macOS
	"C:\\Windows\\Fonts\\segoeui.ttf",                      // Windows
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",      // Linux
	"/usr/share/fonts/TTF/DejaVuSans.ttf",                  // Linux alt
}

// BackendOptions configures the window.
type BackendOptions struct {
	Title    string
	Width    int
	Height   int
	FontPath string
	FontSize float32
	Logger   *zap.Logger
}

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// NewBackend creates the window and initializes OpenGL.
func NewBackend(opts BackendOptions) (*Backend, error) {
	b := &Backend{log: opts.Logger}
	if b.log == nil {
		b.log = zap.NewNop()
	}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added after the context exists and before the first frame.
	b.backend.SetAfterCreateContextHook(func() {
		b.loadFont(opts.FontPath, opts.FontSize)
	})

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(opts.Title, opts.Width, opts.Height)

	// OpenGL function pointers are needed for framebuffer read-back.
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

func (b *Backend) loadFont(path string, size float32) {
	if path == "" {
		for _, p := range fallbackFonts {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		b.log.Debug("no font found, using built-in font")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	fonts := imgui.CurrentIO().Fonts()
	if font := fonts.AddFontFromFileTTFV(path, size, fontCfg, fonts.GlyphRangesDefault()); font == nil {
		b.log.Warn("failed to load font", zap.String("path", path))
		return
	}
	b.log.Info("loaded font", zap.String("path", path), zap.Float32("size", size))
}

// Run starts the main render loop. It returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// OnDrop registers a callback for files dropped onto the window.
func (b *Backend) OnDrop(fn func(paths []string)) {
	b.backend.SetDropCallback(fn)
}

// Viewport returns the main viewport work area (excluding the menu bar).
func Viewport() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// ReadFramebuffer reads the displayed frame as bottom-up RGBA rows.
// Call it at the start of a frame so the front buffer holds the previous one.
func ReadFramebuffer() (pixels []byte, width, height int) {
	// DisplaySize is logical pixels; the framebuffer may be scaled on HiDPI.
	io := imgui.CurrentIO()
	displaySize := io.DisplaySize()
	fbScale := io.DisplayFramebufferScale()
	width = int(displaySize.X * fbScale.X)
	height = int(displaySize.Y * fbScale.Y)
	if width <= 0 || height <= 0 {
		return nil, width, height
	}

	pixels = make([]byte, width*height*4)
	gl.ReadBuffer(gl.FRONT)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.ReadBuffer(gl.BACK)
	return pixels, width, height
}

// IsKeyPressed checks if a key chord was pressed this frame.
func IsKeyPressed(chord imgui.KeyChord) bool {
	return imgui.IsKeyChordPressed(chord)
}

// Ctrl combines a key with the Ctrl modifier.
func Ctrl(key imgui.Key) imgui.KeyChord {
	return imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(key)
}
