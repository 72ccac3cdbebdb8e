package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hexaflex/canvasdemo/gfx"
	"github.com/hexaflex/canvasdemo/scene"
)

// App defines application context.
type App struct {
	config       *Config             // Application configuration.
	window       *glfw.Window        // OpenGL/GLFW context.
	renderer     *gfx.SquareRenderer // Draws the scene.
	scene        *scene.Scene        // Squares recorded so far.
	palette      *scene.Palette      // Source of square colors.
	log          *logrus.Entry       // Application logger.
	lastRendered time.Time           // Last time a frame was rendered.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.renderer = gfx.NewSquareRenderer(config.Size)
	a.scene = scene.New()
	a.palette = scene.NewPalette(config.Seed)
	a.log = logrus.WithField("component", AppName)
	return &a
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	a.log.WithField("id", a.config.ID).Info(Version())
	printHelp(a.log)

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	if time.Since(a.lastRendered) >= time.Second/60 {
		a.redraw()
	}

	glfw.PollEvents()
}

// redraw renders the scene and presents it.
func (a *App) redraw() {
	a.lastRendered = time.Now()

	width, height := a.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	a.renderer.Draw(a.scene, width, height)
	a.window.SwapBuffers()
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	if err := a.renderer.Shutdown(); err != nil {
		a.log.Warn(err)
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp(a.log)
	}
}

func (a *App) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}

	px, py := w.GetCursorPos()
	width, height := w.GetSize()

	sq := a.scene.Add(px, py, float64(width), float64(height), a.palette.Next())
	a.log.WithFields(logrus.Fields{
		"x":     sq.X,
		"y":     sq.Y,
		"count": a.scene.Len(),
	}).Debug("square added")

	a.redraw()
}

// initGL initializes GLFW, openGL and the renderer.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	title := fmt.Sprintf("%s %s", AppName, AppVersion)
	a.window, err = glfw.CreateWindow(a.config.Width, a.config.Height, title, nil, nil)
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)
	a.window.SetMouseButtonCallback(a.mouseButtonCallback)

	glfw.SwapInterval(0)

	err = gl.Init()
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "gl.Init failed")
	}

	// A shader failure is final: no retry and no fallback program.
	err = a.renderer.Startup()
	if err != nil {
		a.dispose()
		return err
	}

	return nil
}

// printHelp writes a short overview of supported input to the log.
func printHelp(log *logrus.Entry) {
	var sb strings.Builder
	sb.WriteString("controls:\n")
	sb.WriteString(" Click    Add a square in a random color.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" ESC      Exit.")
	log.Info(sb.String())
}
